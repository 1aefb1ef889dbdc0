package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netlab/netlabctl/internal/api"
)

type topologiesView struct {
	cur     cursor
	loaded  bool
	err     error
	nodes   []api.Node
	routing *routingMsg
}

func (v *topologiesView) Title() string { return "Topologies" }

func (v *topologiesView) Init(a *App) tea.Cmd {
	v.loaded, v.err, v.routing = false, nil, nil
	return loadTopology(a)
}

func (v *topologiesView) selected() (api.Node, bool) {
	if len(v.nodes) == 0 {
		return api.Node{}, false
	}
	return v.nodes[v.cur.pos], true
}

func (v *topologiesView) Update(a *App, msg tea.Msg) tea.Cmd {
	if moveCursor(a, NameTopologies, &v.cur, msg, len(v.nodes)) {
		v.routing = nil
		return nil
	}
	switch msg := msg.(type) {
	case topologyMsg:
		v.loaded, v.err = true, msg.Err
		v.nodes = msg.Topology.Nodes()
		v.cur.clamp(len(v.nodes))
	case actionMsg:
		return loadTopology(a)
	case routingMsg:
		if msg.Err != nil {
			return errorCmd(msg.Err)
		}
		v.routing = &msg
	case tea.KeyMsg:
		ctx, backend, userID := a.ctx, a.deps.Backend, a.userID()
		switch {
		case a.keys.IsAction(msg, "reload", NameTopologies):
			return v.Init(a)
		case a.keys.IsAction(msg, "select", NameTopologies):
			node, ok := v.selected()
			if !ok {
				return nil
			}
			return func() tea.Msg {
				routes, err := backend.NodeRouting(ctx, node.Name)
				return routingMsg{Node: node.Name, Routes: routes, Err: err}
			}
		case a.keys.IsAction(msg, "delete-node", NameTopologies):
			node, ok := v.selected()
			if !ok {
				return nil
			}
			return func() tea.Msg {
				if err := backend.DeleteNode(ctx, userID, node.Name); err != nil {
					return actionMsg{Err: err}
				}
				return actionMsg{Text: "Deleted " + shortNode(node.Name, userID)}
			}
		case a.keys.IsAction(msg, "clear", NameTopologies):
			if len(v.nodes) == 0 {
				return nil
			}
			return func() tea.Msg {
				text, err := backend.ClearTopology(ctx, userID)
				if err != nil {
					return actionMsg{Err: err}
				}
				if text == "" {
					text = "Topology cleared"
				}
				return actionMsg{Text: text}
			}
		}
	}
	return nil
}

func (v *topologiesView) Render(a *App, width int) string {
	lines := []string{titleStyle.Render("Running nodes"), ""}
	if s, ok := loadingOr(v.loaded, v.err); ok {
		return strings.Join(append(lines, s), "\n")
	}
	if len(v.nodes) == 0 {
		lines = append(lines, mutedStyle.Render("No nodes. Press 3 to create a topology."))
		return strings.Join(lines, "\n")
	}
	userID := a.userID()
	for i, n := range v.nodes {
		lines = append(lines, marker(i == v.cur.pos)+fmt.Sprintf("%-24s %s", shortNode(n.Name, userID), nodeState(n)))
	}
	if v.routing != nil {
		lines = append(lines, "", titleStyle.Render("Routing table of "+shortNode(v.routing.Node, userID)))
		if len(v.routing.Routes) == 0 {
			lines = append(lines, mutedStyle.Render("no routes"))
		}
		for _, r := range v.routing.Routes {
			lines = append(lines, fmt.Sprintf("%-16s %-16s %-16s %-5s %s", r.Destination, r.Gateway, r.Genmask, r.Flags, r.Iface))
		}
	}
	return strings.Join(lines, "\n")
}
