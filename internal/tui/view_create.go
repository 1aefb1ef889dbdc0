package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netlab/netlabctl/internal/api"
)

var topologyBlurbs = map[string]string{
	"ring":      "routers connected in a closed loop",
	"mini_ring": "a three-router ring for quick experiments",
	"star":      "hosts around a single central router",
	"mesh":      "every router linked to every other",
	"tree":      "a hierarchy of routers fanning out from a root",
}

type createView struct {
	cur      cursor
	starting bool
}

func (v *createView) Title() string     { return "Create topology" }
func (v *createView) Init(*App) tea.Cmd { return nil }

func (v *createView) Update(a *App, msg tea.Msg) tea.Cmd {
	if moveCursor(a, NameCreate, &v.cur, msg, len(api.Topologies)) {
		return nil
	}
	switch msg := msg.(type) {
	case startedMsg:
		v.starting = false
		if msg.Err != nil {
			return errorCmd(msg.Err)
		}
		text := msg.Result.Message
		if text == "" {
			text = fmt.Sprintf("Topology %s started", msg.Result.Topology)
		}
		return tea.Batch(statusCmd(text), navigateCmd(PathTopologies))
	case tea.KeyMsg:
		if !a.keys.IsAction(msg, "select", NameCreate) || v.starting {
			return nil
		}
		v.starting = true
		a.setStatus("Starting topology...")
		ctx, backend, userID := a.ctx, a.deps.Backend, a.userID()
		name := api.Topologies[v.cur.pos]
		return func() tea.Msg {
			res, err := backend.StartTopology(ctx, userID, name)
			return startedMsg{Result: res, Err: err}
		}
	}
	return nil
}

func (v *createView) Render(a *App, width int) string {
	lines := []string{titleStyle.Render("Create a topology"), ""}
	for i, name := range api.Topologies {
		lines = append(lines, marker(i == v.cur.pos)+fmt.Sprintf("%-10s %s", name, mutedStyle.Render(topologyBlurbs[name])))
	}
	if v.starting {
		lines = append(lines, "", mutedStyle.Render("starting..."))
	}
	return strings.Join(lines, "\n")
}
