package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netlab/netlabctl/internal/api"
)

// homeView is the controller dashboard.
type homeView struct {
	loaded bool
	err    error
	topo   api.Topology
	pcaps  []api.Pcap
}

func (v *homeView) Title() string { return "Controller" }

func (v *homeView) Init(a *App) tea.Cmd {
	v.loaded, v.err = false, nil
	return loadHome(a)
}

func (v *homeView) Update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case homeMsg:
		v.loaded, v.err = true, msg.Err
		v.topo, v.pcaps = msg.Topology, msg.Pcaps
	case tea.KeyMsg:
		if a.keys.IsAction(msg, "reload", NameHome) {
			return v.Init(a)
		}
	}
	return nil
}

func (v *homeView) Render(a *App, width int) string {
	id := a.deps.Session.Identity()
	lines := []string{
		titleStyle.Render("Controller"),
		fmt.Sprintf("Identity: %s (%s)", id, id.Kind),
		"",
	}
	if s, ok := loadingOr(v.loaded, v.err); ok {
		return strings.Join(append(lines, s), "\n")
	}
	total := len(v.topo.Names)
	if total == 0 {
		lines = append(lines, "Topology: none running")
	} else {
		lines = append(lines, fmt.Sprintf("Topology: %d nodes, %d running", total, v.topo.RunningCount()))
	}
	lines = append(lines,
		fmt.Sprintf("Saved captures: %d", len(v.pcaps)),
		"",
		mutedStyle.Render("3 create a topology · 4 inspect nodes · 5 graph · 7 saved captures"),
	)
	return strings.Join(lines, "\n")
}
