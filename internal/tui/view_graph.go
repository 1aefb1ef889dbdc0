package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netlab/netlabctl/internal/api"
)

const graphLink = "──"

// graphView draws the user's nodes as boxes, linked in container order and
// wrapped to the terminal width.
type graphView struct {
	loaded bool
	err    error
	nodes  []api.Node
}

func (v *graphView) Title() string { return "Graph" }

func (v *graphView) Init(a *App) tea.Cmd {
	v.loaded, v.err = false, nil
	return loadTopology(a)
}

func (v *graphView) Update(a *App, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case topologyMsg:
		v.loaded, v.err = true, msg.Err
		v.nodes = msg.Topology.Nodes()
	case tea.KeyMsg:
		if a.keys.IsAction(msg, "reload", NameGraph) {
			return v.Init(a)
		}
	}
	return nil
}

func (v *graphView) Render(a *App, width int) string {
	if s, ok := loadingOr(v.loaded, v.err); ok {
		return s
	}
	if len(v.nodes) == 0 {
		return mutedStyle.Render("Nothing to draw. Start a topology first.")
	}
	userID := a.userID()
	var rows []string
	var row []string
	rowWidth := 0
	for i, n := range v.nodes {
		style := nodeBoxStyle
		if n.Running {
			style = style.BorderForeground(colorSuccess)
		} else {
			style = style.BorderForeground(colorError)
		}
		box := style.Render(shortNode(n.Name, userID))
		w := lipgloss.Width(box)
		if len(row) > 0 && rowWidth+lipgloss.Width(graphLink)+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, row...))
			row, rowWidth = nil, 0
		}
		if len(row) > 0 {
			row = append(row, graphLink)
			rowWidth += lipgloss.Width(graphLink)
		}
		row = append(row, box)
		rowWidth += w
		if i == len(v.nodes)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, row...))
		}
	}
	return strings.Join(rows, "\n")
}
