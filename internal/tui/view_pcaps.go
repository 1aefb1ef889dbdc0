package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/netlab/netlabctl/internal/api"
)

// pcapList is the state shared by the two capture views.
type pcapList struct {
	cur    cursor
	loaded bool
	err    error
	pcaps  []api.Pcap
}

func (l *pcapList) reset() {
	l.loaded, l.err = false, nil
}

func (l *pcapList) apply(msg pcapsMsg) {
	l.loaded, l.err = true, msg.Err
	l.pcaps = msg.Pcaps
	l.cur.clamp(len(l.pcaps))
}

func (l *pcapList) selected() (api.Pcap, bool) {
	if len(l.pcaps) == 0 {
		return api.Pcap{}, false
	}
	return l.pcaps[l.cur.pos], true
}

func pcapRow(p api.Pcap) []string {
	created := p.CreatedAt
	if len(created) > 16 {
		created = strings.Replace(created[:16], "T", " ", 1)
	}
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.Filename,
		p.TopologyName,
		strconv.Itoa(p.NodeCount),
		strconv.Itoa(p.ConnectionCount),
		humanize.Bytes(uint64(max(p.FileSize, 0))),
		created,
	}
}

// pcapTableView shows every saved capture as a table.
type pcapTableView struct {
	list pcapList
}

func (v *pcapTableView) Title() string { return "Captures" }

func (v *pcapTableView) Init(a *App) tea.Cmd {
	v.list.reset()
	return loadPcaps(a)
}

func (v *pcapTableView) Update(a *App, msg tea.Msg) tea.Cmd {
	if moveCursor(a, NamePcapTable, &v.list.cur, msg, len(v.list.pcaps)) {
		return nil
	}
	switch msg := msg.(type) {
	case pcapsMsg:
		v.list.apply(msg)
	case tea.KeyMsg:
		if a.keys.IsAction(msg, "reload", NamePcapTable) {
			return v.Init(a)
		}
	}
	return nil
}

func (v *pcapTableView) Render(a *App, width int) string {
	if s, ok := loadingOr(v.list.loaded, v.list.err); ok {
		return s
	}
	if len(v.list.pcaps) == 0 {
		return mutedStyle.Render("No saved captures yet.")
	}
	rows := make([][]string, 0, len(v.list.pcaps))
	for _, p := range v.list.pcaps {
		rows = append(rows, pcapRow(p))
	}
	selected := v.list.cur.pos
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("ID", "File", "Topology", "Nodes", "Conns", "Size", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return titleStyle.Padding(0, 1)
			case row == selected:
				return cursorStyle.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})
	return t.Render()
}

// savedPcapsView lists captures and lets the user save or delete them.
type savedPcapsView struct {
	list pcapList
}

func (v *savedPcapsView) Title() string { return "Saved captures" }

func (v *savedPcapsView) Init(a *App) tea.Cmd {
	v.list.reset()
	return loadPcaps(a)
}

func (v *savedPcapsView) Update(a *App, msg tea.Msg) tea.Cmd {
	if moveCursor(a, NameSavedPcaps, &v.list.cur, msg, len(v.list.pcaps)) {
		return nil
	}
	switch msg := msg.(type) {
	case pcapsMsg:
		v.list.apply(msg)
	case actionMsg:
		return loadPcaps(a)
	case tea.KeyMsg:
		ctx, backend, userID := a.ctx, a.deps.Backend, a.userID()
		switch {
		case a.keys.IsAction(msg, "reload", NameSavedPcaps):
			return v.Init(a)
		case a.keys.IsAction(msg, "save-pcap", NameSavedPcaps):
			a.setStatus("Saving capture...")
			return func() tea.Msg {
				id, err := backend.SavePcap(ctx, userID)
				if err != nil {
					return actionMsg{Err: err}
				}
				return actionMsg{Text: fmt.Sprintf("Saved capture #%d", id)}
			}
		case a.keys.IsAction(msg, "delete-pcap", NameSavedPcaps):
			p, ok := v.list.selected()
			if !ok {
				return nil
			}
			return func() tea.Msg {
				if err := backend.DeletePcap(ctx, p.ID, userID); err != nil {
					return actionMsg{Err: err}
				}
				return actionMsg{Text: "Deleted " + p.Filename}
			}
		}
	}
	return nil
}

func (v *savedPcapsView) Render(a *App, width int) string {
	lines := []string{titleStyle.Render("Saved captures"), ""}
	if s, ok := loadingOr(v.list.loaded, v.list.err); ok {
		return strings.Join(append(lines, s), "\n")
	}
	if len(v.list.pcaps) == 0 {
		lines = append(lines, mutedStyle.Render("Nothing saved. Press s to save the current capture."))
		return strings.Join(lines, "\n")
	}
	for i, p := range v.list.pcaps {
		lines = append(lines, marker(i == v.list.cur.pos)+fmt.Sprintf("#%-5d %-28s %-10s %s",
			p.ID, p.Filename, p.TopologyName, mutedStyle.Render(humanize.Bytes(uint64(max(p.FileSize, 0))))))
	}
	return strings.Join(lines, "\n")
}
