package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netlab/netlabctl/internal/session"
)

type startView struct{}

func (v *startView) Title() string     { return "Start" }
func (v *startView) Init(*App) tea.Cmd { return nil }
func (v *startView) Update(a *App, msg tea.Msg) tea.Cmd {
	if isAction(a, msg, "select", NameStart) {
		return navigateCmd(PathHome)
	}
	return nil
}

func (v *startView) Render(a *App, width int) string {
	id := a.deps.Session.Identity()
	lines := []string{
		titleStyle.Render("Welcome to NetLab"),
		"Build, run and capture virtual network topologies.",
		"",
	}
	switch id.Kind {
	case session.KindGuest:
		lines = append(lines,
			"You are browsing as guest "+id.ID+".",
			mutedStyle.Render("Labs started as a guest stay tied to this machine. Press u to use an assigned id."))
	case session.KindAssigned:
		lines = append(lines, "Signed in as "+id.ID+".")
	default:
		lines = append(lines, mutedStyle.Render("No identity yet."))
	}
	lines = append(lines, "", "Press enter to open the controller.")
	return strings.Join(lines, "\n")
}
