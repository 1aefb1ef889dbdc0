package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type promptKind int

const (
	promptGoto promptKind = iota
	promptSignIn
)

func (k promptKind) label() string {
	if k == promptSignIn {
		return "Set user id"
	}
	return "Go to"
}

// prompt is a one-line input shown above the status bar.
type prompt struct {
	kind  promptKind
	input textinput.Model
}

func newPrompt(kind promptKind, placeholder string) *prompt {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Prompt = "› "
	return &prompt{kind: kind, input: ti}
}

func (p *prompt) focus() tea.Cmd {
	return p.input.Focus()
}

func (p *prompt) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *prompt) view() string {
	return promptStyle.Render(titleStyle.Render(p.kind.label()) + "\n" + p.input.View())
}

// updatePrompt handles keys while a prompt is open. enter submits, esc cancels.
func (a *App) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		a.prompt = nil
		return nil
	case tea.KeyEnter:
		p := a.prompt
		a.prompt = nil
		value := strings.TrimSpace(p.input.Value())
		switch p.kind {
		case promptSignIn:
			return a.signIn(value)
		default:
			if value == "" {
				return nil
			}
			return a.open(value, true)
		}
	}
	return a.prompt.update(msg)
}
