package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/netlab/netlabctl/internal/api"
)

type statusMsg struct {
	Text  string
	IsErr bool
}

// navigateMsg asks the shell to open a path, as if typed in the goto prompt.
type navigateMsg struct {
	Path string
}

// actionMsg reports a finished backend mutation. The shell shows it in the
// status bar and the active view reloads.
type actionMsg struct {
	Text string
	Err  error
}

// identityChangedMsg is sent after the session identity was replaced.
type identityChangedMsg struct{}

type topologyMsg struct {
	Topology api.Topology
	Err      error
}

type routingMsg struct {
	Node   string
	Routes []api.Route
	Err    error
}

type pcapsMsg struct {
	Pcaps []api.Pcap
	Err   error
}

type startedMsg struct {
	Result api.StartResult
	Err    error
}

type homeMsg struct {
	Topology api.Topology
	Pcaps    []api.Pcap
	Err      error
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{Text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		if err == nil {
			return statusMsg{}
		}
		return statusMsg{Text: err.Error(), IsErr: true}
	}
}

func navigateCmd(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{Path: path} }
}
