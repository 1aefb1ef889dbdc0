package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/netlab/netlabctl/internal/api"
)

// cursor is a selection index kept inside [0, n).
type cursor struct {
	pos int
}

func (c *cursor) move(delta, n int) {
	c.pos += delta
	c.clamp(n)
}

func (c *cursor) clamp(n int) {
	if c.pos >= n {
		c.pos = n - 1
	}
	if c.pos < 0 {
		c.pos = 0
	}
}

// moveCursor applies up/down bindings. It reports whether the key was used.
func moveCursor(a *App, scope string, c *cursor, msg tea.Msg, n int) bool {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch {
	case a.keys.IsAction(km, "up", scope):
		c.move(-1, n)
		return true
	case a.keys.IsAction(km, "down", scope):
		c.move(1, n)
		return true
	}
	return false
}

func isAction(a *App, msg tea.Msg, action, scope string) bool {
	km, ok := msg.(tea.KeyMsg)
	return ok && a.keys.IsAction(km, action, scope)
}

// The loaders capture the user id when the command is built, not when it runs.

func loadTopology(a *App) tea.Cmd {
	ctx, backend, userID := a.ctx, a.deps.Backend, a.userID()
	return func() tea.Msg {
		t, err := backend.UserTopologies(ctx, userID)
		return topologyMsg{Topology: t, Err: err}
	}
}

func loadPcaps(a *App) tea.Cmd {
	ctx, backend, userID := a.ctx, a.deps.Backend, a.userID()
	return func() tea.Msg {
		p, err := backend.UserPcaps(ctx, userID)
		return pcapsMsg{Pcaps: p, Err: err}
	}
}

func loadHome(a *App) tea.Cmd {
	ctx, backend, userID := a.ctx, a.deps.Backend, a.userID()
	return func() tea.Msg {
		var msg homeMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			t, err := backend.UserTopologies(gctx, userID)
			msg.Topology = t
			return err
		})
		g.Go(func() error {
			p, err := backend.UserPcaps(gctx, userID)
			msg.Pcaps = p
			return err
		})
		msg.Err = g.Wait()
		return msg
	}
}

// shortNode drops the "prototype-<user>-" prefix the backend puts on container names.
func shortNode(name, userID string) string {
	if userID != "" {
		if i := strings.Index(name, userID+"-"); i >= 0 {
			return name[i+len(userID)+1:]
		}
	}
	return strings.TrimPrefix(name, "prototype-")
}

func nodeState(n api.Node) string {
	if n.Running {
		return upStyle.Render("● running")
	}
	return downStyle.Render("○ stopped")
}

func marker(selected bool) string {
	if selected {
		return cursorStyle.Render("›") + " "
	}
	return "  "
}

func loadingOr(loaded bool, err error) (string, bool) {
	if err != nil {
		return downStyle.Render("error: " + err.Error()), true
	}
	if !loaded {
		return mutedStyle.Render("loading..."), true
	}
	return "", false
}
