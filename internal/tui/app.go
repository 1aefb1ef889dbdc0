// Package tui is the terminal shell: a header carrying the session identity, a
// route bar, the active view and a status line.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/netlab/netlabctl/internal/api"
	"github.com/netlab/netlabctl/internal/logging"
	"github.com/netlab/netlabctl/internal/navigator"
	"github.com/netlab/netlabctl/internal/session"
)

// View is one screen reachable through the route table.
type View interface {
	Title() string
	// Init runs each time the view becomes active.
	Init(a *App) tea.Cmd
	Update(a *App, msg tea.Msg) tea.Cmd
	Render(a *App, width int) string
}

// Session is the identity store the shell reads and mutates.
type Session interface {
	Initialize(ctx context.Context)
	SetUser(ctx context.Context, id string)
	CurrentID() (string, bool)
	IsGuest() bool
	Identity() session.Identity
}

// Backend is the subset of the API client the views call.
type Backend interface {
	UserTopologies(ctx context.Context, userID string) (api.Topology, error)
	StartTopology(ctx context.Context, userID, topology string) (api.StartResult, error)
	ClearTopology(ctx context.Context, userID string) (string, error)
	DeleteNode(ctx context.Context, userID, nodeID string) error
	NodeRouting(ctx context.Context, nodeID string) ([]api.Route, error)
	UserPcaps(ctx context.Context, userID string) ([]api.Pcap, error)
	SavePcap(ctx context.Context, userID string) (int64, error)
	DeletePcap(ctx context.Context, pcapID int64, userID string) error
}

type Deps struct {
	Session   Session
	Backend   Backend
	Logger    *zap.Logger
	StartPath string
}

// App is the bubbletea model.
type App struct {
	ctx     context.Context
	deps    Deps
	logger  *zap.Logger
	routes  *navigator.Table[View]
	keys    *KeyRegistry
	path    string
	name    string
	view    View
	history History
	prompt  *prompt

	status    string
	statusErr bool
	width     int
	height    int
	quitting  bool
}

// New initializes the session identity and builds the shell. The identity is
// ready before the first frame is drawn.
func New(ctx context.Context, deps Deps) *App {
	deps.Session.Initialize(ctx)
	if deps.StartPath == "" {
		deps.StartPath = PathStart
	}

	routes := NewRouteTable()
	bindings := DefaultBindings()
	for i := range routes.Routes() {
		bindings = append(bindings, KeyBinding{Keys: []string{strconv.Itoa(i + 1)}, Action: routeAction(i)})
	}

	return &App{
		ctx:    ctx,
		deps:   deps,
		logger: logging.OrNop(deps.Logger),
		routes: routes,
		keys:   NewKeyRegistry(bindings),
		status: "Ready",
		width:  100,
		height: 32,
	}
}

func routeAction(i int) string { return fmt.Sprintf("route-%d", i+1) }

func (a *App) Init() tea.Cmd {
	cmd := a.open(a.deps.StartPath, false)
	if a.view == nil {
		// unknown start path; keep the error status and fall back to the start view
		return tea.Batch(cmd, a.open(PathStart, false))
	}
	return cmd
}

// Path returns the active route path.
func (a *App) Path() string { return a.path }

func (a *App) userID() string {
	id, _ := a.deps.Session.CurrentID()
	return id
}

func (a *App) setStatus(text string) {
	a.status = text
	a.statusErr = false
}

func (a *App) setError(err error) {
	if err == nil {
		a.status, a.statusErr = "", false
		return
	}
	a.status = err.Error()
	a.statusErr = true
}

// open activates the view at path. push records the current path for back.
func (a *App) open(path string, push bool) tea.Cmd {
	load, ok := a.routes.Resolve(path)
	if !ok {
		err := fmt.Errorf("no view at %s", navigator.Normalize(path))
		if r, ok := a.routes.Suggest(path); ok {
			err = fmt.Errorf("no view at %s (did you mean %s?)", navigator.Normalize(path), r.Path)
		}
		a.logger.Debug("route not found", zap.String("path", path))
		a.setError(err)
		return nil
	}
	route, _ := a.routes.Lookup(path)
	if push && a.view != nil && route.Path != a.path {
		a.history.Push(a.path)
	}
	a.path, a.name = route.Path, route.Name
	a.view = load()
	a.logger.Debug("navigate", zap.String("path", route.Path))
	return a.view.Init(a)
}

func (a *App) back() tea.Cmd {
	prev, ok := a.history.Pop()
	if !ok {
		return nil
	}
	return a.open(prev, false)
}

func (a *App) signOut() tea.Cmd {
	a.deps.Session.SetUser(a.ctx, "")
	a.deps.Session.Initialize(a.ctx)
	a.logger.Info("signed out")
	a.setStatus("Signed out, browsing as " + a.userID())
	return func() tea.Msg { return identityChangedMsg{} }
}

func (a *App) signIn(id string) tea.Cmd {
	if id == "" {
		a.setError(fmt.Errorf("user id required"))
		return nil
	}
	a.deps.Session.SetUser(a.ctx, id)
	a.logger.Info("user set", zap.String("kind", a.deps.Session.Identity().Kind.String()))
	a.setStatus("Using identity " + id)
	return func() tea.Msg { return identityChangedMsg{} }
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case statusMsg:
		a.status = msg.Text
		a.statusErr = msg.IsErr
		return a, nil
	case actionMsg:
		if msg.Err != nil {
			a.setError(msg.Err)
		} else {
			a.setStatus(msg.Text)
		}
	case navigateMsg:
		return a, a.open(msg.Path, true)
	case identityChangedMsg:
		if a.view != nil {
			return a, a.view.Init(a)
		}
		return a, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}
		if a.prompt != nil {
			return a, a.updatePrompt(msg)
		}

		scope := a.name
		switch {
		case a.keys.IsAction(msg, "quit", scope):
			a.quitting = true
			return a, tea.Quit
		case a.keys.IsAction(msg, "goto", scope):
			a.prompt = newPrompt(promptGoto, "path, e.g. /topologies")
			return a, a.prompt.focus()
		case a.keys.IsAction(msg, "back", scope):
			return a, a.back()
		case a.keys.IsAction(msg, "sign-in", scope):
			a.prompt = newPrompt(promptSignIn, "user id")
			return a, a.prompt.focus()
		case a.keys.IsAction(msg, "sign-out", scope):
			return a, a.signOut()
		}
		for i, r := range a.routes.Routes() {
			if a.keys.IsAction(msg, routeAction(i), scope) {
				return a, a.open(r.Path, true)
			}
		}
	}

	var cmds []tea.Cmd
	if a.prompt != nil {
		cmds = append(cmds, a.prompt.update(msg))
	}
	if a.view != nil {
		cmds = append(cmds, a.view.Update(a, msg))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	body := ""
	if a.view != nil {
		body = a.view.Render(a, a.width)
	}
	parts := []string{a.renderHeader(), a.renderTabs(), "", body, ""}
	if a.prompt != nil {
		parts = append(parts, a.prompt.view(), "")
	}
	parts = append(parts, a.renderStatus(), a.renderFooter())
	return strings.Join(parts, "\n")
}

func identityBadge(id session.Identity) string {
	switch id.Kind {
	case session.KindGuest:
		return guestBadgeStyle.Render("guest") + " " + id.ID
	case session.KindAssigned:
		return userBadgeStyle.Render("user") + " " + id.ID
	default:
		return noneBadgeStyle.Render("no identity")
	}
}

func (a *App) renderHeader() string {
	left := headerAppStyle.Render("NetLab")
	if a.view != nil {
		left += mutedStyle.Render(" · " + a.view.Title())
	}
	right := identityBadge(a.deps.Session.Identity())
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (a *App) renderTabs() string {
	routes := a.routes.Routes()
	tabs := make([]string, 0, len(routes))
	for i, r := range routes {
		label := fmt.Sprintf("%d %s", i+1, r.Name)
		if r.Path == a.path {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return renderBar(headerBarStyle, a.width, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (a *App) renderStatus() string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	if a.statusErr {
		return renderBar(statusErrBarStyle, a.width, msg)
	}
	return renderBar(statusBarStyle, a.width, msg)
}

func (a *App) renderFooter() string {
	parts := []string{}
	for _, b := range a.keys.BindingsForScope(a.name) {
		if b.Description == "" || len(b.Keys) == 0 {
			continue
		}
		parts = append(parts, keyStyle.Render(b.Keys[0])+" "+helpDescStyle.Render(b.Description))
	}
	parts = append(parts, keyStyle.Render("1-"+strconv.Itoa(a.routes.Len()))+" "+helpDescStyle.Render("views"))
	return ansi.Truncate(strings.Join(parts, "  "), max(1, a.width), "…")
}

func renderBar(style lipgloss.Style, width int, text string) string {
	width = max(1, width)
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Render(line)
}
