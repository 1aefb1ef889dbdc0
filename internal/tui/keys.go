package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding ties keys to an action, optionally limited to route scopes.
type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

// KeyRegistry resolves key presses to actions for the active scope.
type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// DefaultBindings are the shell-wide keys plus the per-view ones shown in the footer.
func DefaultBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"q", "ctrl+c"}, Action: "quit", Description: "quit"},
		{Keys: []string{"g"}, Action: "goto", Description: "go to path"},
		{Keys: []string{"esc", "backspace"}, Action: "back", Description: "back"},
		{Keys: []string{"u"}, Action: "sign-in", Description: "set user"},
		{Keys: []string{"o"}, Action: "sign-out", Description: "sign out"},
		{Keys: []string{"up", "k"}, Action: "up", Description: "up", Scopes: []string{NameCreate, NameTopologies, NamePcapTable, NameSavedPcaps}},
		{Keys: []string{"down", "j"}, Action: "down", Description: "down", Scopes: []string{NameCreate, NameTopologies, NamePcapTable, NameSavedPcaps}},
		{Keys: []string{"enter"}, Action: "select", Description: "open", Scopes: []string{NameStart, NameCreate, NameTopologies}},
		{Keys: []string{"r"}, Action: "reload", Description: "reload", Scopes: []string{NameHome, NameTopologies, NameGraph, NamePcapTable, NameSavedPcaps}},
		{Keys: []string{"d"}, Action: "delete-node", Description: "delete node", Scopes: []string{NameTopologies}},
		{Keys: []string{"c"}, Action: "clear", Description: "clear topology", Scopes: []string{NameTopologies}},
		{Keys: []string{"s"}, Action: "save-pcap", Description: "save capture", Scopes: []string{NameSavedPcaps}},
		{Keys: []string{"x"}, Action: "delete-pcap", Description: "delete", Scopes: []string{NameSavedPcaps}},
	}
}
