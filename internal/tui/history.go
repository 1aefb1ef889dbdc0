package tui

// History is the stack of previously visited paths.
type History struct {
	items []string
}

func (h *History) Push(path string) {
	if path == "" {
		return
	}
	h.items = append(h.items, path)
}

func (h *History) Pop() (string, bool) {
	if len(h.items) == 0 {
		return "", false
	}
	last := h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	return last, true
}

func (h History) Len() int {
	return len(h.items)
}
