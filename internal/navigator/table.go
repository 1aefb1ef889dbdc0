package navigator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a mistyped path may be from a route.
const maxSuggestDistance = 3

// Route binds a path and a name to a lazily built view.
type Route[V any] struct {
	Path string
	Name string
	Load func() V
}

// Loader builds (or returns the already built) view of a route.
type Loader[V any] func() V

// Table is an immutable, ordered route table.
type Table[V any] struct {
	routes  []Route[V]
	loaders []Loader[V]
	byPath  map[string]int
	byName  map[string]int
}

// NewTable builds a table. Duplicate paths or names and missing loaders are
// wiring mistakes and panic.
func NewTable[V any](routes ...Route[V]) *Table[V] {
	t := &Table[V]{
		routes:  make([]Route[V], 0, len(routes)),
		loaders: make([]Loader[V], 0, len(routes)),
		byPath:  make(map[string]int, len(routes)),
		byName:  make(map[string]int, len(routes)),
	}
	for _, r := range routes {
		r.Path = Normalize(r.Path)
		if r.Load == nil {
			panic(fmt.Sprintf("route %q has no loader", r.Path))
		}
		if _, dup := t.byPath[r.Path]; dup {
			panic(fmt.Sprintf("duplicate route path %q", r.Path))
		}
		if r.Name != "" {
			if _, dup := t.byName[r.Name]; dup {
				panic(fmt.Sprintf("duplicate route name %q", r.Name))
			}
			t.byName[r.Name] = len(t.routes)
		}
		t.byPath[r.Path] = len(t.routes)
		t.routes = append(t.routes, r)
		t.loaders = append(t.loaders, sync.OnceValue(r.Load))
	}
	return t
}

// Normalize trims space, forces a leading slash and drops a trailing one.
func Normalize(path string) string {
	p := strings.TrimSpace(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

// Resolve returns the loader for path. The view is not built until the loader is called.
func (t *Table[V]) Resolve(path string) (Loader[V], bool) {
	i, ok := t.byPath[Normalize(path)]
	if !ok {
		return nil, false
	}
	return t.loaders[i], true
}

// Lookup returns the route registered at path.
func (t *Table[V]) Lookup(path string) (Route[V], bool) {
	i, ok := t.byPath[Normalize(path)]
	if !ok {
		return Route[V]{}, false
	}
	return t.routes[i], true
}

// ByName returns the route with the given name.
func (t *Table[V]) ByName(name string) (Route[V], bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route[V]{}, false
	}
	return t.routes[i], true
}

// Index returns the position of path in table order, or -1.
func (t *Table[V]) Index(path string) int {
	if i, ok := t.byPath[Normalize(path)]; ok {
		return i
	}
	return -1
}

// Routes returns the routes in table order.
func (t *Table[V]) Routes() []Route[V] {
	out := make([]Route[V], len(t.routes))
	copy(out, t.routes)
	return out
}

func (t *Table[V]) Len() int { return len(t.routes) }

// Suggest returns the route closest to an unknown path, comparing against both
// paths and names.
func (t *Table[V]) Suggest(path string) (Route[V], bool) {
	p := Normalize(path)
	bare := strings.TrimPrefix(p, "/")
	best, bestDist := -1, maxSuggestDistance+1
	for i, r := range t.routes {
		d := levenshtein.ComputeDistance(p, r.Path)
		if r.Name != "" {
			if nd := levenshtein.ComputeDistance(bare, r.Name); nd < d {
				d = nd
			}
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Route[V]{}, false
	}
	return t.routes[best], true
}
