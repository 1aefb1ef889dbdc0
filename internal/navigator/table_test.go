package navigator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type view struct{ name string }

func table(loads map[string]*int) *Table[*view] {
	route := func(path, name string) Route[*view] {
		n := new(int)
		loads[path] = n
		return Route[*view]{Path: path, Name: name, Load: func() *view {
			*n++
			return &view{name: name}
		}}
	}
	return NewTable(
		route("/", "start"),
		route("/controller", "home"),
		route("/create-topology", "create-topology"),
		route("/topologies", "topologies"),
		route("/graph", "graph"),
		route("/pcap-table", "pcap-table"),
		route("/saved-pcaps", "saved-pcaps"),
	)
}

func TestResolveIsLazyAndMemoised(t *testing.T) {
	loads := map[string]*int{}
	tbl := table(loads)

	load, ok := tbl.Resolve("/graph")
	require.True(t, ok)
	require.Equal(t, 0, *loads["/graph"], "resolve must not build the view")

	v1 := load()
	v2 := load()
	require.Equal(t, "graph", v1.name)
	require.Same(t, v1, v2)
	require.Equal(t, 1, *loads["/graph"])

	again, _ := tbl.Resolve("graph/")
	require.Same(t, v1, again())
	require.Equal(t, 0, *loads["/topologies"])
}

func TestResolveNotFound(t *testing.T) {
	tbl := table(map[string]*int{})
	load, ok := tbl.Resolve("/lab")
	require.False(t, ok)
	require.Nil(t, load)
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":             "/",
		"/":            "/",
		"//":           "/",
		" graph ":      "/graph",
		"/pcap-table/": "/pcap-table",
	}
	for in, want := range cases {
		require.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestRoutesKeepOrder(t *testing.T) {
	tbl := table(map[string]*int{})
	routes := tbl.Routes()
	require.Len(t, routes, 7)
	require.Equal(t, "/", routes[0].Path)
	require.Equal(t, "/saved-pcaps", routes[6].Path)
	require.Equal(t, 3, tbl.Index("/topologies"))
	require.Equal(t, -1, tbl.Index("/nope"))

	routes[0].Path = "/mutated"
	require.Equal(t, "/", tbl.Routes()[0].Path)
}

func TestByNameAndLookup(t *testing.T) {
	tbl := table(map[string]*int{})
	r, ok := tbl.ByName("home")
	require.True(t, ok)
	require.Equal(t, "/controller", r.Path)

	r, ok = tbl.Lookup("/controller")
	require.True(t, ok)
	require.Equal(t, "home", r.Name)

	_, ok = tbl.ByName("lab")
	require.False(t, ok)
}

func TestSuggest(t *testing.T) {
	tbl := table(map[string]*int{})

	r, ok := tbl.Suggest("/topologys")
	require.True(t, ok)
	require.Equal(t, "/topologies", r.Path)

	r, ok = tbl.Suggest("/home")
	require.True(t, ok)
	require.Equal(t, "/controller", r.Path)

	_, ok = tbl.Suggest("/completely-unrelated-path")
	require.False(t, ok)
}

func TestNewTablePanicsOnDuplicates(t *testing.T) {
	load := func() *view { return nil }
	require.Panics(t, func() {
		NewTable(Route[*view]{Path: "/a", Name: "a", Load: load}, Route[*view]{Path: "a/", Name: "b", Load: load})
	})
	require.Panics(t, func() {
		NewTable(Route[*view]{Path: "/a", Name: "x", Load: load}, Route[*view]{Path: "/b", Name: "x", Load: load})
	})
	require.Panics(t, func() {
		NewTable(Route[*view]{Path: "/a"})
	})
}
