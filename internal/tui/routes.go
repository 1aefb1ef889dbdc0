package tui

import "github.com/netlab/netlabctl/internal/navigator"

const (
	PathStart      = "/"
	PathHome       = "/controller"
	PathCreate     = "/create-topology"
	PathTopologies = "/topologies"
	PathGraph      = "/graph"
	PathPcapTable  = "/pcap-table"
	PathSavedPcaps = "/saved-pcaps"
)

const (
	NameStart      = "start"
	NameHome       = "home"
	NameCreate     = "create-topology"
	NameTopologies = "topologies"
	NameGraph      = "graph"
	NamePcapTable  = "pcap-table"
	NameSavedPcaps = "saved-pcaps"
)

// NewRouteTable returns a fresh route table. Views are built the first time
// their route is opened and then reused for the life of the table.
func NewRouteTable() *navigator.Table[View] {
	return navigator.NewTable(
		navigator.Route[View]{Path: PathStart, Name: NameStart, Load: func() View { return &startView{} }},
		navigator.Route[View]{Path: PathHome, Name: NameHome, Load: func() View { return &homeView{} }},
		navigator.Route[View]{Path: PathCreate, Name: NameCreate, Load: func() View { return &createView{} }},
		navigator.Route[View]{Path: PathTopologies, Name: NameTopologies, Load: func() View { return &topologiesView{} }},
		navigator.Route[View]{Path: PathGraph, Name: NameGraph, Load: func() View { return &graphView{} }},
		navigator.Route[View]{Path: PathPcapTable, Name: NamePcapTable, Load: func() View { return &pcapTableView{} }},
		navigator.Route[View]{Path: PathSavedPcaps, Name: NameSavedPcaps, Load: func() View { return &savedPcapsView{} }},
	)
}
