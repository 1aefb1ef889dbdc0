package api

// Topology is the set of containers the backend runs for one user.
type Topology struct {
	Status  string   `json:"status"`
	UserID  string   `json:"user_id"`
	Names   []string `json:"nodes"`
	Running []bool   `json:"running"`
}

// Node pairs a container name with its running state.
type Node struct {
	Name    string
	Running bool
}

// Nodes zips Names and Running.
func (t Topology) Nodes() []Node {
	out := make([]Node, 0, len(t.Names))
	for i, name := range t.Names {
		n := Node{Name: name}
		if i < len(t.Running) {
			n.Running = t.Running[i]
		}
		out = append(out, n)
	}
	return out
}

// RunningCount returns how many nodes are up.
func (t Topology) RunningCount() int {
	n := 0
	for _, r := range t.Running {
		if r {
			n++
		}
	}
	return n
}

// StartResult is the backend's answer to a start-topology request.
type StartResult struct {
	Status   string `json:"status"`
	UserID   string `json:"user_id"`
	Topology string `json:"topology"`
	PID      int    `json:"pid"`
	Message  string `json:"message"`
}

// Route is one row of a node's kernel routing table.
type Route struct {
	Destination string `json:"destination"`
	Gateway     string `json:"gateway"`
	Genmask     string `json:"genmask"`
	Flags       string `json:"flags"`
	MSS         string `json:"mss"`
	Window      string `json:"window"`
	IRTT        string `json:"irtt"`
	Iface       string `json:"iface"`
}

// Pcap is the stored metadata of a captured trace.
type Pcap struct {
	ID              int64   `json:"id"`
	Creator         string  `json:"creator"`
	Filename        string  `json:"filename"`
	FilePath        string  `json:"file_path"`
	FileSize        int64   `json:"file_size"`
	TopologyName    string  `json:"topology_name"`
	TopologyType    string  `json:"topology_type"`
	NodeCount       int     `json:"node_count"`
	CaptureDuration float64 `json:"capture_duration"`
	ConnectionCount int     `json:"connection_count"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// Topologies the backend knows how to start.
var Topologies = []string{"ring", "mini_ring", "star", "mesh", "tree"}
