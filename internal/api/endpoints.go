package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// UserTopologies lists the nodes running for userID.
func (c *Client) UserTopologies(ctx context.Context, userID string) (Topology, error) {
	if userID == "" {
		return Topology{}, ErrUserRequired
	}
	var out Topology
	err := c.do(ctx, http.MethodGet, "/user-topologies/"+seg(userID), nil, nil, &out)
	return out, err
}

// StartTopology asks the backend to launch one of Topologies for userID.
func (c *Client) StartTopology(ctx context.Context, userID, topology string) (StartResult, error) {
	if userID == "" {
		return StartResult{}, ErrUserRequired
	}
	in := map[string]string{"user_id": userID, "topology": topology}
	var out StartResult
	err := c.do(ctx, http.MethodPost, "/start-topology", nil, in, &out)
	return out, err
}

// ClearTopology removes every node of userID and returns the backend's message.
func (c *Client) ClearTopology(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrUserRequired
	}
	var out envelope
	err := c.do(ctx, http.MethodDelete, "/clear-topology/"+seg(userID), nil, nil, &out)
	return out.Message, err
}

// DeleteNode removes a single node from userID's topology.
func (c *Client) DeleteNode(ctx context.Context, userID, nodeID string) error {
	if userID == "" {
		return ErrUserRequired
	}
	return c.do(ctx, http.MethodDelete, "/delete-node/"+seg(userID)+"/"+seg(nodeID), nil, nil, nil)
}

// NodeRouting returns the routing table of a node.
func (c *Client) NodeRouting(ctx context.Context, nodeID string) ([]Route, error) {
	var out struct {
		Routes []Route `json:"routes"`
	}
	err := c.do(ctx, http.MethodGet, "/node-routing/"+seg(nodeID), nil, nil, &out)
	return out.Routes, err
}

// UserPcaps lists the traces saved by userID, newest first.
func (c *Client) UserPcaps(ctx context.Context, userID string) ([]Pcap, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	var out struct {
		Pcaps []Pcap `json:"pcaps"`
	}
	err := c.do(ctx, http.MethodGet, "/pcaps/"+seg(userID), nil, nil, &out)
	return out.Pcaps, err
}

// SavePcap stores the user's merged capture and returns its id.
func (c *Client) SavePcap(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrUserRequired
	}
	in := map[string]string{"creator": userID}
	var out struct {
		PcapID int64 `json:"pcap_id"`
	}
	err := c.do(ctx, http.MethodPost, "/save-pcap/"+seg(userID), nil, in, &out)
	return out.PcapID, err
}

// DeletePcap removes a saved trace owned by userID.
func (c *Client) DeletePcap(ctx context.Context, pcapID int64, userID string) error {
	if userID == "" {
		return ErrUserRequired
	}
	q := url.Values{"user_id": {userID}}
	return c.do(ctx, http.MethodDelete, "/pcap/"+strconv.FormatInt(pcapID, 10), q, nil, nil)
}
