package tsnjitter

//
// Path index
//

import "fmt"

// Path is the ordered sequence of graph vertex ids between a stream's
// sender and receiver node: it alternates forwarding-node and port
// vertices, e.g. talker, talker-port, switch-rx-port, switch,
// switch-tx-port, listener-port, listener.
type Path struct {
	nodes []string
	topo  *Topology
}

// ShortestPath computes the shortest path (by hop count) from sender to
// receiver over the topology's node/port graph, breaking ties
// deterministically by visiting neighbors in the order
// [Topology.Nodes]/[Node.Ports] declared them.
//
// It returns [ErrNoPath] if sender and receiver are not connected.
func ShortestPath(t *Topology, sender, receiver string) (*Path, error) {
	if sender == receiver {
		return &Path{nodes: []string{sender}, topo: t}, nil
	}

	type queueItem struct {
		vertex string
		prev   string
	}

	visited := map[string]string{sender: ""}
	queue := []string{sender}
	found := false

	for len(queue) > 0 && !found {
		cur := queue[0]
		queue = queue[1:]

		neighbors, err := t.graph.NeighborIDs(cur)
		if err != nil {
			return nil, fmt.Errorf("tsnjitter: path search: %w", err)
		}
		for _, next := range neighbors {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = cur
			if next == receiver {
				found = true
				break
			}
			queue = append(queue, next)
		}
	}

	if _, seen := visited[receiver]; !seen {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, sender, receiver)
	}

	var rev []string
	for v := receiver; v != ""; v = visited[v] {
		rev = append(rev, v)
		if v == sender {
			break
		}
	}
	nodes := make([]string, len(rev))
	for i, v := range rev {
		nodes[len(rev)-1-i] = v
	}
	return &Path{nodes: nodes, topo: t}, nil
}

// Len returns the number of hops (graph vertices) in the path.
func (p *Path) Len() int {
	return len(p.nodes)
}

// At returns the vertex id at index i.
func (p *Path) At(i int) string {
	return p.nodes[i]
}

// isPortVertex reports whether vertex v names a port rather than a
// forwarding node.
func (p *Path) isPortVertex(v string) bool {
	_, isPort := p.topo.portByVertexID(v)
	return isPort
}

// IsRxPort reports whether the vertex at index i is a port whose
// path-predecessor is also a port — i.e. the receiving side of a link.
func (p *Path) IsRxPort(i int) bool {
	if i <= 0 || !p.isPortVertex(p.nodes[i]) {
		return false
	}
	return p.isPortVertex(p.nodes[i-1])
}

// IsTxPort reports whether the vertex at index i is a port whose
// path-successor is also a port — i.e. the transmitting side of a link.
func (p *Path) IsTxPort(i int) bool {
	if i >= len(p.nodes)-1 || !p.isPortVertex(p.nodes[i]) {
		return false
	}
	return p.isPortVertex(p.nodes[i+1])
}

// IsForwardingNode reports whether the vertex at index i names a
// forwarding node rather than a port.
func (p *Path) IsForwardingNode(i int) bool {
	return !p.isPortVertex(p.nodes[i])
}

// AncestorForwardingNode returns the index of the forwarding node
// upstream of the tx port at i: the node owning i is at i-1, and the
// previous node in the node/tx/rx/node repeating pattern sits 3 hops
// further back, for a total of 4, and false if none exists.
func (p *Path) AncestorForwardingNode(i int) (int, bool) {
	j := i - 4
	if j < 0 {
		return 0, false
	}
	return j, true
}

// AncestorTxPort returns the index of the tx port upstream of the tx
// port at i, 3 hops back (tx, rx, node, tx), and false if none exists.
func (p *Path) AncestorTxPort(i int) (int, bool) {
	j := i - 3
	if j < 0 {
		return 0, false
	}
	return j, true
}

// refAt splits a port vertex at index i into its (node, port) reference.
func (p *Path) refAt(i int) PortRef {
	ref, _ := p.topo.portByVertexID(p.nodes[i])
	return ref
}

// Contains reports whether the path visits the port (node, port).
func (p *Path) Contains(node, port string) bool {
	vid := portVertexID(node, port)
	for _, v := range p.nodes {
		if v == vid {
			return true
		}
	}
	return false
}
