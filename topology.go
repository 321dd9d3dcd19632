package tsnjitter

//
// Network topologies
//

import (
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/lvlath/core"
)

// portVertexID returns the graph vertex id for a port, disambiguated from
// its owning node's own vertex id.
func portVertexID(node, port string) string {
	return node + "/" + port
}

// Topology is a static description of a switched network: forwarding
// nodes, their ports, the links between ports, and the streams crossing
// it. The zero value is invalid; use [NewTopology].
//
// Topology owns an [github.com/katalvlaran/lvlath/core.Graph] for
// connectivity (both forwarding nodes and ports are graph vertices, an
// internal edge connects a port to its owning node) and keeps the rich
// per-node/per-port/per-edge/per-stream attributes in side tables, since
// a [core.Graph] edge carries only a single float64 weight.
type Topology struct {
	// Name identifies this topology, e.g. for reporting.
	Name string

	graph *core.Graph

	nodes   map[string]*Node
	ports   map[PortRef]*Port
	edges   map[PortRef]*Edge // keyed by the edge's From
	streams map[string]*Stream

	vertexToPort map[string]PortRef

	nodeOrder   []string
	streamOrder []string
}

// NewTopology creates an empty [Topology] named name.
func NewTopology(name string) *Topology {
	return &Topology{
		Name:         name,
		graph:        core.NewGraph(core.WithWeighted(), core.WithDirected(true)),
		nodes:        map[string]*Node{},
		ports:        map[PortRef]*Port{},
		edges:        map[PortRef]*Edge{},
		streams:      map[string]*Stream{},
		vertexToPort: map[string]PortRef{},
	}
}

// AddNode registers a forwarding node. It returns [ErrDuplicateNode] wrapped
// with the node's name if the name is already taken.
func (t *Topology) AddNode(n *Node) error {
	if _, found := t.nodes[n.Name]; found {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.Name)
	}
	if err := t.graph.AddVertex(n.Name); err != nil {
		return err
	}
	t.nodes[n.Name] = n
	t.nodeOrder = append(t.nodeOrder, n.Name)
	return nil
}

// AddPort registers a port owned by an already-added node, connecting it
// to its node with a zero-weight internal edge in both directions.
func (t *Topology) AddPort(p *Port) error {
	node, found := t.nodes[p.Node]
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownNode, p.Node)
	}
	ref := PortRef{Node: p.Node, Port: p.Name}
	if _, found := t.ports[ref]; found {
		return fmt.Errorf("%w: %s/%s", ErrDuplicatePort, p.Node, p.Name)
	}
	vid := portVertexID(p.Node, p.Name)
	if err := t.graph.AddVertex(vid); err != nil {
		return err
	}
	if _, err := t.graph.AddEdge(p.Node, vid, 0); err != nil {
		return err
	}
	if _, err := t.graph.AddEdge(vid, p.Node, 0); err != nil {
		return err
	}
	t.ports[ref] = p
	t.vertexToPort[vid] = ref
	node.Ports = append(node.Ports, p.Name)
	return nil
}

// portByVertexID returns the port reference for a graph vertex id, and
// false if the vertex names a forwarding node instead.
func (t *Topology) portByVertexID(vid string) (PortRef, bool) {
	ref, found := t.vertexToPort[vid]
	return ref, found
}

// AddEdge registers a directed link from one port to another. Callers
// wishing to model a bidirectional link must call AddEdge twice, once per
// direction; this mirrors how a [Topology] never implicitly adds a reverse
// edge on its own.
func (t *Topology) AddEdge(e *Edge) error {
	fromRef := PortRef{Node: e.From.Node, Port: e.From.Port}
	toRef := PortRef{Node: e.To.Node, Port: e.To.Port}
	if _, found := t.ports[fromRef]; !found {
		return fmt.Errorf("%w: %s/%s", ErrUnknownPort, e.From.Node, e.From.Port)
	}
	if _, found := t.ports[toRef]; !found {
		return fmt.Errorf("%w: %s/%s", ErrUnknownPort, e.To.Node, e.To.Port)
	}
	fromVID := portVertexID(e.From.Node, e.From.Port)
	toVID := portVertexID(e.To.Node, e.To.Port)
	weight := transmissionDuration(e.MaxFrameSize, e.LinkSpeed)
	if _, err := t.graph.AddEdge(fromVID, toVID, weight); err != nil {
		return err
	}
	t.edges[fromRef] = e
	return nil
}

// AddStream registers a stream. Sender and receiver must already be
// known nodes, and priority must be in range 0..7.
func (t *Topology) AddStream(s *Stream) error {
	if _, found := t.nodes[s.Sender]; !found {
		return fmt.Errorf("%w: sender %s", ErrUnknownNode, s.Sender)
	}
	if _, found := t.nodes[s.Receiver]; !found {
		return fmt.Errorf("%w: receiver %s", ErrUnknownNode, s.Receiver)
	}
	if s.Priority < 0 || s.Priority > 7 {
		return fmt.Errorf("%w: stream %s has priority %d", ErrInvalidPriority, s.Name, s.Priority)
	}
	t.streams[s.Name] = s
	t.streamOrder = append(t.streamOrder, s.Name)
	return nil
}

// Node returns the node named name, or nil if absent.
func (t *Topology) Node(name string) *Node {
	return t.nodes[name]
}

// Port returns the port (node, port), or nil if absent.
func (t *Topology) Port(node, port string) *Port {
	return t.ports[PortRef{Node: node, Port: port}]
}

// Edge returns the edge starting at (node, port), or nil if absent.
func (t *Topology) Edge(node, port string) *Edge {
	return t.edges[PortRef{Node: node, Port: port}]
}

// Stream returns the stream named name, or nil if absent.
func (t *Topology) Stream(name string) *Stream {
	return t.streams[name]
}

// Streams returns every stream in declaration order.
func (t *Topology) Streams() []*Stream {
	out := make([]*Stream, 0, len(t.streamOrder))
	for _, name := range t.streamOrder {
		out = append(out, t.streams[name])
	}
	return out
}

// Nodes returns every forwarding node in declaration order.
func (t *Topology) Nodes() []*Node {
	out := make([]*Node, 0, len(t.nodeOrder))
	for _, name := range t.nodeOrder {
		out = append(out, t.nodes[name])
	}
	return out
}

// AreSynchronized reports whether two nodes share a common, non-empty
// sync domain.
func (t *Topology) AreSynchronized(a, b string) bool {
	na, fa := t.nodes[a], t.nodes[b]
	if na == nil || fa == nil {
		return false
	}
	if na.SyncDomain == DefaultSyncDomain || fa.SyncDomain == DefaultSyncDomain {
		return false
	}
	return na.SyncDomain == fa.SyncDomain
}

// MustNewTopologyFromJSON is a convenience wrapper around [FromJSON]
// that panics on error; intended for test fixtures and CLI flows where a
// malformed topology is already reported to the user before this is called.
func MustNewTopologyFromJSON(r io.Reader) *Topology {
	return Must1(FromJSON(r))
}

// MustNewTopologyFromFile reads and parses a topology JSON file, panicking
// on error.
func MustNewTopologyFromFile(path string) *Topology {
	f := Must1(os.Open(path))
	defer f.Close()
	return MustNewTopologyFromJSON(f)
}
