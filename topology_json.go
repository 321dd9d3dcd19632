package tsnjitter

//
// Topology JSON (de)serialization
//

import (
	"encoding/json"
	"fmt"
	"io"
)

type portJSON struct {
	Name              string `json:"name"`
	ExpressPriorities []int  `json:"expressPriorities,omitempty"`
	FramePreemption   *bool  `json:"framePreemption,omitempty"`
	GCL               *bool  `json:"gcl,omitempty"`
	GCLCycle          *int64 `json:"gclCycle,omitempty"`
	GCLOpen           *int64 `json:"gclOpen,omitempty"`
	GCLOffset         *int64 `json:"gclOffset,omitempty"`
	GCLPriorities     []int  `json:"gclPriorities,omitempty"`
}

type nodeJSON struct {
	Name             string     `json:"name"`
	ProcessingDelay  *int64     `json:"processingDelay,omitempty"`
	ProcessingJitter *int64     `json:"processingJitter,omitempty"`
	SyncDomain       string     `json:"syncDomain,omitempty"`
	SyncJitter       *int64     `json:"syncJitter,omitempty"`
	Ports            []portJSON `json:"ports,omitempty"`
}

type portPairJSON [2]string

type edgeJSON struct {
	Port1              portPairJSON `json:"port1"`
	Port2              portPairJSON `json:"port2"`
	LinkSpeed          *int64       `json:"linkSpeed,omitempty"`
	MaxFrameSize       *int64       `json:"maxFrameSize,omitempty"`
	PropagationDelay   *int64       `json:"propagationDelay,omitempty"`
	TransmissionJitter *int64       `json:"transmissionJitter,omitempty"`
}

type streamJSON struct {
	Name               string `json:"name"`
	CycleTime          *int64 `json:"cycleTime"`
	Offset             *int64 `json:"offset,omitempty"`
	TransmissionWindow *int64 `json:"transmissionWindow,omitempty"`
	FrameSize          *int64 `json:"frameSize"`
	Sender             string `json:"sender"`
	Receiver           string `json:"receiver"`
	Priority           *int   `json:"priority,omitempty"`
}

type topologyJSON struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Nodes       []nodeJSON   `json:"nodes"`
	Edges       []edgeJSON   `json:"edges"`
	Streams     []streamJSON `json:"streams"`
}

func intsOrDefault(v []int, def func() []int) []int {
	if v == nil {
		return def()
	}
	return v
}

func int64OrDefault(v *int64, def int64) int64 {
	if v == nil {
		return def
	}
	return *v
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// FromJSON parses a topology document. Every error encountered is
// collected into a single [ParseErrors] rather than stopping at the
// first one, so a caller sees the full extent of a malformed input.
func FromJSON(r io.Reader) (*Topology, error) {
	var doc topologyJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTopologyParse, err)
	}

	errs := &ParseErrors{}
	topo := NewTopology(doc.Name)

	existingNodes := map[string]bool{}
	for _, nj := range doc.Nodes {
		if nj.Name == "" {
			errs.Add("%w: a node is missing its name", ErrTopologyParse)
			continue
		}
		existingNodes[nj.Name] = true
	}

	for _, nj := range doc.Nodes {
		node := &Node{
			Name:             nj.Name,
			ProcessingDelay:  int64OrDefault(nj.ProcessingDelay, DefaultProcessingDelay),
			ProcessingJitter: int64OrDefault(nj.ProcessingJitter, DefaultProcessingJitter),
			SyncDomain:       nj.SyncDomain,
			SyncJitter:       int64OrDefault(nj.SyncJitter, DefaultSyncJitter),
		}
		if err := topo.AddNode(node); err != nil {
			errs.Add("%w", err)
			continue
		}
		for _, pj := range nj.Ports {
			if pj.Name == "" {
				errs.Add("%w: node %s has a port missing its name", ErrTopologyParse, nj.Name)
				continue
			}
			port := &Port{
				Node:              nj.Name,
				Name:              pj.Name,
				ExpressPriorities: intsOrDefault(pj.ExpressPriorities, defaultExpressPriorities),
				FramePreemption:   boolOrDefault(pj.FramePreemption, DefaultFramePreemptionEnabled),
				GCLEnabled:        boolOrDefault(pj.GCL, DefaultGCLEnabled),
				GCLCycle:          int64OrDefault(pj.GCLCycle, DefaultGCLCycle),
				GCLOpen:           int64OrDefault(pj.GCLOpen, DefaultGCLOpen),
				GCLOffset:         int64OrDefault(pj.GCLOffset, DefaultGCLOffset),
				GCLPriorities:     intsOrDefault(pj.GCLPriorities, defaultGCLPriorities),
			}
			if err := topo.AddPort(port); err != nil {
				errs.Add("%w", err)
			}
		}
	}

	for _, ej := range doc.Edges {
		if len(ej.Port1) != 2 || len(ej.Port2) != 2 {
			errs.Add("%w: edge has a malformed port reference", ErrTopologyParse)
			continue
		}
		edge := &Edge{
			From:               PortRef{Node: ej.Port1[0], Port: ej.Port1[1]},
			To:                 PortRef{Node: ej.Port2[0], Port: ej.Port2[1]},
			LinkSpeed:          int64OrDefault(ej.LinkSpeed, DefaultLinkSpeed),
			MaxFrameSize:       int64OrDefault(ej.MaxFrameSize, DefaultMaxFrameSize),
			PropagationDelay:   int64OrDefault(ej.PropagationDelay, DefaultPropagationDelay),
			TransmissionJitter: int64OrDefault(ej.TransmissionJitter, DefaultTransmissionJitter),
		}
		if err := topo.AddEdge(edge); err != nil {
			errs.Add("%w", err)
		}
	}

	for _, sj := range doc.Streams {
		if sj.Name == "" {
			errs.Add(`%w: missing or invalid key "name" in a stream`, ErrStreamParse)
			continue
		}
		if sj.CycleTime == nil {
			errs.Add(`%w: missing or invalid key "cycleTime" in stream %s`, ErrStreamParse, sj.Name)
			continue
		}
		if sj.FrameSize == nil {
			errs.Add(`%w: missing or invalid key "frameSize" in stream %s`, ErrStreamParse, sj.Name)
			continue
		}
		if sj.Sender == "" || !existingNodes[sj.Sender] {
			errs.Add(`%w: sender "%s" of stream %s is not a known node`, ErrStreamParse, sj.Sender, sj.Name)
			continue
		}
		if sj.Receiver == "" || !existingNodes[sj.Receiver] {
			errs.Add(`%w: receiver "%s" of stream %s is not a known node`, ErrStreamParse, sj.Receiver, sj.Name)
			continue
		}
		priority := intOrDefault(sj.Priority, DefaultPriority)
		if priority < 0 || priority > 7 {
			errs.Add(`%w: priority of stream %s is not in range 0..7`, ErrInvalidPriority, sj.Name)
			continue
		}
		stream := &Stream{
			Name:               sj.Name,
			CycleTime:          *sj.CycleTime,
			Offset:             int64OrDefault(sj.Offset, DefaultStreamOffset),
			TransmissionWindow: int64OrDefault(sj.TransmissionWindow, DefaultTransmissionWindow),
			FrameSize:          *sj.FrameSize,
			Sender:             sj.Sender,
			Receiver:           sj.Receiver,
			Priority:           priority,
		}
		if err := topo.AddStream(stream); err != nil {
			errs.Add("%w", err)
		}
	}

	if err := errs.AsError(); err != nil {
		return nil, err
	}
	return topo, nil
}

// ToJSON serializes the topology back into the document schema consumed
// by [FromJSON]. Optional scalar fields that equal their default are
// omitted; expressPriorities is omitted only when empty, and gclPriorities
// is always written.
func (t *Topology) ToJSON(w io.Writer) error {
	doc := topologyJSON{Name: t.Name}
	for _, n := range t.Nodes() {
		nj := nodeJSON{
			Name:             n.Name,
			ProcessingDelay:  omitIfDefaultInt64(n.ProcessingDelay, DefaultProcessingDelay),
			ProcessingJitter: omitIfDefaultInt64(n.ProcessingJitter, DefaultProcessingJitter),
			SyncDomain:       n.SyncDomain,
			SyncJitter:       omitIfDefaultInt64(n.SyncJitter, DefaultSyncJitter),
		}
		for _, pname := range n.Ports {
			p := t.Port(n.Name, pname)
			nj.Ports = append(nj.Ports, portJSON{
				Name:              p.Name,
				ExpressPriorities: p.ExpressPriorities,
				FramePreemption:   omitIfDefaultBool(p.FramePreemption, DefaultFramePreemptionEnabled),
				GCL:               omitIfDefaultBool(p.GCLEnabled, DefaultGCLEnabled),
				GCLCycle:          omitIfDefaultInt64(p.GCLCycle, DefaultGCLCycle),
				GCLOpen:           omitIfDefaultInt64(p.GCLOpen, DefaultGCLOpen),
				GCLOffset:         omitIfDefaultInt64(p.GCLOffset, DefaultGCLOffset),
				GCLPriorities:     p.GCLPriorities,
			})
		}
		doc.Nodes = append(doc.Nodes, nj)
	}
	for ref, e := range t.edges {
		doc.Edges = append(doc.Edges, edgeJSON{
			Port1:              portPairJSON{ref.Node, ref.Port},
			Port2:              portPairJSON{e.To.Node, e.To.Port},
			LinkSpeed:          omitIfDefaultInt64(e.LinkSpeed, DefaultLinkSpeed),
			MaxFrameSize:       omitIfDefaultInt64(e.MaxFrameSize, DefaultMaxFrameSize),
			PropagationDelay:   omitIfDefaultInt64(e.PropagationDelay, DefaultPropagationDelay),
			TransmissionJitter: omitIfDefaultInt64(e.TransmissionJitter, DefaultTransmissionJitter),
		})
	}
	for _, s := range t.Streams() {
		doc.Streams = append(doc.Streams, streamJSON{
			Name:               s.Name,
			CycleTime:          &s.CycleTime,
			Offset:             omitIfDefaultInt64(s.Offset, DefaultStreamOffset),
			TransmissionWindow: omitIfDefaultInt64(s.TransmissionWindow, DefaultTransmissionWindow),
			FrameSize:          &s.FrameSize,
			Sender:             s.Sender,
			Receiver:           s.Receiver,
			Priority:           omitIfDefaultInt(s.Priority, DefaultPriority),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func omitIfDefaultInt64(v, def int64) *int64 {
	if v == def {
		return nil
	}
	return &v
}

func omitIfDefaultBool(v, def bool) *bool {
	if v == def {
		return nil
	}
	return &v
}

func omitIfDefaultInt(v, def int) *int {
	if v == def {
		return nil
	}
	return &v
}
