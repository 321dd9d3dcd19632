package tsnjitter

//
// Calculator: orchestrates C1-C6 for a whole topology
//

import (
	"encoding/json"
	"io"
)

// Calculator runs the full delay/jitter/utilization analysis for every
// stream in a [Topology]. The zero value is invalid; use [NewCalculator].
type Calculator struct {
	topo  *Topology
	bw    *bandwidthTable
	is    *interferenceSelector
	paths map[string]*Path
	stats map[string]*streamStatistic

	logger Logger
}

// NewCalculator creates a [Calculator] for topo. logger may be nil, in
// which case a [StdLogger] is used.
func NewCalculator(topo *Topology, logger Logger) *Calculator {
	if logger == nil {
		logger = &StdLogger{}
	}
	return &Calculator{
		topo:   topo,
		bw:     newBandwidthTable(),
		is:     newInterferenceSelector(topo),
		paths:  map[string]*Path{},
		stats:  map[string]*streamStatistic{},
		logger: logger,
	}
}

// reinflationPasses is the number of (propagate, reinflate) round trips
// performed before the bandwidth table is considered converged. Two
// passes are sufficient for the topologies this analyzer targets: the
// reinflation formula's ceil() terms stabilize after the first correction,
// so a third propagation only confirms the fixed point.
const reinflationPasses = 2

// Run executes the full pipeline: propagate, reinflate, propagate,
// reinflate, propagate, estimate — per stream, for every stream in the
// topology. It returns the first error encountered (e.g. a stream with no
// path between sender and receiver).
func (c *Calculator) Run() error {
	prop := newPropagator(c.topo, c.bw)

	for _, s := range c.topo.Streams() {
		path, err := ShortestPath(c.topo, s.Sender, s.Receiver)
		if err != nil {
			return err
		}
		c.paths[s.Name] = path
	}

	for pass := 0; pass < reinflationPasses; pass++ {
		for _, s := range c.topo.Streams() {
			stat, err := prop.propagate(s, c.paths[s.Name])
			if err != nil {
				return err
			}
			c.stats[s.Name] = stat
		}
		for _, s := range c.topo.Streams() {
			c.bw.reinflate(c.topo, s, c.paths[s.Name], c.stats[s.Name])
		}
		c.logger.Debugf("tsnjitter: completed reinflation pass %d/%d", pass+1, reinflationPasses)
	}

	for _, s := range c.topo.Streams() {
		stat, err := prop.propagate(s, c.paths[s.Name])
		if err != nil {
			return err
		}
		c.stats[s.Name] = stat
	}

	for _, s := range c.topo.Streams() {
		estimateUtilization(c.topo, c.bw, c.is, s, c.paths[s.Name], c.stats[s.Name])
	}

	return nil
}

// SummarizedBestCase returns the end-to-end best-case delay of stream
// name, in nanoseconds. It panics if name was not analyzed by [Run].
func (c *Calculator) SummarizedBestCase(name string) int64 {
	return c.stats[name].summarizedBestCase()
}

// SummarizedWorstCase returns the end-to-end worst-case delay of stream
// name, in nanoseconds. It panics if name was not analyzed by [Run].
func (c *Calculator) SummarizedWorstCase(name string) int64 {
	return c.stats[name].summarizedWorstCase()
}

// MaxUtilization returns the largest tx-port resource utilization
// observed across every stream's path.
func (c *Calculator) MaxUtilization() float64 {
	var max float64
	for _, stat := range c.stats {
		for _, ps := range stat.DelaysPerPort {
			if ps.hasUtilization && ps.ResourceUtilization > max {
				max = ps.ResourceUtilization
			}
		}
	}
	return max
}

// PerPortStatistics returns the ordered per-hop statistics for stream
// name, or nil if it was not analyzed.
func (c *Calculator) PerPortStatistics(name string) []PortStatistic {
	stat := c.stats[name]
	if stat == nil {
		return nil
	}
	return stat.DelaysPerPort
}

type resultsPortJSON struct {
	Node                string   `json:"node"`
	Port                string   `json:"port"`
	Direction           string   `json:"direction"`
	BestCaseDelay       int64    `json:"bestCaseDelay"`
	WorstCaseDelay      int64    `json:"worstCaseDelay"`
	ResourceUtilization *float64 `json:"resourceUtilization,omitempty"`
}

type resultsStreamJSON struct {
	Name                     string            `json:"name"`
	SummarizedBestCaseDelay  int64             `json:"summarizedBestCaseDelay"`
	SummarizedWorstCaseDelay int64             `json:"summarizedWorstCaseDelay"`
	DelaysPerPort            []resultsPortJSON `json:"delaysPerPort"`
}

type resultsJSON struct {
	TopologyName string              `json:"topologyName"`
	Streams      []resultsStreamJSON `json:"streams"`
}

// ExportJSON serializes the analysis results for every stream, per
// the schema of SPEC_FULL.md §6.
func (c *Calculator) ExportJSON(w io.Writer) error {
	doc := resultsJSON{TopologyName: c.topo.Name}
	for _, s := range c.topo.Streams() {
		stat := c.stats[s.Name]
		if stat == nil {
			continue
		}
		rs := resultsStreamJSON{
			Name:                     s.Name,
			SummarizedBestCaseDelay:  stat.summarizedBestCase(),
			SummarizedWorstCaseDelay: stat.summarizedWorstCase(),
		}
		for _, ps := range stat.DelaysPerPort {
			rp := resultsPortJSON{
				Node: ps.Node, Port: ps.Port, Direction: ps.Direction,
				BestCaseDelay: ps.BestCaseDelay, WorstCaseDelay: ps.WorstCaseDelay,
			}
			if ps.hasUtilization {
				u := ps.ResourceUtilization
				rp.ResourceUtilization = &u
			}
			rs.DelaysPerPort = append(rs.DelaysPerPort, rp)
		}
		doc.Streams = append(doc.Streams, rs)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
