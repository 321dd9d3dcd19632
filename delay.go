package tsnjitter

//
// Delay propagator (C4)
//

import "fmt"

// transmissionDuration returns the time needed to put frameBytes bytes
// on a link running at linkSpeedMbit Mbit/s, in nanoseconds.
func transmissionDuration(frameBytes, linkSpeedMbit int64) int64 {
	if linkSpeedMbit <= 0 {
		return 0
	}
	// bytes * 8 bits/byte * 1000 ns/us... linkSpeedMbit is in Mbit/s = bits per 1000ns.
	return (frameBytes * 8000) / linkSpeedMbit
}

// ceilDiv mirrors Python's math.ceil(a/b) for the non-negative numerators
// this package ever passes it (arrival jitter and cycle times are never
// negative); a<=0 short-circuits to 0, matching ceil(0/b).
func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 1
	}
	if a <= 0 {
		return 0
	}
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// bestHop is the best-case trace carried along a stream's path.
type bestHop struct {
	Node        string
	WindowStart int64
	WindowEnd   int64
	CumStart    int64
	CumEnd      int64
}

// worstHop is the worst-case trace carried along a stream's path.
// WindowStart/WindowEnd use [WindowPhase] to express the "phase is
// undefined" state a SP/FP-unsynchronized hop can leave behind, instead
// of a sentinel numeric value.
type worstHop struct {
	Node        string
	WindowStart WindowPhase
	WindowEnd   WindowPhase
	CumStart    int64
	CumEnd      int64
	Cycle       int64
}

// propagator walks one stream's path, computing best/worst per-hop
// cumulative delay under each port's scheduling discipline.
type propagator struct {
	topo         *Topology
	bandwidth    *bandwidthTable
	interference *interferenceSelector
}

func newPropagator(t *Topology, bw *bandwidthTable) *propagator {
	return &propagator{topo: t, bandwidth: bw, interference: newInterferenceSelector(t)}
}

// propagate computes the per-hop statistics and multiplication factors
// for one stream, given its precomputed path.
func (pr *propagator) propagate(s *Stream, path *Path) (*streamStatistic, error) {
	stat := &streamStatistic{Stream: s.Name}

	best := bestHop{
		Node:        path.At(0),
		WindowStart: s.Offset,
		WindowEnd:   s.Offset + s.TransmissionWindow,
	}
	worst := worstHop{
		Node:        path.At(0),
		WindowStart: DefinedPhase(s.Offset),
		WindowEnd:   DefinedPhase(s.Offset + s.TransmissionWindow),
		Cycle:       s.CycleTime,
	}

	for i := 0; i < path.Len(); i++ {
		factor := 1.0
		switch {
		case path.IsRxPort(i):
			ref := path.refAt(i)
			stat.DelaysPerPort = append(stat.DelaysPerPort, PortStatistic{
				Node: ref.Node, Port: ref.Port, Direction: "rx",
				BestCaseDelay:  minInt64(best.CumStart, best.CumEnd),
				WorstCaseDelay: maxInt64(worst.CumStart, worst.CumEnd),
			})

		case path.IsForwardingNode(i) && i != 0 && i != path.Len()-1:
			node := pr.topo.Node(path.At(i))
			dProcBC := node.ProcessingDelay - node.ProcessingJitter
			dProcWC := node.ProcessingDelay + node.ProcessingJitter
			best.WindowStart += dProcBC
			best.WindowEnd += dProcBC
			best.CumStart += dProcBC
			best.CumEnd += dProcBC
			worst.WindowStart = DefinedPhase(worstStart(&worst) + dProcWC)
			worst.WindowEnd = DefinedPhase(worstEnd(&worst) + dProcWC)
			worst.CumStart += dProcWC
			worst.CumEnd += dProcWC

		case path.IsTxPort(i):
			ref := path.refAt(i)
			port := pr.topo.Port(ref.Node, ref.Port)
			edge := pr.topo.Edge(ref.Node, ref.Port)
			if edge == nil {
				return nil, fmt.Errorf("tsnjitter: propagate: %s/%s is a tx port with no outgoing edge", ref.Node, ref.Port)
			}

			isTalker := ref.Node == s.Sender
			hopFactor, err := pr.applyHop(s, path, i, port, edge, isTalker, &best, &worst)
			if err != nil {
				return nil, err
			}
			factor = hopFactor

			stat.DelaysPerPort = append(stat.DelaysPerPort, PortStatistic{
				Node: ref.Node, Port: ref.Port, Direction: "tx",
				BestCaseDelay:  minInt64(best.CumStart, best.CumEnd),
				WorstCaseDelay: maxInt64(worst.CumStart, worst.CumEnd),
			})
		}
		stat.multiplicationFactors = append(stat.multiplicationFactors, factor)
	}

	return stat, nil
}

// applyHop computes one tx-port hop's delay and advances best/worst in
// place, returning the gate multiplication factor for C6.
func (pr *propagator) applyHop(
	s *Stream, path *Path, i int, port *Port, edge *Edge, isTalker bool,
	best *bestHop, worst *worstHop,
) (float64, error) {
	bEff := pr.bandwidth.get(s.Name, edge.From.Node, s.FrameSize)
	dTransBC := transmissionDuration(bEff+l1Overhead, edge.LinkSpeed) - edge.TransmissionJitter + edge.PropagationDelay
	dTransWC := transmissionDuration(bEff+l1Overhead, edge.LinkSpeed) + edge.TransmissionJitter + edge.PropagationDelay

	var dInterference int64
	var interferers []*Stream
	if !isTalker {
		interferers = pr.interference.interfering(s, port)
		for _, other := range interferers {
			otherBW := pr.bandwidth.get(other.Name, edge.From.Node, other.FrameSize)
			dInterference += transmissionDuration(otherBW+l1Overhead, edge.LinkSpeed) + edge.TransmissionJitter
		}
		scale := ceilDiv(worst.Cycle, s.CycleTime)
		dInterference *= scale
	}

	var dBlck int64
	if !isTalker {
		dBlck = blockingDelay(s, port, edge)
	}

	prevCycle := worst.Cycle

	var multFactor float64 = 1
	if port.GCLEnabled {
		denom := maxInt64(1, prevCycle)
		multFactor = float64(port.GCLCycle) / float64(denom)
	}

	ancestorSynced := true
	if anc, ok := path.AncestorForwardingNode(i); ok {
		ancestorSynced = pr.topo.AreSynchronized(path.At(anc), edge.From.Node)
	}

	switch {
	case port.GCLEnabled && ancestorSynced && worst.WindowStart.IsDefined():
		pr.regimeA(s, port, edge, dTransBC, dTransWC, dBlck, dInterference, interferers, prevCycle, best, worst)
	case port.GCLEnabled:
		pr.regimeB(port, dTransBC, dTransWC, dBlck, dInterference, interferers, prevCycle, best, worst)
	case ancestorSynced && worst.WindowStart.IsDefined():
		pr.regimeC(dTransBC, dTransWC, dBlck, dInterference, best, worst)
	default:
		pr.regimeD(dTransBC, dTransWC, dBlck, dInterference, best, worst)
	}

	if best.WindowEnd < best.WindowStart {
		best.WindowEnd = best.WindowStart
	}
	if worst.WindowStart.IsDefined() && worst.WindowEnd.IsDefined() &&
		worst.WindowEnd.Start() < worst.WindowStart.Start() {
		worst.WindowEnd = worst.WindowStart
	}

	return multFactor, nil
}

// blockingDelay computes the non-preemptable transmission that can
// already be in flight ahead of stream s at port.
func blockingDelay(s *Stream, port *Port, edge *Edge) int64 {
	if !gateControlsLowerPriority(port, s.Priority) {
		return 0
	}
	if port.FramePreemption && isExpress(port, s.Priority) {
		return transmissionDuration(expressFrameBytes+l1Overhead, edge.LinkSpeed)
	}
	return transmissionDuration(edge.MaxFrameSize+l1Overhead, edge.LinkSpeed)
}

func gateControlsLowerPriority(port *Port, priority int) bool {
	if !port.GCLEnabled || len(port.GCLPriorities) == 0 {
		return true
	}
	for _, p := range port.GCLPriorities {
		if p < priority {
			return true
		}
	}
	return false
}

func isExpress(port *Port, priority int) bool {
	for _, p := range port.ExpressPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

// regimeA implements the TAS-synchronized case: both best- and worst-
// case windows are folded against the gate's open interval.
func (pr *propagator) regimeA(
	s *Stream, port *Port, edge *Edge, dTransBC, dTransWC, dBlck, dInterference int64,
	interferers []*Stream, prevCycle int64, best *bestHop, worst *worstHop,
) {
	gc, go_, gw := port.GCLCycle, port.GCLOffset, port.GCLOpen
	sj := pr.topo.Node(edge.From.Node).SyncJitter

	a := modPositive(best.WindowStart, gc)
	b := best.WindowEnd
	early1 := go_ - a
	early2 := go_ - b
	rem2 := (go_ + gw) - modPositive(b, gc)

	var dGate1, dGate2, oc1, oc2 int64
	switch {
	case early1 >= 0 && early2 >= 0:
		dGate1, dGate2 = early1, early2
	case early1 >= 0 && rem2 >= dTransBC:
		dGate1 = early1
	case early1 >= 0:
		dGate1 = early1
		oc2 = -rem2
	default:
		// missed gate: best case rolls into the next cycle
		dGate1, dGate2 = 0, 0
	}

	dForward1 := dGate1 + dTransBC - sj
	dForward2 := dGate2 + dTransBC - sj
	best.WindowStart += dForward1 + oc1
	best.WindowEnd += dForward2 + oc2
	best.CumStart += dForward1
	best.CumEnd += dForward2

	wStart, wEnd := worstStartEnd(worst)
	late1 := (go_ + gw) - modPositive(wStart, gc)
	late2 := (go_ + gw) - modPositive(wEnd, gc)
	wEarly1 := go_ - modPositive(wStart, gc)
	wEarly2 := go_ - modPositive(wEnd, gc)
	tmp := dTransWC + dBlck + dInterference

	var wGate1, wGate2 int64
	switch {
	case late1 < tmp && late2 < tmp:
		wGate1 = gc - modPositive(wStart, gc) + gw
		wGate2 = gc - modPositive(wEnd, gc) + gw
	case late2 < tmp:
		wGate1 = 0
		wGate2 = (gc - gw) + dTransWC + dInterference/maxInt64(1, int64(len(interferers))) + maxInt64(0, gc-prevCycle)
	case wEarly2 >= 0:
		wGate1, wGate2 = wEarly1, wEarly2
	case wEarly1 >= 0:
		wGate1 = wEarly1
	default:
		wGate1, wGate2 = 0, 0
	}

	wForward1 := wGate1 + dTransWC + dBlck + dInterference + sj + maxInt64(0, gc-prevCycle)
	wForward2 := wGate2 + dTransWC + dBlck + dInterference + sj + maxInt64(0, gc-prevCycle)
	worst.WindowStart = DefinedPhase(wStart + wForward1)
	worst.WindowEnd = DefinedPhase(wEnd + wForward2)
	worst.CumStart += wForward1
	worst.CumEnd += wForward2
	worst.Cycle = gc
}

// regimeB implements the TAS-unsynchronized (or undefined-upstream-phase)
// case: the frame may land anywhere within one gate cycle.
func (pr *propagator) regimeB(
	port *Port, dTransBC, dTransWC, dBlck, dInterference int64,
	interferers []*Stream, prevCycle int64, best *bestHop, worst *worstHop,
) {
	gc, go_, gw := port.GCLCycle, port.GCLOffset, port.GCLOpen

	exceeding := (best.WindowEnd - best.WindowStart) - gw
	best.WindowStart = go_
	if exceeding > 0 {
		best.WindowEnd = go_ + gw
		best.CumEnd += exceeding
	} else {
		best.WindowEnd = go_ + gw
		best.CumStart += dTransBC
		best.CumEnd += dTransBC
	}

	dGate := (gc - gw) + dTransWC + dInterference/maxInt64(1, int64(len(interferers)))
	dDwell := dTransWC + dBlck + maxInt64(0, prevCycle-gc)
	dForward := dGate + dDwell
	worst.WindowStart = DefinedPhase(go_)
	worst.WindowEnd = DefinedPhase(go_ + gw)
	worst.CumStart += dForward
	worst.CumEnd += dForward
	worst.Cycle = gc
}

// regimeC implements the SP/FP synchronized case: both endpoints simply
// advance by the relevant delay.
func (pr *propagator) regimeC(dTransBC, dTransWC, dBlck, dInterference int64, best *bestHop, worst *worstHop) {
	best.WindowStart += dTransBC
	best.WindowEnd += dTransBC
	best.CumStart += dTransBC
	best.CumEnd += dTransBC

	dDwell := dTransWC + dBlck + dInterference
	worst.WindowStart = DefinedPhase(worstStart(worst) + dDwell)
	worst.WindowEnd = DefinedPhase(worstEnd(worst) + dDwell)
	worst.CumStart += dDwell
	worst.CumEnd += dDwell
}

// regimeD implements the SP/FP unsynchronized case: the upstream phase
// is unknown, so the window becomes undefined for downstream hops, but
// the cumulative delay still advances as in Regime C.
func (pr *propagator) regimeD(dTransBC, dTransWC, dBlck, dInterference int64, best *bestHop, worst *worstHop) {
	best.WindowStart = -1
	best.WindowEnd = maxInt64(0, worst.Cycle-3*dTransWC)
	best.CumStart += dTransBC
	best.CumEnd += dTransBC

	dDwell := dTransWC + dBlck
	worst.WindowStart = UndefinedPhase()
	worst.WindowEnd = DefinedPhase(maxInt64(0, worst.Cycle-3*dTransWC))
	worst.CumStart += dDwell + dInterference
	worst.CumEnd += dDwell + dInterference
}

func modPositive(v, m int64) int64 {
	if m <= 0 {
		return 0
	}
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}

func worstStart(w *worstHop) int64 {
	if w.WindowStart.IsDefined() {
		return w.WindowStart.Start()
	}
	return 0
}

func worstEnd(w *worstHop) int64 {
	if w.WindowEnd.IsDefined() {
		return w.WindowEnd.Start()
	}
	return 0
}

func worstStartEnd(w *worstHop) (int64, int64) {
	return worstStart(w), worstEnd(w)
}
