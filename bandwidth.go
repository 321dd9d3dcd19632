package tsnjitter

//
// Bandwidth reinflator (C5)
//

// bandwidthTable maps (stream, node) to an effective frame size, in
// bytes. A missing entry defaults to the stream's declared frame size.
// set only ever grows a value, never shrinks it.
type bandwidthTable struct {
	values map[string]map[string]int64
}

func newBandwidthTable() *bandwidthTable {
	return &bandwidthTable{values: map[string]map[string]int64{}}
}

// get returns the effective frame size for (stream, node), or
// declaredDefault if none was ever recorded.
func (b *bandwidthTable) get(stream, node string, declaredDefault int64) int64 {
	perNode, found := b.values[stream]
	if !found {
		return declaredDefault
	}
	v, found := perNode[node]
	if !found {
		return declaredDefault
	}
	return v
}

// set records newValue for (stream, node) only if it is strictly larger
// than the current value (or declaredDefault if none is recorded yet).
func (b *bandwidthTable) set(stream, node string, newValue, declaredDefault int64) {
	if newValue <= b.get(stream, node, declaredDefault) {
		return
	}
	perNode, found := b.values[stream]
	if !found {
		perNode = map[string]int64{}
		b.values[stream] = perNode
	}
	perNode[node] = newValue
}

// reinflate recomputes, for each stream's tx-port hop, the effective
// frame size at that hop's own node from the arrival jitter observed at
// that hop and the size recorded at the upstream node, and folds the
// result back into the bandwidth table.
//
// For a hop at node B whose ancestor tx port is at node A:
//
//	d_arriv    = worst - best cumulative delay observed at B's tx hop
//	factorArriv = ceil(d_arriv / cycle_B)
//	factorCT    = ceil(cycle_B / cycle_A)
//	newBandwidth = bandwidth(stream, A) * factorArriv * factorCT
//
// cycle_B/cycle_A default to the stream's own cycle time when the
// corresponding port has no gate (or there is no ancestor).
func (b *bandwidthTable) reinflate(topo *Topology, s *Stream, path *Path, stat *streamStatistic) {
	for i := 0; i < path.Len(); i++ {
		if !path.IsTxPort(i) {
			continue
		}
		ref := path.refAt(i)
		port := topo.Port(ref.Node, ref.Port)

		hopStat := findPortStat(stat, ref.Node, ref.Port, "tx")
		if hopStat == nil {
			continue
		}
		dArriv := hopStat.WorstCaseDelay - hopStat.BestCaseDelay
		if dArriv < 0 {
			dArriv = 0
		}

		cycleB := s.CycleTime
		if port.GCLEnabled {
			cycleB = port.GCLCycle
		}

		cycleA := s.CycleTime
		nodeA := ref.Node
		if anc, ok := path.AncestorTxPort(i); ok {
			ancRef := path.refAt(anc)
			ancPort := topo.Port(ancRef.Node, ancRef.Port)
			if ancPort.GCLEnabled {
				cycleA = ancPort.GCLCycle
			}
			nodeA = ancRef.Node
		}

		factorArriv := ceilDiv(dArriv, cycleB)
		factorCT := ceilDiv(cycleB, cycleA)

		base := b.get(s.Name, nodeA, s.FrameSize)
		newBW := base * factorArriv * factorCT
		b.set(s.Name, ref.Node, newBW, s.FrameSize)
	}
}

func findPortStat(stat *streamStatistic, node, port, direction string) *PortStatistic {
	for i := range stat.DelaysPerPort {
		ps := &stat.DelaysPerPort[i]
		if ps.Node == node && ps.Port == port && ps.Direction == direction {
			return ps
		}
	}
	return nil
}
