package tsnjitter

//
// Utilization estimator (C6)
//

// estimateUtilization fills in ResourceUtilization on every tx-port hop
// of stat, using the converged bandwidth table and the stream's path.
func estimateUtilization(topo *Topology, bw *bandwidthTable, is *interferenceSelector, s *Stream, path *Path, stat *streamStatistic) {
	runningFactor := 1.0
	for i, factor := range stat.multiplicationFactors {
		if i >= path.Len() {
			break
		}
		runningFactor *= factor
		if !path.IsTxPort(i) {
			continue
		}
		ref := path.refAt(i)
		port := topo.Port(ref.Node, ref.Port)
		edge := topo.Edge(ref.Node, ref.Port)
		if edge == nil || port == nil {
			continue
		}

		var occupied int64
		for _, other := range is.interfering(s, port) {
			otherBW := bw.get(other.Name, ref.Node, other.FrameSize)
			occupied += transmissionDuration(otherBW+l1Overhead, edge.LinkSpeed) + edge.TransmissionJitter
		}
		ownBW := bw.get(s.Name, ref.Node, s.FrameSize)
		occupied += int64(float64(transmissionDuration(ownBW+l1Overhead, edge.LinkSpeed)) * runningFactor)

		window := s.CycleTime
		if port.GCLEnabled {
			window = port.GCLOpen
		}
		if window <= 0 {
			window = 1
		}

		hopStat := findPortStat(stat, ref.Node, ref.Port, "tx")
		if hopStat == nil {
			continue
		}
		hopStat.ResourceUtilization = roundTo4(float64(occupied) / float64(window))
		hopStat.hasUtilization = true
	}
}

func roundTo4(v float64) float64 {
	const scale = 10000.0
	r := v * scale
	if r >= 0 {
		r += 0.5
	} else {
		r -= 0.5
	}
	return float64(int64(r)) / scale
}
