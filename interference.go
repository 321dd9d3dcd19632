package tsnjitter

//
// Interference selector (C3)
//

// interferenceSelector answers, for a stream at a given port, which
// other streams can delay its transmission.
type interferenceSelector struct {
	topo *Topology
}

func newInterferenceSelector(t *Topology) *interferenceSelector {
	return &interferenceSelector{topo: t}
}

// crossing returns every stream other than s whose path visits port.
func (is *interferenceSelector) crossing(s *Stream, port *Port) []*Stream {
	var out []*Stream
	for _, other := range is.topo.Streams() {
		if other.Name == s.Name {
			continue
		}
		path, err := ShortestPath(is.topo, other.Sender, other.Receiver)
		if err != nil {
			continue
		}
		if path.Contains(port.Node, port.Name) {
			out = append(out, other)
		}
	}
	return out
}

// interfering narrows the crossing-stream set down to those that can
// actually delay s's transmission at port, applying the express-priority
// rule, then the frame-preemption narrowing, then the gate-priority
// narrowing.
func (is *interferenceSelector) interfering(s *Stream, port *Port) []*Stream {
	express := isExpress(port, s.Priority)
	var out []*Stream
	for _, other := range is.crossing(s, port) {
		if other.Priority < s.Priority {
			continue
		}
		if express {
			if !(other.Priority >= s.Priority && isExpress(port, other.Priority)) {
				continue
			}
		} else {
			if !(isExpress(port, other.Priority) || other.Priority >= s.Priority) {
				continue
			}
		}
		if port.FramePreemption && len(port.ExpressPriorities) > 0 && !isExpress(port, other.Priority) {
			continue
		}
		if port.GCLEnabled && len(port.GCLPriorities) > 0 && !gclControls(port, other.Priority) {
			continue
		}
		out = append(out, other)
	}
	return out
}

func gclControls(port *Port, priority int) bool {
	for _, p := range port.GCLPriorities {
		if p == priority {
			return true
		}
	}
	return false
}
