package tsnjitter

//
// Data model
//

// Node is a forwarding node: a switch or an endpoint (talker or listener).
type Node struct {
	// Name identifies the node uniquely within a [Topology].
	Name string

	// ProcessingDelay is the nominal per-frame processing delay, in nanoseconds.
	ProcessingDelay int64

	// ProcessingJitter is the symmetric jitter around ProcessingDelay, in nanoseconds.
	ProcessingJitter int64

	// SyncDomain names the time-synchronization domain this node belongs to.
	// The empty string means the node is not synchronized with any other node.
	SyncDomain string

	// SyncJitter is the residual synchronization error relative to SyncDomain, in nanoseconds.
	SyncJitter int64

	// Ports lists the names of the ports owned by this node, in declaration order.
	Ports []string
}

// Port is a port of a [Node]. Ports are referenced as (node name, port name) pairs.
type Port struct {
	// Node is the name of the owning node.
	Node string

	// Name identifies the port uniquely within its node.
	Name string

	// ExpressPriorities lists the priorities eligible for preemption as
	// express traffic when FramePreemption is enabled.
	ExpressPriorities []int

	// FramePreemption enables IEEE 802.1Qbu frame preemption on this port.
	FramePreemption bool

	// GCLEnabled enables IEEE 802.1Qbv time-aware shaping on this port.
	GCLEnabled bool

	// GCLCycle is the gate cycle duration, in nanoseconds.
	GCLCycle int64

	// GCLOpen is the duration the gate stays open within each cycle, in nanoseconds.
	GCLOpen int64

	// GCLOffset is the offset of the gate-open window within each cycle, in nanoseconds.
	GCLOffset int64

	// GCLPriorities lists the priorities the gate controls.
	GCLPriorities []int
}

// Edge is a directed link from one port to another.
type Edge struct {
	// From is the transmitting (node, port) pair.
	From PortRef

	// To is the receiving (node, port) pair.
	To PortRef

	// LinkSpeed is the link's bit rate, in Mbit/s.
	LinkSpeed int64

	// MaxFrameSize is the largest frame the link carries, in bytes (payload + Ethernet header, excluding L1 overhead).
	MaxFrameSize int64

	// PropagationDelay is the wire propagation delay, in nanoseconds.
	PropagationDelay int64

	// TransmissionJitter is the symmetric jitter applied to the transmission delay, in nanoseconds.
	TransmissionJitter int64
}

// PortRef names a port by the node that owns it.
type PortRef struct {
	Node string
	Port string
}

// Stream is a periodic time-sensitive flow from one node to another.
type Stream struct {
	// Name identifies the stream uniquely within a [Topology].
	Name string

	// CycleTime is the stream's period, in nanoseconds.
	CycleTime int64

	// Offset is the stream's phase within its cycle, in nanoseconds.
	Offset int64

	// TransmissionWindow is the duration the sender may take to emit the frame, in nanoseconds.
	TransmissionWindow int64

	// FrameSize is the declared frame size, in bytes (payload + Ethernet header, excluding L1 overhead).
	FrameSize int64

	// Sender is the name of the talker node.
	Sender string

	// Receiver is the name of the listener node.
	Receiver string

	// Priority is the stream's priority, in range 0..7.
	Priority int
}

// WindowPhase represents a delay-window endpoint whose phase may be
// undefined. It replaces the ad hoc "-1 means undefined" convention of the
// reference model with an explicit tagged union.
type WindowPhase struct {
	// defined is true when Start is a meaningful absolute phase.
	defined bool

	// start is the phase, valid only when defined is true.
	start int64
}

// DefinedPhase returns a [WindowPhase] with a known absolute phase.
func DefinedPhase(start int64) WindowPhase {
	return WindowPhase{defined: true, start: start}
}

// UndefinedPhase returns a [WindowPhase] whose phase is not known.
func UndefinedPhase() WindowPhase {
	return WindowPhase{defined: false}
}

// IsDefined returns whether the phase carries a known absolute value.
func (p WindowPhase) IsDefined() bool {
	return p.defined
}

// Start returns the phase value. Callers must check [WindowPhase.IsDefined] first.
func (p WindowPhase) Start() int64 {
	return p.start
}

// PortStatistic is one hop's best/worst case delay and, for egress hops,
// resource utilization.
type PortStatistic struct {
	// Node is the forwarding node owning Port.
	Node string

	// Port is the port name.
	Port string

	// Direction is either "rx" or "tx".
	Direction string

	// BestCaseDelay is the cumulative best-case delay up to and including this hop, in nanoseconds.
	BestCaseDelay int64

	// WorstCaseDelay is the cumulative worst-case delay up to and including this hop, in nanoseconds.
	WorstCaseDelay int64

	// ResourceUtilization is the fractional occupancy of this port, valid only when Direction is "tx".
	ResourceUtilization float64

	// hasUtilization records whether ResourceUtilization was computed for this hop.
	hasUtilization bool
}

// streamStatistic is the full set of per-hop results for one stream.
type streamStatistic struct {
	// Stream is the stream name.
	Stream string

	// DelaysPerPort is the ordered list of per-hop results along the stream's path.
	DelaysPerPort []PortStatistic

	// multiplicationFactors holds the per-hop gate-multiplication factor, one per path index; C6 multiplies them into a running product.
	multiplicationFactors []float64
}

// summarizedBestCase returns the stream's end-to-end best-case delay.
func (s *streamStatistic) summarizedBestCase() int64 {
	if len(s.DelaysPerPort) == 0 {
		return 0
	}
	return s.DelaysPerPort[len(s.DelaysPerPort)-1].BestCaseDelay
}

// summarizedWorstCase returns the stream's end-to-end worst-case delay.
func (s *streamStatistic) summarizedWorstCase() int64 {
	if len(s.DelaysPerPort) == 0 {
		return 0
	}
	return s.DelaysPerPort[len(s.DelaysPerPort)-1].WorstCaseDelay
}
