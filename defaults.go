package tsnjitter

//
// Topology defaults
//
// Mirrors the default values of the reference jitter/latency model:
// a node and port that omit a field get these values.
//

// Default node attributes, in nanoseconds unless noted otherwise.
const (
	DefaultProcessingDelay  = 1050
	DefaultProcessingJitter = 50
	DefaultSyncJitter       = 30
)

// DefaultSyncDomain is the sync domain of a node that declares none.
// Two nodes with the default domain are never considered synchronized.
const DefaultSyncDomain = ""

// Default gate-control-list attributes, in nanoseconds unless noted otherwise.
const (
	DefaultGCLEnabled = false
	DefaultGCLCycle   = 1_000_000
	DefaultGCLOpen    = 10_000
	DefaultGCLOffset  = 1_000
)

// DefaultFramePreemptionEnabled is the default state of a port's FP flag.
const DefaultFramePreemptionEnabled = false

// Default edge attributes.
const (
	DefaultLinkSpeed          = 1000 // Mbit/s
	DefaultMaxFrameSize       = 1522 // bytes
	DefaultPropagationDelay   = 0    // ns
	DefaultTransmissionJitter = 0    // ns
)

// DefaultStreamOffset is the default offset of a stream within its cycle, in nanoseconds.
const DefaultStreamOffset = 0

// DefaultTransmissionWindow is the default sender transmission window, in nanoseconds.
const DefaultTransmissionWindow = 0

// DefaultPriority is the default stream priority.
const DefaultPriority = 0

// defaultGCLPriorities returns the priority set a gate controls when the
// topology document does not name one: all eight priorities.
func defaultGCLPriorities() []int {
	return []int{0, 1, 2, 3, 4, 5, 6, 7}
}

// defaultExpressPriorities returns the express-priority set of a port that
// does not name one: none.
func defaultExpressPriorities() []int {
	return []int{}
}

// l1Overhead is the 20 bytes of preamble, start-of-frame delimiter and
// inter-frame gap surrounding every Ethernet frame on the wire.
const l1Overhead = 20

// expressFrameBytes is the fixed blocking size used for an express-eligible
// stream under frame preemption: a 123-byte non-preemptable fragment. The
// L1 overhead is not included; callers add l1Overhead to it.
const expressFrameBytes = 123
