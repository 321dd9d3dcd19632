// Package tsnjitter computes per-hop forwarding latency bounds, jitter,
// and egress-port utilization for time-sensitive streams crossing a
// switched network.
//
// Assuming you have described your network as a [Topology] — forwarding
// nodes, their ports, the edges connecting them, and a set of periodic
// [Stream]s — you can construct a [Calculator] and call [Calculator.Run]
// to obtain, for every stream, a best-case and worst-case cumulative delay
// at each hop along its shortest forwarding path.
//
// Ports may combine strict-priority scheduling (SP), frame preemption
// (FP), and IEEE 802.1Qbv time-aware shaping (TAS, configured through a
// gate control list). The [Calculator] walks each stream's path exactly
// once per pass and alternates between propagating delay windows and
// reinflating the effective per-node frame budget from observed arrival
// jitter, for a fixed two reinflation passes followed by a final
// propagation; it does not test the bandwidth table for convergence.
//
// Use [FromJSON] to load a topology description, and
// [Calculator.ExportJSON] to serialize the resulting per-stream,
// per-port statistics.
package tsnjitter
