package tsnjitter

import (
	"strings"
	"testing"
)

// twoSwitchChainJSON builds talker -> sw1 -> sw2 -> listener with every
// attribute left at its default: 1000 Mbit/s links, 1522-byte max frame,
// no gates, no frame preemption, no declared sync domains.
func twoSwitchChainJSON(frameSize, cycleTime, priority int) string {
	return `{
		"name": "chain",
		"nodes": [
			{"name": "talker", "ports": [{"name": "eth0"}]},
			{"name": "sw1", "ports": [{"name": "pIn"}, {"name": "pOut"}]},
			{"name": "sw2", "ports": [{"name": "pIn"}, {"name": "pOut"}]},
			{"name": "listener", "ports": [{"name": "eth0"}]}
		],
		"edges": [
			{"port1": ["talker", "eth0"], "port2": ["sw1", "pIn"]},
			{"port1": ["sw1", "pOut"], "port2": ["sw2", "pIn"]},
			{"port1": ["sw2", "pOut"], "port2": ["listener", "eth0"]}
		],
		"streams": [
			{"name": "s1", "cycleTime": ` + itoa(cycleTime) + `, "frameSize": ` + itoa(frameSize) + `, "sender": "talker", "receiver": "listener", "priority": ` + itoa(priority) + `}
		]
	}`
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var b []byte
	for v > 0 {
		b = append([]byte{byte('0' + v%10)}, b...)
		v /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

func runChain(t *testing.T, frameSize, cycleTime, priority int) (*Topology, *Calculator) {
	t.Helper()
	topo := MustNewTopologyFromJSON(strings.NewReader(twoSwitchChainJSON(frameSize, cycleTime, priority)))
	calc := NewCalculator(topo, &StdLogger{})
	if err := calc.Run(); err != nil {
		t.Fatal(err)
	}
	return topo, calc
}

func TestDelayPropagatorTrivialChain(t *testing.T) {
	// Scenario: two switches, 1 Gbit/s links, no gates, no FP, one stream
	// (priority 6, frame 500B, cycle 1 ms, offset 0).
	_, calc := runChain(t, 500, 1_000_000, 6)

	stats := calc.PerPortStatistics("s1")
	if len(stats) == 0 {
		t.Fatal("expected per-port statistics")
	}

	var sw1Tx *PortStatistic
	for i := range stats {
		if stats[i].Node == "sw1" && stats[i].Direction == "tx" {
			sw1Tx = &stats[i]
		}
	}
	if sw1Tx == nil {
		t.Fatal("expected a tx-port entry for sw1")
	}

	// The statistic is cumulative: the talker hop's d_trans (4160), then
	// sw1's per-hop worst of d_trans + (dproc+jproc) + d_blck.
	const wantWorst = 4160 + (4160 + 1100 + 12336)
	if sw1Tx.WorstCaseDelay != wantWorst {
		t.Fatalf("sw1 tx worst-case delay = %d, want %d", sw1Tx.WorstCaseDelay, wantWorst)
	}
}

func TestDelayPropagatorInvariants(t *testing.T) {
	_, calc := runChain(t, 500, 1_000_000, 6)
	stats := calc.PerPortStatistics("s1")

	t.Run("best case never exceeds worst case", func(t *testing.T) {
		for _, ps := range stats {
			if ps.BestCaseDelay > ps.WorstCaseDelay {
				t.Fatalf("%s/%s: best %d > worst %d", ps.Node, ps.Port, ps.BestCaseDelay, ps.WorstCaseDelay)
			}
		}
	})

	t.Run("summarized worst case is at least the summarized best case", func(t *testing.T) {
		bc := calc.SummarizedBestCase("s1")
		wc := calc.SummarizedWorstCase("s1")
		if wc < bc || bc < 0 {
			t.Fatalf("summarized best=%d worst=%d violates ordering", bc, wc)
		}
	})

	t.Run("the talker-adjacent hop carries no blocking or interference", func(t *testing.T) {
		// With a single stream on the path, every hop's interference is
		// zero; isolate the talker-adjacent hop's blocking contribution by
		// checking that its worst case equals pure transmission delay.
		var talkerTx *PortStatistic
		for i := range stats {
			if stats[i].Node == "talker" && stats[i].Direction == "tx" {
				talkerTx = &stats[i]
			}
		}
		if talkerTx == nil {
			t.Fatal("expected a tx-port entry for the talker")
		}
		const dTrans = (500 + 20) * 8000 / 1000
		if talkerTx.WorstCaseDelay != dTrans {
			t.Fatalf("talker tx worst-case delay = %d, want %d (no blocking/interference at the talker)", talkerTx.WorstCaseDelay, dTrans)
		}
	})
}

func TestDelayPropagatorRegimeDUnsynchronizedSPFP(t *testing.T) {
	// Neither node declares a sync domain, so every hop past the talker
	// is unsynchronized with its ancestor and falls into Regime D. The
	// cumulative delay still advances hop by hop exactly as Regime C's.
	_, calc := runChain(t, 500, 1_000_000, 6)
	stats := calc.PerPortStatistics("s1")

	var sw2Tx *PortStatistic
	for i := range stats {
		if stats[i].Node == "sw2" && stats[i].Direction == "tx" {
			sw2Tx = &stats[i]
		}
	}
	if sw2Tx == nil {
		t.Fatal("expected a tx-port entry for sw2")
	}

	const perHop = 4160 + 1100 + 12336 // d_trans + (dproc+jproc) + d_blck, per switch hop
	const wantWorst = 4160 + 2*perHop  // talker hop's d_trans, then two switch hops
	if sw2Tx.WorstCaseDelay != wantWorst {
		t.Fatalf("sw2 tx worst-case delay = %d, want %d", sw2Tx.WorstCaseDelay, wantWorst)
	}
}

func regimeAJSON() string {
	return `{
		"name": "gated",
		"nodes": [
			{"name": "talker", "syncDomain": "dom1", "ports": [{"name": "eth0"}]},
			{"name": "sw1", "syncDomain": "dom1", "processingDelay": 0, "processingJitter": 0, "ports": [
				{"name": "pIn"},
				{"name": "pOut", "gcl": true, "gclCycle": 100000, "gclOffset": 10000, "gclOpen": 55000, "gclPriorities": [7]}
			]},
			{"name": "listener", "ports": [{"name": "eth0"}]}
		],
		"edges": [
			{"port1": ["talker", "eth0"], "port2": ["sw1", "pIn"]},
			{"port1": ["sw1", "pOut"], "port2": ["listener", "eth0"]}
		],
		"streams": [
			{"name": "s1", "cycleTime": 100000, "frameSize": 500, "offset": 20000, "sender": "talker", "receiver": "listener", "priority": 7}
		]
	}`
}

func TestDelayPropagatorRegimeASynchronizedGate(t *testing.T) {
	// Scenario: synchronized TAS gate, in-window arrival. The stream's
	// offset (20000) already lands inside the gate's open interval
	// (10000..65000), so both best and worst gate waits are zero and the
	// worst case only picks up transmission delay plus sync jitter.
	topo := MustNewTopologyFromJSON(strings.NewReader(regimeAJSON()))
	calc := NewCalculator(topo, &StdLogger{})
	if err := calc.Run(); err != nil {
		t.Fatal(err)
	}

	const wantBest = 8290
	const wantWorst = 8350
	if got := calc.SummarizedBestCase("s1"); got != wantBest {
		t.Fatalf("summarized best case = %d, want %d", got, wantBest)
	}
	if got := calc.SummarizedWorstCase("s1"); got != wantWorst {
		t.Fatalf("summarized worst case = %d, want %d", got, wantWorst)
	}
}

func regimeBJSON() string {
	return `{
		"name": "gated-unsync",
		"nodes": [
			{"name": "talker", "ports": [{"name": "eth0"}]},
			{"name": "sw1", "syncDomain": "dom1", "processingDelay": 0, "processingJitter": 0, "ports": [
				{"name": "pIn"},
				{"name": "pOut", "gcl": true, "gclCycle": 100000, "gclOffset": 0, "gclOpen": 30000, "gclPriorities": [7]}
			]},
			{"name": "listener", "ports": [{"name": "eth0"}]}
		],
		"edges": [
			{"port1": ["talker", "eth0"], "port2": ["sw1", "pIn"]},
			{"port1": ["sw1", "pOut"], "port2": ["listener", "eth0"]}
		],
		"streams": [
			{"name": "s1", "cycleTime": 100000, "frameSize": 500, "sender": "talker", "receiver": "listener", "priority": 7}
		]
	}`
}

func TestDelayPropagatorRegimeBUnsynchronizedGate(t *testing.T) {
	// Scenario: unsynchronized TAS. The talker carries no sync domain at
	// all, so the gated hop at sw1 cannot assume a definite upstream
	// phase and must fold the whole gate cycle into its worst case.
	topo := MustNewTopologyFromJSON(strings.NewReader(regimeBJSON()))
	calc := NewCalculator(topo, &StdLogger{})
	if err := calc.Run(); err != nil {
		t.Fatal(err)
	}

	const wantBest = 8320
	const wantWorst = 82480
	if got := calc.SummarizedBestCase("s1"); got != wantBest {
		t.Fatalf("summarized best case = %d, want %d", got, wantBest)
	}
	if got := calc.SummarizedWorstCase("s1"); got != wantWorst {
		t.Fatalf("summarized worst case = %d, want %d", got, wantWorst)
	}
}

func TestDelayPropagatorExpressFramePreemption(t *testing.T) {
	// Scenario: same topology, switch ports FP-enabled with
	// express_priorities=[7], stream priority=7.
	topo := MustNewTopologyFromJSON(strings.NewReader(twoSwitchChainJSON(500, 1_000_000, 7)))
	for _, name := range []string{"sw1", "sw2"} {
		port := topo.Port(name, "pOut")
		port.FramePreemption = true
		port.ExpressPriorities = []int{7}
	}

	calc := NewCalculator(topo, &StdLogger{})
	if err := calc.Run(); err != nil {
		t.Fatal(err)
	}

	stats := calc.PerPortStatistics("s1")
	var sw1Tx *PortStatistic
	for i := range stats {
		if stats[i].Node == "sw1" && stats[i].Direction == "tx" {
			sw1Tx = &stats[i]
		}
	}
	if sw1Tx == nil {
		t.Fatal("expected a tx-port entry for sw1")
	}

	const wantBlocking = 143 * 8000 / 1000 // 143-byte non-preemptable fragment
	// Cumulative: the talker hop's d_trans, then sw1's hop.
	const wantWorst = 4160 + (4160 + 1100 + wantBlocking)
	if sw1Tx.WorstCaseDelay != wantWorst {
		t.Fatalf("sw1 tx worst-case delay = %d, want %d", sw1Tx.WorstCaseDelay, wantWorst)
	}
}
