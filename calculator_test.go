package tsnjitter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestCalculatorRun(t *testing.T) {
	t.Run("a stream with no path between sender and receiver fails fast", func(t *testing.T) {
		topo := NewTopology("broken")
		if err := topo.AddNode(&Node{Name: "talker"}); err != nil {
			t.Fatal(err)
		}
		if err := topo.AddNode(&Node{Name: "listener"}); err != nil {
			t.Fatal(err)
		}
		if err := topo.AddStream(&Stream{Name: "s1", CycleTime: 1000, FrameSize: 10, Sender: "talker", Receiver: "listener"}); err != nil {
			t.Fatal(err)
		}
		calc := NewCalculator(topo, &StdLogger{})
		err := calc.Run()
		if !errors.Is(err, ErrNoPath) {
			t.Fatal("not the error we expected", err)
		}
	})

	t.Run("a nil logger defaults to a working logger", func(t *testing.T) {
		topo, _ := runChain(t, 500, 1_000_000, 6)
		calc := NewCalculator(topo, nil)
		if err := calc.Run(); err != nil {
			t.Fatal(err)
		}
	})
}

func TestCalculatorExportJSON(t *testing.T) {
	_, calc := runChain(t, 500, 1_000_000, 6)

	var buf bytes.Buffer
	if err := calc.ExportJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var doc resultsJSON
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Streams) != 1 {
		t.Fatalf("expected one stream in the export, got %d", len(doc.Streams))
	}
	if doc.Streams[0].Name != "s1" {
		t.Fatalf("unexpected stream name: %s", doc.Streams[0].Name)
	}
	if doc.Streams[0].SummarizedWorstCaseDelay < doc.Streams[0].SummarizedBestCaseDelay {
		t.Fatal("exported worst case must be at least the best case")
	}
	for _, p := range doc.Streams[0].DelaysPerPort {
		if p.Direction == "tx" && p.ResourceUtilization == nil {
			t.Fatalf("%s/%s: expected a utilization value on a tx-port entry", p.Node, p.Port)
		}
		if p.Direction == "rx" && p.ResourceUtilization != nil {
			t.Fatalf("%s/%s: did not expect a utilization value on a rx-port entry", p.Node, p.Port)
		}
	}
}

func TestCalculatorPerPortStatisticsUnknownStream(t *testing.T) {
	_, calc := runChain(t, 500, 1_000_000, 6)
	if got := calc.PerPortStatistics("ghost"); got != nil {
		t.Fatalf("expected nil for an unanalyzed stream, got %v", got)
	}
}

func TestMustNewTopologyFromJSONPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on malformed JSON")
		}
	}()
	MustNewTopologyFromJSON(strings.NewReader("{not json"))
}
