package main

//
// Scenario reports
//
// Table layout follows the three scenarios of the reference model's
// print_results: arrival_window lists the per-hop delay window of every
// stream, congestion additionally surfaces tx-port resource utilization,
// and inefficient_trans sorts streams by worst-case delay descending to
// surface the frames whose transmission is least efficient.
//

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/tsnjitter/tsnjitter"
)

func printScenario(w io.Writer, scenario string, topo *tsnjitter.Topology, calc *tsnjitter.Calculator) {
	streams := topo.Streams()

	switch scenario {
	case "arrival_window":
		printArrivalWindow(w, streams, calc)
	case "congestion":
		printCongestion(w, streams, calc)
	case "inefficient_trans":
		printInefficientTransmission(w, streams, calc)
	}
}

func printArrivalWindow(w io.Writer, streams []*tsnjitter.Stream, calc *tsnjitter.Calculator) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Stream", "Node", "Port", "Direction", "Best Case (ns)", "Worst Case (ns)"})
	for _, s := range streams {
		for _, ps := range calc.PerPortStatistics(s.Name) {
			table.Append([]string{
				s.Name, ps.Node, ps.Port, ps.Direction,
				fmt.Sprintf("%d", ps.BestCaseDelay),
				fmt.Sprintf("%d", ps.WorstCaseDelay),
			})
		}
	}
	table.Render()
}

func printCongestion(w io.Writer, streams []*tsnjitter.Stream, calc *tsnjitter.Calculator) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Stream", "Node", "Port", "Worst Case (ns)", "Utilization"})
	for _, s := range streams {
		for _, ps := range calc.PerPortStatistics(s.Name) {
			if ps.Direction != "tx" {
				continue
			}
			table.Append([]string{
				s.Name, ps.Node, ps.Port,
				fmt.Sprintf("%d", ps.WorstCaseDelay),
				fmt.Sprintf("%.4f", ps.ResourceUtilization),
			})
		}
	}
	table.Render()
}

func printInefficientTransmission(w io.Writer, streams []*tsnjitter.Stream, calc *tsnjitter.Calculator) {
	type row struct {
		name      string
		bestCase  int64
		worstCase int64
	}
	var rows []row
	for _, s := range streams {
		rows = append(rows, row{
			name:      s.Name,
			bestCase:  calc.SummarizedBestCase(s.Name),
			worstCase: calc.SummarizedWorstCase(s.Name),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].worstCase > rows[j].worstCase
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Stream", "Summarized Best Case (ns)", "Summarized Worst Case (ns)"})
	for _, r := range rows {
		table.Append([]string{r.name, fmt.Sprintf("%d", r.bestCase), fmt.Sprintf("%d", r.worstCase)})
	}
	table.Render()
}
