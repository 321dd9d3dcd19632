package main

//
// evaluate: dataset-driven empirical evaluation harness
//
// Mirrors execute_latency_jitter_model_conext_eval from the reference
// model: for each case, run the full analysis and flag it as an error
// when the analyzer fails to bound the measured delay while the port is
// not already saturated.
//

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/montanaflynn/stats"

	"github.com/tsnjitter/tsnjitter"
)

// datasetCase is one line of a dataset.jsonl file.
type datasetCase struct {
	Setting              string          `json:"setting"`
	Topology             json.RawMessage `json:"topology"`
	MeasuredBestCaseUs   float64         `json:"measuredBestCaseUs"`
	MeasuredWorstCaseUs  float64         `json:"measuredWorstCaseUs"`
	PrimaryStream        string          `json:"primaryStream"`
}

func runDataset(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var bestErrors, worstErrors []float64
	var errorCount, total int

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var dc datasetCase
		if err := json.Unmarshal([]byte(line), &dc); err != nil {
			return fmt.Errorf("tsnjitter: malformed dataset line: %w", err)
		}

		topo, err := tsnjitter.FromJSON(strings.NewReader(string(dc.Topology)))
		if err != nil {
			log.WithError(err).Warnf("tsnjitter: skipping case %q: bad topology", dc.Setting)
			continue
		}

		calc := tsnjitter.NewCalculator(topo, &tsnjitter.StdLogger{})
		if err := calc.Run(); err != nil {
			log.WithError(err).Warnf("tsnjitter: skipping case %q: analysis failed", dc.Setting)
			continue
		}

		streamName := dc.PrimaryStream
		if streamName == "" {
			streams := topo.Streams()
			if len(streams) == 0 {
				continue
			}
			streamName = streams[0].Name
		}

		predictedBestUs := float64(calc.SummarizedBestCase(streamName)) / 1000.0
		predictedWorstUs := float64(calc.SummarizedWorstCase(streamName)) / 1000.0
		utilization := calc.MaxUtilization()

		total++
		isError := (predictedBestUs > dc.MeasuredBestCaseUs || predictedWorstUs < dc.MeasuredWorstCaseUs) && utilization < 1.0
		status := "ok"
		if isError {
			errorCount++
			status = "ERROR"
		}

		fmt.Printf("%-20s predicted=[%.3f, %.3f]us measured=[%.3f, %.3f]us util=%.4f %s\n",
			dc.Setting, predictedBestUs, predictedWorstUs,
			dc.MeasuredBestCaseUs, dc.MeasuredWorstCaseUs, utilization, status)

		bestErrors = append(bestErrors, relativeError(predictedBestUs, dc.MeasuredBestCaseUs))
		worstErrors = append(worstErrors, relativeError(predictedWorstUs, dc.MeasuredWorstCaseUs))
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	bestMean, _ := stats.Mean(bestErrors)
	worstMean, _ := stats.Mean(worstErrors)
	bestP95, _ := stats.Percentile(bestErrors, 95)
	worstP95, _ := stats.Percentile(worstErrors, 95)

	fmt.Printf("\n%d/%d cases failed to bound the measurement\n", errorCount, total)
	fmt.Printf("best-case relative error: mean=%.4f p95=%.4f\n", bestMean, bestP95)
	fmt.Printf("worst-case relative error: mean=%.4f p95=%.4f\n", worstMean, worstP95)
	return nil
}

func relativeError(predicted, measured float64) float64 {
	if measured == 0 {
		return 0
	}
	return (predicted - measured) / measured
}
