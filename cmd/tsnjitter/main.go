// Command tsnjitter analyzes per-hop forwarding delay, jitter, and
// egress-port utilization for time-sensitive streams on a switched
// network described as a topology JSON document.
package main

import (
	"fmt"
	"os"

	"github.com/apex/log"
	apexcli "github.com/apex/log/handlers/cli"
	flag "github.com/spf13/pflag"

	"github.com/tsnjitter/tsnjitter"
	"github.com/tsnjitter/tsnjitter/cmd/internal/optional"
)

func init() {
	log.SetHandler(apexcli.Default)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "execute":
		runExecute(os.Args[2:])
	case "evaluate":
		runEvaluate(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "tsnjitter: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  tsnjitter execute <scenario> <topology.json> [<output.json>]")
	fmt.Fprintln(os.Stderr, "  tsnjitter evaluate <dataset.jsonl>")
	fmt.Fprintln(os.Stderr, "scenarios: arrival_window, congestion, inefficient_trans")
}

var allowedScenarios = map[string]bool{
	"arrival_window":    true,
	"congestion":        true,
	"inefficient_trans": true,
}

func runExecute(args []string) {
	fs := flag.NewFlagSet("execute", flag.ExitOnError)
	verbose := fs.BoolP("verbose", "v", false, "emit debug-level logging")
	if err := fs.Parse(args); err != nil {
		log.WithError(err).Fatal("tsnjitter: cannot parse flags")
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	rest := fs.Args()
	if len(rest) < 2 {
		usage()
		os.Exit(1)
	}
	scenario, topologyPath := rest[0], rest[1]
	outputPath := optional.None[string]()
	if len(rest) >= 3 {
		outputPath = optional.Some(rest[2])
	}

	if !allowedScenarios[scenario] {
		log.Fatalf("tsnjitter: unknown scenario %q", scenario)
	}

	f, err := os.Open(topologyPath)
	if err != nil {
		log.WithError(err).Fatal("tsnjitter: cannot open topology")
	}
	defer f.Close()

	topo, err := tsnjitter.FromJSON(f)
	if err != nil {
		log.WithError(err).Fatal("tsnjitter: cannot parse topology")
	}

	calc := tsnjitter.NewCalculator(topo, &tsnjitter.StdLogger{})
	if err := calc.Run(); err != nil {
		log.WithError(err).Fatal("tsnjitter: analysis failed")
	}

	printScenario(os.Stdout, scenario, topo, calc)

	if !outputPath.Empty() {
		out, err := os.Create(outputPath.Unwrap())
		if err != nil {
			log.WithError(err).Fatal("tsnjitter: cannot create output file")
		}
		defer out.Close()
		if err := calc.ExportJSON(out); err != nil {
			log.WithError(err).Fatal("tsnjitter: cannot write results")
		}
	}
}

func runEvaluate(args []string) {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		log.WithError(err).Fatal("tsnjitter: cannot parse flags")
	}
	rest := fs.Args()
	if len(rest) < 1 {
		usage()
		os.Exit(1)
	}
	if err := runDataset(rest[0]); err != nil {
		log.WithError(err).Fatal("tsnjitter: evaluation failed")
	}
}
