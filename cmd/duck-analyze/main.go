package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charlesvestal/move-anything-ducker/analysis"
	"github.com/charlesvestal/move-anything-ducker/ducker"
	"github.com/charlesvestal/move-anything-ducker/internal/fitcommon"
)

func main() {
	inputPath := flag.String("input", "", "WAV file to analyze (required)")
	reference := flag.String("reference", "", "Optional second WAV to compare gain traces against")
	jsonOut := flag.String("json", "", "Optional path to write the measurements as JSON")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: duck-analyze -input ducked.wav [-reference other.wav] [-json report.json]")
		os.Exit(2)
	}

	trace, err := loadTrace(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", *inputPath, err)
		os.Exit(1)
	}

	stats := analysis.MeasureDuck(trace, analysis.TraceRate(ducker.SampleRate, analysis.TraceHop))
	if stats.MaxDepth == 0 {
		fmt.Printf("%s: no ducking detected\n", *inputPath)
	} else {
		fmt.Printf("%s:\n", *inputPath)
		fmt.Printf("  depth:   %.3f\n", stats.MaxDepth)
		fmt.Printf("  attack:  %.1f ms\n", stats.AttackMs)
		fmt.Printf("  release: %.1f ms\n", stats.ReleaseMs)
		if stats.PumpHz > 0 {
			fmt.Printf("  pump:    %.2f Hz\n", stats.PumpHz)
		}
	}

	report := struct {
		Input   string            `json:"input"`
		Stats   analysis.DuckStats `json:"stats"`
		Compare *analysis.Metrics  `json:"compare,omitempty"`
	}{Input: *inputPath, Stats: stats}

	if *reference != "" {
		refTrace, err := loadTrace(*reference)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", *reference, err)
			os.Exit(1)
		}
		m := analysis.Compare(refTrace, trace)
		report.Compare = &m
		fmt.Printf("  vs %s: rmse=%.4f score=%.4f similarity=%.1f%%\n",
			*reference, m.RMSE, m.Score, m.Similarity*100.0)
	}

	if *jsonOut != "" {
		b, err := json.MarshalIndent(report, "", "  ")
		if err == nil {
			err = os.WriteFile(*jsonOut, append(b, '\n'), 0o644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *jsonOut)
	}
}

func loadTrace(path string) ([]float64, error) {
	mono, rate, err := fitcommon.ReadWAVMono(path)
	if err != nil {
		return nil, err
	}
	mono, err = fitcommon.ResampleIfNeeded(mono, rate, ducker.SampleRate)
	if err != nil {
		return nil, err
	}
	return analysis.GainTrace(mono, analysis.TraceFrame, analysis.TraceHop), nil
}
