package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charlesvestal/move-anything-ducker/analysis"
	"github.com/charlesvestal/move-anything-ducker/ducker"
	"github.com/charlesvestal/move-anything-ducker/internal/fitcommon"
	"github.com/charlesvestal/move-anything-ducker/preset"
)

func main() {
	referencePath := flag.String("reference", "", "Reference WAV of ducked program material (required)")
	bpm := flag.Float64("bpm", 120, "Trigger tempo of the reference: one trigger per beat")
	gateMs := flag.Float64("gate-ms", 120, "Trigger note length in ms (shapes gate mode)")
	modeName := flag.String("mode", "Trigger", "Envelope mode to fit: Trigger or Gate")
	outputPreset := flag.String("output", "fitted.json", "Output preset JSON path")
	maxEvals := flag.Int("max-evals", 4000, "Maximum objective evaluations")
	timeBudget := flag.Float64("time-budget", 60, "Time budget in seconds")
	pop := flag.Int("pop", 12, "Mayfly population size")
	variant := flag.String("variant", "desma", "Mayfly variant: ma, desma, olce, eobbma, gsasma, mpma, aoblmoa")
	seed := flag.Int64("seed", 1, "Random seed")
	workersFlag := flag.String("workers", "auto", "Parallel fitting workers (integer or 'auto')")
	flag.Parse()

	if *referencePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: duck-fit -reference ducked.wav [-bpm 120] [-mode Trigger] [-output fitted.json]")
		os.Exit(2)
	}
	mode, err := ducker.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	workers, err := fitcommon.ParseWorkers(*workersFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -workers: %v\n", err)
		os.Exit(2)
	}
	if *bpm <= 0 {
		fmt.Fprintln(os.Stderr, "Error: bpm must be > 0")
		os.Exit(2)
	}

	mono, rate, err := fitcommon.ReadWAVMono(*referencePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading reference %q: %v\n", *referencePath, err)
		os.Exit(1)
	}
	mono, err = fitcommon.ResampleIfNeeded(mono, rate, ducker.SampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resampling reference: %v\n", err)
		os.Exit(1)
	}
	refTrace := analysis.GainTrace(mono, analysis.TraceFrame, analysis.TraceHop)
	if len(refTrace) == 0 {
		fmt.Fprintln(os.Stderr, "Error: reference too short to extract a gain trace")
		os.Exit(1)
	}

	fmt.Printf("Fitting %s-mode envelope to %s (%d trace points, %.1f bpm)...\n",
		mode, *referencePath, len(refTrace), *bpm)

	result, err := runOptimization(&optimizationConfig{
		referenceTrace: refTrace,
		mode:           mode,
		bpm:            *bpm,
		gateMs:         *gateMs,
		maxEvals:       *maxEvals,
		timeBudget:     *timeBudget,
		pop:            *pop,
		variant:        *variant,
		seed:           *seed,
		workers:        workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: optimization failed: %v\n", err)
		os.Exit(1)
	}

	params := result.params
	params.Mode = mode
	if err := preset.SaveJSON(*outputPreset, params); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing preset %q: %v\n", *outputPreset, err)
		os.Exit(1)
	}

	fmt.Printf("Best after %d evals (%.1fs): score=%.4f similarity=%.1f%%\n",
		result.evals, result.elapsed, result.metrics.Score, result.metrics.Similarity*100.0)
	fmt.Printf("  depth=%.3f attack=%.3f hold=%.3f release=%.3f curve=%s\n",
		params.Depth, params.Attack, params.Hold, params.Release, params.Curve)
	fmt.Printf("Wrote %s\n", *outputPreset)
}
