package analysis

import (
	"math"
	"testing"
)

func TestPumpRateDetectsModulationFrequency(t *testing.T) {
	rate := TraceRate(44100, TraceHop)
	const n = 512
	const bin = 8
	freq := float64(bin) * rate / float64(n)

	trace := make([]float64, n)
	for i := range trace {
		trace[i] = 1.0 - 0.4*(0.5-0.5*math.Cos(2.0*math.Pi*freq*float64(i)/rate))
	}

	got := PumpRate(trace, rate)
	if math.Abs(got-freq) > rate/float64(n) {
		t.Fatalf("expected pump rate near %.3fHz, got %.3fHz", freq, got)
	}
}

func TestPumpRateFlatTraceReturnsZero(t *testing.T) {
	trace := make([]float64, 512)
	for i := range trace {
		trace[i] = 1.0
	}
	if got := PumpRate(trace, TraceRate(44100, TraceHop)); got != 0 {
		t.Fatalf("expected no pump in flat trace, got %fHz", got)
	}
}

func TestPumpRateShortTraceReturnsZero(t *testing.T) {
	if got := PumpRate(make([]float64, 8), 344.5); got != 0 {
		t.Fatalf("expected zero for short trace, got %f", got)
	}
}

func TestTraceRate(t *testing.T) {
	if got := TraceRate(44100, 128); math.Abs(got-344.53125) > 1e-9 {
		t.Fatalf("expected 344.53125, got %f", got)
	}
	if got := TraceRate(0, 128); got != 0 {
		t.Fatalf("expected 0 for invalid sample rate, got %f", got)
	}
	if got := TraceRate(44100, 0); got != 0 {
		t.Fatalf("expected 0 for invalid hop, got %f", got)
	}
}
