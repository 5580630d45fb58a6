package analysis

import (
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// PumpRate estimates the dominant modulation rate of a gain trace in
// Hz. traceRate is the trace's points-per-second rate. Returns 0 when
// the trace carries no meaningful modulation.
func PumpRate(trace []float64, traceRate float64) float64 {
	if len(trace) < 16 || traceRate <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range trace {
		mean += v
	}
	mean /= float64(len(trace))

	fftSize := 256
	for fftSize < len(trace) {
		fftSize *= 2
	}

	buf := make([]float64, fftSize)
	for i, v := range trace {
		buf[i] = v - mean
	}

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return 0
	}
	spec := make([]complex128, fftSize/2+1)
	plan.Forward(spec, buf)

	nBins := fftSize / 2
	bestBin := 0
	bestMag := 0.0
	var total float64
	for k := 1; k < nBins; k++ {
		mag := cmplx.Abs(spec[k])
		total += mag
		if mag > bestMag {
			bestMag = mag
			bestBin = k
		}
	}
	if bestBin == 0 || total <= 0 {
		return 0
	}
	// A flat trace spreads energy thinly; require a clear peak.
	if bestMag < 4.0*total/float64(nBins) {
		return 0
	}

	return float64(bestBin) * traceRate / float64(fftSize)
}

// TraceRate returns the points-per-second rate of a gain trace
// extracted with the given hop at the given audio sample rate.
func TraceRate(sampleRate int, hop int) float64 {
	if sampleRate <= 0 || hop <= 0 {
		return 0
	}
	return float64(sampleRate) / float64(hop)
}
