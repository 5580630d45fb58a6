// Package analysis extracts and compares ducking gain traces from
// audio recordings: how deep the envelope ducks, how fast it moves,
// and how well a candidate envelope matches a reference one.
package analysis

import (
	"math"
)

// Default framing for gain-trace extraction.
const (
	TraceFrame = 256
	TraceHop   = 128
)

// GainTrace extracts a smoothed amplitude envelope from a mono signal
// and normalizes it so the loudest point maps to gain 1.0. For a
// recording of a ducked constant-level program, the result tracks the
// envelope gain over time, one point per hop samples.
func GainTrace(signal []float64, frame int, hop int) []float64 {
	env := rmsEnvelope(signal, frame, hop)
	if len(env) == 0 {
		return nil
	}
	peak := 0.0
	for _, v := range env {
		if v > peak {
			peak = v
		}
	}
	if peak <= 1e-12 {
		return make([]float64, len(env))
	}
	out := make([]float64, len(env))
	for i, v := range env {
		out[i] = v / peak
	}
	return out
}

// Metrics contains distance measurements between two gain traces.
type Metrics struct {
	ReferencePoints int `json:"reference_points"`
	CandidatePoints int `json:"candidate_points"`
	AlignedPoints   int `json:"aligned_points"`
	LagPoints       int `json:"lag_points"`

	RMSE         float64 `json:"rmse"`
	MaxDepthDiff float64 `json:"max_depth_diff"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

// Compare aligns two gain traces by best cross-correlation lag and
// returns distance metrics with a combined score in [0,1] (0 = equal).
func Compare(reference []float64, candidate []float64) Metrics {
	m := Metrics{
		ReferencePoints: len(reference),
		CandidatePoints: len(candidate),
	}
	if len(reference) == 0 || len(candidate) == 0 {
		m.Score = 1.0
		return m
	}

	maxLag := len(reference) / 4
	if maxLag > len(candidate)/4 {
		maxLag = len(candidate) / 4
	}
	if maxLag < 1 {
		maxLag = 1
	}
	lag := estimateLag(reference, candidate, maxLag)
	m.LagPoints = lag

	refA, candA := alignByLag(reference, candidate, lag)
	n := len(refA)
	if len(candA) < n {
		n = len(candA)
	}
	if n == 0 {
		m.Score = 1.0
		return m
	}
	refA = refA[:n]
	candA = candA[:n]
	m.AlignedPoints = n

	m.RMSE = rmse(refA, candA)
	m.MaxDepthDiff = math.Abs(maxDepth(refA) - maxDepth(candA))

	// Traces live in [0,1], so the RMSE already sits on a usable scale.
	m.Score = clamp01(0.8*clamp01(m.RMSE/0.5) + 0.2*clamp01(m.MaxDepthDiff))
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))

	return m
}

// DuckStats summarizes a single ducking dip in a gain trace.
type DuckStats struct {
	MaxDepth  float64 `json:"max_depth"`  // 1 - lowest gain
	AttackMs  float64 `json:"attack_ms"`  // time from duck onset to full depth
	ReleaseMs float64 `json:"release_ms"` // time from depth floor back to recovery
	PumpHz    float64 `json:"pump_hz"`    // dominant modulation rate, 0 if none
}

// MeasureDuck measures depth and timing of the first ducking dip in a
// gain trace. traceRate is the trace's points-per-second rate (sample
// rate divided by hop). Depths below 5% are reported as no duck.
func MeasureDuck(trace []float64, traceRate float64) DuckStats {
	var s DuckStats
	if len(trace) == 0 || traceRate <= 0 {
		return s
	}

	depth := maxDepth(trace)
	if depth < 0.05 {
		return s
	}
	s.MaxDepth = depth

	floor := 1.0 - depth
	onset := 1.0 - 0.1*depth  // trace has left unity
	bottom := floor + 0.1*depth // trace has reached the depth floor

	pointMs := 1000.0 / traceRate

	start := -1
	reached := -1
	for i, v := range trace {
		if start < 0 && v < onset {
			start = i
		}
		if start >= 0 && v <= bottom {
			reached = i
			break
		}
	}
	if start >= 0 && reached >= start {
		s.AttackMs = float64(reached-start) * pointMs
	}

	if reached >= 0 {
		last := reached
		for i := reached; i < len(trace); i++ {
			if trace[i] <= bottom {
				last = i
			}
			if trace[i] > onset {
				break
			}
		}
		for i := last; i < len(trace); i++ {
			if trace[i] > onset {
				s.ReleaseMs = float64(i-last) * pointMs
				break
			}
		}
	}

	s.PumpHz = PumpRate(trace, traceRate)
	return s
}

func maxDepth(trace []float64) float64 {
	low := 1.0
	for _, v := range trace {
		if v < low {
			low = v
		}
	}
	return clamp01(1.0 - low)
}

func estimateLag(ref []float64, cand []float64, maxLag int) int {
	if len(ref) == 0 || len(cand) == 0 {
		return 0
	}
	bestLag := 0
	best := math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		s := dotAtLag(ref, cand, lag)
		if s > best {
			best = s
			bestLag = lag
		}
	}
	return bestLag
}

func dotAtLag(a []float64, b []float64, lag int) float64 {
	var ai, bi int
	if lag >= 0 {
		ai = lag
	} else {
		bi = -lag
	}
	n := len(a) - ai
	if len(b)-bi < n {
		n = len(b) - bi
	}
	if n <= 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		// Correlate the duck shape, not the shared unity baseline.
		sum += (a[ai+i] - 1.0) * (b[bi+i] - 1.0)
	}
	return sum
}

func alignByLag(ref []float64, cand []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		if lag >= len(ref) {
			return nil, nil
		}
		return ref[lag:], cand
	}
	o := -lag
	if o >= len(cand) {
		return nil, nil
	}
	return ref, cand[o:]
}

func rmse(a []float64, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

func rms1(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func rmsEnvelope(x []float64, frame int, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = rms1(x[start : start+frame])
	}
	return out
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
