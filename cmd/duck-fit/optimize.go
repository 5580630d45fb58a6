package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlesvestal/move-anything-ducker/analysis"
	"github.com/charlesvestal/move-anything-ducker/ducker"
	"github.com/cwbudde/mayfly"
)

type knobDef struct {
	Name  string
	Min   float64
	Max   float64
	IsInt bool
}

// The five fitted knobs. Depth, attack, hold and release are the normalized
// parameter fractions; curve indexes Linear..Pump.
var fitKnobs = []knobDef{
	{Name: "depth", Min: 0, Max: 1},
	{Name: "attack", Min: 0, Max: 1},
	{Name: "hold", Min: 0, Max: 1},
	{Name: "release", Min: 0, Max: 1},
	{Name: "curve", Min: 0, Max: 3, IsInt: true},
}

type candidate struct {
	Vals []float64
}

type optimizationConfig struct {
	referenceTrace []float64
	mode           ducker.Mode
	bpm            float64
	gateMs         float64
	maxEvals       int
	timeBudget     float64
	pop            int
	variant        string
	seed           int64
	workers        int
}

type optimizationResult struct {
	params  *ducker.Params
	metrics analysis.Metrics
	evals   int
	elapsed float64
}

type optimizationState struct {
	mu          sync.Mutex
	best        candidate
	bestMetrics analysis.Metrics
}

// roundEvals bounds how many objective evaluations a single mayfly round may
// spend before a fresh round reseeds the population.
const roundEvals = 400

func runOptimization(cfg *optimizationConfig) (*optimizationResult, error) {
	framesPerBeat := int(math.Round(60.0 / cfg.bpm * float64(ducker.SampleRate)))
	if framesPerBeat < 1 {
		framesPerBeat = 1
	}
	gateFrames := int(math.Round(cfg.gateMs / 1000.0 * float64(ducker.SampleRate)))
	if gateFrames < 1 {
		gateFrames = 1
	}

	evaluate := func(c candidate) analysis.Metrics {
		p := candidateParams(cfg.mode, c)
		trace := simulateTrace(p, len(cfg.referenceTrace), framesPerBeat, gateFrames)
		return analysis.Compare(cfg.referenceTrace, trace)
	}

	start := time.Now()
	deadline := start.Add(time.Duration(cfg.timeBudget * float64(time.Second)))
	variant := strings.ToLower(cfg.variant)

	best := candidate{Vals: []float64{0.8, 0.1, 0.2, 0.3, 0}}
	bestM := evaluate(best)
	fmt.Printf("Start score=%.4f similarity=%.2f%%\n", bestM.Score, bestM.Similarity*100.0)

	state := &optimizationState{
		best:        best,
		bestMetrics: bestM,
	}
	var evals int64 = 1
	var rounds int64
	var improves int64

	workers := cfg.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if time.Now().After(deadline) {
					return
				}
				if atomic.LoadInt64(&evals) >= int64(cfg.maxEvals) {
					return
				}

				round := int(atomic.AddInt64(&rounds, 1))
				remaining := cfg.maxEvals - int(atomic.LoadInt64(&evals))
				if remaining <= 0 {
					return
				}
				budget := roundEvals
				if remaining < budget {
					budget = remaining
				}
				iters := budget / (2 * cfg.pop)
				if iters < 1 {
					iters = 1
				}

				mayflyConfig, err := newMayflyConfig(variant, cfg.pop, len(fitKnobs), iters)
				if err != nil {
					fmt.Fprintf(os.Stderr, "mayfly round %d setup failed: %v\n", round, err)
					return
				}
				mayflyConfig.Rand = rand.New(rand.NewSource(cfg.seed + int64(round)*7919))
				mayflyConfig.ObjectiveFunc = func(pos []float64) float64 {
					if time.Now().After(deadline) {
						return currentBestScore(state) + 1.0
					}
					evalNum, ok := reserveEval(&evals, cfg.maxEvals)
					if !ok {
						return currentBestScore(state) + 1.0
					}

					cand := fromNormalized(pos)
					m := evaluate(cand)

					state.mu.Lock()
					if m.Score < state.bestMetrics.Score {
						state.best = cloneCandidate(cand)
						state.bestMetrics = m
						improveNum := atomic.AddInt64(&improves, 1)
						fmt.Printf("Improved #%d eval=%d score=%.4f sim=%.2f%%\n",
							improveNum, evalNum, m.Score, m.Similarity*100.0)
					}
					state.mu.Unlock()
					return m.Score
				}

				if _, err := runMayfly(mayflyConfig); err != nil {
					fmt.Fprintf(os.Stderr, "mayfly round %d failed: %v\n", round, err)
				}
			}
		}()
	}
	wg.Wait()

	state.mu.Lock()
	finalBest := cloneCandidate(state.best)
	finalMetrics := state.bestMetrics
	state.mu.Unlock()

	return &optimizationResult{
		params:  candidateParams(cfg.mode, finalBest),
		metrics: finalMetrics,
		evals:   int(atomic.LoadInt64(&evals)),
		elapsed: time.Since(start).Seconds(),
	}, nil
}

// simulateTrace renders the envelope gain for a periodic trigger schedule and
// reduces it to the same windowed trace the reference was reduced to.
func simulateTrace(p *ducker.Params, points, framesPerBeat, gateFrames int) []float64 {
	frames := points*analysis.TraceHop + analysis.TraceFrame
	env := ducker.NewEnvelopeEngine()
	gain := make([]float64, frames)
	for i := 0; i < frames; i++ {
		if i%framesPerBeat == 0 {
			env.Trigger(100, p)
		}
		if i >= gateFrames && (i-gateFrames)%framesPerBeat == 0 {
			env.Release(p)
		}
		gain[i] = float64(env.Advance(p))
	}
	return analysis.GainTrace(gain, analysis.TraceFrame, analysis.TraceHop)
}

func candidateParams(mode ducker.Mode, c candidate) *ducker.Params {
	p := ducker.NewDefaultParams()
	p.Mode = mode
	p.Depth = float32(c.Vals[0])
	p.Attack = float32(c.Vals[1])
	p.Hold = float32(c.Vals[2])
	p.Release = float32(c.Vals[3])
	p.Curve = ducker.Curve(int(c.Vals[4]))
	return p
}

func fromNormalized(pos []float64) candidate {
	vals := make([]float64, len(fitKnobs))
	for i := range fitKnobs {
		x := 0.0
		if i < len(pos) {
			x = math.Min(math.Max(pos[i], 0), 1)
		}
		v := fitKnobs[i].Min + x*(fitKnobs[i].Max-fitKnobs[i].Min)
		if fitKnobs[i].IsInt {
			v = math.Round(v)
		}
		vals[i] = v
	}
	return candidate{Vals: vals}
}

func reserveEval(evals *int64, maxEvals int) (int64, bool) {
	for {
		cur := atomic.LoadInt64(evals)
		if cur >= int64(maxEvals) {
			return 0, false
		}
		if atomic.CompareAndSwapInt64(evals, cur, cur+1) {
			return cur + 1, true
		}
	}
}

func currentBestScore(state *optimizationState) float64 {
	state.mu.Lock()
	score := state.bestMetrics.Score
	state.mu.Unlock()
	return score
}

func cloneCandidate(c candidate) candidate {
	vals := make([]float64, len(c.Vals))
	copy(vals, c.Vals)
	return candidate{Vals: vals}
}

func newMayflyConfig(variant string, pop int, dims int, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	// Mayfly's implementation assumes NC/2 parent pairs are available from both
	// male and female populations.
	cfg.NC = 2 * pop
	// Keep at least one mutation to avoid stalling on small populations.
	cfg.NM = int(math.Round(0.05 * float64(pop)))
	if cfg.NM < 1 {
		cfg.NM = 1
	}
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}
