package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/charlesvestal/move-anything-ducker/analysis"
	"github.com/charlesvestal/move-anything-ducker/ducker"
	"github.com/charlesvestal/move-anything-ducker/internal/fitcommon"
	"github.com/charlesvestal/move-anything-ducker/preset"
	"github.com/cwbudde/algo-approx"
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	dspsignal "github.com/cwbudde/algo-dsp/dsp/signal"
)

func main() {
	presetPath := flag.String("preset", "", "Preset JSON file path (empty = defaults)")
	inputPath := flag.String("input", "", "Input WAV to duck (empty = synthesize a test tone)")
	toneNote := flag.Int("tone-note", 57, "MIDI note of the synthesized test tone (57 = A3)")
	velocity := flag.Int("velocity", 100, "Trigger velocity (1-127)")
	bpm := flag.Float64("bpm", 120, "Trigger tempo: one trigger per beat")
	beats := flag.Int("beats", 8, "Number of trigger beats to render")
	gateMs := flag.Float64("gate-ms", 120, "Trigger note length in ms (shapes gate mode)")
	output := flag.String("output", "ducked.wav", "Output WAV file path")
	verbose := flag.Bool("v", false, "Log instance diagnostics to stderr")
	flag.Parse()

	params := ducker.NewDefaultParams()
	if *presetPath != "" {
		p, err := preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
		params = p
	}
	if *bpm <= 0 || *beats < 1 {
		fmt.Fprintln(os.Stderr, "Error: bpm must be > 0 and beats >= 1")
		os.Exit(1)
	}

	framesPerBeat := int(math.Round(60.0 / *bpm * ducker.SampleRate))
	totalFrames := framesPerBeat * *beats

	var samples []int16
	var err error
	if *inputPath != "" {
		samples, err = loadInput(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input %q: %v\n", *inputPath, err)
			os.Exit(1)
		}
		totalFrames = len(samples) / 2
	} else {
		samples, err = synthesizeTone(*toneNote, totalFrames)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error synthesizing tone: %v\n", err)
			os.Exit(1)
		}
	}

	var opts []ducker.Option
	if *verbose {
		opts = append(opts, ducker.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
	}
	d := ducker.New(params, opts...)

	fmt.Printf("Rendering %d frames at %d Hz (mode=%s curve=%s depth=%.2f, %d triggers @ %.1f bpm)...\n",
		totalFrames, ducker.SampleRate, params.Mode, params.Curve, params.Depth, *beats, *bpm)

	processWithTriggers(d, samples, framesPerBeat, *gateMs, *velocity)

	if err := fitcommon.WriteStereoWAVInt16(*output, samples, ducker.SampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d frames)\n", *output, totalFrames)

	reportDucking(samples)
}

// processWithTriggers runs the ducker over blocks, delivering a MIDI
// note-on at every beat boundary and the matching note-off gateMs
// later, the way a chain host would between audio callbacks.
func processWithTriggers(d *ducker.Ducker, samples []int16, framesPerBeat int, gateMs float64, velocity int) {
	const blockFrames = 128

	p := d.Params()
	channel := p.Channel
	if channel == 0 {
		channel = 1
	}
	statusByte := byte(channel - 1)
	note := byte(p.TriggerNote)
	vel := byte(fitcommon.Clamp(float64(velocity), 1, 127))

	gateFrames := fitcommon.MaxInt(1, int(math.Round(gateMs/1000.0*ducker.SampleRate)))
	totalFrames := len(samples) / 2

	for pos := 0; pos < totalFrames; pos += blockFrames {
		end := fitcommon.MinInt(pos+blockFrames, totalFrames)

		beatStart := fitcommon.MaxInt(0, (pos-gateFrames)/framesPerBeat)
		for beat := beatStart; beat*framesPerBeat < end; beat++ {
			onFrame := beat * framesPerBeat
			if onFrame >= pos && onFrame < end {
				d.OnMIDI([]byte{0x90 | statusByte, note, vel})
			}
			offFrame := onFrame + gateFrames
			if offFrame >= pos && offFrame < end {
				d.OnMIDI([]byte{0x80 | statusByte, note, 0})
			}
		}

		d.ProcessInt16(samples[pos*2 : end*2])
	}
}

func synthesizeTone(note int, frames int) ([]int16, error) {
	gen := dspsignal.NewGenerator(dspcore.WithSampleRate(ducker.SampleRate))
	tone, err := gen.Sine(midiNoteToFreq(note), 0.6, frames)
	if err != nil {
		return nil, err
	}
	out := make([]int16, frames*2)
	for i, v := range tone {
		s := int16(v * 32767.0)
		out[i*2] = s
		out[i*2+1] = s
	}
	return out, nil
}

func loadInput(path string) ([]int16, error) {
	samples, rate, err := fitcommon.ReadWAVStereoInt16(path)
	if err != nil {
		return nil, err
	}
	if rate == ducker.SampleRate {
		return samples, nil
	}

	// Resample each channel through the float path.
	frames := len(samples) / 2
	left := make([]float64, frames)
	right := make([]float64, frames)
	for i := 0; i < frames; i++ {
		left[i] = float64(samples[i*2])
		right[i] = float64(samples[i*2+1])
	}
	left, err = fitcommon.ResampleIfNeeded(left, rate, ducker.SampleRate)
	if err != nil {
		return nil, err
	}
	right, err = fitcommon.ResampleIfNeeded(right, rate, ducker.SampleRate)
	if err != nil {
		return nil, err
	}
	n := fitcommon.MinInt(len(left), len(right))
	out := make([]int16, n*2)
	for i := 0; i < n; i++ {
		out[i*2] = int16(fitcommon.Clamp(left[i], -32768, 32767))
		out[i*2+1] = int16(fitcommon.Clamp(right[i], -32768, 32767))
	}
	return out, nil
}

func reportDucking(samples []int16) {
	frames := len(samples) / 2
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		mono[i] = 0.5 * (float64(samples[i*2]) + float64(samples[i*2+1]))
	}
	trace := analysis.GainTrace(mono, analysis.TraceFrame, analysis.TraceHop)
	stats := analysis.MeasureDuck(trace, analysis.TraceRate(ducker.SampleRate, analysis.TraceHop))
	if stats.MaxDepth == 0 {
		fmt.Println("Measured: no ducking detected")
		return
	}
	fmt.Printf("Measured: depth=%.2f attack=%.0fms release=%.0fms pump=%.2fHz\n",
		stats.MaxDepth, stats.AttackMs, stats.ReleaseMs, stats.PumpHz)
}

// midiNoteToFreq converts a MIDI note number to frequency in Hz.
func midiNoteToFreq(note int) float64 {
	const ln2 = 0.69314718055994530942
	return 440.0 * float64(approx.FastExp(float32(note-69)/12.0*ln2))
}
