package ducker

import "math"

// SampleRate is the fixed processing rate of the envelope timing.
const SampleRate = 44100

// Phase fractions map linearly onto these maximum durations.
const (
	maxAttackMs  = 50.0
	maxHoldMs    = 500.0
	maxReleaseMs = 1000.0
)

// Phase identifies the current envelope segment.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAttack
	PhaseHold
	PhaseRelease
)

func (p Phase) String() string {
	switch p {
	case PhaseAttack:
		return "Attack"
	case PhaseHold:
		return "Hold"
	case PhaseRelease:
		return "Release"
	default:
		return "Idle"
	}
}

// EnvelopeEngine owns the ducking envelope state machine. It advances
// by exactly one sample per Advance call and exposes the instantaneous
// gain through Value. A phase of zero length is never advanced through
// the per-sample machine: it is resolved immediately on entry, so the
// active phase always has phasePos < phaseLen while time-driven.
//
// Trigger and Release events must be serialized with Advance calls by
// the host; the engine itself is not safe for concurrent mutation.
type EnvelopeEngine struct {
	phase        Phase
	phasePos     int     // sample counter within the current phase
	phaseLen     int     // total samples the current phase lasts
	triggerDepth float32 // velocity-scaled depth of the current trigger
	value        float32 // 1.0 = pass-through, 0.0 = full duck
	heldNotes    int     // active (not yet released) triggers, gate mode
}

// NewEnvelopeEngine creates an idle engine at unity gain.
func NewEnvelopeEngine() *EnvelopeEngine {
	return &EnvelopeEngine{phase: PhaseIdle, value: 1.0}
}

// Value returns the current envelope gain in [0,1].
func (e *EnvelopeEngine) Value() float32 { return e.value }

// Phase returns the current envelope phase.
func (e *EnvelopeEngine) Phase() Phase { return e.phase }

// HeldNotes returns the count of currently active triggers.
func (e *EnvelopeEngine) HeldNotes() int { return e.heldNotes }

// Reset returns the engine to idle at unity gain and clears held notes.
func (e *EnvelopeEngine) Reset() {
	e.phase = PhaseIdle
	e.phasePos = 0
	e.phaseLen = 0
	e.triggerDepth = 0
	e.value = 1.0
	e.heldNotes = 0
}

func msToSamples(ms float64) int {
	return int(math.Round(ms * SampleRate / 1000.0))
}

func attackSamples(p *Params) int {
	return msToSamples(float64(clampf(p.Attack, 0, 1)) * maxAttackMs)
}

func holdSamples(p *Params) int {
	return msToSamples(float64(clampf(p.Hold, 0, 1)) * maxHoldMs)
}

func releaseSamples(p *Params) int {
	return msToSamples(float64(clampf(p.Release, 0, 1)) * maxReleaseMs)
}

// Trigger begins a new activation (note-on analogue). The ducking
// depth is scaled by velocity sensitivity and the envelope restarts
// from attack, overwriting any in-flight cycle.
func (e *EnvelopeEngine) Trigger(velocity int, p *Params) {
	e.heldNotes++

	scale := float32(1.0)
	if p.VelocitySensitivity > 0 {
		scale = 1.0 - p.VelocitySensitivity + p.VelocitySensitivity*float32(velocity)/127.0
	}
	e.triggerDepth = clampf(p.Depth, 0, 1) * scale

	e.startAttack(p)
}

// Release ends one activation (note-off analogue). In gate mode the
// envelope transitions to release once the last held note ends; in
// trigger mode the call only updates the held-note count.
func (e *EnvelopeEngine) Release(p *Params) {
	if e.heldNotes > 0 {
		e.heldNotes--
	}
	if p.Mode != ModeGate || e.heldNotes != 0 {
		return
	}
	if e.phase == PhaseAttack || e.phase == PhaseHold {
		e.startRelease(p)
	}
}

// startAttack enters the attack phase, cascading through zero-length
// phases so that no zero-length phase is left pending.
func (e *EnvelopeEngine) startAttack(p *Params) {
	e.phase = PhaseAttack
	e.phasePos = 0
	e.phaseLen = attackSamples(p)
	if e.phaseLen == 0 {
		e.value = 1.0 - e.triggerDepth
		e.enterHold(p)
	}
}

// enterHold enters the hold phase. A zero-length hold cascades into
// release in trigger mode only; in gate mode it stays entered until a
// release event.
func (e *EnvelopeEngine) enterHold(p *Params) {
	e.phase = PhaseHold
	e.phasePos = 0
	e.phaseLen = holdSamples(p)
	if e.phaseLen == 0 && p.Mode == ModeTrigger {
		e.startRelease(p)
	}
}

// startRelease enters the release phase; a zero-length release snaps
// straight back to idle.
func (e *EnvelopeEngine) startRelease(p *Params) {
	e.phase = PhaseRelease
	e.phasePos = 0
	e.phaseLen = releaseSamples(p)
	if e.phaseLen == 0 {
		e.phase = PhaseIdle
		e.value = 1.0
	}
}

// Advance moves the envelope forward by one sample and returns the
// gain for that sample.
func (e *EnvelopeEngine) Advance(p *Params) float32 {
	switch e.phase {
	case PhaseAttack:
		if e.phaseLen > 0 {
			t := float32(e.phasePos) / float32(e.phaseLen)
			e.value = 1.0 - e.triggerDepth*Shape(p.Curve, t, false)
		}
		e.phasePos++
		if e.phasePos >= e.phaseLen {
			e.value = 1.0 - e.triggerDepth
			e.enterHold(p)
		}

	case PhaseHold:
		// Re-asserted every sample so a parameter change or re-trigger
		// cannot leave a stale value pinned.
		e.value = 1.0 - e.triggerDepth
		e.phasePos++
		if p.Mode == ModeTrigger && e.phasePos >= e.phaseLen {
			e.startRelease(p)
		}

	case PhaseRelease:
		if e.phaseLen > 0 {
			t := float32(e.phasePos) / float32(e.phaseLen)
			e.value = (1.0 - e.triggerDepth) + e.triggerDepth*Shape(p.Curve, t, true)
		}
		e.phasePos++
		if e.phasePos >= e.phaseLen {
			e.phase = PhaseIdle
			e.value = 1.0
		}

	default:
		e.value = 1.0
	}

	return e.value
}
