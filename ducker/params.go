package ducker

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how the envelope reacts to trigger duration.
type Mode int

const (
	// ModeTrigger runs the full attack→hold→release cycle on a timer,
	// independent of how long the triggering note is held.
	ModeTrigger Mode = iota
	// ModeGate holds at full depth while at least one triggering note
	// remains active; release begins on the last note-off.
	ModeGate
)

func (m Mode) String() string {
	if m == ModeGate {
		return "Gate"
	}
	return "Trigger"
}

// Curve selects the shaping function applied within attack and release.
type Curve int

const (
	CurveLinear Curve = iota
	CurveExpo
	CurveSCurve
	CurvePump
)

func (c Curve) String() string {
	switch c {
	case CurveExpo:
		return "Expo"
	case CurveSCurve:
		return "S-Curve"
	case CurvePump:
		return "Pump"
	default:
		return "Linear"
	}
}

// Params holds the externally mutable configuration of a ducker
// instance. The envelope reads it, never writes it.
type Params struct {
	Channel     int // MIDI channel filter: 0 = omni, 1-16
	TriggerNote int // 0-127

	Mode                Mode
	Depth               float32 // 0-1, maximum attenuation at the bottom of the envelope
	Attack              float32 // 0-1 → 0-50 ms
	Hold                float32 // 0-1 → 0-500 ms
	Release             float32 // 0-1 → 0-1000 ms
	Curve               Curve
	VelocitySensitivity float32 // 0-1
}

// NewDefaultParams creates default parameters: channel 1, trigger note
// 36 (C1), trigger mode, full depth, 5 ms attack, 100 ms hold, 300 ms
// release, linear curve.
func NewDefaultParams() *Params {
	return &Params{
		Channel:             1,
		TriggerNote:         36,
		Mode:                ModeTrigger,
		Depth:               1.0,
		Attack:              0.1,
		Hold:                0.2,
		Release:             0.3,
		Curve:               CurveLinear,
		VelocitySensitivity: 0.0,
	}
}

// ParseMode parses a mode name ("Trigger", "Gate"). A numeric value is
// accepted as a fallback: anything above 0.5 means gate.
func ParseMode(s string) (Mode, error) {
	switch strings.TrimSpace(s) {
	case "Trigger":
		return ModeTrigger, nil
	case "Gate":
		return ModeGate, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return ModeTrigger, fmt.Errorf("invalid mode %q (expected Trigger or Gate)", s)
	}
	if f > 0.5 {
		return ModeGate, nil
	}
	return ModeTrigger, nil
}

// ParseCurve parses a curve name ("Linear", "Expo", "S-Curve", "Pump").
// A numeric value in [0,1] is accepted as a fallback and mapped onto
// the four curves.
func ParseCurve(s string) (Curve, error) {
	switch strings.TrimSpace(s) {
	case "Linear":
		return CurveLinear, nil
	case "Expo":
		return CurveExpo, nil
	case "S-Curve":
		return CurveSCurve, nil
	case "Pump":
		return CurvePump, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return CurveLinear, fmt.Errorf("invalid curve %q (expected Linear, Expo, S-Curve or Pump)", s)
	}
	idx := int(f*3.0 + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx > 3 {
		idx = 3
	}
	return Curve(idx), nil
}

// ParseChannel parses a channel filter value: "Omni" (or 0) accepts all
// channels, otherwise an integer 1-16. A fractional value in [0,1] is
// accepted as a fallback and scaled to 0-16.
func ParseChannel(s string) (int, error) {
	v := strings.TrimSpace(s)
	if v == "Omni" {
		return 0, nil
	}
	if ch, err := strconv.Atoi(v); err == nil {
		if ch < 0 || ch > 16 {
			return 0, fmt.Errorf("invalid channel %d (expected 0..16)", ch)
		}
		return ch, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid channel %q (expected Omni or 1..16)", s)
	}
	ch := int(f*16.0 + 0.5)
	if ch < 0 {
		ch = 0
	}
	if ch > 16 {
		ch = 16
	}
	return ch, nil
}
