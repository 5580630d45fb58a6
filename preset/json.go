package preset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/charlesvestal/move-anything-ducker/ducker"
)

// File is the JSON schema for ducker presets. All fields are optional;
// absent fields keep their current value when applied.
type File struct {
	Channel     *string  `json:"channel,omitempty"` // "Omni" or "1".."16"
	TriggerNote *int     `json:"trigger_note,omitempty"`
	Mode        *string  `json:"mode,omitempty"`
	Depth       *float32 `json:"depth,omitempty"`
	Attack      *float32 `json:"attack,omitempty"`
	Hold        *float32 `json:"hold,omitempty"`
	Release     *float32 `json:"release,omitempty"`
	Curve       *string  `json:"curve,omitempty"`
	VelSens     *float32 `json:"vel_sens,omitempty"`
}

// LoadJSON loads a preset JSON file and applies it on top of default
// params.
func LoadJSON(path string) (*ducker.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	p := ducker.NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing params
// object, validating every supplied field.
func ApplyFile(dst *ducker.Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.Channel != nil {
		ch, err := ducker.ParseChannel(*f.Channel)
		if err != nil {
			return err
		}
		dst.Channel = ch
	}
	if f.TriggerNote != nil {
		if *f.TriggerNote < 0 || *f.TriggerNote > 127 {
			return fmt.Errorf("trigger_note must be in 0..127, got %d", *f.TriggerNote)
		}
		dst.TriggerNote = *f.TriggerNote
	}
	if f.Mode != nil {
		m, err := ducker.ParseMode(*f.Mode)
		if err != nil {
			return err
		}
		dst.Mode = m
	}
	if err := applyUnit(&dst.Depth, f.Depth, "depth"); err != nil {
		return err
	}
	if err := applyUnit(&dst.Attack, f.Attack, "attack"); err != nil {
		return err
	}
	if err := applyUnit(&dst.Hold, f.Hold, "hold"); err != nil {
		return err
	}
	if err := applyUnit(&dst.Release, f.Release, "release"); err != nil {
		return err
	}
	if f.Curve != nil {
		c, err := ducker.ParseCurve(*f.Curve)
		if err != nil {
			return err
		}
		dst.Curve = c
	}
	if err := applyUnit(&dst.VelocitySensitivity, f.VelSens, "vel_sens"); err != nil {
		return err
	}
	return nil
}

func applyUnit(dst *float32, src *float32, name string) error {
	if src == nil {
		return nil
	}
	if *src < 0 || *src > 1 {
		return fmt.Errorf("%s must be in [0,1], got %f", name, *src)
	}
	*dst = *src
	return nil
}

// Snapshot captures params as a preset file. Fractional values are
// rounded to three decimals, so serialize→deserialize reproduces the
// stored values exactly at that precision.
func Snapshot(p *ducker.Params) *File {
	channel := "Omni"
	if p.Channel > 0 {
		channel = fmt.Sprintf("%d", p.Channel)
	}
	mode := p.Mode.String()
	curve := p.Curve.String()
	note := p.TriggerNote
	return &File{
		Channel:     &channel,
		TriggerNote: &note,
		Mode:        &mode,
		Depth:       round3(p.Depth),
		Attack:      round3(p.Attack),
		Hold:        round3(p.Hold),
		Release:     round3(p.Release),
		Curve:       &curve,
		VelSens:     round3(p.VelocitySensitivity),
	}
}

// SaveJSON writes params to a preset JSON file.
func SaveJSON(path string, p *ducker.Params) error {
	if p == nil {
		return fmt.Errorf("nil params")
	}
	b, err := json.MarshalIndent(Snapshot(p), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func round3(v float32) *float32 {
	r := float32(math.Round(float64(v)*1000.0) / 1000.0)
	return &r
}
