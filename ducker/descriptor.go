package ducker

import "strconv"

// ParamDescriptor describes one host-visible parameter for UI display.
// It has no runtime effect on the engine.
type ParamDescriptor struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Type    string   `json:"type"` // "enum", "int" or "float"
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
	Default string   `json:"default"`
	Options []string `json:"options,omitempty"`
}

// ModeNames returns the mode display names in enum order.
func ModeNames() []string {
	return []string{ModeTrigger.String(), ModeGate.String()}
}

// CurveNames returns the curve display names in enum order.
func CurveNames() []string {
	return []string{
		CurveLinear.String(),
		CurveExpo.String(),
		CurveSCurve.String(),
		CurvePump.String(),
	}
}

// ChannelNames returns the channel filter display names: "Omni"
// followed by "1" through "16".
func ChannelNames() []string {
	names := make([]string, 0, 17)
	names = append(names, "Omni")
	for ch := 1; ch <= 16; ch++ {
		names = append(names, strconv.Itoa(ch))
	}
	return names
}

// Descriptors returns the static parameter metadata table.
func Descriptors() []ParamDescriptor {
	return []ParamDescriptor{
		{Key: "channel", Name: "Channel", Type: "enum", Default: "1", Options: ChannelNames()},
		{Key: "trigger_note", Name: "Trigger", Type: "int", Min: 0, Max: 127, Step: 1, Default: "36"},
		{Key: "mode", Name: "Mode", Type: "enum", Default: "Trigger", Options: ModeNames()},
		{Key: "depth", Name: "Depth", Type: "float", Min: 0, Max: 1, Step: 0.01, Default: "1"},
		{Key: "attack", Name: "Attack", Type: "float", Min: 0, Max: 1, Step: 0.01, Default: "0.1"},
		{Key: "hold", Name: "Hold", Type: "float", Min: 0, Max: 1, Step: 0.01, Default: "0.2"},
		{Key: "release", Name: "Release", Type: "float", Min: 0, Max: 1, Step: 0.01, Default: "0.3"},
		{Key: "curve", Name: "Curve", Type: "enum", Default: "Linear", Options: CurveNames()},
		{Key: "vel_sens", Name: "Vel Sens", Type: "float", Min: 0, Max: 1, Step: 0.01, Default: "0"},
	}
}
