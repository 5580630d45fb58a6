package ducker

import "testing"

func TestParseMode(t *testing.T) {
	cases := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"Trigger", ModeTrigger, false},
		{"Gate", ModeGate, false},
		{" Gate ", ModeGate, false},
		{"0", ModeTrigger, false},
		{"1", ModeGate, false},
		{"0.4", ModeTrigger, false},
		{"0.6", ModeGate, false},
		{"gate", ModeTrigger, true},
		{"", ModeTrigger, true},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseMode(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseCurve(t *testing.T) {
	cases := []struct {
		in      string
		want    Curve
		wantErr bool
	}{
		{"Linear", CurveLinear, false},
		{"Expo", CurveExpo, false},
		{"S-Curve", CurveSCurve, false},
		{"Pump", CurvePump, false},
		{"0", CurveLinear, false},
		{"0.33", CurveExpo, false},
		{"0.66", CurveSCurve, false},
		{"1", CurvePump, false},
		{"2", CurvePump, false},
		{"scurve", CurveLinear, true},
	}
	for _, tc := range cases {
		got, err := ParseCurve(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseCurve(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseCurve(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseCurve(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseChannel(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"Omni", 0, false},
		{"0", 0, false},
		{"1", 1, false},
		{"16", 16, false},
		{"17", 0, true},
		{"-1", 0, true},
		{"0.5", 8, false},
		{"1.0", 16, false},
		{"omni", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseChannel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseChannel(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseChannel(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseChannel(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	if got := ModeTrigger.String(); got != "Trigger" {
		t.Fatalf("mode string: got %q", got)
	}
	if got := ModeGate.String(); got != "Gate" {
		t.Fatalf("mode string: got %q", got)
	}
	wantCurves := map[Curve]string{
		CurveLinear: "Linear",
		CurveExpo:   "Expo",
		CurveSCurve: "S-Curve",
		CurvePump:   "Pump",
	}
	for c, want := range wantCurves {
		if got := c.String(); got != want {
			t.Fatalf("curve string: got %q want %q", got, want)
		}
	}
}

func TestDescriptorsCoverAllParams(t *testing.T) {
	descs := Descriptors()
	if len(descs) != 9 {
		t.Fatalf("expected 9 descriptors, got %d", len(descs))
	}
	byKey := map[string]ParamDescriptor{}
	for _, d := range descs {
		if d.Key == "" || d.Name == "" {
			t.Fatalf("descriptor with empty key or name: %+v", d)
		}
		if _, dup := byKey[d.Key]; dup {
			t.Fatalf("duplicate descriptor key %q", d.Key)
		}
		byKey[d.Key] = d
	}
	for _, key := range []string{"channel", "trigger_note", "mode", "depth", "attack", "hold", "release", "curve", "vel_sens"} {
		if _, ok := byKey[key]; !ok {
			t.Fatalf("missing descriptor for %q", key)
		}
	}
	if got := len(byKey["curve"].Options); got != 4 {
		t.Fatalf("expected 4 curve options, got %d", got)
	}
	if got := len(byKey["channel"].Options); got != 17 {
		t.Fatalf("expected 17 channel options, got %d", got)
	}
}
