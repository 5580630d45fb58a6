package preset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charlesvestal/move-anything-ducker/ducker"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	p := ducker.NewDefaultParams()
	p.Channel = 3
	p.TriggerNote = 48
	p.Mode = ducker.ModeGate
	p.Depth = 0.75
	p.Attack = 0.125
	p.Hold = 0.5
	p.Release = 0.9
	p.Curve = ducker.CurvePump
	p.VelocitySensitivity = 0.25

	path := filepath.Join(t.TempDir(), "preset.json")
	if err := SaveJSON(path, p); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	got, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if got.Channel != 3 || got.TriggerNote != 48 {
		t.Fatalf("routing mismatch: channel=%d note=%d", got.Channel, got.TriggerNote)
	}
	if got.Mode != ducker.ModeGate || got.Curve != ducker.CurvePump {
		t.Fatalf("enum mismatch: mode=%v curve=%v", got.Mode, got.Curve)
	}
	for _, chk := range []struct {
		name string
		got  float32
		want float32
	}{
		{"depth", got.Depth, 0.75},
		{"attack", got.Attack, 0.125},
		{"hold", got.Hold, 0.5},
		{"release", got.Release, 0.9},
		{"vel_sens", got.VelocitySensitivity, 0.25},
	} {
		if math.Abs(float64(chk.got-chk.want)) > 1e-6 {
			t.Fatalf("%s mismatch: got %f want %f", chk.name, chk.got, chk.want)
		}
	}
}

func TestSnapshotRoundsToThreeDecimals(t *testing.T) {
	p := ducker.NewDefaultParams()
	p.Depth = 0.123456
	f := Snapshot(p)
	if f.Depth == nil {
		t.Fatalf("expected depth in snapshot")
	}
	if *f.Depth != 0.123 {
		t.Fatalf("expected 0.123, got %f", *f.Depth)
	}
}

func TestSnapshotOmniChannel(t *testing.T) {
	p := ducker.NewDefaultParams()
	p.Channel = 0
	f := Snapshot(p)
	if f.Channel == nil || *f.Channel != "Omni" {
		t.Fatalf("expected Omni channel, got %v", f.Channel)
	}
}

func TestLoadJSONPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(path, []byte(`{"depth": 0.3, "mode": "Gate"}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	p, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if p.Mode != ducker.ModeGate {
		t.Fatalf("expected gate mode from file, got %v", p.Mode)
	}
	if math.Abs(float64(p.Depth-0.3)) > 1e-6 {
		t.Fatalf("expected depth from file, got %f", p.Depth)
	}
	def := ducker.NewDefaultParams()
	if p.TriggerNote != def.TriggerNote || p.Channel != def.Channel {
		t.Fatalf("expected untouched defaults: note=%d channel=%d", p.TriggerNote, p.Channel)
	}
	if p.Attack != def.Attack || p.Curve != def.Curve {
		t.Fatalf("expected untouched defaults: attack=%f curve=%v", p.Attack, p.Curve)
	}
}

func TestLoadJSONRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"depth above range", `{"depth": 1.5}`},
		{"depth below range", `{"depth": -0.1}`},
		{"note above range", `{"trigger_note": 128}`},
		{"note below range", `{"trigger_note": -1}`},
		{"unknown mode", `{"mode": "Toggle"}`},
		{"unknown curve", `{"curve": "Bezier"}`},
		{"channel above range", `{"channel": "17"}`},
		{"malformed json", `{"depth": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			if _, err := LoadJSON(path); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestApplyFileNilFileIsNoop(t *testing.T) {
	p := ducker.NewDefaultParams()
	want := *p
	if err := ApplyFile(p, nil); err != nil {
		t.Fatalf("ApplyFile(nil) failed: %v", err)
	}
	if *p != want {
		t.Fatalf("expected params untouched, got %+v", *p)
	}
}
