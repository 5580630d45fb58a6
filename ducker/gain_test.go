package ducker

import "testing"

func TestApplyGainScalesBothChannels(t *testing.T) {
	l, r := ApplyGain(10000, -10000, 0.5)
	if l != 5000 {
		t.Fatalf("expected left 5000, got %d", l)
	}
	if r != -5000 {
		t.Fatalf("expected right -5000, got %d", r)
	}
}

func TestApplyGainUnityPassesThrough(t *testing.T) {
	l, r := ApplyGain(32767, -32768, 1.0)
	if l != 32767 || r != -32768 {
		t.Fatalf("expected pass-through at unity, got %d %d", l, r)
	}
}

func TestApplyGainZeroSilences(t *testing.T) {
	l, r := ApplyGain(32767, -32768, 0.0)
	if l != 0 || r != 0 {
		t.Fatalf("expected silence at zero gain, got %d %d", l, r)
	}
}

func TestApplyGainClampsOverflow(t *testing.T) {
	// Float rounding above unity must never wrap int16.
	l, _ := ApplyGain(32767, 0, 1.0001)
	if l != 32767 {
		t.Fatalf("expected clamp at 32767, got %d", l)
	}
	_, r := ApplyGain(0, -32768, 1.0001)
	if r != -32768 {
		t.Fatalf("expected clamp at -32768, got %d", r)
	}
}
