package ducker

// Shape maps a normalized phase position t in [0,1] through the
// selected curve. For attack, t runs 0→1 as the envelope ducks down;
// for release, t runs 0→1 as it recovers. The result is always in
// [0,1] with Shape(c, 0, r) == 0 and Shape(c, 1, r) == 1.
func Shape(curve Curve, t float32, isRelease bool) float32 {
	t = clampf(t, 0.0, 1.0)

	switch curve {
	case CurveExpo:
		return t * t

	case CurveSCurve:
		return t * t * (3.0 - 2.0*t)

	case CurvePump:
		if isRelease {
			// Cubic ease-out: fast recovery that settles gently.
			inv := 1.0 - t
			return 1.0 - inv*inv*inv
		}
		return t

	default:
		return t
	}
}
