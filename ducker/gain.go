package ducker

import "math"

// ApplyGain scales a stereo sample pair by gain and clamps the result
// to the signed 16-bit sample range.
func ApplyGain(left, right int16, gain float32) (int16, int16) {
	return clampToInt16(float32(left) * gain), clampToInt16(float32(right) * gain)
}

func clampToInt16(x float32) int16 {
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	if x < math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}
