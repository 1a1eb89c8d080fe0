package common

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat limits v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EffectiveGain combines a base volume (0-100) with a per-row adjustment
// (-50..50) into a linear gain in [0, 1].
func EffectiveGain(baseVolume, adjustment int) float64 {
	g := float64(baseVolume) / 100 * (1 + float64(adjustment)/50)
	return ClampFloat(g, 0, 1)
}
