package store

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ElectrodeCounts are the supported implant array sizes.
var ElectrodeCounts = []int{12, 16, 22}

// Defaults for a fresh installation.
const (
	DefaultElectrodeCount = 12
	DefaultVolumeL        = 75
	DefaultVolumeR        = 50
	DefaultBeepDurationMs = 1000
	DefaultBeepReps       = 3

	// MinFrequency and MaxFrequency bound the default log-spaced map.
	MinFrequency = 200
	MaxFrequency = 7500

	MinAdjustment = -50
	MaxAdjustment = 50
	MaxVolume     = 100
)

// ValidCount reports whether count is a supported electrode configuration.
func ValidCount(count int) bool {
	for _, c := range ElectrodeCounts {
		if c == count {
			return true
		}
	}
	return false
}

// LogSpace returns n integers log-spaced between lo and hi inclusive, rounded
// to the nearest integer. Index 0 is the apical (lowest) electrode.
func LogSpace(lo, hi float64, n int) []int {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []int{int(math.Round(lo))}
	}
	spaced := floats.LogSpan(make([]float64, n), lo, hi)
	out := make([]int, n)
	for i, v := range spaced {
		out[i] = int(math.Round(v))
	}
	return out
}

// DefaultFrequencies returns the default map for count electrodes.
func DefaultFrequencies(count int) []int {
	return LogSpace(MinFrequency, MaxFrequency, count)
}

// DefaultAdjustments returns count zero trims.
func DefaultAdjustments(count int) []int {
	if count < 0 {
		count = 0
	}
	return make([]int, count)
}
