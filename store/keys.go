package store

import (
	"strconv"
	"strings"

	"github.com/simukka/bicial/common"
)

// Scalar setting keys.
const (
	KeyCISide         = "ciSide"
	KeyElectrodeCount = "electrodeCount"
	KeyVolumeL        = "volumeL"
	KeyVolumeR        = "volumeR"
	KeyBeepDuration   = "beepDuration"
	KeyBeepReps       = "beepReps"
)

// Per-count array key prefixes. The ear letter is part of the prefix.
const (
	prefixFreqL = "fL_"
	prefixFreqR = "fR_"
	prefixAdjL  = "adjL_"
	prefixAdjR  = "adjR_"
	prefixSel   = "sel_"
)

// ScalarKeys lists the global setting keys in export order.
var ScalarKeys = []string{
	KeyCISide,
	KeyElectrodeCount,
	KeyVolumeL,
	KeyVolumeR,
	KeyBeepDuration,
	KeyBeepReps,
}

// ArrayKind distinguishes the per-count array entries.
type ArrayKind int

const (
	FrequencyArray ArrayKind = iota
	AdjustmentArray
	SelectionArray
)

// FrequencyKey returns the key of an ear's frequency map, e.g. "fL_12".
func FrequencyKey(count int, ear common.Ear) string {
	if ear == common.Left {
		return prefixFreqL + strconv.Itoa(count)
	}
	return prefixFreqR + strconv.Itoa(count)
}

// AdjustmentKey returns the key of an ear's gain trims, e.g. "adjR_16".
func AdjustmentKey(count int, ear common.Ear) string {
	if ear == common.Left {
		return prefixAdjL + strconv.Itoa(count)
	}
	return prefixAdjR + strconv.Itoa(count)
}

// SelectionKey returns the key of a configuration's selected rows, e.g. "sel_22".
func SelectionKey(count int) string {
	return prefixSel + strconv.Itoa(count)
}

// VolumeKey returns the base volume key for ear.
func VolumeKey(ear common.Ear) string {
	if ear == common.Left {
		return KeyVolumeL
	}
	return KeyVolumeR
}

// ArrayKey is a parsed per-count array key.
type ArrayKey struct {
	Kind  ArrayKind
	Count int
	Ear   common.Ear // empty for SelectionArray
}

// ParseArrayKey recognises the per-count array keys. Counts outside the
// supported configurations are rejected.
func ParseArrayKey(key string) (ArrayKey, bool) {
	table := []struct {
		prefix string
		kind   ArrayKind
		ear    common.Ear
	}{
		{prefixFreqL, FrequencyArray, common.Left},
		{prefixFreqR, FrequencyArray, common.Right},
		{prefixAdjL, AdjustmentArray, common.Left},
		{prefixAdjR, AdjustmentArray, common.Right},
		{prefixSel, SelectionArray, ""},
	}
	for _, entry := range table {
		if !strings.HasPrefix(key, entry.prefix) {
			continue
		}
		count, err := strconv.Atoi(key[len(entry.prefix):])
		if err != nil || !ValidCount(count) {
			return ArrayKey{}, false
		}
		return ArrayKey{Kind: entry.kind, Count: count, Ear: entry.ear}, true
	}
	return ArrayKey{}, false
}

// ArrayKeys lists every per-count key for all supported configurations.
func ArrayKeys() []string {
	keys := make([]string, 0, len(ElectrodeCounts)*5)
	for _, count := range ElectrodeCounts {
		for _, ear := range common.Ears {
			keys = append(keys, FrequencyKey(count, ear), AdjustmentKey(count, ear))
		}
		keys = append(keys, SelectionKey(count))
	}
	return keys
}
