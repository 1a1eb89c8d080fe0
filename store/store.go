package store

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/pion/logging"
	"github.com/simukka/bicial/common"
)

// Store is the typed view over a KV. It owns every persisted array: getters
// return copies and setters copy their input.
type Store struct {
	kv  KV
	log logging.LeveledLogger
}

// New wraps kv.
func New(kv KV) *Store {
	return &Store{
		kv:  kv,
		log: common.Logger("store"),
	}
}

// Frequencies returns the frequency map of ear for a count-electrode
// configuration, materialising the log-spaced default when absent or corrupt.
func (s *Store) Frequencies(count int, ear common.Ear) []int {
	key := FrequencyKey(count, ear)
	if arr, ok := s.readInts(key, count, 0, math.MaxInt32); ok {
		return arr
	}
	arr := DefaultFrequencies(count)
	s.writeJSON(key, arr)
	return arr
}

// SetFrequencies overwrites the frequency map. The caller guarantees
// len(freqs) == count; negative values are stored as 0.
func (s *Store) SetFrequencies(count int, ear common.Ear, freqs []int) {
	out := make([]int, len(freqs))
	for i, f := range freqs {
		out[i] = common.ClampInt(f, 0, math.MaxInt32)
	}
	s.writeJSON(FrequencyKey(count, ear), out)
}

// Adjustments returns the per-row gain trims of ear, all-zero by default.
func (s *Store) Adjustments(count int, ear common.Ear) []int {
	key := AdjustmentKey(count, ear)
	if arr, ok := s.readInts(key, count, MinAdjustment, MaxAdjustment); ok {
		return arr
	}
	arr := DefaultAdjustments(count)
	s.writeJSON(key, arr)
	return arr
}

// SetAdjustments overwrites the gain trims, clamping each to [-50, 50].
func (s *Store) SetAdjustments(count int, ear common.Ear, adj []int) {
	out := make([]int, len(adj))
	for i, a := range adj {
		out[i] = common.ClampInt(a, MinAdjustment, MaxAdjustment)
	}
	s.writeJSON(AdjustmentKey(count, ear), out)
}

// Selection returns the rows checked for batch playback. Out-of-range indices
// are dropped; an unparsable entry is reset to the empty set.
func (s *Store) Selection(count int) Selection {
	key := SelectionKey(count)
	raw, ok := s.kv.Get(key)
	if !ok {
		return Selection{}
	}
	var indices []int
	if err := json.Unmarshal([]byte(raw), &indices); err != nil {
		s.log.Debugf("healing %s: %v", key, err)
		s.writeJSON(key, []int{})
		return Selection{}
	}
	return NewSelection(indices...).inRange(count)
}

// SetSelection overwrites the selected rows.
func (s *Store) SetSelection(count int, sel Selection) {
	out := NewSelection(sel...).inRange(count)
	s.writeJSON(SelectionKey(count), []int(out))
}

// CISide returns the implant ear, right by default.
func (s *Store) CISide() common.Ear {
	raw, ok := s.kv.Get(KeyCISide)
	if ok {
		if ear, valid := common.ParseEar(raw); valid {
			return ear
		}
		s.heal(KeyCISide, raw, string(common.Right))
	}
	return common.Right
}

// SetCISide persists the implant ear.
func (s *Store) SetCISide(ear common.Ear) {
	s.kv.Set(KeyCISide, string(ear))
}

// ElectrodeCount returns the active configuration.
func (s *Store) ElectrodeCount() int {
	return s.readScalar(KeyElectrodeCount, DefaultElectrodeCount, ValidCount)
}

// SetElectrodeCount persists the active configuration. Unsupported counts are
// ignored.
func (s *Store) SetElectrodeCount(count int) {
	if !ValidCount(count) {
		s.log.Warnf("ignoring unsupported electrode count %d", count)
		return
	}
	s.kv.Set(KeyElectrodeCount, strconv.Itoa(count))
}

// Volume returns the base volume (0-100) of ear.
func (s *Store) Volume(ear common.Ear) int {
	def := DefaultVolumeR
	if ear == common.Left {
		def = DefaultVolumeL
	}
	return s.readScalar(VolumeKey(ear), def, func(v int) bool { return v >= 0 && v <= MaxVolume })
}

// SetVolume persists the base volume of ear, clamped to [0, 100].
func (s *Store) SetVolume(ear common.Ear, volume int) {
	s.kv.Set(VolumeKey(ear), strconv.Itoa(common.ClampInt(volume, 0, MaxVolume)))
}

// BeepDurationMs returns the tone length in milliseconds.
func (s *Store) BeepDurationMs() int {
	return s.readScalar(KeyBeepDuration, DefaultBeepDurationMs, func(v int) bool { return v > 0 })
}

// BeepDuration returns the tone length.
func (s *Store) BeepDuration() time.Duration {
	return time.Duration(s.BeepDurationMs()) * time.Millisecond
}

// SetBeepDurationMs persists the tone length; values below 1 ms become 1 ms.
func (s *Store) SetBeepDurationMs(ms int) {
	if ms < 1 {
		ms = 1
	}
	s.kv.Set(KeyBeepDuration, strconv.Itoa(ms))
}

// BeepReps returns the repetitions of alternating sequences.
func (s *Store) BeepReps() int {
	return s.readScalar(KeyBeepReps, DefaultBeepReps, func(v int) bool { return v > 0 })
}

// SetBeepReps persists the repetition count; values below 1 become 1.
func (s *Store) SetBeepReps(reps int) {
	if reps < 1 {
		reps = 1
	}
	s.kv.Set(KeyBeepReps, strconv.Itoa(reps))
}

// Settings returns the global settings in one read.
func (s *Store) Settings() Settings {
	return Settings{
		CISide:         s.CISide(),
		ElectrodeCount: s.ElectrodeCount(),
		VolumeL:        s.Volume(common.Left),
		VolumeR:        s.Volume(common.Right),
		BeepDurationMs: s.BeepDurationMs(),
		BeepReps:       s.BeepReps(),
	}
}

// Reset removes every persisted entry the store knows about. Configurations
// are materialised again with defaults on next access.
func (s *Store) Reset() {
	for _, key := range s.kv.Keys() {
		if s.known(key) {
			s.kv.Remove(key)
		}
	}
	s.log.Info("settings reset")
}

func (s *Store) known(key string) bool {
	for _, k := range ScalarKeys {
		if k == key {
			return true
		}
	}
	_, ok := ParseArrayKey(key)
	return ok
}

// readInts decodes a JSON integer array of the given length whose values lie
// in [lo, hi]. Anything else is reported as absent so the caller heals it.
func (s *Store) readInts(key string, length, lo, hi int) ([]int, bool) {
	raw, ok := s.kv.Get(key)
	if !ok {
		return nil, false
	}
	var arr []int
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		s.log.Debugf("healing %s: %v", key, err)
		return nil, false
	}
	if len(arr) != length {
		s.log.Debugf("healing %s: length %d, expected %d", key, len(arr), length)
		return nil, false
	}
	for _, v := range arr {
		if v < lo || v > hi {
			s.log.Debugf("healing %s: value %d outside [%d, %d]", key, v, lo, hi)
			return nil, false
		}
	}
	return arr, true
}

func (s *Store) readScalar(key string, def int, valid func(int) bool) int {
	raw, ok := s.kv.Get(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || !valid(v) {
		s.heal(key, raw, strconv.Itoa(def))
		return def
	}
	return v
}

func (s *Store) heal(key, bad, def string) {
	s.log.Debugf("healing %s: %q replaced by %q", key, bad, def)
	s.kv.Set(key, def)
}

func (s *Store) writeJSON(key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Errorf("encoding %s: %v", key, err)
		return
	}
	s.kv.Set(key, string(b))
}

// Settings is the GlobalSettings record.
type Settings struct {
	CISide         common.Ear
	ElectrodeCount int
	VolumeL        int
	VolumeR        int
	BeepDurationMs int
	BeepReps       int
}

// Volume returns the base volume of ear.
func (s Settings) Volume(ear common.Ear) int {
	if ear == common.Left {
		return s.VolumeL
	}
	return s.VolumeR
}

// BeepDuration returns the tone length.
func (s Settings) BeepDuration() time.Duration {
	return time.Duration(s.BeepDurationMs) * time.Millisecond
}
