package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/simukka/bicial/common"
)

// ExportFilename is the suggested name of an exported settings document.
const ExportFilename = "bicial-settings.json"

const importIssue = "Import failed: invalid file."

// Export writes every persisted entry as one JSON object. Scalar settings are
// written as strings (defaults when unset); per-count arrays are embedded as
// JSON arrays, only when present, and healed like any other read.
func (s *Store) Export(w io.Writer) error {
	settings := s.Settings()
	doc := map[string]json.RawMessage{}
	scalars := map[string]string{
		KeyCISide:         string(settings.CISide),
		KeyElectrodeCount: strconv.Itoa(settings.ElectrodeCount),
		KeyVolumeL:        strconv.Itoa(settings.VolumeL),
		KeyVolumeR:        strconv.Itoa(settings.VolumeR),
		KeyBeepDuration:   strconv.Itoa(settings.BeepDurationMs),
		KeyBeepReps:       strconv.Itoa(settings.BeepReps),
	}
	for key, value := range scalars {
		b, err := json.Marshal(value)
		if err != nil {
			return fault.Wrap(err, fmsg.With("export: encode "+key))
		}
		doc[key] = b
	}
	for _, key := range ArrayKeys() {
		if _, ok := s.kv.Get(key); !ok {
			continue
		}
		b, err := json.Marshal(s.arrayValue(key))
		if err != nil {
			return fault.Wrap(err, fmsg.With("export: encode "+key))
		}
		doc[key] = b
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("export: encode document"))
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fault.Wrap(err, fmsg.WithDesc("export: write document", "Export failed: could not write file."))
	}
	return nil
}

// arrayValue reads a per-count entry through its typed accessor, which
// replaces a corrupt value with the default before it is exported.
func (s *Store) arrayValue(key string) []int {
	k, _ := ParseArrayKey(key)
	switch k.Kind {
	case FrequencyArray:
		return s.Frequencies(k.Count, k.Ear)
	case AdjustmentArray:
		return s.Adjustments(k.Count, k.Ear)
	}
	return append([]int{}, s.Selection(k.Count)...)
}

// Document is a validated settings document that has not been written yet.
type Document struct {
	s       *Store
	entries map[string]string
}

// Decode validates a document produced by Export without writing anything.
// Every recognised entry must be valid; unknown keys are ignored.
func (s *Store) Decode(r io.Reader) (*Document, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fault.Wrap(err,
			fmsg.WithDesc("import: decode document", importIssue),
			ftag.With(ftag.InvalidArgument))
	}

	pending := make(map[string]string, len(doc))
	for key, raw := range doc {
		value, ok, err := validateEntry(key, raw)
		if err != nil {
			return nil, fault.Wrap(err,
				fmsg.WithDesc(fmt.Sprintf("import: key %q", key), importIssue),
				ftag.With(ftag.InvalidArgument))
		}
		if !ok {
			s.log.Debugf("import: ignoring unknown key %q", key)
			continue
		}
		pending[key] = value
	}
	return &Document{s: s, entries: pending}, nil
}

// Len returns the number of entries the document writes.
func (d *Document) Len() int { return len(d.entries) }

// Apply writes the document. Keys absent from it keep their current value.
func (d *Document) Apply() {
	for key, value := range d.entries {
		d.s.kv.Set(key, value)
	}
	d.s.log.Infof("imported %d entries", len(d.entries))
}

// Import decodes a document and writes it back. Nothing is written unless
// every recognised entry is valid.
func (s *Store) Import(r io.Reader) error {
	d, err := s.Decode(r)
	if err != nil {
		return err
	}
	d.Apply()
	return nil
}

// validateEntry returns the value to store for key. ok is false for keys the
// store does not own.
func validateEntry(key string, raw json.RawMessage) (value string, ok bool, err error) {
	if isScalarKey(key) {
		text, err := scalarText(raw)
		if err != nil {
			return "", true, err
		}
		return text, true, validateScalar(key, text)
	}

	ak, known := ParseArrayKey(key)
	if !known {
		return "", false, nil
	}
	var arr []int
	if err := json.Unmarshal(raw, &arr); err != nil {
		return "", true, err
	}
	if arr == nil {
		return "", true, fault.New("array expected")
	}
	switch ak.Kind {
	case FrequencyArray, AdjustmentArray:
		if len(arr) != ak.Count {
			return "", true, fault.New(fmt.Sprintf("length %d, expected %d", len(arr), ak.Count))
		}
		lo, hi := 0, math.MaxInt32
		if ak.Kind == AdjustmentArray {
			lo, hi = MinAdjustment, MaxAdjustment
		}
		for _, v := range arr {
			if v < lo || v > hi {
				return "", true, fault.New(fmt.Sprintf("value %d out of range", v))
			}
		}
	case SelectionArray:
		for _, v := range arr {
			if v < 0 || v >= ak.Count {
				return "", true, fault.New(fmt.Sprintf("row %d out of range", v))
			}
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", true, err
	}
	return compact.String(), true, nil
}

func isScalarKey(key string) bool {
	for _, k := range ScalarKeys {
		if k == key {
			return true
		}
	}
	return false
}

// scalarText accepts a JSON string, or a bare number for hand-edited files.
func scalarText(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fault.New("string expected")
	}
	return n.String(), nil
}

func validateScalar(key, text string) error {
	if key == KeyCISide {
		if _, ok := common.ParseEar(text); !ok {
			return fault.New(fmt.Sprintf("invalid ear %q", text))
		}
		return nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return fault.Wrap(err, fmsg.With("integer expected"))
	}
	switch key {
	case KeyElectrodeCount:
		if !ValidCount(v) {
			return fault.New(fmt.Sprintf("unsupported electrode count %d", v))
		}
	case KeyVolumeL, KeyVolumeR:
		if v < 0 || v > MaxVolume {
			return fault.New(fmt.Sprintf("volume %d out of range", v))
		}
	case KeyBeepDuration, KeyBeepReps:
		if v <= 0 {
			return fault.New(fmt.Sprintf("%d must be positive", v))
		}
	}
	return nil
}
