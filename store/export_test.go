package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/simukka/bicial/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populated(t *testing.T) (*MemoryKV, *Store) {
	t.Helper()
	kv := NewMemoryKV()
	s := New(kv)
	s.SetCISide(common.Left)
	s.SetElectrodeCount(16)
	s.SetVolume(common.Left, 60)
	s.SetVolume(common.Right, 40)
	s.SetBeepDurationMs(750)
	s.SetBeepReps(4)
	for _, count := range ElectrodeCounts {
		for _, ear := range common.Ears {
			freqs := s.Frequencies(count, ear)
			freqs[count/2] += 17
			s.SetFrequencies(count, ear, freqs)
			adj := s.Adjustments(count, ear)
			adj[1] = -12
			s.SetAdjustments(count, ear, adj)
		}
		s.SetSelection(count, NewSelection(0, count-1))
	}
	return kv, s
}

func TestExportImport_RoundTrip(t *testing.T) {
	srcKV, src := populated(t)

	var doc bytes.Buffer
	require.NoError(t, src.Export(&doc))

	dstKV := NewMemoryKV()
	dst := New(dstKV)
	require.NoError(t, dst.Import(bytes.NewReader(doc.Bytes())))

	require.Equal(t, srcKV.Keys(), dstKV.Keys())
	for _, key := range srcKV.Keys() {
		want, _ := srcKV.Get(key)
		got, _ := dstKV.Get(key)
		assert.Equal(t, want, got, key)
	}

	var again bytes.Buffer
	require.NoError(t, dst.Export(&again))
	assert.Equal(t, doc.String(), again.String())
}

func TestExport_WritesDefaultsForUnsetScalars(t *testing.T) {
	s := New(NewMemoryKV())
	var doc bytes.Buffer
	require.NoError(t, s.Export(&doc))

	assert.Contains(t, doc.String(), `"ciSide": "R"`)
	assert.Contains(t, doc.String(), `"beepDuration": "1000"`)
	assert.NotContains(t, doc.String(), "fL_12")
}

func TestImport_RejectsWholeDocumentOnError(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "hello"},
		{"bad side", `{"ciSide":"X","volumeL":"10"}`},
		{"bad count", `{"electrodeCount":"13","volumeL":"10"}`},
		{"wrong length", `{"fL_12":[1,2,3],"volumeL":"10"}`},
		{"trim out of range", `{"adjR_12":[0,0,0,0,0,0,0,0,0,0,0,51],"volumeL":"10"}`},
		{"selection out of range", `{"sel_12":[12],"volumeL":"10"}`},
		{"array expected", `{"fR_16":"[1]","volumeL":"10"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			s := New(kv)
			err := s.Import(strings.NewReader(tt.doc))

			require.Error(t, err)
			assert.Equal(t, ftag.InvalidArgument, ftag.Get(err))
			assert.Equal(t, importIssue, fmsg.GetIssue(err))
			assert.Empty(t, kv.Keys(), "nothing is written when validation fails")
		})
	}
}

func TestImport_PartialDocumentKeepsOtherKeys(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	s.SetVolume(common.Right, 20)

	require.NoError(t, s.Import(strings.NewReader(`{"volumeL": 33, "beepReps": "5", "extra": true}`)))

	assert.Equal(t, 33, s.Volume(common.Left))
	assert.Equal(t, 20, s.Volume(common.Right))
	assert.Equal(t, 5, s.BeepReps())
	_, ok := kv.Get("extra")
	assert.False(t, ok)
}

func TestExport_HealsUnreadCorruptEntries(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	kv.Set(FrequencyKey(16, common.Left), "[1,2,3]")
	kv.Set(AdjustmentKey(22, common.Right), "{")
	kv.Set(SelectionKey(12), "oops")

	var doc bytes.Buffer
	require.NoError(t, s.Export(&doc))

	dst := New(NewMemoryKV())
	require.NoError(t, dst.Import(bytes.NewReader(doc.Bytes())))
	assert.Equal(t, DefaultFrequencies(16), dst.Frequencies(16, common.Left))
	assert.Equal(t, DefaultAdjustments(22), dst.Adjustments(22, common.Right))
	assert.Empty(t, dst.Selection(12))

	raw, _ := kv.Get(FrequencyKey(16, common.Left))
	assert.NotEqual(t, "[1,2,3]", raw, "export heals the source entry")
}
