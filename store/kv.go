// Package store persists electrode frequency maps, gain trims, selections and
// global settings in a flat string key-value space. Reads self-heal: a missing
// or malformed entry is replaced with its default and never reported to the
// caller.
package store

import "sort"

// KV is the durable key-value port the store writes through. Implementations
// follow localStorage semantics: writes are fire-and-forget and failures are
// the implementation's to log.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
	Keys() []string
}

// MemoryKV is an in-process KV.
type MemoryKV struct {
	data map[string]string
}

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) {
	m.data[key] = value
}

func (m *MemoryKV) Remove(key string) {
	delete(m.data, key)
}

// Keys returns the stored keys in sorted order.
func (m *MemoryKV) Keys() []string {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
