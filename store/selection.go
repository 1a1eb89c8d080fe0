package store

import "sort"

// Selection is an ascending set of 0-based row indices.
type Selection []int

// NewSelection builds a Selection from arbitrary indices, dropping duplicates.
func NewSelection(indices ...int) Selection {
	seen := make(map[int]bool, len(indices))
	out := make(Selection, 0, len(indices))
	for _, i := range indices {
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Has reports whether row is selected.
func (s Selection) Has(row int) bool {
	i := sort.SearchInts(s, row)
	return i < len(s) && s[i] == row
}

// With returns a copy of s including row.
func (s Selection) With(row int) Selection {
	if s.Has(row) {
		return s.Clone()
	}
	return NewSelection(append(s.Clone(), row)...)
}

// Without returns a copy of s excluding row.
func (s Selection) Without(row int) Selection {
	out := make(Selection, 0, len(s))
	for _, i := range s {
		if i != row {
			out = append(out, i)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	copy(out, s)
	return out
}

// inRange drops indices outside [0, count).
func (s Selection) inRange(count int) Selection {
	out := make(Selection, 0, len(s))
	for _, i := range s {
		if i >= 0 && i < count {
			out = append(out, i)
		}
	}
	return out
}
