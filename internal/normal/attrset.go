package normal

import (
	"slices"
	"strings"
)

// AttrSet is a set of column names. It is kept sorted and free of
// duplicates so that iteration, printing and comparison are deterministic.
type AttrSet []string

// NewAttrSet builds a set from names in any order.
func NewAttrSet(names ...string) AttrSet {
	s := make(AttrSet, len(names))
	copy(s, names)
	slices.Sort(s)
	return slices.Compact(s)
}

// Len returns the number of attributes.
func (s AttrSet) Len() int { return len(s) }

// Contains reports whether name is in s.
func (s AttrSet) Contains(name string) bool {
	_, ok := slices.BinarySearch(s, name)
	return ok
}

// IsSubsetOf reports whether every attribute of s is in o.
func (s AttrSet) IsSubsetOf(o AttrSet) bool {
	if len(s) > len(o) {
		return false
	}
	j := 0
	for _, a := range s {
		for j < len(o) && o[j] < a {
			j++
		}
		if j == len(o) || o[j] != a {
			return false
		}
		j++
	}
	return true
}

// IsSupersetOf reports whether o is a subset of s.
func (s AttrSet) IsSupersetOf(o AttrSet) bool { return o.IsSubsetOf(s) }

// Union returns a new set holding the attributes of both sets.
func (s AttrSet) Union(o AttrSet) AttrSet {
	out := make(AttrSet, 0, len(s)+len(o))
	i, j := 0, 0
	for i < len(s) && j < len(o) {
		switch {
		case s[i] < o[j]:
			out = append(out, s[i])
			i++
		case s[i] > o[j]:
			out = append(out, o[j])
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	out = append(out, s[i:]...)
	return append(out, o[j:]...)
}

// Equal reports whether both sets hold the same attributes.
func (s AttrSet) Equal(o AttrSet) bool { return slices.Equal(s, o) }

func (s AttrSet) String() string {
	return "{" + strings.Join(s, ", ") + "}"
}
