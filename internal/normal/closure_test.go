package normal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttrSet(t *testing.T) {
	s := NewAttrSet("b", "a", "b", "c")
	assert.Equal(t, AttrSet{"a", "b", "c"}, s)
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("d"))

	assert.True(t, NewAttrSet("a", "c").IsSubsetOf(s))
	assert.False(t, NewAttrSet("a", "d").IsSubsetOf(s))
	assert.True(t, s.IsSupersetOf(NewAttrSet()))
	assert.Equal(t, AttrSet{"a", "b", "c", "d"}, NewAttrSet("a", "d").Union(NewAttrSet("b", "c")))
	assert.True(t, NewAttrSet("x", "y").Equal(NewAttrSet("y", "x")))
	assert.Equal(t, "{a, b, c}", s.String())
}

func TestClosure(t *testing.T) {
	fds := []FD{
		{LHS: NewAttrSet("a"), RHS: NewAttrSet("b")},
		{LHS: NewAttrSet("b", "c"), RHS: NewAttrSet("d")},
		{LHS: NewAttrSet("d"), RHS: NewAttrSet("e")},
	}

	tests := []struct {
		name  string
		attrs AttrSet
		want  AttrSet
	}{
		{name: "no applicable fd", attrs: NewAttrSet("c"), want: NewAttrSet("c")},
		{name: "single step", attrs: NewAttrSet("a"), want: NewAttrSet("a", "b")},
		{name: "transitive chain", attrs: NewAttrSet("a", "c"), want: NewAttrSet("a", "b", "c", "d", "e")},
		{name: "empty start", attrs: NewAttrSet(), want: NewAttrSet()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Closure(tt.attrs, fds)
			assert.Equal(t, tt.want, got)

			// monotonic and idempotent
			assert.True(t, got.IsSupersetOf(tt.attrs))
			assert.Equal(t, got, Closure(got, fds))
		})
	}
}

func TestClosureDoesNotMutateInput(t *testing.T) {
	attrs := NewAttrSet("a")
	_ = Closure(attrs, []FD{{LHS: NewAttrSet("a"), RHS: NewAttrSet("b")}})
	assert.Equal(t, AttrSet{"a"}, attrs)
}

func TestIsSuperkey(t *testing.T) {
	all := NewAttrSet("a", "b", "c")
	fds := []FD{
		{LHS: NewAttrSet("a"), RHS: NewAttrSet("b")},
		{LHS: NewAttrSet("b"), RHS: NewAttrSet("c")},
	}

	assert.True(t, IsSuperkey(NewAttrSet("a"), all, fds))
	assert.False(t, IsSuperkey(NewAttrSet("b"), all, fds))
	assert.True(t, IsSuperkey(all, all, fds), "the full attribute set is always a superkey")
	assert.True(t, IsSuperkey(all, all, nil))
}

func TestCombinationsOrder(t *testing.T) {
	var got [][]int
	combinations([]int{0, 1, 2, 3}, 2, func(c []int) bool {
		got = append(got, append([]int(nil), c...))
		return true
	})
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)

	calls := 0
	combinations([]int{0, 1, 2}, 1, func([]int) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)

	combinations([]int{0, 1}, 3, func([]int) bool {
		t.Fatal("no 3-subsets of two elements")
		return false
	})
}
