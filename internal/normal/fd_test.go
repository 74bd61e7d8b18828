package normal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFDsKeepsFirstMinimalDeterminant(t *testing.T) {
	snap := snapshotOf(newTable("employees",
		[]string{"id", "dept", "dept_name"}, []string{"id"},
		[]any{1, 10, "sales"},
		[]any{2, 10, "sales"},
		[]any{3, 20, "ops"},
	))

	d := DiscoverFDs(snap, "employees", 0)

	// dept → dept_name also holds, but id is tried first and wins.
	assert.Equal(t, []FD{
		{LHS: NewAttrSet("id"), RHS: NewAttrSet("dept")},
		{LHS: NewAttrSet("id"), RHS: NewAttrSet("dept_name")},
	}, d.FDs)
	assert.Equal(t, []string{"id"}, d.Undetermined)
	assert.Empty(t, d.Bounded)

	for _, fd := range d.FDs {
		assert.True(t, Holds(snap, "employees", fd), "discovered %s must hold", fd)
	}
}

func TestDiscoverFDsRespectsMaxLHS(t *testing.T) {
	// c = a xor b: every column needs both others as determinant.
	snap := snapshotOf(newTable("parity",
		[]string{"a", "b", "c"}, nil,
		[]any{0, 0, 0},
		[]any{0, 1, 1},
		[]any{1, 0, 1},
		[]any{1, 1, 0},
	))

	bounded := DiscoverFDs(snap, "parity", 1)
	assert.Empty(t, bounded.FDs)
	assert.Equal(t, []string{"a", "b", "c"}, bounded.Bounded)
	assert.Empty(t, bounded.Undetermined)

	full := DiscoverFDs(snap, "parity", 0)
	require.Len(t, full.FDs, 3)
	assert.Equal(t, FD{LHS: NewAttrSet("a", "b"), RHS: NewAttrSet("c")}, full.FDs[2])
	assert.Empty(t, full.Bounded)
}

func TestDiscoverFDsTreatsNullsAsOneValue(t *testing.T) {
	snap := snapshotOf(newTable("contacts",
		[]string{"email", "name"}, nil,
		[]any{nil, "a"},
		[]any{nil, "b"},
		[]any{"x@example.com", "c"},
	))

	d := DiscoverFDs(snap, "contacts", 0)

	// Both null emails group together and disagree on name.
	assert.Equal(t, []FD{{LHS: NewAttrSet("name"), RHS: NewAttrSet("email")}}, d.FDs)
	assert.Equal(t, []string{"name"}, d.Undetermined)
}

func TestHoldsRejectsUnknownColumns(t *testing.T) {
	snap := snapshotOf(newTable("t", []string{"a", "b"}, nil, []any{1, 2}))
	assert.False(t, Holds(snap, "t", FD{LHS: NewAttrSet("zz"), RHS: NewAttrSet("b")}))
}

func TestThirdNF(t *testing.T) {
	addresses := newTable("addresses",
		[]string{"zip", "city", "id"}, []string{"id"},
		[]any{"100", "Oslo", 1},
		[]any{"100", "Oslo", 2},
		[]any{"200", "Bergen", 3},
	)
	noKey := newTable("log", []string{"a", "b"}, nil, []any{1, 2})
	empty := newTable("empty", []string{"a", "b", "c"}, []string{"a"})

	report := ThirdNF(snapshotOf(addresses, noKey, empty), Options{})

	assert.Equal(t, []string{
		"violates 3NF/BCNF: {city} → {zip} (LHS is not a superkey)",
		"violates 3NF/BCNF: {zip} → {city} (LHS is not a superkey)",
	}, messagesOf(report.Issues))
	assert.Equal(t, []string{"city", "zip"}, report.Issues[0].Columns)

	assert.Equal(t, []string{"addresses"}, report.Analyzed)
	assert.True(t, report.Skipped("log"))
	assert.True(t, report.Skipped("empty"))
}

func TestThirdNFWideTableIsSkipped(t *testing.T) {
	wide := newTable("wide", []string{"a", "b", "c", "d"}, []string{"a"}, []any{1, 2, 3, 4})

	report := ThirdNF(snapshotOf(wide), Options{MaxColumns: 3})

	assert.Empty(t, report.Issues)
	require.Len(t, report.Notices, 1)
	assert.Equal(t, NoticeSkipped, report.Notices[0].Kind)
}

func TestThirdNFReportsBoundedSearch(t *testing.T) {
	parity := newTable("parity",
		[]string{"a", "b", "c"}, []string{"a", "b"},
		[]any{0, 0, 0},
		[]any{0, 1, 1},
		[]any{1, 0, 1},
		[]any{1, 1, 0},
	)

	report := ThirdNF(snapshotOf(parity), Options{MaxLHS: 1})

	assert.Empty(t, report.Issues)
	require.Len(t, report.Notices, 1)
	assert.Equal(t, NoticeBounded, report.Notices[0].Kind)
	assert.Equal(t, []string{"parity"}, report.Analyzed)
}
