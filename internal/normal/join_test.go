package normal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spurious holds three tuples whose pairwise projections rejoin into a
// fourth tuple, (s1, p1, j1), that is not in the relation.
func spurious() [][]any {
	return [][]any{
		{"s1", "p1", "j2"},
		{"s1", "p2", "j1"},
		{"s2", "p1", "j1"},
	}
}

func TestLossless(t *testing.T) {
	r := loadRelation(snapshotOf(newTable("spj", []string{"s", "p", "j"}, nil, spurious()...)), "spj")
	assert.False(t, r.lossless(0, 1, 2))

	withFourth := append(spurious(), []any{"s1", "p1", "j1"})
	r = loadRelation(snapshotOf(newTable("spj", []string{"s", "p", "j"}, nil, withFourth...)), "spj")
	assert.True(t, r.lossless(0, 1, 2))
}

func TestCandidateKeysIncludeSupersets(t *testing.T) {
	snap := snapshotOf(newTable("spj", []string{"s", "p", "j"}, nil, spurious()...))

	keys := CandidateKeys(snap, "spj", 0)

	assert.Equal(t, []AttrSet{
		NewAttrSet("s", "p"),
		NewAttrSet("s", "j"),
		NewAttrSet("p", "j"),
		NewAttrSet("s", "p", "j"),
	}, keys)

	assert.Len(t, CandidateKeys(snap, "spj", 2), 3)
}

func TestFifthNFKeyBearingCombinationIsExempt(t *testing.T) {
	snap := snapshotOf(newTable("spj", []string{"s", "p", "j"}, nil, spurious()...))

	report := FifthNF(snap, Options{})

	assert.Empty(t, report.Issues, "rejoin fails but {s, p} is a key inside the combination")
	assert.Equal(t, []string{"spj"}, report.Analyzed)
}

func TestFifthNFJoinDependencyViolation(t *testing.T) {
	// Each (s, p, j) appears twice, so only shipment_id is unique and the
	// (s, p, j) combination carries no key.
	var rows [][]any
	for i, r := range spurious() {
		rows = append(rows, []any{r[0], r[1], r[2], 2*i + 1}, []any{r[0], r[1], r[2], 2*i + 2})
	}
	snap := snapshotOf(newTable("shipments", []string{"s", "p", "j", "shipment_id"}, []string{"shipment_id"}, rows...))

	report := FifthNF(snap, Options{})

	require.Len(t, report.Issues, 1)
	assert.Equal(t, RuleJoinDependency, report.Issues[0].Rule)
	assert.Equal(t, []string{"s", "p", "j"}, report.Issues[0].Columns)
	assert.Equal(t, "join dependency not preserved on attributes: (s, p, j)", report.Issues[0].Message)
}

func TestFifthNFSkips(t *testing.T) {
	dupRow := []any{"a", "b", "c"}
	snap := snapshotOf(
		newTable("empty", []string{"a", "b", "c"}, []string{"a"}),
		newTable("narrow", []string{"a", "b"}, []string{"a"}, []any{1, 2}),
		newTable("dups", []string{"a", "b", "c"}, nil, dupRow, dupRow),
	)

	report := FifthNF(snap, Options{})

	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Analyzed)
	require.Len(t, report.Notices, 3)
	assert.Equal(t, NoticeSkipped, report.Notices[0].Kind)
	assert.Equal(t, NoticeSkipped, report.Notices[1].Kind)
	assert.Equal(t, NoticeWarning, report.Notices[2].Kind)
	assert.Equal(t, `No candidate keys found for table "dups".`, report.Notices[2].Message)
}

func TestEmptyTableNeverFails(t *testing.T) {
	snap := snapshotOf(newTable("empty", []string{"a", "b", "c"}, []string{"a"}))

	for _, form := range []Form{Form3NF, Form5NF} {
		t.Run(form.String(), func(t *testing.T) {
			report, err := Analyze(snap, form, Options{})
			require.NoError(t, err)
			assert.Empty(t, report.Issues)
			assert.True(t, report.Skipped("empty"))
		})
	}

	assert.Empty(t, DiscoverFDs(snap, "empty", 0).Bounded)
}
