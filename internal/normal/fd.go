package normal

import "strings"

// Discovery is the outcome of functional dependency discovery on one table.
type Discovery struct {
	FDs []FD

	// Undetermined lists columns no proper subset of the other columns
	// determines in the captured rows.
	Undetermined []string

	// Bounded lists columns not determined by any subset of at most MaxLHS
	// columns. Larger determinants were not tried, so these columns may
	// still have one.
	Bounded []string
}

// DiscoverFDs finds, for every column of table, the first smallest set of
// other columns that determines it. Subsets are tried in increasing size and,
// within one size, in column order; the search for a column stops at its
// first determinant, so at most one FD is kept per column. maxLHS caps the
// subset size; zero means no cap.
func DiscoverFDs(snap Snapshot, table string, maxLHS int) Discovery {
	return discoverFDs(loadRelation(snap, table), maxLHS)
}

func discoverFDs(r *relation, maxLHS int) Discovery {
	var d Discovery
	n := len(r.columns)

	for rhs := 0; rhs < n; rhs++ {
		candidates := make([]int, 0, n-1)
		for p := 0; p < n; p++ {
			if p != rhs {
				candidates = append(candidates, p)
			}
		}

		var lhs []int
		bounded := false
		for size := 1; size <= len(candidates) && lhs == nil; size++ {
			if maxLHS > 0 && size > maxLHS {
				bounded = true
				break
			}
			combinations(candidates, size, func(combo []int) bool {
				if r.determines(combo, rhs) {
					lhs = append([]int(nil), combo...)
					return false
				}
				return true
			})
		}

		switch {
		case lhs != nil:
			d.FDs = append(d.FDs, FD{
				LHS: NewAttrSet(r.names(lhs)...),
				RHS: NewAttrSet(r.columns[rhs]),
			})
		case bounded:
			d.Bounded = append(d.Bounded, r.columns[rhs])
		case len(candidates) > 0:
			d.Undetermined = append(d.Undetermined, r.columns[rhs])
		}
	}

	return d
}

// Holds reports whether the captured rows of table satisfy fd: every group
// of rows agreeing on fd.LHS agrees on each column of fd.RHS.
func Holds(snap Snapshot, table string, fd FD) bool {
	r := loadRelation(snap, table)
	lhs, ok := r.positions(fd.LHS)
	if !ok {
		return false
	}
	rhs, ok := r.positions(fd.RHS)
	if !ok {
		return false
	}
	for _, p := range rhs {
		if !r.determines(lhs, p) {
			return false
		}
	}
	return true
}

// thirdNF flags every discovered FD whose determinant is not a superkey
// under the table's own discovered FD set.
func thirdNF(snap Snapshot, r *relation, res *tableResult, opts Options) {
	if len(snap.PrimaryKey(r.name)) == 0 {
		res.skip("Table %q has no primary key.", r.name)
		return
	}
	if len(r.rows) == 0 {
		res.skip("Table %q has no rows.", r.name)
		return
	}
	if opts.tooWide(r) {
		res.skip("Table %q has %d columns, more than the limit of %d.", r.name, len(r.columns), opts.MaxColumns)
		return
	}

	d := discoverFDs(r, opts.MaxLHS)
	if len(d.Bounded) > 0 {
		res.notice(NoticeBounded, "Table %q: no determinant of up to %d columns found for %s.",
			r.name, opts.MaxLHS, strings.Join(d.Bounded, ", "))
	}

	all := r.attrs()
	for _, fd := range d.FDs {
		if !IsSuperkey(fd.LHS, all, d.FDs) {
			res.issue(RuleNonKeyDeterminant, fd.LHS.Union(fd.RHS),
				"violates 3NF/BCNF: %s (LHS is not a superkey)", fd)
		}
	}
}
