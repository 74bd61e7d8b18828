package normal

import "fmt"

// MVD is a multivalued dependency candidate Determinant ↠ Dependent1, Dependent2.
type MVD struct {
	Determinant string
	Dependent1  string
	Dependent2  string
}

func (m MVD) String() string {
	return fmt.Sprintf("%s ↠ %s, %s", m.Determinant, m.Dependent1, m.Dependent2)
}

// MVDCandidates returns, for every column X and unordered pair (Y, Z) of
// other columns, the triples where some X-group holds more than one Y value
// and some X-group holds more than one Z value. The two conditions are read
// independently: they need not hold in the same group.
func MVDCandidates(snap Snapshot, table string) []MVD {
	return mvdCandidates(loadRelation(snap, table))
}

func mvdCandidates(r *relation) []MVD {
	n := len(r.columns)
	var out []MVD

	for x := 0; x < n; x++ {
		// multi[c] is true when some group of x holds several values of c.
		multi := make([]bool, n)
		others := make([]int, 0, n-1)
		for c := 0; c < n; c++ {
			if c == x {
				continue
			}
			others = append(others, c)
			multi[c] = r.maxDistinct([]int{x}, c) > 1
		}

		combinations(others, 2, func(pair []int) bool {
			if multi[pair[0]] && multi[pair[1]] {
				out = append(out, MVD{
					Determinant: r.columns[x],
					Dependent1:  r.columns[pair[0]],
					Dependent2:  r.columns[pair[1]],
				})
			}
			return true
		})
	}

	return out
}

// fourthNF reports MVD candidates whose determinant is not a superkey. The
// FD set is assumed to be exactly {primary key → each non-key attribute};
// dependencies discovered by the 3NF audit are deliberately not reused.
func fourthNF(snap Snapshot, r *relation, res *tableResult, opts Options) {
	pk := snap.PrimaryKey(r.name)
	if len(pk) == 0 {
		res.skip("Table %q has no primary key.", r.name)
		return
	}
	if opts.tooWide(r) {
		res.skip("Table %q has %d columns, more than the limit of %d.", r.name, len(r.columns), opts.MaxColumns)
		return
	}

	fds := assumedKeyFDs(pk, r.columns)
	all := r.attrs()
	for _, m := range mvdCandidates(r) {
		if !IsSuperkey(NewAttrSet(m.Determinant), all, fds) {
			res.issue(RuleMultivalued, []string{m.Determinant, m.Dependent1, m.Dependent2},
				"violates 4NF: %s (LHS is not a superkey)", m)
		}
	}
}

// assumedKeyFDs builds {pk → a} for every column a outside pk.
func assumedKeyFDs(pk, columns []string) []FD {
	key := NewAttrSet(pk...)
	var fds []FD
	for _, c := range columns {
		if !key.Contains(c) {
			fds = append(fds, FD{LHS: key, RHS: NewAttrSet(c)})
		}
	}
	return fds
}
