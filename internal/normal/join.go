package normal

// joinArity is the width of the column combinations tested for join
// dependencies. Only keys of at most this many columns can exempt a
// combination, so key enumeration for the 5NF audit stops there.
const joinArity = 3

// CandidateKeys returns every set of at most maxSize columns (zero means any
// size) whose projection holds no duplicate rows, in increasing size and
// column order. Supersets of an earlier key are included; callers that need
// minimal keys must filter.
func CandidateKeys(snap Snapshot, table string, maxSize int) []AttrSet {
	r := loadRelation(snap, table)
	keys := candidateKeys(r, maxSize)
	out := make([]AttrSet, len(keys))
	for i, k := range keys {
		out[i] = NewAttrSet(r.names(k)...)
	}
	return out
}

func candidateKeys(r *relation, maxSize int) [][]int {
	n := len(r.columns)
	if maxSize <= 0 || maxSize > n {
		maxSize = n
	}
	all := allPositions(n)

	var keys [][]int
	for size := 1; size <= maxSize; size++ {
		combinations(all, size, func(combo []int) bool {
			if r.unique(combo) {
				keys = append(keys, append([]int(nil), combo...))
			}
			return true
		})
	}
	return keys
}

// lossless reports whether the projection onto columns (a, b, c) equals
// π(a,b) ⋈ π(a,c) ⋈ π(b,c). The join always contains the projection, so
// it is lossless exactly when the join produces no tuple outside it.
func (r *relation) lossless(a, b, c int) bool {
	var buf []byte
	original := make(map[string]struct{}, len(r.rows))
	bByA := make(map[string][]string)
	cByA := make(map[string][]string)
	seenAB := make(map[string]struct{})
	seenAC := make(map[string]struct{})
	bc := make(map[string]struct{})

	for _, row := range r.rows {
		buf = cell(row, a).AppendKey(buf[:0])
		ak := string(buf)
		buf = cell(row, b).AppendKey(buf[:0])
		bk := string(buf)
		buf = cell(row, c).AppendKey(buf[:0])
		ck := string(buf)

		original[ak+bk+ck] = struct{}{}
		if _, ok := seenAB[ak+bk]; !ok {
			seenAB[ak+bk] = struct{}{}
			bByA[ak] = append(bByA[ak], bk)
		}
		if _, ok := seenAC[ak+ck]; !ok {
			seenAC[ak+ck] = struct{}{}
			cByA[ak] = append(cByA[ak], ck)
		}
		bc[bk+ck] = struct{}{}
	}

	for ak, bs := range bByA {
		cs := cByA[ak]
		for _, bk := range bs {
			for _, ck := range cs {
				if _, ok := bc[bk+ck]; !ok {
					continue
				}
				if _, ok := original[ak+bk+ck]; !ok {
					return false
				}
			}
		}
	}
	return true
}

// containsKey reports whether combo covers every column of some key.
func containsKey(combo []int, keys [][]int) bool {
	for _, k := range keys {
		covered := true
		for _, p := range k {
			found := false
			for _, q := range combo {
				if p == q {
					found = true
					break
				}
			}
			if !found {
				covered = false
				break
			}
		}
		if covered {
			return true
		}
	}
	return false
}

// fifthNF flags three-column combinations that pairwise projections cannot
// losslessly rebuild, unless the combination contains a candidate key.
func fifthNF(_ Snapshot, r *relation, res *tableResult, opts Options) {
	if len(r.rows) == 0 || len(r.columns) < joinArity {
		res.skip("Table %q has insufficient data or columns.", r.name)
		return
	}
	if opts.tooWide(r) {
		res.skip("Table %q has %d columns, more than the limit of %d.", r.name, len(r.columns), opts.MaxColumns)
		return
	}

	keys := candidateKeys(r, joinArity)
	if len(keys) == 0 && !r.unique(allPositions(len(r.columns))) {
		res.skipped = true
		res.notice(NoticeWarning, "No candidate keys found for table %q.", r.name)
		return
	}

	combinations(allPositions(len(r.columns)), joinArity, func(combo []int) bool {
		if containsKey(combo, keys) {
			return true
		}
		if !r.lossless(combo[0], combo[1], combo[2]) {
			cols := r.names(combo)
			res.issue(RuleJoinDependency, cols,
				"join dependency not preserved on attributes: (%s, %s, %s)", cols[0], cols[1], cols[2])
		}
		return true
	})
}
