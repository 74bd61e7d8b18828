package normal

import (
	"github.com/tordrt/nfaudit/internal/schema"
)

// Snapshot is the read-only view of a captured database the analyzers
// consume. *schema.Schema implements it.
type Snapshot interface {
	TableNames() []string
	Columns(table string) []schema.Column
	PrimaryKey(table string) []string
	UniqueConstraints(table string) []schema.UniqueConstraint
	ForeignKeys(table string) []schema.Relation
	CheckConstraints(table string) []schema.CheckConstraint
	Rows(table string) []schema.Row
}

// relation is one table's columns and rows. Columns are addressed by
// position because a relation may carry duplicate column names.
type relation struct {
	name    string
	columns []string
	rows    []schema.Row
	pos     map[string]int
}

func loadRelation(snap Snapshot, table string) *relation {
	cols := snap.Columns(table)
	r := &relation{
		name:    table,
		columns: make([]string, len(cols)),
		rows:    snap.Rows(table),
		pos:     make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		r.columns[i] = c.Name
		if _, seen := r.pos[c.Name]; !seen {
			r.pos[c.Name] = i
		}
	}
	return r
}

// attrs returns every column name of the relation as a set.
func (r *relation) attrs() AttrSet {
	return NewAttrSet(r.columns...)
}

// names maps column positions to names.
func (r *relation) names(idx []int) []string {
	out := make([]string, len(idx))
	for i, p := range idx {
		out[i] = r.columns[p]
	}
	return out
}

// positions resolves names to column positions. ok is false when any name
// is not a column of the relation.
func (r *relation) positions(names []string) (idx []int, ok bool) {
	idx = make([]int, 0, len(names))
	for _, n := range names {
		p, found := r.pos[n]
		if !found {
			return nil, false
		}
		idx = append(idx, p)
	}
	return idx, true
}

// cell returns the value at column p of row, treating short rows as null.
func cell(row schema.Row, p int) schema.Value {
	if p < len(row) {
		return row[p]
	}
	return schema.Null()
}

// tupleKey encodes the projection of row onto idx. Nulls encode like any
// other value, so two nulls land in the same group.
func tupleKey(buf []byte, row schema.Row, idx []int) []byte {
	buf = buf[:0]
	for _, p := range idx {
		buf = cell(row, p).AppendKey(buf)
	}
	return buf
}

// determines reports whether grouping by lhs yields exactly one distinct
// rhs value in every group.
func (r *relation) determines(lhs []int, rhs int) bool {
	seen := make(map[string]string, len(r.rows))
	var kbuf, vbuf []byte
	for _, row := range r.rows {
		kbuf = tupleKey(kbuf, row, lhs)
		vbuf = cell(row, rhs).AppendKey(vbuf[:0])
		k := string(kbuf)
		if prev, ok := seen[k]; ok {
			if prev != string(vbuf) {
				return false
			}
			continue
		}
		seen[k] = string(vbuf)
	}
	return true
}

// maxDistinct returns the largest number of distinct values of col found in
// any group of rows sharing the same by-tuple.
func (r *relation) maxDistinct(by []int, col int) int {
	groups := make(map[string]map[string]struct{})
	most := 0
	var kbuf, vbuf []byte
	for _, row := range r.rows {
		kbuf = tupleKey(kbuf, row, by)
		g, ok := groups[string(kbuf)]
		if !ok {
			g = make(map[string]struct{})
			groups[string(kbuf)] = g
		}
		vbuf = cell(row, col).AppendKey(vbuf[:0])
		g[string(vbuf)] = struct{}{}
		if len(g) > most {
			most = len(g)
		}
	}
	return most
}

// unique reports whether no two rows share the same projection onto idx.
func (r *relation) unique(idx []int) bool {
	seen := make(map[string]struct{}, len(r.rows))
	var buf []byte
	for _, row := range r.rows {
		buf = tupleKey(buf, row, idx)
		if _, ok := seen[string(buf)]; ok {
			return false
		}
		seen[string(buf)] = struct{}{}
	}
	return true
}

// combinations calls fn with every k-subset of idx in lexicographic order of
// positions. It stops early when fn returns false. The slice passed to fn is
// reused between calls.
func combinations(idx []int, k int, fn func(combo []int) bool) {
	n := len(idx)
	if k <= 0 || k > n {
		return
	}
	sel := make([]int, k)
	for i := range sel {
		sel[i] = i
	}
	combo := make([]int, k)
	for {
		for i, s := range sel {
			combo[i] = idx[s]
		}
		if !fn(combo) {
			return
		}
		i := k - 1
		for i >= 0 && sel[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		sel[i]++
		for j := i + 1; j < k; j++ {
			sel[j] = sel[j-1] + 1
		}
	}
}

func allPositions(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
