package normal

import (
	"strings"
	"unicode"

	"github.com/tordrt/nfaudit/internal/schema"
)

// listSeparators mark a text cell as a possible list of values.
const listSeparators = ",;"

// firstNF runs the five independent cell-shape checks. Row order carries no
// information in a relation and cannot be checked from data, so it is not.
func firstNF(snap Snapshot, r *relation, res *tableResult, _ Options) {
	// Multi-valued cells
	for p, name := range r.columns {
		for _, row := range r.rows {
			v := cell(row, p)
			if v.Kind == schema.KindText && strings.ContainsAny(v.Text, listSeparators) {
				res.issue(RuleMultiValued, []string{name},
					"column %q might contain multiple values in a single cell.", name)
				break
			}
		}
	}

	// Duplicate column names
	if dups := duplicateNames(r.columns); len(dups) > 0 {
		res.issue(RuleDuplicateColumn, dups, "has duplicate column names: %s.", strings.Join(dups, ", "))
	}

	// Mixed value kinds, nulls ignored
	for p, name := range r.columns {
		if kinds := columnKinds(r.rows, p); len(kinds) > 1 {
			res.issue(RuleMixedTypes, []string{name},
				"column %q contains mixed data types: %s", name, joinKinds(kinds))
		}
	}

	if len(snap.PrimaryKey(r.name)) == 0 {
		res.issue(RuleNoPrimaryKey, nil, "does not have a primary key.")
	}

	// Numbered columns suggest a repeating group (phone1, phone2, ...)
	var repeating []string
	for _, name := range r.columns {
		if strings.IndexFunc(name, unicode.IsDigit) >= 0 {
			repeating = append(repeating, name)
		}
	}
	if len(repeating) > 0 {
		res.issue(RuleRepeatingGroup, repeating, "might contain repeating groups: %s", strings.Join(repeating, ", "))
	}
}

func duplicateNames(cols []string) []string {
	count := make(map[string]int, len(cols))
	for _, c := range cols {
		count[c]++
	}
	var dups []string
	for _, c := range cols {
		if count[c] > 1 {
			dups = append(dups, c)
			count[c] = 0
		}
	}
	return dups
}

// columnKinds returns the non-null kinds found in column p, in first-seen order.
func columnKinds(rows []schema.Row, p int) []schema.Kind {
	var kinds []schema.Kind
	var seen [schema.KindOther + 1]bool
	for _, row := range rows {
		k := cell(row, p).Kind
		if k == schema.KindNull || int(k) >= len(seen) || seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds
}

func joinKinds(kinds []schema.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

// secondNF flags non-key attributes determined by a single column of a
// composite primary key.
func secondNF(snap Snapshot, r *relation, res *tableResult, _ Options) {
	pk := snap.PrimaryKey(r.name)
	switch {
	case len(pk) == 0:
		res.skip("Table %q has no primary key.", r.name)
		return
	case len(pk) == 1:
		res.skip("Table %q has a single-column primary key.", r.name)
		return
	case len(r.rows) == 0:
		res.skip("Table %q has no rows.", r.name)
		return
	}

	keyPos, ok := r.positions(pk)
	if !ok {
		res.skip("Table %q primary key names columns missing from the snapshot.", r.name)
		return
	}

	key := NewAttrSet(pk...)
	for p, attr := range r.columns {
		if key.Contains(attr) {
			continue
		}
		for i, kp := range keyPos {
			if r.determines([]int{kp}, p) {
				res.issue(RulePartialDependency, []string{attr, pk[i]},
					"attribute %q may depend only on part of the composite key %q.", attr, pk[i])
			}
		}
	}
}
