package normal

import (
	"fmt"
	"strings"
)

// sixthNF audits declared constraints only; rows are not read. DKNF is
// applied in its strict reading: any constraint that is neither a domain
// (declared type) nor the key is reported, referential ones included.
func sixthNF(snap Snapshot, r *relation, res *tableResult, _ Options) {
	for _, col := range snap.Columns(r.name) {
		if strings.TrimSpace(col.Type) == "" {
			res.issue(RuleUntypedColumn, []string{col.Name},
				"column %q has no domain constraint (type unspecified).", col.Name)
		}
	}

	pk := snap.PrimaryKey(r.name)
	if len(pk) == 0 {
		res.issue(RuleNoKeyConstraint, nil, "has no primary key defined.")
	}

	if fks := snap.ForeignKeys(r.name); len(fks) > 0 {
		descs := make([]string, len(fks))
		cols := make([]string, len(fks))
		for i, fk := range fks {
			descs[i] = fmt.Sprintf("%s → %s.%s", fk.SourceColumn, fk.TargetTable, fk.TargetColumn)
			if fk.Name != "" {
				descs[i] = fk.Name + " (" + descs[i] + ")"
			}
			cols[i] = fk.SourceColumn
		}
		res.issue(RuleForeignKey, cols, "has foreign key constraints: %s", strings.Join(descs, "; "))
	}

	key := NewAttrSet(pk...)
	for _, uc := range snap.UniqueConstraints(r.name) {
		if !NewAttrSet(uc.Columns...).Equal(key) {
			res.issue(RuleExtraUnique, uc.Columns,
				"has unique constraint on [%s] not part of primary key.", strings.Join(uc.Columns, ", "))
		}
	}

	for _, ck := range snap.CheckConstraints(r.name) {
		if ck.Name == "" {
			res.issue(RuleCheckConstraint, nil, "has CHECK constraint: %s", ck.Clause)
			continue
		}
		res.issue(RuleCheckConstraint, nil, "has CHECK constraint %q: %s", ck.Name, ck.Clause)
	}
}
