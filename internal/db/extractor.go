package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/nfaudit/internal/schema"
)

// Extractor captures a schema snapshot, metadata plus rows, from a live
// database.
type Extractor interface {
	ExtractSchema(ctx context.Context, opts ExtractOptions) (*schema.Schema, error)
}

// ExtractOptions selects what to capture.
type ExtractOptions struct {
	// Tables limits extraction to the named tables. Empty means every base
	// table in the schema.
	Tables []string

	// RowLimit caps the rows fetched per table. Zero fetches every row.
	RowLimit int
}

// limitClause renders a LIMIT suffix, empty when n is zero.
func limitClause(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", n)
}

// selectRowsQuery builds a SELECT over cols of table using quote for
// identifiers.
func selectRowsQuery(table string, cols []schema.Column, quote func(string) string, limit int) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quote(c.Name)
	}
	return "SELECT " + strings.Join(names, ", ") + " FROM " + table + limitClause(limit)
}

// scanRows materializes every remaining row, converting each cell with convert.
func scanRows(rows *sql.Rows, convert func(v any, ct *sql.ColumnType) schema.Value) ([]schema.Row, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	dest := make([]any, len(types))
	ptrs := make([]any, len(types))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	var out []schema.Row
	for rows.Next() {
		for i := range dest {
			dest[i] = nil
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(schema.Row, len(dest))
		for i, v := range dest {
			row[i] = convert(v, types[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// appendUniqueColumn folds (constraint, column) pairs ordered by constraint
// into UniqueConstraint values.
func appendUniqueColumn(list []schema.UniqueConstraint, name, column string) []schema.UniqueConstraint {
	if n := len(list); n > 0 && list[n-1].Name == name {
		list[n-1].Columns = append(list[n-1].Columns, column)
		return list
	}
	return append(list, schema.UniqueConstraint{Name: name, Columns: []string{column}})
}

// checkClause strips the CHECK keyword and one pair of enclosing
// parentheses from a constraint definition.
func checkClause(def string) string {
	s := strings.TrimSpace(def)
	if len(s) > 5 && strings.EqualFold(s[:5], "CHECK") && (s[5] == ' ' || s[5] == '(') {
		s = strings.TrimSpace(s[5:])
	}
	if end := closingParen(s); end == len(s)-1 {
		s = strings.TrimSpace(s[1:end])
	}
	return s
}

// closingParen returns the index of the parenthesis closing s[0], or -1.
// Parentheses inside single-quoted literals are ignored.
func closingParen(s string) int {
	if s == "" || s[0] != '(' {
		return -1
	}
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// selectTables narrows all to the requested names, in request order.
// Requested names that do not exist are dropped; callers compare the
// result against their request to report them.
func selectTables(all, requested []string) []string {
	if len(requested) == 0 {
		return all
	}

	exists := make(map[string]bool, len(all))
	for _, name := range all {
		exists[name] = true
	}

	var selected []string
	for _, name := range requested {
		if exists[name] {
			selected = append(selected, name)
		}
	}
	return selected
}
