package normal

import (
	"github.com/tordrt/nfaudit/internal/schema"
)

// newTable builds a table whose columns are all typed "text".
func newTable(name string, cols, pk []string, rows ...[]any) schema.Table {
	t := schema.Table{Name: name, PrimaryKey: pk}
	for _, c := range cols {
		t.Columns = append(t.Columns, schema.Column{Name: c, Type: "text"})
	}
	for _, r := range rows {
		row := make(schema.Row, len(r))
		for i, v := range r {
			row[i] = schema.FromAny(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func snapshotOf(tables ...schema.Table) *schema.Schema {
	return &schema.Schema{Tables: tables}
}

func rulesOf(issues []Issue) []Rule {
	out := make([]Rule, len(issues))
	for i, is := range issues {
		out[i] = is.Rule
	}
	return out
}

func messagesOf(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Message
	}
	return out
}
