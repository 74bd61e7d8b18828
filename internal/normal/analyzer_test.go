package normal

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/nfaudit/internal/schema"
)

func TestParseForm(t *testing.T) {
	tests := []struct {
		in   string
		want Form
	}{
		{"1nf", Form1NF},
		{"2NF", Form2NF},
		{"bcnf", Form3NF},
		{" 3nf ", Form3NF},
		{"4", Form4NF},
		{"5nf", Form5NF},
		{"dknf", Form6NF},
		{"6nf", Form6NF},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseForm(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseForm("7nf")
	assert.True(t, IsUnknownFormErr(err))
}

func TestFormSlug(t *testing.T) {
	var slugs []string
	for _, f := range AllForms {
		slugs = append(slugs, f.Slug())
	}
	assert.Equal(t, []string{"1nf", "2nf", "3nf", "4nf", "5nf", "6nf"}, slugs)
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze(nil, Form1NF, Options{})
	assert.ErrorIs(t, err, ErrNilSnapshot)

	_, err = Analyze(snapshotOf(), Form(42), Options{})
	assert.ErrorIs(t, err, ErrUnknownForm)
}

func TestAnalyzeAllRunsEveryForm(t *testing.T) {
	reports, err := AnalyzeAll(snapshotOf(ordersTable([]string{"order_id", "customer_id"})), nil, Options{})
	require.NoError(t, err)
	require.Len(t, reports, len(AllForms))
	for i, r := range reports {
		assert.Equal(t, AllForms[i], r.Form)
	}
}

func TestParallelRunKeepsTableOrder(t *testing.T) {
	var tables []schema.Table
	for i := 0; i < 20; i++ {
		tables = append(tables, newTable(fmt.Sprintf("t%02d", i), []string{"id", "list"}, nil,
			[]any{1, "a,b"},
		))
	}
	snap := snapshotOf(tables...)

	serial := FirstNF(snap, Options{Workers: 1})
	parallel := FirstNF(snap, Options{Workers: 8})

	assert.Equal(t, serial.Issues, parallel.Issues)
	assert.Equal(t, serial.Analyzed, parallel.Analyzed)
	assert.Equal(t, "t00", parallel.Issues[0].Table)
}

// failingSnapshot panics when rows of one table are requested.
type failingSnapshot struct {
	*schema.Schema
	bad string
}

func (f failingSnapshot) Rows(table string) []schema.Row {
	if table == f.bad {
		panic("corrupt page")
	}
	return f.Schema.Rows(table)
}

func TestRunIsolatesFailingTable(t *testing.T) {
	snap := failingSnapshot{
		Schema: snapshotOf(
			newTable("good", []string{"id", "tags"}, []string{"id"}, []any{1, "a,b"}),
			newTable("broken", []string{"id"}, []string{"id"}),
		),
		bad: "broken",
	}

	report := FirstNF(snap, Options{})

	assert.Equal(t, []string{"good"}, report.Analyzed)
	assert.Len(t, report.Issues, 1)
	require.Len(t, report.Notices, 1)
	assert.Equal(t, "broken", report.Notices[0].Table)
	assert.Contains(t, report.Notices[0].Message, "corrupt page")
}

func TestRunLogsSkips(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	SecondNF(snapshotOf(newTable("events", []string{"at"}, nil)), Options{Logger: logger})

	out := buf.String()
	assert.Contains(t, out, "Analyzing table")
	assert.Contains(t, out, "Skipping table")
	assert.Contains(t, out, "table=events")
}

func TestRequireTables(t *testing.T) {
	snap := snapshotOf(newTable("orders", []string{"id"}, []string{"id"}))

	assert.NoError(t, RequireTables(snap, nil))
	assert.NoError(t, RequireTables(snap, []string{"orders"}))

	err := RequireTables(snap, []string{"orders", "ghosts", "phantoms"})
	assert.True(t, IsUnknownTableErr(err))
	assert.ErrorContains(t, err, "ghosts, phantoms")

	assert.ErrorIs(t, RequireTables(nil, nil), ErrNilSnapshot)
}
