package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/nfaudit/internal/config"
	"github.com/tordrt/nfaudit/internal/normal"
	"github.com/tordrt/nfaudit/internal/schema"
)

func TestParseTableList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "users", want: []string{"users"}},
		{name: "trims spaces", in: " users , orders ", want: []string{"users", "orders"}},
		{name: "drops blanks", in: "users,,orders,", want: []string{"users", "orders"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTableList(tt.in))
		})
	}
}

func TestParseForms(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []normal.Form
		wantErr bool
	}{
		{name: "default is all", in: nil, want: nil},
		{name: "explicit all", in: []string{"3nf", "all"}, want: nil},
		{name: "aliases", in: []string{"bcnf", "dknf"}, want: []normal.Form{normal.Form3NF, normal.Form6NF}},
		{name: "comma list keeps order", in: []string{"5nf,1nf"}, want: []normal.Form{normal.Form5NF, normal.Form1NF}},
		{name: "duplicates dropped", in: []string{"2nf", "2NF"}, want: []normal.Form{normal.Form2NF}},
		{name: "unknown", in: []string{"7nf"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseForms(tt.in)
			if tt.wantErr {
				assert.True(t, normal.IsUnknownFormErr(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveString(t *testing.T) {
	assert.Equal(t, "flag", resolveString("flag", "config"))
	assert.Equal(t, "config", resolveString("", "config"))
	assert.Equal(t, "", resolveString("", ""))
}

func writeEventsSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.yaml")
	snap := &schema.Schema{Tables: []schema.Table{
		{
			Name:    "events",
			Columns: []schema.Column{{Name: "at", Type: "text"}, {Name: "tags", Type: "text"}},
			Rows:    []schema.Row{{schema.Text("now"), schema.Text("a,b")}},
		},
	}}
	require.NoError(t, schema.SaveFile(path, snap))
	return path
}

func checkConfig(url string) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{URL: url},
		Forms:    []string{"1nf"},
		Limits:   config.LimitsConfig{MaxLHS: 4, MaxColumns: 24},
		Workers:  1,
		Output:   config.OutputConfig{Format: "text"},
	}
}

func TestRunCheck(t *testing.T) {
	c := checkConfig("file://" + writeEventsSnapshot(t))

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), c, &out, false))

	assert.Contains(t, out.String(), "1NF Violations Detected:")
	assert.Contains(t, out.String(), `-> Table "events" does not have a primary key.`)
}

func TestRunCheckExitCodes(t *testing.T) {
	path := writeEventsSnapshot(t)

	tests := []struct {
		name         string
		cfg          *config.Config
		failOnIssues bool
		wantCode     int
	}{
		{name: "issues without gate", cfg: checkConfig("file://" + path), wantCode: config.ExitSuccess},
		{name: "issues with gate", cfg: checkConfig("file://" + path), failOnIssues: true, wantCode: config.ExitIssues},
		{name: "missing url", cfg: checkConfig(""), wantCode: config.ExitConfig},
		{name: "unknown table", cfg: func() *config.Config {
			c := checkConfig("file://" + path)
			c.Tables = []string{"invoices"}
			return c
		}(), wantCode: config.ExitConfig},
		{name: "unknown form", cfg: func() *config.Config {
			c := checkConfig("file://" + path)
			c.Forms = []string{"9nf"}
			return c
		}(), wantCode: config.ExitConfig},
		{name: "missing snapshot", cfg: checkConfig("file://" + filepath.Join(t.TempDir(), "gone.yaml")), wantCode: config.ExitGeneral},
		{name: "unreachable sqlite", cfg: checkConfig("sqlite://" + filepath.Join(t.TempDir(), "gone.db")), wantCode: config.ExitDBConnect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCheck(context.Background(), tt.cfg, &bytes.Buffer{}, tt.failOnIssues)
			assert.Equal(t, tt.wantCode, config.ExitCode(err))
		})
	}
}

func TestRunSnapshotRoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, schema.SaveFile(src, &schema.Schema{Tables: []schema.Table{
		{
			Name:       "contacts",
			Columns:    []schema.Column{{Name: "id", Type: "integer"}, {Name: "email", Type: "text"}, {Name: "phone", Type: "text"}},
			PrimaryKey: []string{"id"},
			Rows: []schema.Row{
				{schema.Int(1), schema.Null(), schema.Text("555-0100")},
				{schema.Int(2), schema.Text("b@example.com"), schema.Null()},
				{schema.Int(3), schema.Null(), schema.Null()},
			},
		},
	}}))
	out := filepath.Join(t.TempDir(), "copy.yaml")

	require.NoError(t, runSnapshot(context.Background(), checkConfig("file://"+src), out))

	copied, err := schema.LoadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"contacts"}, copied.TableNames())
	rows := copied.Rows("contacts")
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Len(t, r, 3)
	}
	assert.True(t, rows[0][1].IsNull())
	assert.True(t, rows[2][2].IsNull())
	assert.True(t, schema.Text("b@example.com").Equal(rows[1][1]))

	var report bytes.Buffer
	require.NoError(t, runCheck(context.Background(), checkConfig("file://"+out), &report, false))
	assert.Contains(t, report.String(), "1NF Violations Detected:\n-> None")
}
