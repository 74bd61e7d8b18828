package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/tordrt/nfaudit/internal/schema"
)

// checkStart matches the start of a column or table CHECK constraint in
// CREATE TABLE text, with its optional CONSTRAINT name.
var checkStart = regexp.MustCompile("(?i)(?:\\bCONSTRAINT\\s+(\"(?:[^\"]|\"\")+\"|`[^`]+`|\\[[^\\]]+\\]|\\w+)\\s+)?\\bCHECK\\s*\\(")

// SQLiteExtractor handles schema extraction from SQLite
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// ExtractSchema extracts metadata and rows for the selected tables
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, opts ExtractOptions) (*schema.Schema, error) {
	var extractedTables []schema.Table

	tableNames, err := e.getTableNames(ctx, opts.Tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	for _, tableName := range tableNames {
		table, err := e.extractTable(ctx, tableName, opts.RowLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		extractedTables = append(extractedTables, *table)
	}

	return &schema.Schema{Tables: extractedTables}, nil
}

// getTableNames lists base tables, narrowed to requestedTables when given
func (e *SQLiteExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return selectTables(tableList, requestedTables), nil
}

// extractTable extracts all information for a single table
func (e *SQLiteExtractor) extractTable(ctx context.Context, tableName string, rowLimit int) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, pk, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns
	table.PrimaryKey = pk

	relations, err := e.extractRelations(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	table.Relations = relations

	uniques, err := e.extractUniqueConstraints(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract unique constraints: %w", err)
	}
	table.Uniques = uniques

	checks, err := e.extractCheckConstraints(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract check constraints: %w", err)
	}
	table.Checks = checks

	if len(columns) > 0 {
		data, err := e.extractRows(ctx, tableName, columns, rowLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to extract rows: %w", err)
		}
		table.Rows = data
	}

	return table, nil
}

// extractColumns extracts column information and the primary key, ordered
// by key position, from PRAGMA table_info.
func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, []string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", pq.QuoteIdentifier(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	type keyPart struct {
		name  string
		order int
	}
	var columns []schema.Column
	var keyParts []keyPart

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}

		col := schema.Column{
			Name:     name,
			Type:     colType,
			Nullable: notNull == 0,
		}
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}
		if pk > 0 {
			keyParts = append(keyParts, keyPart{name: name, order: pk})
		}

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	sort.SliceStable(keyParts, func(i, j int) bool { return keyParts[i].order < keyParts[j].order })
	var pk []string
	for _, kp := range keyParts {
		pk = append(pk, kp.name)
	}

	return columns, pk, nil
}

// extractRelations extracts foreign key relationships. A reference with no
// target column points at the parent's primary key.
func (e *SQLiteExtractor) extractRelations(ctx context.Context, tableName string) ([]schema.Relation, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", pq.QuoteIdentifier(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	var relations []schema.Relation
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			_ = rows.Close()
			return nil, err
		}

		relations = append(relations, schema.Relation{
			SourceColumn: fromCol,
			TargetTable:  targetTable,
			TargetColumn: toCol.String,
		})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range relations {
		if relations[i].TargetColumn != "" {
			continue
		}
		_, parentKey, err := e.extractColumns(ctx, relations[i].TargetTable)
		if err != nil {
			return nil, err
		}
		if len(parentKey) > 0 {
			relations[i].TargetColumn = parentKey[0]
		}
	}

	return relations, nil
}

// extractUniqueConstraints lists indexes created by UNIQUE constraints
// (origin "u"). Plain CREATE UNIQUE INDEX statements are not constraints.
func (e *SQLiteExtractor) extractUniqueConstraints(ctx context.Context, tableName string) ([]schema.UniqueConstraint, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", pq.QuoteIdentifier(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	// The client holds a single connection, so names are collected before
	// index_info is queried.
	var names []string
	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if unique == 1 && origin == "u" {
			names = append(names, name)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	// index_list returns the most recent index first
	sort.Strings(names)

	var uniques []schema.UniqueConstraint
	for _, name := range names {
		cols, err := e.indexColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(cols) > 0 {
			uniques = append(uniques, schema.UniqueConstraint{Name: name, Columns: cols})
		}
	}

	return uniques, nil
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	query := fmt.Sprintf("PRAGMA index_info(%s)", pq.QuoteIdentifier(indexName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var colName sql.NullString

		if err := rows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, err
		}
		if colName.Valid {
			columns = append(columns, colName.String)
		}
	}

	return columns, rows.Err()
}

// extractCheckConstraints parses CHECK clauses out of the stored CREATE
// TABLE statement; SQLite has no catalog table for them.
func (e *SQLiteExtractor) extractCheckConstraints(ctx context.Context, tableName string) ([]schema.CheckConstraint, error) {
	var ddl sql.NullString
	err := e.client.GetDB().QueryRowContext(ctx,
		"SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", tableName).Scan(&ddl)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return parseCheckConstraints(ddl.String), nil
}

// parseCheckConstraints returns every CHECK constraint in a CREATE TABLE
// statement in declaration order.
func parseCheckConstraints(ddl string) []schema.CheckConstraint {
	var checks []schema.CheckConstraint
	rest := ddl
	for {
		loc := checkStart.FindStringSubmatchIndex(rest)
		if loc == nil {
			return checks
		}
		open := loc[1] - 1
		end := closingParen(rest[open:])
		if end < 0 {
			return checks
		}

		var name string
		if loc[2] >= 0 {
			name = unquoteSQLiteIdent(rest[loc[2]:loc[3]])
		}
		clause := strings.TrimSpace(rest[open+1 : open+end])
		checks = append(checks, schema.CheckConstraint{Name: name, Clause: clause})

		rest = rest[open+end+1:]
	}
}

func unquoteSQLiteIdent(s string) string {
	if len(s) < 2 {
		return s
	}
	switch s[0] {
	case '"':
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	case '`', '[':
		return s[1 : len(s)-1]
	}
	return s
}

// extractRows reads the table's rows in column order
func (e *SQLiteExtractor) extractRows(ctx context.Context, tableName string, columns []schema.Column, limit int) ([]schema.Row, error) {
	query := selectRowsQuery(pq.QuoteIdentifier(tableName), columns, pq.QuoteIdentifier, limit)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows, func(v any, _ *sql.ColumnType) schema.Value { return schema.FromAny(v) })
}
