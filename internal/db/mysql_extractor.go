package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/nfaudit/internal/schema"
)

// errUnknownTable is ER_UNKNOWN_TABLE, returned by servers that predate
// information_schema.check_constraints.
const errUnknownTable = 1109

// MySQLExtractor handles schema extraction from MySQL
type MySQLExtractor struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLExtractor creates a new MySQL schema extractor
func NewMySQLExtractor(client *MySQLClient, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{
		client:     client,
		schemaName: schemaName,
	}
}

// ExtractSchema extracts metadata and rows for the selected tables
func (e *MySQLExtractor) ExtractSchema(ctx context.Context, opts ExtractOptions) (*schema.Schema, error) {
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
func (e *MySQLExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return selectTables(tables, requestedTables), nil
}

// extractTable extracts all information for a single table
func (e *MySQLExtractor) extractTable(ctx context.Context, tableName string, rowLimit int) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	pk, err := e.extractPrimaryKey(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
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

// extractColumns extracts column information for a table
func (e *MySQLExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := `
		SELECT
			c.column_name,
			c.column_type,
			c.is_nullable,
			c.column_default
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var nullable string
		var defaultVal sql.NullString

		if err := rows.Scan(&col.Name, &col.Type, &nullable, &defaultVal); err != nil {
			return nil, err
		}

		col.Nullable = nullable == "YES"
		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// extractPrimaryKey extracts primary key columns
func (e *MySQLExtractor) extractPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return nil, err
		}
		pk = append(pk, colName)
	}

	return pk, rows.Err()
}

// extractRelations extracts foreign key relationships
func (e *MySQLExtractor) extractRelations(ctx context.Context, tableName string) ([]schema.Relation, error) {
	query := `
		SELECT
			kcu.constraint_name,
			kcu.column_name,
			kcu.referenced_table_name,
			kcu.referenced_column_name
		FROM information_schema.key_column_usage kcu
		WHERE kcu.table_schema = ?
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		var rel schema.Relation
		if err := rows.Scan(&rel.Name, &rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn); err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}

	return relations, rows.Err()
}

// extractUniqueConstraints extracts UNIQUE constraints with their columns in key order
func (e *MySQLExtractor) extractUniqueConstraints(ctx context.Context, tableName string) ([]schema.UniqueConstraint, error) {
	query := `
		SELECT tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = ?
			AND tc.table_name = ?
			AND tc.constraint_type = 'UNIQUE'
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uniques []schema.UniqueConstraint
	for rows.Next() {
		var name, column string
		if err := rows.Scan(&name, &column); err != nil {
			return nil, err
		}
		uniques = appendUniqueColumn(uniques, name, column)
	}

	return uniques, rows.Err()
}

// extractCheckConstraints extracts CHECK constraints. Servers without
// information_schema.check_constraints report none.
func (e *MySQLExtractor) extractCheckConstraints(ctx context.Context, tableName string) ([]schema.CheckConstraint, error) {
	query := `
		SELECT cc.constraint_name, cc.check_clause
		FROM information_schema.check_constraints cc
		JOIN information_schema.table_constraints tc
			ON tc.constraint_schema = cc.constraint_schema
			AND tc.constraint_name = cc.constraint_name
		WHERE tc.table_schema = ?
			AND tc.table_name = ?
			AND tc.constraint_type = 'CHECK'
		ORDER BY cc.constraint_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == errUnknownTable {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var checks []schema.CheckConstraint
	for rows.Next() {
		var ck schema.CheckConstraint
		if err := rows.Scan(&ck.Name, &ck.Clause); err != nil {
			return nil, err
		}
		ck.Clause = checkClause(ck.Clause)
		checks = append(checks, ck)
	}

	return checks, rows.Err()
}

// extractRows reads the table's rows in column order
func (e *MySQLExtractor) extractRows(ctx context.Context, tableName string, columns []schema.Column, limit int) ([]schema.Row, error) {
	query := selectRowsQuery(quoteMySQL(e.schemaName)+"."+quoteMySQL(tableName), columns, quoteMySQL, limit)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows, mysqlValue)
}

// quoteMySQL quotes an identifier with backticks.
func quoteMySQL(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// mysqlValue tags a value returned by the text protocol, where every
// non-null cell arrives as bytes, using the column's declared type.
func mysqlValue(v any, ct *sql.ColumnType) schema.Value {
	return mysqlTypedValue(v, ct.DatabaseTypeName())
}

func mysqlTypedValue(v any, databaseType string) schema.Value {
	b, ok := v.([]byte)
	if !ok {
		return schema.FromAny(v)
	}
	s := string(b)

	switch strings.TrimPrefix(strings.ToUpper(databaseType), "UNSIGNED ") {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR":
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return schema.Int(i)
		}
		return schema.Other(s)
	case "FLOAT", "DOUBLE", "REAL":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return schema.Real(f)
		}
		return schema.Other(s)
	case "CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "ENUM", "SET":
		return schema.Text(s)
	case "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BIT", "GEOMETRY":
		return schema.FromAny(b)
	default:
		return schema.Other(s)
	}
}
