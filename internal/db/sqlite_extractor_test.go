package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/nfaudit/internal/schema"
)

const shopDDL = `
CREATE TABLE customers (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE orders (
	order_id INTEGER,
	line INTEGER,
	customer_id INTEGER REFERENCES customers,
	note,
	amount REAL CONSTRAINT amount_positive CHECK (amount > 0),
	code TEXT UNIQUE,
	PRIMARY KEY (line, order_id)
);
INSERT INTO customers VALUES (1, 'Ann'), (2, 'Bob');
INSERT INTO orders VALUES (1, 1, 1, NULL, 9.5, 'A'), (1, 2, 2, 'gift', 3, 'B');
`

func newShopDB(t *testing.T) *SQLiteClient {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")

	seed, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = seed.Exec(shopDDL)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	client, err := NewSQLiteClient(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSQLiteExtractSchema(t *testing.T) {
	s, err := NewSQLiteExtractor(newShopDB(t)).ExtractSchema(context.Background(), ExtractOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"customers", "orders"}, s.TableNames())

	orders := s.Table("orders")
	require.NotNil(t, orders)
	assert.Equal(t, []string{"line", "order_id"}, orders.PrimaryKey)
	assert.Equal(t, "", orders.Columns[3].Type)
	assert.Equal(t, "REAL", orders.Columns[4].Type)

	require.Len(t, orders.Relations, 1)
	assert.Equal(t, "customer_id", orders.Relations[0].SourceColumn)
	assert.Equal(t, "customers", orders.Relations[0].TargetTable)
	assert.Equal(t, "id", orders.Relations[0].TargetColumn)

	require.Len(t, orders.Uniques, 1)
	assert.Equal(t, []string{"code"}, orders.Uniques[0].Columns)

	assert.Equal(t, []schema.CheckConstraint{{Name: "amount_positive", Clause: "amount > 0"}}, orders.Checks)

	require.Len(t, orders.Rows, 2)
	first := orders.Rows[0]
	assert.Equal(t, schema.KindInteger, first[0].Kind)
	assert.Equal(t, schema.KindNull, first[3].Kind)
	assert.Equal(t, schema.KindReal, first[4].Kind)
	assert.Equal(t, schema.KindText, first[5].Kind)
	assert.True(t, schema.Real(3).Equal(orders.Rows[1][4]))

	assert.NoError(t, s.Validate())
}

func TestSQLiteExtractSchemaOptions(t *testing.T) {
	s, err := NewSQLiteExtractor(newShopDB(t)).ExtractSchema(context.Background(), ExtractOptions{
		Tables:   []string{"customers"},
		RowLimit: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"customers"}, s.TableNames())
	assert.Equal(t, []string{"id"}, s.PrimaryKey("customers"))
	assert.Len(t, s.Rows("customers"), 1)
}

func TestSQLiteClientIsQueryOnly(t *testing.T) {
	client := newShopDB(t)

	_, err := client.GetDB().Exec("DELETE FROM customers")
	assert.Error(t, err)
}

func TestNewSQLiteClientMissingFile(t *testing.T) {
	_, err := NewSQLiteClient(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}
