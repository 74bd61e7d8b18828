//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLExtraction(t *testing.T) {
	ctx := context.Background()

	dsn := os.Getenv("MYSQL_TEST_URL")
	if dsn == "" {
		t.Skip("MYSQL_TEST_URL not set")
	}

	client, err := NewMySQLClient(ctx, dsn)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	dbName, err := ParseDatabaseName(dsn)
	require.NoError(t, err)

	s, err := NewMySQLExtractor(client, dbName).ExtractSchema(ctx, ExtractOptions{RowLimit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, s.Tables)
	assert.NoError(t, s.Validate())

	for _, table := range s.Tables {
		assert.LessOrEqual(t, len(table.Rows), 5, table.Name)
	}
}
