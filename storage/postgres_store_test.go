package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c3speakers/models"
)

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()

	s, err := NewPostgresStore(dsn, "speakers_test", 1999)
	require.NoError(t, err)
	assert.Equal(t, "postgres (table speakers_test_1999)", s.Name())

	require.NoError(t, s.EnsureSchema(ctx))
	t.Cleanup(func() {
		_ = s.withTx(context.Background(), "drop", func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS speakers_test_1999")
			return err
		})
	})

	require.NoError(t, s.WriteNames(ctx, map[string]string{"1": "Alice"}))
	require.NoError(t, s.WriteNames(ctx, map[string]string{"1": "Alicia", "2": "Bob"}))
	require.NoError(t, s.WriteHandles(ctx, map[string]string{"2": "bob"}))

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Speaker{
		{ID: "1", Name: "Alice"},
		{ID: "2", Name: "Bob", Handle: "bob"},
	}, all)
}

func TestPostgresStoreTableName(t *testing.T) {
	s, err := NewPostgresStore("postgres://localhost/x", "speakers", 2016)
	require.NoError(t, err)
	assert.Equal(t, "speakers_2016", s.table)
	assert.Equal(t, "$2", s.placeholder(2))
}
