package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/pegsolitaire/internal/results"
)

func TestOpenResultsDBCreatesDirectoryAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pegs.db")
	db, err := openResultsDB(path)
	require.NoError(t, err)
	defer db.Close()

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&applied))
	assert.Positive(t, applied)

	rs := results.NewStore(db)
	_, err = rs.Record(context.Background(), results.Result{GameID: "g", PegsLeft: 3, Jumps: 11})
	require.NoError(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pegs.db")
	db, err := openResultsDB(path)
	require.NoError(t, err)
	require.NoError(t, migrate(db))
	require.NoError(t, db.Close())

	db, err = openResultsDB(path)
	require.NoError(t, err)
	defer db.Close()

	var before int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&before))
	require.NoError(t, migrate(db))
	var after int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&after))
	assert.Equal(t, before, after)
}
