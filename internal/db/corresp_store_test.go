package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/primfit/internal/corresp"
	"github.com/banshee-data/primfit/internal/prim"
)

// newTestDB opens a migrated database in a temp directory. Tests run in
// the package directory, so the migrations path is relative.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.MigrateUp("migrations"))
	return database
}

func TestMigrateUpIdempotent(t *testing.T) {
	database := newTestDB(t)

	// A second run must be a no-op, not an error.
	require.NoError(t, database.MigrateUp("migrations"))

	version, dirty, err := database.MigrateVersion("migrations")
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestCorrespStoreRoundTrip(t *testing.T) {
	store := NewCorrespStore(newTestDB(t))

	assignments := []corresp.Assignment{
		{Key: corresp.PairKey{A: prim.GidLid{Gid: 0, Lid: 0}, B: prim.GidLid{Gid: 4, Lid: 1}}, Cost: 0.25},
		{Key: corresp.PairKey{A: prim.GidLid{Gid: 2, Lid: 1}, B: prim.GidLid{Gid: 0, Lid: 0}}, Cost: 1.75},
	}

	run := &MatchRun{SourceA: "primsA.csv", SourceB: "primsB.csv"}
	require.NoError(t, store.InsertRun(run, assignments))
	require.NotEmpty(t, run.RunID, "InsertRun must assign a run id")
	require.NotZero(t, run.CreatedAtNs)

	got, err := store.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.SourceA, got.SourceA)
	assert.Equal(t, run.SourceB, got.SourceB)

	pairs, err := store.ListPairs(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, assignments, pairs)
}

func TestCorrespStoreEmptyRun(t *testing.T) {
	store := NewCorrespStore(newTestDB(t))

	run := &MatchRun{SourceA: "a.csv", SourceB: "b.csv"}
	require.NoError(t, store.InsertRun(run, nil))

	pairs, err := store.ListPairs(run.RunID)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestCorrespStoreUnknownRun(t *testing.T) {
	store := NewCorrespStore(newTestDB(t))

	_, err := store.GetRun("no-such-run")
	assert.Error(t, err)
}
