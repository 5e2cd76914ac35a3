package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallshift/internal/models"
)

func TestLedger_RecordAndLookup(t *testing.T) {
	store := newTestStore(t)
	ledger := NewLedger(store)

	assert.True(t, ledger.IsNew(models.SourceUnsplash, "abc123"))

	require.NoError(t, ledger.Record(models.SourceUnsplash, "abc123"))
	assert.False(t, ledger.IsNew(models.SourceUnsplash, "abc123"))

	// Same id in another source's ledger is still new.
	assert.True(t, ledger.IsNew(models.SourcePexels, "abc123"))
}

func TestLedger_RecordIdempotent(t *testing.T) {
	store := newTestStore(t)
	ledger := NewLedger(store)

	for i := 0; i < 3; i++ {
		require.NoError(t, ledger.Record(models.SourceWallhaven, "dup1"))
	}

	assert.Equal(t, 1, ledger.Size(models.SourceWallhaven))
	assert.Equal(t, []string{"dup1"}, store.State().SourceFor(models.SourceWallhaven).DedupIDs)
}

func TestLedger_SurvivesReindex(t *testing.T) {
	store := newTestStore(t)

	ledger := NewLedger(store)
	require.NoError(t, ledger.Record(models.SourceUnsplash, "keep1"))

	// A fresh ledger over the same store sees the persisted entries.
	fresh := NewLedger(store)
	assert.False(t, fresh.IsNew(models.SourceUnsplash, "keep1"))
}

func TestLedger_Retain(t *testing.T) {
	store := newTestStore(t)
	ledger := NewLedger(store)

	require.NoError(t, ledger.Record(models.SourceUnsplash, "keep1"))
	require.NoError(t, ledger.Record(models.SourceUnsplash, "drop1"))
	require.NoError(t, ledger.Record(models.SourceUnsplash, "drop2"))

	removed, err := ledger.Retain(models.SourceUnsplash, func(id string) bool {
		return id == "keep1"
	})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, ledger.Size(models.SourceUnsplash))
	assert.False(t, ledger.IsNew(models.SourceUnsplash, "keep1"))
	assert.True(t, ledger.IsNew(models.SourceUnsplash, "drop1"))
}

func TestLedger_RetainNothingToDrop(t *testing.T) {
	store := newTestStore(t)
	ledger := NewLedger(store)

	require.NoError(t, ledger.Record(models.SourceUnsplash, "keep1"))

	removed, err := ledger.Retain(models.SourceUnsplash, func(string) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
