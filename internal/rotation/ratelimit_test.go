package rotation

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallshift/internal/models"
	"wallshift/internal/statefile"
	"wallshift/internal/structures"
	"wallshift/internal/testutil"
)

func newTestStore(t *testing.T) statefile.StoreInterface {
	t.Helper()
	conf := &structures.Config{
		Persistence: structures.PersistenceConfig{
			StatePath: filepath.Join(t.TempDir(), "state.json"),
		},
	}
	store, err := statefile.NewStore(conf, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	return store
}

func newTestLimiter(t *testing.T, at time.Time) (*RateLimiter, statefile.StoreInterface) {
	t.Helper()
	store := newTestStore(t)
	lim := NewRateLimiter(store, &testutil.MockLogger{}).(*RateLimiter)
	lim.now = func() time.Time { return at }
	return lim, store
}

func TestRateLimiter_FirstRequestOpensWindow(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lim, store := newTestLimiter(t, t0)

	require.NoError(t, lim.CheckAndReserve(models.SourceWallhaven))

	ss := store.State().SourceFor(models.SourceWallhaven)
	require.NotNil(t, ss.WindowStart)
	assert.True(t, ss.WindowStart.Equal(t0))
	assert.Equal(t, uint32(0), ss.RequestsInWindow)
}

func TestRateLimiter_RejectsAtEffectiveLimit(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lim, store := newTestLimiter(t, t0)

	start := t0.Add(-30 * time.Second)
	ss := store.State().SourceFor(models.SourceWallhaven)
	ss.RequestsInWindow = 40
	ss.WindowStart = &start

	err := lim.CheckAndReserve(models.SourceWallhaven)
	require.Error(t, err)

	var cd *CooldownError
	require.True(t, errors.As(err, &cd))
	assert.Equal(t, models.SourceWallhaven, cd.Source)
	assert.Equal(t, uint32(40), cd.Used)
	assert.Equal(t, uint32(45), cd.Quota)
	assert.Equal(t, 30*time.Second, cd.Remaining)
}

func TestRateLimiter_AcceptsAfterWindowElapsed(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lim, store := newTestLimiter(t, t0)

	start := t0.Add(-61 * time.Second)
	ss := store.State().SourceFor(models.SourceWallhaven)
	ss.RequestsInWindow = 40
	ss.WindowStart = &start

	require.NoError(t, lim.CheckAndReserve(models.SourceWallhaven))
	assert.Equal(t, uint32(0), ss.RequestsInWindow)
	assert.True(t, ss.WindowStart.Equal(t0))
}

func TestRateLimiter_ClampsCorruptedCounter(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t)
	logger := &testutil.MockLogger{}
	lim := NewRateLimiter(store, logger).(*RateLimiter)
	lim.now = func() time.Time { return t0 }

	start := t0.Add(-time.Second)
	ss := store.State().SourceFor(models.SourceUnsplash)
	ss.RequestsInWindow = 9999
	ss.WindowStart = &start

	require.NoError(t, lim.CheckAndReserve(models.SourceUnsplash))
	assert.Equal(t, uint32(0), ss.RequestsInWindow)
	assert.NotEmpty(t, logger.Logs)
}

func TestRateLimiter_CommitIncrements(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lim, store := newTestLimiter(t, t0)

	require.NoError(t, lim.CheckAndReserve(models.SourcePexels))
	require.NoError(t, lim.Commit(models.SourcePexels))
	require.NoError(t, lim.Commit(models.SourcePexels))

	assert.Equal(t, uint32(2), store.State().SourceFor(models.SourcePexels).RequestsInWindow)
}

func TestRateLimiter_ReconcileClampsToQuota(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lim, store := newTestLimiter(t, t0)

	require.NoError(t, lim.Reconcile(models.SourceUnsplash, 7))
	assert.Equal(t, uint32(7), store.State().SourceFor(models.SourceUnsplash).RequestsInWindow)

	require.NoError(t, lim.Reconcile(models.SourceUnsplash, 9999))
	assert.Equal(t, uint32(50), store.State().SourceFor(models.SourceUnsplash).RequestsInWindow)
}

func TestRateLimiter_UnlimitedSourcePasses(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lim, _ := newTestLimiter(t, t0)

	for i := 0; i < 500; i++ {
		require.NoError(t, lim.CheckAndReserve(models.SourceSpotlight))
		require.NoError(t, lim.Commit(models.SourceSpotlight))
	}

	_, _, _, limited := lim.Usage(models.SourceSpotlight)
	assert.False(t, limited)
}

func TestRateLimiter_UsageReportsWindow(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lim, store := newTestLimiter(t, t0)

	start := t0.Add(-20 * time.Minute)
	ss := store.State().SourceFor(models.SourceUnsplash)
	ss.RequestsInWindow = 12
	ss.WindowStart = &start

	used, allowed, reset, limited := lim.Usage(models.SourceUnsplash)
	assert.True(t, limited)
	assert.Equal(t, uint32(12), used)
	assert.Equal(t, uint32(45), allowed)
	assert.Equal(t, 40*time.Minute, reset)
}
