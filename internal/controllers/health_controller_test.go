package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	json "github.com/goccy/go-json"

	"wallshift/internal/models"
	"wallshift/internal/rotation"
	"wallshift/internal/statefile"
	"wallshift/internal/structures"
	"wallshift/internal/testutil"
)

func newHealthController(t *testing.T) (*HealthController, statefile.StoreInterface, string) {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{
		Rotation: structures.RotationConfig{WallpaperDir: dir, Extensions: []string{".jpg"}},
		Sources:  structures.SourcesConfig{Active: models.SourceUnsplash},
		Persistence: structures.PersistenceConfig{
			StatePath: filepath.Join(t.TempDir(), "state.json"),
		},
	}

	store, err := statefile.NewStore(conf, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	pool, err := rotation.NewDirPool(conf)
	require.NoError(t, err)

	return NewHealthController(conf, store, pool), store, dir
}

func TestHealthController_ReportsStatus(t *testing.T) {
	hc, store, dir := newHealthController(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001_unsplash_a_x.jpg"), []byte("img"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002_unsplash_b_y.jpg"), []byte("img"), 0o644))
	store.State().Rotation.Cursor = 5

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	hc.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Status       string `json:"status"`
		ActiveSource string `json:"active_source"`
		PoolSize     int    `json:"pool_size"`
		Cursor       uint64 `json:"cursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, models.SourceUnsplash, resp.ActiveSource)
	assert.Equal(t, 2, resp.PoolSize)
	assert.Equal(t, uint64(5), resp.Cursor)
}

func TestHealthController_MethodNotAllowed(t *testing.T) {
	hc, _, _ := newHealthController(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	hc.Health(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
