package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallshift/internal/structures"
)

func loggerConfig(dir, level string) *structures.Config {
	return &structures.Config{
		Logger: structures.LoggerConfig{Level: level, Mode: 0o644, Dir: dir},
	}
}

func TestLogProvider_WritesToLogFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir, "info"))
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof(TypeRotate, "tick finished: %s", "changed")
	logger.Warnf(TypeState, "counter repaired")

	data, err := os.ReadFile(filepath.Join(dir, "wallshift.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "tick finished: changed")
	assert.Contains(t, string(data), `"type":"rotate"`)
	assert.Contains(t, string(data), `"type":"state"`)
}

func TestLogProvider_RespectsLevel(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir, "error"))
	require.NoError(t, err)
	defer logger.Close()

	logger.Debugf(TypeApp, "should not appear")
	logger.Infof(TypeApp, "neither should this")
	logger.Errorf(TypeApp, "only this one")

	data, err := os.ReadFile(filepath.Join(dir, "wallshift.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should not appear")
	assert.NotContains(t, string(data), "neither should this")
	assert.Contains(t, string(data), "only this one")
}

func TestLogProvider_CreatesLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	logger, err := NewLogProvider(loggerConfig(dir, "info"))
	require.NoError(t, err)
	logger.Close()

	_, err = os.Stat(filepath.Join(dir, "wallshift.log"))
	assert.NoError(t, err)
}

func TestLogProvider_InvalidLevel(t *testing.T) {
	_, err := NewLogProvider(loggerConfig(t.TempDir(), "loud"))
	assert.Error(t, err)
}

func TestTypeEnum_String(t *testing.T) {
	assert.Equal(t, "app", TypeApp.String())
	assert.Equal(t, "rotate", TypeRotate.String())
	assert.Equal(t, "fetch", TypeFetch.String())
	assert.Equal(t, "state", TypeState.String())
}
