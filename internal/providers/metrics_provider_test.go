package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wallshift/internal/structures"
)

func TestMetricsProvider_DisabledReturnsNoop(t *testing.T) {
	m := NewMetricsProvider(&structures.Config{})

	_, isNoop := m.(*noopMetrics)
	assert.True(t, isNoop)

	// No-op calls must be safe.
	m.IncTicks("background_changed")
	m.IncFetches("unsplash", "ok")
	m.IncDownloads("pexels")
	m.ObserveTickDuration(time.Second)
	m.ObservePersistenceDuration(time.Millisecond)
	m.SetPoolSize(3)
}

func TestMetricsProvider_EnabledRegistersCollectors(t *testing.T) {
	// Registered once per process: promauto panics on duplicates.
	conf := &structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}
	m := NewMetricsProvider(conf)

	_, isNoop := m.(*noopMetrics)
	assert.False(t, isNoop)

	m.IncTicks("background_changed")
	m.IncFetches("unsplash", "ok")
	m.IncDownloads("pexels")
	m.ObserveTickDuration(250 * time.Millisecond)
	m.ObservePersistenceDuration(2 * time.Millisecond)
	m.SetPoolSize(7)
}
