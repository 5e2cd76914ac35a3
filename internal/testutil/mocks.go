package testutil

import (
	"fmt"
	"sync"
	"time"

	"wallshift/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockSilentLog implements providers.SilentLogInterface and records the
// formatted lines.
type MockSilentLog struct {
	mu    sync.Mutex
	Lines []string
}

func (m *MockSilentLog) Logf(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lines = append(m.Lines, fmt.Sprintf(format, args...))
}

func (m *MockSilentLog) Close() error { return nil }

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockBackground implements platform.BackgroundController with injectable
// current-path reads and recorded Set calls.
type MockBackground struct {
	mu          sync.Mutex
	CurrentPath string
	ReadOK      bool
	SetErr      error
	SetCalls    []string
}

func (m *MockBackground) Current() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentPath, m.ReadOK
}

func (m *MockBackground) Set(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, path)
	if m.SetErr != nil {
		return m.SetErr
	}
	m.CurrentPath = path
	m.ReadOK = true
	return nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu            sync.Mutex
	Ticks         map[string]int
	Fetches       map[string]int
	Downloads     map[string]int
	TickDurations int
	PersistCalls  int
	PoolSizes     []int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Ticks:     make(map[string]int),
		Fetches:   make(map[string]int),
		Downloads: make(map[string]int),
	}
}

func (m *MockMetrics) IncTicks(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ticks[outcome]++
}

func (m *MockMetrics) IncFetches(source, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fetches[source+":"+result]++
}

func (m *MockMetrics) IncDownloads(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Downloads[source]++
}

func (m *MockMetrics) ObserveTickDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TickDurations++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCalls++
}

func (m *MockMetrics) SetPoolSize(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PoolSizes = append(m.PoolSizes, count)
}

// MockCompressor implements statefile.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}
