package sourcemock

import (
	"context"
	"sync"

	"wallshift/internal/sources"
)

// MockSource implements sources.Source with injectable behavior.
type MockSource struct {
	mu         sync.Mutex
	TagName    string
	NeedsKey   bool
	Candidates []sources.Candidate
	FetchErr   error
	FetchCalls []sources.Query
	Template   string

	// RateUsed is reported through LastRateUsed when RateValid is set,
	// which makes the mock satisfy sources.RateReporter.
	RateUsed  uint32
	RateValid bool
}

func (m *MockSource) Tag() string {
	return m.TagName
}

func (m *MockSource) RequiresKey() bool {
	return m.NeedsKey
}

func (m *MockSource) Fetch(_ context.Context, q sources.Query, count int) ([]sources.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls = append(m.FetchCalls, q)
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if count > len(m.Candidates) {
		count = len(m.Candidates)
	}
	return m.Candidates[:count], nil
}

func (m *MockSource) RandomTemplate() string {
	return m.Template
}

func (m *MockSource) LastRateUsed() (uint32, bool) {
	return m.RateUsed, m.RateValid
}
