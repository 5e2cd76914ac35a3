package sources

import "context"

// Query is the source-independent search request. Sorting and Page are
// only meaningful for sources that support them.
type Query struct {
	Text    string
	Sorting string
	Page    int
}

// Candidate is an image descriptor returned by a source before download.
type Candidate struct {
	RemoteID    string `json:"remote_id"`
	DownloadURL string `json:"download_url"`
	Title       string `json:"title"`
}

// Source is the uniform capability every provider adapter implements.
// Adapters never rate-limit or deduplicate; that is layered above by the
// rotation engine.
type Source interface {
	Tag() string
	RequiresKey() bool
	Fetch(ctx context.Context, q Query, count int) ([]Candidate, error)

	// RandomTemplate returns a curated silent-path query, or "" when the
	// source needs no query at all.
	RandomTemplate() string
}

// RateReporter is implemented by sources whose responses carry an
// authoritative remaining-quota header. The engine reconciles the local
// window counter against it after each successful request.
type RateReporter interface {
	LastRateUsed() (uint32, bool)
}
