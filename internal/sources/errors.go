package sources

import (
	"fmt"

	"wallshift/internal/models"
)

// ErrorKind is the fetch failure taxonomy. Interactive paths surface the
// kind plus an actionable hint; the silent path maps every kind to the
// same fallback behavior.
type ErrorKind int

const (
	ErrAuth ErrorKind = iota
	ErrQuota
	ErrUpstream
	ErrMalformed
	ErrNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAuth:
		return "auth"
	case ErrQuota:
		return "quota"
	case ErrUpstream:
		return "upstream"
	case ErrMalformed:
		return "malformed"
	default:
		return "network"
	}
}

type FetchError struct {
	Kind   ErrorKind
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Source, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Hint returns one human-readable, actionable line for interactive output.
func (e *FetchError) Hint() string {
	switch e.Kind {
	case ErrAuth:
		switch e.Source {
		case models.SourceUnsplash:
			return "get a free key at https://unsplash.com/developers and set WALLSHIFT_UNSPLASH_KEY"
		case models.SourcePexels:
			return "get a free key at https://www.pexels.com/api and set WALLSHIFT_PEXELS_KEY"
		default:
			return "check the configured API key"
		}
	case ErrQuota:
		return "the provider's rate window is exhausted; wait for it to reset"
	case ErrNetwork:
		return "check your connection and try again"
	case ErrMalformed:
		return "the provider may have changed its API format"
	default:
		return "the provider returned an unexpected status; try again later"
	}
}

// classifyStatus maps a non-2xx response to the taxonomy. 401 is a bad or
// missing credential; 403 and 429 both mean the remote quota said no.
func classifyStatus(source string, status int) *FetchError {
	switch {
	case status == 401:
		return &FetchError{Kind: ErrAuth, Source: source, Status: status}
	case status == 403 || status == 429:
		return &FetchError{Kind: ErrQuota, Source: source, Status: status}
	default:
		return &FetchError{Kind: ErrUpstream, Source: source, Status: status}
	}
}
