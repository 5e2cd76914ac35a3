package models

import "time"

// Source tags. Downloaded filenames embed these, so they must stay stable
// across releases or reconciliation stops matching old files.
const (
	SourceSpotlight = "spotlight"
	SourceUnsplash  = "unsplash"
	SourceWallhaven = "wallhaven"
	SourcePexels    = "pexels"
)

var KnownSources = []string{SourceSpotlight, SourceUnsplash, SourceWallhaven, SourcePexels}

// RotationState tracks the cursor into the logical sequence of downloaded
// images. The cursor is monotonically non-decreasing; it is compared against
// the pool size via modulo only at evaluation time, never wrapped in place.
type RotationState struct {
	Cursor     uint64     `json:"cursor"`
	LastChange *time.Time `json:"last_change,omitempty"`
}

// SourceState is the per-source persisted record: dedup ledger entries,
// the rolling rate window, and the preferred search theme.
type SourceState struct {
	DedupIDs         []string   `json:"dedup_ids"`
	RequestsInWindow uint32     `json:"requests_in_window"`
	WindowStart      *time.Time `json:"window_start,omitempty"`
	Theme            string     `json:"theme"`
}

// SequenceCounter hands out filename ordinals. Strictly increasing, never
// reused even across deletions; gaps from failed downloads are permitted.
type SequenceCounter struct {
	NextOrdinal uint64 `json:"next_ordinal"`
}

// State is the persisted envelope, written as a whole after every mutation.
type State struct {
	Rotation RotationState           `json:"rotation"`
	Sources  map[string]*SourceState `json:"sources"`
	Sequence SequenceCounter         `json:"sequence"`
}

func NewState() *State {
	s := &State{
		Sources:  make(map[string]*SourceState, len(KnownSources)),
		Sequence: SequenceCounter{NextOrdinal: 1},
	}
	for _, tag := range KnownSources {
		s.Sources[tag] = &SourceState{Theme: "random"}
	}
	return s
}

// SourceFor returns the state bucket for tag, creating it on first use so
// loading an older state file never leaves a nil entry behind.
func (s *State) SourceFor(tag string) *SourceState {
	if s.Sources == nil {
		s.Sources = make(map[string]*SourceState)
	}
	ss, ok := s.Sources[tag]
	if !ok {
		ss = &SourceState{Theme: "random"}
		s.Sources[tag] = ss
	}
	return ss
}

// Normalize repairs structural damage in a loaded state file: missing
// source buckets and a zero sequence counter (ordinals start at 1).
// Counter values above a source's quota are handled by the rate limiter,
// which knows the per-source maxima. Returns a description of each repair.
func (s *State) Normalize() []string {
	var repairs []string
	if s.Sources == nil {
		s.Sources = make(map[string]*SourceState)
		repairs = append(repairs, "sources map was nil")
	}
	for _, tag := range KnownSources {
		if s.Sources[tag] == nil {
			s.Sources[tag] = &SourceState{Theme: "random"}
			repairs = append(repairs, "missing source bucket "+tag)
		}
	}
	if s.Sequence.NextOrdinal == 0 {
		s.Sequence.NextOrdinal = 1
		repairs = append(repairs, "sequence counter was zero")
	}
	return repairs
}
