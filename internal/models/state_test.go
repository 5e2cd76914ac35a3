package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	json "github.com/goccy/go-json"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState()

	assert.Equal(t, uint64(0), s.Rotation.Cursor)
	assert.Nil(t, s.Rotation.LastChange)
	assert.Equal(t, uint64(1), s.Sequence.NextOrdinal)

	for _, tag := range KnownSources {
		ss := s.Sources[tag]
		require.NotNil(t, ss, tag)
		assert.Equal(t, "random", ss.Theme)
		assert.Empty(t, ss.DedupIDs)
		assert.Nil(t, ss.WindowStart)
	}
}

func TestSourceFor_CreatesMissingBucket(t *testing.T) {
	s := &State{}

	ss := s.SourceFor(SourceUnsplash)
	require.NotNil(t, ss)
	assert.Equal(t, "random", ss.Theme)

	// Same bucket on repeat access.
	ss.Theme = "ocean"
	assert.Equal(t, "ocean", s.SourceFor(SourceUnsplash).Theme)
}

func TestNormalize_RepairsDamage(t *testing.T) {
	s := &State{}

	repairs := s.Normalize()
	assert.NotEmpty(t, repairs)
	assert.Equal(t, uint64(1), s.Sequence.NextOrdinal)
	for _, tag := range KnownSources {
		assert.NotNil(t, s.Sources[tag], tag)
	}

	// A healthy state needs no repairs.
	assert.Empty(t, NewState().Normalize())
}

func TestNormalize_PartialSources(t *testing.T) {
	s := NewState()
	delete(s.Sources, SourcePexels)

	repairs := s.Normalize()
	assert.Len(t, repairs, 1)
	assert.NotNil(t, s.Sources[SourcePexels])
}

func TestState_RoundTripsThroughJSON(t *testing.T) {
	s := NewState()
	s.Rotation.Cursor = 42
	s.SourceFor(SourceUnsplash).DedupIDs = []string{"a1", "b2"}
	s.SourceFor(SourceUnsplash).RequestsInWindow = 7
	s.Sequence.NextOrdinal = 9

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var loaded State
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, uint64(42), loaded.Rotation.Cursor)
	assert.Equal(t, []string{"a1", "b2"}, loaded.SourceFor(SourceUnsplash).DedupIDs)
	assert.Equal(t, uint32(7), loaded.SourceFor(SourceUnsplash).RequestsInWindow)
	assert.Equal(t, uint64(9), loaded.Sequence.NextOrdinal)
}
