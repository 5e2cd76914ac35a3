package rotation

import (
	"fmt"

	"wallshift/internal/statefile"
)

// SequencerInterface hands out the zero-padded filename ordinal. The
// counter is persisted before the prefix is released to the caller, so a
// download that fails afterwards leaves a gap but an ordinal is never
// reused.
type SequencerInterface interface {
	NextPrefix() (string, error)
	Peek() uint64
}

type Sequencer struct {
	store statefile.StoreInterface
}

func NewSequencer(store statefile.StoreInterface) SequencerInterface {
	return &Sequencer{store: store}
}

func (s *Sequencer) NextPrefix() (string, error) {
	seq := &s.store.State().Sequence
	n := seq.NextOrdinal
	seq.NextOrdinal = n + 1

	if err := s.store.Save(); err != nil {
		// Reservation never happened durably; hand nothing out.
		seq.NextOrdinal = n
		return "", err
	}
	return fmt.Sprintf("%04d_", n), nil
}

func (s *Sequencer) Peek() uint64 {
	return s.store.State().Sequence.NextOrdinal
}
