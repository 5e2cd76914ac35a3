package rotation

import (
	"sort"

	"wallshift/internal/statefile"
)

// LedgerInterface is the per-source record of already-downloaded content
// IDs. Entries never expire by time; only reconciliation against the pool
// removes them.
type LedgerInterface interface {
	IsNew(source, id string) bool
	Record(source, id string) error
	Retain(source string, keep func(id string) bool) (removed int, err error)
	Size(source string) int
}

type Ledger struct {
	store statefile.StoreInterface
	index map[string]map[string]struct{}
}

func NewLedger(store statefile.StoreInterface) LedgerInterface {
	return &Ledger{
		store: store,
		index: make(map[string]map[string]struct{}),
	}
}

// indexFor builds the O(1) membership set lazily from the persisted slice.
func (l *Ledger) indexFor(source string) map[string]struct{} {
	if set, ok := l.index[source]; ok {
		return set
	}
	ss := l.store.State().SourceFor(source)
	set := make(map[string]struct{}, len(ss.DedupIDs))
	for _, id := range ss.DedupIDs {
		set[id] = struct{}{}
	}
	l.index[source] = set
	return set
}

func (l *Ledger) IsNew(source, id string) bool {
	_, seen := l.indexFor(source)[id]
	return !seen
}

// Record inserts id into the source's ledger. Inserting an existing id is
// a no-op, so ledger size is idempotent under repeats.
func (l *Ledger) Record(source, id string) error {
	set := l.indexFor(source)
	if _, seen := set[id]; seen {
		return nil
	}
	set[id] = struct{}{}

	ss := l.store.State().SourceFor(source)
	ss.DedupIDs = append(ss.DedupIDs, id)
	sort.Strings(ss.DedupIDs)
	return l.store.Save()
}

// Retain keeps only the entries keep reports true for and persists when
// anything was dropped.
func (l *Ledger) Retain(source string, keep func(id string) bool) (int, error) {
	ss := l.store.State().SourceFor(source)

	kept := ss.DedupIDs[:0]
	for _, id := range ss.DedupIDs {
		if keep(id) {
			kept = append(kept, id)
		}
	}
	removed := len(ss.DedupIDs) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	ss.DedupIDs = kept
	delete(l.index, source)
	return removed, l.store.Save()
}

func (l *Ledger) Size(source string) int {
	return len(l.store.State().SourceFor(source).DedupIDs)
}
