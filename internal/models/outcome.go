package models

// TickStatus classifies the result of one rotation tick.
type TickStatus int

const (
	TickBackgroundChanged TickStatus = iota
	TickNoPoolAvailable
	TickNoChangeNeeded
	TickError
)

func (s TickStatus) String() string {
	switch s {
	case TickBackgroundChanged:
		return "background_changed"
	case TickNoPoolAvailable:
		return "no_pool_available"
	case TickNoChangeNeeded:
		return "no_change_needed"
	default:
		return "error"
	}
}

// TickOutcome is what a rotation tick reports back to its invoker.
// Path is set when Status is TickBackgroundChanged.
type TickOutcome struct {
	Status TickStatus
	Path   string
	Err    error
}

// ItemStatus classifies one candidate's fate inside a fetch cycle.
type ItemStatus int

const (
	ItemDownloaded ItemStatus = iota
	ItemDuplicate
	ItemFailed
)

func (s ItemStatus) String() string {
	switch s {
	case ItemDownloaded:
		return "downloaded"
	case ItemDuplicate:
		return "duplicate"
	default:
		return "failed"
	}
}

// FetchItem is the per-candidate outcome of an interactive fetch cycle.
// The cycle never aborts on a single item failure.
type FetchItem struct {
	RemoteID string
	Title    string
	Path     string
	Status   ItemStatus
	Err      error
}

type FetchReport struct {
	Source string
	Items  []FetchItem
}

func (r *FetchReport) Downloaded() int {
	n := 0
	for _, it := range r.Items {
		if it.Status == ItemDownloaded {
			n++
		}
	}
	return n
}
