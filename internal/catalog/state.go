package catalog

import (
	"fmt"
	"strings"
)

// NoneExpanded is the Expanded value when no item is open.
const NoneExpanded = -1

// PageLoadError is the only message shown for failed page fetches.
const PageLoadError = "One or more resources failed to load"

// LoadingPolicy selects when Loading clears within a fetch cycle.
type LoadingPolicy int

const (
	// LoadingFirstResponse clears Loading once the first page request of the
	// cycle settled.
	LoadingFirstResponse LoadingPolicy = iota
	// LoadingAllSettled clears Loading only once every page request settled.
	LoadingAllSettled
)

func (p LoadingPolicy) String() string {
	switch p {
	case LoadingAllSettled:
		return "all"
	default:
		return "first"
	}
}

// ParseLoadingPolicy accepts "first" (or "") and "all".
func ParseLoadingPolicy(s string) (LoadingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return LoadingFirstResponse, nil
	case "all":
		return LoadingAllSettled, nil
	default:
		return LoadingFirstResponse, fmt.Errorf("unknown loading policy: %q (want first|all)", s)
	}
}

// State is the list state owned by the controller.
type State struct {
	Items    []ResourceSummary `json:"items"`
	Expanded int               `json:"expanded"`
	Loading  bool              `json:"loading"`
	Error    string            `json:"error,omitempty"`
	Page     int               `json:"page"`
	Total    int               `json:"total"`

	// Cycle identifies the current fetch cycle. Events from other cycles are
	// ignored.
	Cycle uint64 `json:"-"`
	// Pending counts page requests of the current cycle that have not settled.
	Pending int           `json:"-"`
	Policy  LoadingPolicy `json:"-"`
}

// NewState returns the pre-mount state: page 1, nothing loaded.
func NewState(policy LoadingPolicy) State {
	return State{Expanded: NoneExpanded, Page: 1, Policy: policy}
}

// IsOpen reports whether item i is the expanded one.
func (s State) IsOpen(i int) bool {
	return s.Expanded != NoneExpanded && s.Expanded == i
}

// Event is a state transition input.
type Event interface {
	isEvent()
}

// CycleStarted begins a fetch cycle for Page with Requests page requests.
type CycleStarted struct {
	Cycle    uint64
	Page     int
	Requests int
}

// PageResponseArrived carries one source's successful page.
type PageResponseArrived struct {
	Cycle  uint64
	Source int
	Items  []ResourceSummary
	Total  int
}

// PageRequestFailed reports one source's failed page request.
type PageRequestFailed struct {
	Cycle    uint64
	Source   int
	Err      error
	Canceled bool
}

// ExpansionToggled opens item Index, or closes it when it is already open.
type ExpansionToggled struct {
	Index int
}

// EnrichmentResolved fills slot Key of item Index.
type EnrichmentResolved struct {
	Cycle uint64
	Index int
	Key   string
	Value string
}

// EnrichmentFailed reports a failed slot fetch. It never changes state.
type EnrichmentFailed struct {
	Cycle    uint64
	Index    int
	Key      string
	URL      string
	Err      error
	Canceled bool
}

func (CycleStarted) isEvent()        {}
func (PageResponseArrived) isEvent() {}
func (PageRequestFailed) isEvent()   {}
func (ExpansionToggled) isEvent()    {}
func (EnrichmentResolved) isEvent()  {}
func (EnrichmentFailed) isEvent()    {}

// Reduce applies ev to s and returns the next state. It never mutates the
// slices reachable from s.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case CycleStarted:
		page := ev.Page
		if page < 1 {
			page = 1
		}
		return State{
			Items:    nil,
			Expanded: NoneExpanded,
			Loading:  ev.Requests > 0,
			Page:     page,
			Cycle:    ev.Cycle,
			Pending:  ev.Requests,
			Policy:   s.Policy,
		}

	case PageResponseArrived:
		if ev.Cycle != s.Cycle {
			return s
		}
		items := make([]ResourceSummary, 0, len(s.Items)+len(ev.Items))
		items = append(items, s.Items...)
		items = append(items, ev.Items...)
		s.Items = items
		if ev.Total > 0 {
			s.Total += ev.Total
		}
		return settle(s)

	case PageRequestFailed:
		if ev.Cycle != s.Cycle || ev.Canceled {
			return s
		}
		s.Error = PageLoadError
		return settle(s)

	case ExpansionToggled:
		if ev.Index < 0 || ev.Index >= len(s.Items) {
			return s
		}
		if s.Expanded == ev.Index {
			s.Expanded = NoneExpanded
		} else {
			s.Expanded = ev.Index
		}
		return s

	case EnrichmentResolved:
		if ev.Cycle != s.Cycle || ev.Index < 0 || ev.Index >= len(s.Items) {
			return s
		}
		updated, ok := s.Items[ev.Index].withSlotValue(ev.Key, ev.Value)
		if !ok {
			return s
		}
		items := make([]ResourceSummary, len(s.Items))
		copy(items, s.Items)
		items[ev.Index] = updated
		s.Items = items
		return s

	default:
		return s
	}
}

func settle(s State) State {
	if s.Pending > 0 {
		s.Pending--
	}
	switch s.Policy {
	case LoadingAllSettled:
		s.Loading = s.Pending > 0
	default:
		s.Loading = false
	}
	return s
}
