package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func summaries(ids ...string) []ResourceSummary {
	out := make([]ResourceSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, NewSummary(id, "T"+id, "https://example.test/"+id,
			"https://example.test/institutions?post="+id,
			"https://example.test/authors?post="+id))
	}
	return out
}

func startedState(t *testing.T, policy LoadingPolicy, requests int) State {
	t.Helper()
	s := Reduce(NewState(policy), CycleStarted{Cycle: 1, Page: 1, Requests: requests})
	if !s.Loading {
		t.Fatalf("expected loading after cycle start")
	}
	return s
}

func TestReduce_CycleStartedClearsEverything(t *testing.T) {
	t.Parallel()

	s := State{
		Items:    summaries("1", "2"),
		Expanded: 1,
		Error:    PageLoadError,
		Page:     3,
		Total:    40,
		Cycle:    7,
		Policy:   LoadingAllSettled,
	}
	got := Reduce(s, CycleStarted{Cycle: 8, Page: 4, Requests: 2})

	want := State{Expanded: NoneExpanded, Loading: true, Page: 4, Cycle: 8, Pending: 2, Policy: LoadingAllSettled}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected state (-want +got):\n%s", diff)
	}
	if len(s.Items) != 2 {
		t.Fatalf("expected input state untouched; got %d items", len(s.Items))
	}
}

func TestReduce_CycleStartedClampsPage(t *testing.T) {
	t.Parallel()

	got := Reduce(NewState(LoadingFirstResponse), CycleStarted{Cycle: 1, Page: 0, Requests: 1})
	if got.Page != 1 {
		t.Fatalf("expected page clamped to 1; got %d", got.Page)
	}
}

func TestReduce_TwoSourcesAccumulateTotal(t *testing.T) {
	t.Parallel()

	s := startedState(t, LoadingFirstResponse, 2)
	s = Reduce(s, PageResponseArrived{Cycle: 1, Source: 1, Items: summaries("a", "b", "c"), Total: 5})
	if s.Loading {
		t.Fatalf("expected first response to clear loading (first-response policy)")
	}
	if s.Total != 5 {
		t.Fatalf("expected total 5 after first response; got %d", s.Total)
	}
	s = Reduce(s, PageResponseArrived{Cycle: 1, Source: 0, Items: summaries("d", "e"), Total: 7})
	if s.Total != 12 {
		t.Fatalf("expected total 12; got %d", s.Total)
	}
	if len(s.Items) != 5 {
		t.Fatalf("expected 5 items; got %d", len(s.Items))
	}
	// Arrival order, not source order.
	if s.Items[0].ID != "a" || s.Items[3].ID != "d" {
		t.Fatalf("expected arrival order; got %q..%q", s.Items[0].ID, s.Items[3].ID)
	}
}

func TestReduce_AllSettledPolicyWaitsForEverySource(t *testing.T) {
	t.Parallel()

	s := startedState(t, LoadingAllSettled, 3)
	s = Reduce(s, PageResponseArrived{Cycle: 1, Source: 0, Items: summaries("a"), Total: 1})
	if !s.Loading {
		t.Fatalf("expected loading while 2 requests pending")
	}
	s = Reduce(s, PageRequestFailed{Cycle: 1, Source: 1, Err: errors.New("boom")})
	if !s.Loading {
		t.Fatalf("expected loading while 1 request pending")
	}
	s = Reduce(s, PageResponseArrived{Cycle: 1, Source: 2, Items: summaries("b"), Total: 1})
	if s.Loading {
		t.Fatalf("expected loading cleared once every request settled")
	}
	if s.Error != PageLoadError {
		t.Fatalf("expected error to survive later successes; got %q", s.Error)
	}
}

func TestReduce_StaleEventsAreIgnored(t *testing.T) {
	t.Parallel()

	s := startedState(t, LoadingFirstResponse, 1)
	s = Reduce(s, CycleStarted{Cycle: 2, Page: 2, Requests: 1})

	events := []Event{
		PageResponseArrived{Cycle: 1, Items: summaries("old"), Total: 99},
		PageRequestFailed{Cycle: 1, Err: errors.New("late")},
		EnrichmentResolved{Cycle: 1, Index: 0, Key: KeyAuthors, Value: "x"},
	}
	for _, ev := range events {
		got := Reduce(s, ev)
		if diff := cmp.Diff(s, got); diff != "" {
			t.Fatalf("expected stale %T to be ignored (-want +got):\n%s", ev, diff)
		}
	}
}

func TestReduce_FailureSetsErrorUnlessCanceled(t *testing.T) {
	t.Parallel()

	s := startedState(t, LoadingFirstResponse, 2)
	canceled := Reduce(s, PageRequestFailed{Cycle: 1, Err: errors.New("canceled"), Canceled: true})
	if diff := cmp.Diff(s, canceled); diff != "" {
		t.Fatalf("expected canceled failure to be ignored (-want +got):\n%s", diff)
	}

	failed := Reduce(s, PageRequestFailed{Cycle: 1, Err: errors.New("500")})
	if failed.Error != PageLoadError {
		t.Fatalf("expected generic error; got %q", failed.Error)
	}
	if failed.Loading {
		t.Fatalf("expected loading cleared on failure")
	}
}

func TestReduce_ExpansionToggled(t *testing.T) {
	t.Parallel()

	s := startedState(t, LoadingFirstResponse, 1)
	s = Reduce(s, PageResponseArrived{Cycle: 1, Items: summaries("0", "1", "2"), Total: 3})

	s = Reduce(s, ExpansionToggled{Index: 0})
	if s.Expanded != 0 {
		t.Fatalf("expected item 0 expanded; got %d", s.Expanded)
	}
	s = Reduce(s, ExpansionToggled{Index: 2})
	if s.Expanded != 2 || s.IsOpen(0) {
		t.Fatalf("expected direct move 0 -> 2; got %d", s.Expanded)
	}
	s = Reduce(s, ExpansionToggled{Index: 2})
	if s.Expanded != NoneExpanded {
		t.Fatalf("expected collapse; got %d", s.Expanded)
	}
	s = Reduce(s, ExpansionToggled{Index: 3})
	if s.Expanded != NoneExpanded {
		t.Fatalf("expected out-of-range toggle to be a no-op; got %d", s.Expanded)
	}
}

func TestReduce_EnrichmentResolvedCopiesOnlyAffectedPath(t *testing.T) {
	t.Parallel()

	s := startedState(t, LoadingFirstResponse, 1)
	s = Reduce(s, PageResponseArrived{Cycle: 1, Items: summaries("0", "1", "2"), Total: 3})
	s = Reduce(s, ExpansionToggled{Index: 1})
	before := s

	after := Reduce(s, EnrichmentResolved{Cycle: 1, Index: 1, Key: KeyAuthors, Value: "Ada, Grace"})

	if after.Expanded != 1 || after.Loading != before.Loading || after.Total != before.Total {
		t.Fatalf("expected unrelated fields unchanged; got %+v", after)
	}
	slot, _ := after.Items[1].Slot(KeyAuthors)
	if !slot.Resolved || slot.Value != "Ada, Grace" {
		t.Fatalf("expected resolved authors slot; got %+v", slot)
	}
	prev, _ := before.Items[1].Slot(KeyAuthors)
	if prev.Resolved {
		t.Fatalf("expected prior state untouched; got %+v", prev)
	}
	for j := range after.Items {
		for k := range after.Items[j].Meta {
			same := &after.Items[j].Meta[k] == &before.Items[j].Meta[k]
			if j == 1 && same {
				t.Fatalf("expected item 1 meta to be a new copy")
			}
			if j != 1 && !same {
				t.Fatalf("expected item %d meta[%d] to be shared with prior state", j, k)
			}
		}
	}
	if &after.Items[0] == &before.Items[0] {
		t.Fatalf("expected a new items slice")
	}
}

func TestReduce_EnrichmentUnknownKeyIsNoop(t *testing.T) {
	t.Parallel()

	s := startedState(t, LoadingFirstResponse, 1)
	s = Reduce(s, PageResponseArrived{Cycle: 1, Items: summaries("0"), Total: 1})
	got := Reduce(s, EnrichmentResolved{Cycle: 1, Index: 0, Key: "Subjects", Value: "x"})
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("expected no change (-want +got):\n%s", diff)
	}
}

func TestReduce_EnrichmentFailedNeverTouchesErrorOrLoading(t *testing.T) {
	t.Parallel()

	s := startedState(t, LoadingAllSettled, 2)
	s = Reduce(s, PageResponseArrived{Cycle: 1, Items: summaries("0"), Total: 1})
	got := Reduce(s, EnrichmentFailed{Cycle: 1, Index: 0, Key: KeyAuthors, Err: errors.New("404")})
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("expected enrichment failure to leave state unchanged (-want +got):\n%s", diff)
	}
}

func TestSummary_PendingSlots(t *testing.T) {
	t.Parallel()

	r := NewSummary("1", "T", "https://example.test/1", "", "https://example.test/authors?post=1")
	if got := r.PendingSlots(); !cmp.Equal(got, []string{KeyAuthors}) {
		t.Fatalf("expected only authors pending; got %v", got)
	}
	inst, ok := r.Slot(KeyInstitutions)
	if !ok || inst.URL != "" || inst.Resolved {
		t.Fatalf("expected absent institutions slot; got %+v", inst)
	}

	r, _ = r.withSlotValue(KeyAuthors, "")
	if got := r.PendingSlots(); len(got) != 0 {
		t.Fatalf("expected resolved empty value not to be refetched; got %v", got)
	}
}

func TestParseLoadingPolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]LoadingPolicy{"": LoadingFirstResponse, "first": LoadingFirstResponse, " ALL ": LoadingAllSettled} {
		got, err := ParseLoadingPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseLoadingPolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLoadingPolicy("eventually"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
