package catalog

import "strings"

// Meta keys seeded on every summary mapped from a source record.
const (
	KeyInstitutions = "Institutions"
	KeyAuthors      = "Authors"
)

// Relation categories (WordPress taxonomies) the meta keys are resolved from.
const (
	TaxonomyInstitutions = "institutions"
	TaxonomyAuthors      = "authors"
)

// NameSeparator joins resolved term names into one display value.
const NameSeparator = ", "

// ResourceSummary is one catalog entry as shown in the list.
type ResourceSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
	Meta  []Slot `json:"meta"`
}

// Slot is a named AttributeSlot. Meta is kept as an ordered slice so rows
// render the same way every time.
type Slot struct {
	Key string `json:"key"`
	AttributeSlot
}

// AttributeSlot is a deferred enrichment value.
//
// URL == "" means the relation does not apply and the slot is never fetched.
// Resolved distinguishes "not fetched yet" from a fetched empty name list.
type AttributeSlot struct {
	URL      string `json:"url,omitempty"`
	Value    string `json:"value,omitempty"`
	Resolved bool   `json:"resolved"`
}

// NeedsFetch reports whether the slot has a URL and no resolved value.
func (s AttributeSlot) NeedsFetch() bool {
	return strings.TrimSpace(s.URL) != "" && !s.Resolved
}

// NewSummary builds a summary whose meta is seeded with unresolved
// Institutions and Authors slots.
func NewSummary(id, title, link, institutionsURL, authorsURL string) ResourceSummary {
	return ResourceSummary{
		ID:    id,
		Title: title,
		Link:  link,
		Meta: []Slot{
			{Key: KeyInstitutions, AttributeSlot: AttributeSlot{URL: institutionsURL}},
			{Key: KeyAuthors, AttributeSlot: AttributeSlot{URL: authorsURL}},
		},
	}
}

// Slot returns the slot stored under key.
func (r ResourceSummary) Slot(key string) (AttributeSlot, bool) {
	for _, s := range r.Meta {
		if s.Key == key {
			return s.AttributeSlot, true
		}
	}
	return AttributeSlot{}, false
}

// PendingSlots lists the keys of slots that still need fetching, in meta order.
func (r ResourceSummary) PendingSlots() []string {
	var keys []string
	for _, s := range r.Meta {
		if s.NeedsFetch() {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

// withSlotValue returns a copy of r with slot key resolved to value. Only
// the meta slice is reallocated; r itself is not modified.
func (r ResourceSummary) withSlotValue(key, value string) (ResourceSummary, bool) {
	idx := -1
	for i, s := range r.Meta {
		if s.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r, false
	}
	meta := make([]Slot, len(r.Meta))
	copy(meta, r.Meta)
	meta[idx].Value = value
	meta[idx].Resolved = true
	r.Meta = meta
	return r, true
}

// JoinNames produces a slot display value from term names.
func JoinNames(names []string) string {
	return strings.Join(names, NameSeparator)
}
