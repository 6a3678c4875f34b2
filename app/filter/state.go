package filter

import (
	"slices"
	"strings"
)

type SortOrder string

const (
	SortDescending SortOrder = "desc"
	SortAscending  SortOrder = "asc"
)

// Facet names a multi-valued dimension. The string value doubles as the query parameter.
type Facet string

const (
	FacetCategories Facet = "areas"
	FacetTypes      Facet = "types"
	FacetSources    Facet = "sources"
)

var Facets = []Facet{FacetCategories, FacetTypes, FacetSources}

func ParseFacet(s string) (Facet, bool) {
	for _, f := range Facets {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// State is the complete filter state for one listing. The zero value is the
// default state: no constraints, newest first. Empty facet sets are nil.
type State struct {
	DateRange  *DateRange `json:"date_range,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Types      []string   `json:"types,omitempty"`
	Sources    []string   `json:"sources,omitempty"`
	Search     string     `json:"search,omitempty"`
	Sort       SortOrder  `json:"sort,omitempty"`
}

func (s State) SortOrder() SortOrder {
	if s.Sort == SortAscending {
		return SortAscending
	}
	return SortDescending
}

func (s State) Values(f Facet) []string {
	switch f {
	case FacetCategories:
		return s.Categories
	case FacetTypes:
		return s.Types
	case FacetSources:
		return s.Sources
	}
	return nil
}

func (s *State) setValues(f Facet, values []string) {
	values = normalizeValues(values)
	switch f {
	case FacetCategories:
		s.Categories = values
	case FacetTypes:
		s.Types = values
	case FacetSources:
		s.Sources = values
	}
}

// Toggle adds value to the facet set, or removes it when already present.
// Values containing ListSeparator cannot travel in a query string and are
// ignored.
func (s *State) Toggle(f Facet, value string) {
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(value, ListSeparator) {
		return
	}

	current := s.Values(f)
	if i := slices.Index(current, value); i >= 0 {
		s.setValues(f, slices.Delete(slices.Clone(current), i, i+1))
		return
	}
	s.setValues(f, append(slices.Clone(current), value))
}

// WithFacet returns a copy whose facet set is replaced by values.
func (s State) WithFacet(f Facet, values ...string) State {
	next := s.Clone()
	next.setValues(f, values)
	return next
}

// SetSearch stores the query, collapsing whitespace-only input to empty.
func (s *State) SetSearch(q string) {
	if strings.TrimSpace(q) == "" {
		s.Search = ""
		return
	}
	s.Search = q
}

func (s *State) SetDateRange(r *DateRange) {
	if r == nil {
		s.DateRange = nil
		return
	}
	copied := *r
	s.DateRange = &copied
}

// Reset clears every constraint and keeps the sort direction.
func (s *State) Reset() {
	*s = State{Sort: s.Sort}
}

func (s State) Clone() State {
	next := s
	if s.DateRange != nil {
		r := *s.DateRange
		next.DateRange = &r
	}
	next.Categories = slices.Clone(s.Categories)
	next.Types = slices.Clone(s.Types)
	next.Sources = slices.Clone(s.Sources)
	return next
}

// CountActive counts applied constraints: the date range counts once, each
// facet value once, and a non-blank search once. Sort never counts.
func (s State) CountActive() int {
	count := len(s.Categories) + len(s.Types) + len(s.Sources)
	if s.DateRange != nil {
		count++
	}
	if strings.TrimSpace(s.Search) != "" {
		count++
	}
	return count
}

func (s State) IsDefault() bool {
	return s.CountActive() == 0
}

// normalizeValues splits on ListSeparator, trims, drops blanks and
// duplicates, and keeps first-seen order.
func normalizeValues(values []string) []string {
	var out []string
	for _, entry := range values {
		for _, v := range strings.Split(entry, ListSeparator) {
			v = strings.TrimSpace(v)
			if v == "" || slices.Contains(out, v) {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}
