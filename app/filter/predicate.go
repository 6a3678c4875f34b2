package filter

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/lysyi3m/content-comb/app/content"
)

// Predicate reports whether an item satisfies a filter state.
type Predicate func(item content.Item) bool

// Compile builds the conjunction of every active constraint in st. Values
// inside one facet are OR-ed. The returned Predicate is not safe for
// concurrent use because it holds a case folder.
func Compile(st State) Predicate {
	var predicates []Predicate

	if st.DateRange != nil {
		r := *st.DateRange
		predicates = append(predicates, func(item content.Item) bool {
			return r.Contains(item.Date)
		})
	}

	for _, f := range Facets {
		if values := st.Values(f); len(values) > 0 {
			predicates = append(predicates, matchAny(f, slices.Clone(values)))
		}
	}

	if q := strings.TrimSpace(st.Search); q != "" {
		predicates = append(predicates, matchText(q))
	}

	return func(item content.Item) bool {
		for _, p := range predicates {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

func matchAny(f Facet, values []string) Predicate {
	return func(item content.Item) bool {
		for _, v := range itemValues(item, f) {
			if slices.Contains(values, v) {
				return true
			}
		}
		return false
	}
}

func matchText(query string) Predicate {
	folder := cases.Fold()
	needle := folder.String(query)

	return func(item content.Item) bool {
		if strings.Contains(folder.String(item.Title), needle) ||
			strings.Contains(folder.String(item.Excerpt), needle) {
			return true
		}
		for _, tag := range item.Tags {
			if strings.Contains(folder.String(tag), needle) {
				return true
			}
		}
		return false
	}
}

// itemValues returns the item's values for a facet. Items without a type or
// source have no values and fail any constraint on that facet.
func itemValues(item content.Item, f Facet) []string {
	switch f {
	case FacetCategories:
		return item.Categories
	case FacetTypes:
		if item.Type != "" {
			return []string{item.Type}
		}
	case FacetSources:
		if item.Source != "" {
			return []string{item.Source}
		}
	}
	return nil
}

// Apply returns the items matching st ordered by date. The input slice is not modified.
func Apply(items []content.Item, st State) []content.Item {
	match := Compile(st)

	result := make([]content.Item, 0, len(items))
	for _, item := range items {
		if match(item) {
			result = append(result, item)
		}
	}

	ascending := st.SortOrder() == SortAscending
	slices.SortStableFunc(result, func(a, b content.Item) int {
		// undated items go last in either direction
		aDated, bDated := IsCalendarDate(a.Date), IsCalendarDate(b.Date)
		if aDated != bDated {
			if aDated {
				return -1
			}
			return 1
		}
		if ascending {
			return strings.Compare(a.Date, b.Date)
		}
		return strings.Compare(b.Date, a.Date)
	})

	return result
}

// Count returns len(Apply(items, st)) without sorting.
func Count(items []content.Item, st State) int {
	match := Compile(st)

	count := 0
	for _, item := range items {
		if match(item) {
			count++
		}
	}
	return count
}
