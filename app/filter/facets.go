package filter

import (
	"slices"

	"github.com/lysyi3m/content-comb/app/content"
)

// DistinctValues collects every value the items carry for a facet, sorted.
func DistinctValues(items []content.Item, f Facet) []string {
	seen := make(map[string]struct{})
	for _, item := range items {
		for _, v := range itemValues(item, f) {
			seen[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// CountsFor reports, for each value of the facet, how many items would match
// if the facet's set were replaced by that single value. Every other
// constraint in base stays in force. Values with zero matches are included.
func CountsFor(items []content.Item, base State, f Facet) map[string]int {
	counts := make(map[string]int)
	for _, v := range DistinctValues(items, f) {
		counts[v] = Count(items, base.WithFacet(f, v))
	}
	return counts
}

// Chip is one selectable facet value with its prospective count.
type Chip struct {
	Value    string `json:"value"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

func Chips(items []content.Item, st State, f Facet) []Chip {
	counts := CountsFor(items, st, f)
	selected := st.Values(f)

	chips := make([]Chip, 0, len(counts))
	for _, v := range DistinctValues(items, f) {
		chips = append(chips, Chip{
			Value:    v,
			Count:    counts[v],
			Selected: slices.Contains(selected, v),
		})
	}
	return chips
}
