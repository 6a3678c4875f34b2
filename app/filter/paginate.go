package filter

import "github.com/lysyi3m/content-comb/app/content"

type PageInfo struct {
	Page  int `json:"page"`
	Per   int `json:"per"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Paginate slices items into one page. Out-of-range pages are clamped, and a
// non-positive per falls back to defaultPer.
func Paginate(items []content.Item, page, per, defaultPer int) ([]content.Item, PageInfo) {
	if per < 1 {
		per = defaultPer
	}
	if per < 1 {
		per = 1
	}

	total := len(items)
	pages := max((total+per-1)/per, 1)
	page = min(max(page, 1), pages)

	start := min((page-1)*per, total)
	end := min(start+per, total)

	return items[start:end], PageInfo{
		Page:  page,
		Per:   per,
		Total: total,
		Pages: pages,
	}
}
