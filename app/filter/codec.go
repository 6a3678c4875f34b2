package filter

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	ParamStart = "start"
	ParamEnd   = "end"
	ParamSort  = "sort"
	ParamQuery = "q"
	ParamPage  = "page"
	ParamPer   = "per"

	// ListSeparator joins the values of one facet parameter.
	ListSeparator = ","

	maxPerPage = 100
)

// Decode reads a State from a URL query string. It never fails: malformed or
// missing parameters fall back to their defaults one field at a time.
func Decode(query string) State {
	// ParseQuery keeps every well-formed pair even when it reports an error
	values, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))
	return DecodeValues(values)
}

func DecodeValues(values url.Values) State {
	var st State

	start := values.Get(ParamStart)
	end := values.Get(ParamEnd)
	if r, err := NewDateRange(start, end); err == nil {
		st.DateRange = &r
	}

	for _, f := range Facets {
		st.setValues(f, values[string(f)])
	}

	if values.Get(ParamSort) == string(SortAscending) {
		st.Sort = SortAscending
	}

	st.SetSearch(values.Get(ParamQuery))

	return st
}

// Encode writes the canonical query string for a State. Parameters holding
// default values are omitted, so the default state encodes to "".
func Encode(st State) string {
	var parts []string

	if st.DateRange != nil {
		parts = append(parts,
			ParamStart+"="+url.QueryEscape(st.DateRange.Start),
			ParamEnd+"="+url.QueryEscape(st.DateRange.End),
		)
	}

	for _, f := range Facets {
		values := st.Values(f)
		if len(values) == 0 {
			continue
		}
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = url.QueryEscape(v)
		}
		parts = append(parts, string(f)+"="+strings.Join(escaped, ListSeparator))
	}

	if st.SortOrder() == SortAscending {
		parts = append(parts, ParamSort+"="+string(SortAscending))
	}

	if strings.TrimSpace(st.Search) != "" {
		parts = append(parts, ParamQuery+"="+url.QueryEscape(st.Search))
	}

	return strings.Join(parts, "&")
}

// EncodeWithPage appends pagination to the canonical query. The first page is implicit.
func EncodeWithPage(st State, page, per int) string {
	query := Encode(st)
	if page <= 1 {
		return query
	}

	paging := ParamPage + "=" + strconv.Itoa(page) + "&" + ParamPer + "=" + strconv.Itoa(per)
	if query == "" {
		return paging
	}
	return query + "&" + paging
}

// DecodePage reads page and per from the query, substituting page 1 and
// defaultPer for missing or invalid values.
func DecodePage(values url.Values, defaultPer int) (page, per int) {
	page, err := strconv.Atoi(values.Get(ParamPage))
	if err != nil || page < 1 {
		page = 1
	}

	per, err = strconv.Atoi(values.Get(ParamPer))
	if err != nil || per < 1 {
		per = defaultPer
	}
	if per > maxPerPage {
		per = maxPerPage
	}

	return page, per
}
