package model

import "strings"

// FilterAll selects every record.
const FilterAll Filter = "all"

// Filter is the active category selection, either FilterAll or a Category.
type Filter string

// ParseFilter normalizes user input. Unknown values are kept as-is; they
// simply match nothing.
func ParseFilter(v string) Filter {
	v = strings.TrimSpace(v)
	if v == "" {
		return FilterAll
	}
	return Filter(v)
}

// Filters lists every selectable filter in control order.
func Filters() []Filter {
	out := []Filter{FilterAll}
	for _, c := range Categories() {
		out = append(out, Filter(c))
	}
	return out
}

// Known reports whether f is FilterAll or a known category.
func (f Filter) Known() bool {
	return f == FilterAll || Category(f).Known()
}

// Match reports whether r passes the filter.
func (f Filter) Match(r Record) bool {
	return f == FilterAll || Category(f) == r.Category
}

// Apply returns the records that pass the filter, preserving order.
func (f Filter) Apply(records []Record) []Record {
	if f == FilterAll {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
