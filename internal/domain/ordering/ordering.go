// Package ordering sorts board records by their sortable date and derives
// identifiers for new records.
//
// Ordering is total and deterministic:
//   - records with a parseable dateSort come first, ascending by date;
//   - records whose dateSort cannot be parsed follow, in id order;
//   - equal dates are broken by ascending id.
package ordering

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/okian/eventboard/internal/domain/model"
)

// FirstID is assigned to the first record added to an empty collection.
const FirstID = 1

// layouts accepted for dateSort, tried in order.
var layouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses a dateSort value. ok is false when no layout matches.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Compare orders a before b (-1), after b (1) or equal (0).
func Compare(a, b model.Record) int {
	ta, okA := ParseDate(a.DateSort)
	tb, okB := ParseDate(b.DateSort)
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case okA && okB:
		if c := ta.Compare(tb); c != 0 {
			return c
		}
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// Sort orders records in place.
func Sort(records []model.Record) {
	slices.SortStableFunc(records, Compare)
}

// IsSorted reports whether records are already in board order.
func IsSorted(records []model.Record) bool {
	return slices.IsSortedFunc(records, Compare)
}

// NextID returns one more than the largest id, or FirstID when records is
// empty. ok is false when the largest id is math.MaxInt and no greater id
// exists.
func NextID(records []model.Record) (id int, ok bool) {
	if len(records) == 0 {
		return FirstID, true
	}
	maxID := records[0].ID
	for _, r := range records[1:] {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	if maxID == math.MaxInt {
		return 0, false
	}
	return maxID + 1, true
}
