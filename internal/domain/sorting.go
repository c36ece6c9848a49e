package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder specifies the sort direction.
type SortOrder string

const (
	SortOrderNone SortOrder = ""
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// IsValid checks if the sort order is valid.
func (s SortOrder) IsValid() bool {
	switch s {
	case SortOrderNone, SortOrderAsc, SortOrderDesc:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sort order.
func (s SortOrder) String() string {
	return string(s)
}

// Indicator returns the arrow shown next to a sorted column header.
func (s SortOrder) Indicator() string {
	switch s {
	case SortOrderAsc:
		return " ▲"
	case SortOrderDesc:
		return " ▼"
	default:
		return ""
	}
}

// ParseSortOrder parses a string into a SortOrder.
func ParseSortOrder(order string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(order))
	if !o.IsValid() {
		return "", fmt.Errorf("invalid sort order: %s", order)
	}
	return o, nil
}

// SortState is the client-side column sort of the current page.
type SortState struct {
	Column string
	Order  SortOrder
}

// IsSorted reports whether a column sort is active.
func (s SortState) IsSorted() bool {
	return s.Column != "" && s.Order != SortOrderNone
}

// OrderFor returns the sort order applied to a column.
func (s SortState) OrderFor(column string) SortOrder {
	if s.Column != column {
		return SortOrderNone
	}
	return s.Order
}

// Cycle advances the sort of a column: unsorted, ascending, descending, unsorted.
// Selecting a different column starts again at ascending.
func (s SortState) Cycle(column string) SortState {
	if s.Column != column || s.Order == SortOrderNone {
		return SortState{Column: column, Order: SortOrderAsc}
	}
	if s.Order == SortOrderAsc {
		return SortState{Column: column, Order: SortOrderDesc}
	}
	return SortState{}
}

// SortRecords sorts records by the active column.
// Returns a new sorted slice without modifying the original; an inactive
// sort keeps the server order. Empty values sort last in both directions.
func SortRecords(records []Record, state SortState) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	if !state.IsSorted() || len(sorted) < 2 {
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Field(state.Column), sorted[j].Field(state.Column)
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		c := compareField(sorted[i], sorted[j], state.Column)
		if state.Order == SortOrderDesc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

// compareField compares two records on one field.
// Returns -1 if i < j, 1 if i > j, 0 if equal.
func compareField(i, j Record, key string) int {
	a, b := i.Field(key), j.Field(key)
	if a == b {
		return 0
	}
	if key == FieldLastUpdated {
		ta, okA := ParseTimestamp(a)
		tb, okB := ParseTimestamp(b)
		if okA && okB {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
