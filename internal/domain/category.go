// Package domain provides the domain layer for client and tax-return records.
// It contains the category and screen profiles, record schema, filter catalogs
// and presentation helpers shared by the query builder, the TUI and the exporter.
package domain

import (
	"fmt"
	"strings"
)

// Category selects which record schema, filter flags and columns apply.
type Category string

const (
	// CategoryT1 covers personal returns.
	CategoryT1 Category = "T1"
	// CategoryT2 covers corporate returns.
	CategoryT2 Category = "T2"
	// CategoryT3 covers trust and estate returns.
	CategoryT3 Category = "T3"
)

// Categories lists every category in tab order.
var Categories = []Category{CategoryT1, CategoryT2, CategoryT3}

// IsValid returns whether the category is one of the supported values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryT1, CategoryT2, CategoryT3:
		return true
	default:
		return false
	}
}

// String returns the product code sent to the query API.
func (c Category) String() string {
	return string(c)
}

// Next returns the category of the following tab, wrapping around.
func (c Category) Next() Category {
	for i, candidate := range Categories {
		if candidate == c {
			return Categories[(i+1)%len(Categories)]
		}
	}
	return DefaultCategory()
}

// DefaultCategory returns the category used when value is missing or invalid.
func DefaultCategory() Category {
	return CategoryT1
}

// ParseCategory parses a user supplied category such as "t2" or "T2".
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %q (must be T1, T2 or T3)", raw)
	}
	return c, nil
}

// NormalizeCategory converts arbitrary input to a valid category.
// Missing or invalid values resolve to the default category.
func NormalizeCategory(raw string) Category {
	c, err := ParseCategory(raw)
	if err != nil {
		return DefaultCategory()
	}
	return c
}

// Year selects the current-year or previous-year flag set of a category.
type Year string

const (
	YearCurrent  Year = "current"
	YearPrevious Year = "previous"
)

// IsValid returns whether the year is one of the supported values.
func (y Year) IsValid() bool {
	return y == YearCurrent || y == YearPrevious
}

// Toggle returns the other year.
func (y Year) Toggle() Year {
	if y == YearPrevious {
		return YearCurrent
	}
	return YearPrevious
}

// Location is an office location filter value.
type Location string

const (
	LocationNone       Location = ""
	LocationHeadOffice Location = "HeadOffice"
	LocationSubOffice  Location = "SubOffice"
)

// Locations lists the selectable office locations in display order.
var Locations = []Location{LocationHeadOffice, LocationSubOffice}

// Label returns the human readable office name.
func (l Location) Label() string {
	switch l {
	case LocationHeadOffice:
		return "Main Office"
	case LocationSubOffice:
		return "Sub Office"
	case LocationNone:
		return "Any location"
	default:
		return string(l)
	}
}

// IsValid returns whether the location is empty or a known office.
func (l Location) IsValid() bool {
	switch l {
	case LocationNone, LocationHeadOffice, LocationSubOffice:
		return true
	default:
		return false
	}
}

// Next cycles through no location and each office.
func (l Location) Next() Location {
	switch l {
	case LocationNone:
		return LocationHeadOffice
	case LocationHeadOffice:
		return LocationSubOffice
	default:
		return LocationNone
	}
}

// ParseLocation parses a location by value or label, case-insensitively.
func ParseLocation(raw string) (Location, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return LocationNone, nil
	}
	for _, l := range Locations {
		if strings.EqualFold(value, string(l)) || strings.EqualFold(value, l.Label()) {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid location: %q (must be HeadOffice or SubOffice)", raw)
}
