// Package format provides output formatting for the search command.
// It includes formatters for tables, CSV and JSON.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/pagination"
)

// Result is one fetched page of records together with its paging context.
type Result struct {
	Screen   domain.Screen
	Category domain.Category
	Records  []domain.Record
	Total    int
	// Page is zero-based.
	Page int
}

// Cursor returns a pagination cursor positioned on the result's page.
func (r Result) Cursor() *pagination.Cursor {
	c := pagination.New(pagination.DefaultPerPage)
	c.SetTotal(r.Total)
	c.Goto(r.Page)
	return c
}

// Columns returns the table columns of the result's screen and category.
func (r Result) Columns() []domain.Column {
	return domain.ProfileFor(r.Screen).Category(r.Category).Columns
}

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatRecords formats a page of records and writes to the writer.
	FormatRecords(result Result, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeTable displays records in an aligned table with a pager line.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeCSV writes the export columns as CSV.
	FormatterTypeCSV FormatterType = "csv"

	// FormatterTypeJSON displays records in JSON format.
	FormatterTypeJSON FormatterType = "json"
)

// ParseFormatterType validates a --format value.
func ParseFormatterType(raw string) (FormatterType, error) {
	switch t := FormatterType(strings.ToLower(strings.TrimSpace(raw))); t {
	case FormatterTypeTable, FormatterTypeCSV, FormatterTypeJSON:
		return t, nil
	case "":
		return FormatterTypeTable, nil
	}
	return "", fmt.Errorf("invalid format: %q (must be table, csv or json)", raw)
}

// NewFormatter creates a new formatter of the specified type.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeCSV:
		return NewCSVFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewTableFormatter()
	}
}
