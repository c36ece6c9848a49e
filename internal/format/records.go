package format

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/export"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CSVFormatter writes the export columns of a page as CSV.
type CSVFormatter struct{}

// NewCSVFormatter creates a new CSVFormatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// FormatRecords writes the header row and one row per record.
func (f *CSVFormatter) FormatRecords(result Result, writer io.Writer) error {
	return export.Write(writer, result.Screen, result.Category, result.Records)
}

// JSONFormatter formats records as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonPage struct {
	Screen   domain.Screen       `json:"screen"`
	Category domain.Category     `json:"category"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	Pages    int                 `json:"pages"`
	Records  []map[string]string `json:"records"`
}

// FormatRecords writes the page as an indented JSON document. Records are
// keyed by field name and carry the client id.
func (f *JSONFormatter) FormatRecords(result Result, writer io.Writer) error {
	c := result.Cursor()
	columns := result.Columns()
	page := jsonPage{
		Screen:   result.Screen,
		Category: result.Category,
		Total:    c.Total(),
		Page:     c.Page() + 1,
		Pages:    c.TotalPages(),
		Records: lo.Map(result.Records, func(r domain.Record, _ int) map[string]string {
			row := map[string]string{domain.FieldClientID: r.ClientID}
			for _, col := range columns {
				row[col.Key] = col.Value(r)
			}
			return row
		}),
	}
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records to JSON: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer)
	return err
}
