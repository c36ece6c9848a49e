package format

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/taxdesk/clientsearch/internal/domain"
)

// TableConfig holds configuration for table formatting.
type TableConfig struct {
	// ShowHeaders determines whether to show column headers.
	ShowHeaders bool

	// ShowSummary appends the "Showing a-b of N" line.
	ShowSummary bool

	// MaxColumnWidth caps the width of any column.
	MaxColumnWidth int
}

// DefaultTableConfig returns a default table configuration.
func DefaultTableConfig() *TableConfig {
	return &TableConfig{
		ShowHeaders:    true,
		ShowSummary:    true,
		MaxColumnWidth: 32,
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true)

// TableFormatter formats records as an aligned table.
type TableFormatter struct {
	config *TableConfig
}

// NewTableFormatter creates a new TableFormatter with the default configuration.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{config: DefaultTableConfig()}
}

// WithConfig replaces the table configuration.
func (f *TableFormatter) WithConfig(config *TableConfig) *TableFormatter {
	f.config = config
	return f
}

// FormatRecords formats records in a table followed by a pager line.
func (f *TableFormatter) FormatRecords(result Result, writer io.Writer) error {
	if len(result.Records) == 0 {
		_, err := fmt.Fprintln(writer, "No results found")
		return err
	}

	columns := result.Columns()
	widths := f.columnWidths(columns, result.Records)

	if f.config.ShowHeaders {
		headers := lo.Map(columns, func(c domain.Column, i int) string {
			return formatString(c.Header, widths[i])
		})
		if _, err := fmt.Fprintln(writer, headerStyle.Render(strings.TrimRight(strings.Join(headers, "  "), " "))); err != nil {
			return err
		}
		separators := lo.Map(widths, func(w int, _ int) string { return makeSeparator(w) })
		if _, err := fmt.Fprintln(writer, strings.Join(separators, "  ")); err != nil {
			return err
		}
	}

	for _, r := range result.Records {
		cells := lo.Map(columns, func(c domain.Column, i int) string {
			v := c.Value(r)
			if v == "" {
				v = "-"
			}
			return truncateString(v, widths[i])
		})
		if _, err := fmt.Fprintln(writer, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}

	if f.config.ShowSummary {
		_, err := fmt.Fprintf(writer, "\n%s\n", summary(result))
		return err
	}
	return nil
}

// columnWidths sizes each column to its widest value, capped at MaxColumnWidth.
func (f *TableFormatter) columnWidths(columns []domain.Column, records []domain.Record) []int {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = utf8.RuneCountInString(c.Header)
		for _, r := range records {
			widths[i] = max(widths[i], utf8.RuneCountInString(c.Value(r)))
		}
		if f.config.MaxColumnWidth > 0 {
			widths[i] = min(widths[i], f.config.MaxColumnWidth)
		}
	}
	return widths
}

func summary(result Result) string {
	c := result.Cursor()
	first, last := c.Range()
	if c.Total() == 0 {
		return "0 results"
	}
	return fmt.Sprintf("Showing %d-%d of %s  Page %d/%d",
		first, last, humanize.Comma(int64(c.Total())), c.Page()+1, c.TotalPages())
}

// formatString left-aligns s in a field of the given width.
func formatString(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}

// truncateString pads s to width, or cuts it and adds "..." when it is longer.
func truncateString(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s + strings.Repeat(" ", width-len(runes))
	}
	if width < 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// makeSeparator creates a separator line of the specified width.
func makeSeparator(width int) string {
	return strings.Repeat("-", width)
}
