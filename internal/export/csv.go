// Package export writes record pages as CSV files.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/logging"
	"github.com/taxdesk/clientsearch/internal/storage"
)

// Headers returns the CSV header row for a screen and category.
func Headers(screen domain.Screen, category domain.Category) []string {
	return lo.Map(columns(screen, category), func(c domain.Column, _ int) string { return c.Header })
}

func columns(screen domain.Screen, category domain.Category) []domain.Column {
	return domain.ProfileFor(screen).Category(category).CSVColumns
}

// Write serializes records as CSV: one header row, then one row per record
// with the columns of the screen and category.
func Write(w io.Writer, screen domain.Screen, category domain.Category, records []domain.Record) error {
	cols := columns(screen, category)
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers(screen, category)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := lo.Map(cols, func(c domain.Column, _ int) string { return c.Value(r) })
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Request describes one export to a file.
type Request struct {
	Screen   domain.Screen
	Category domain.Category
	Records  []domain.Record
	// Query is the encoded query the records were fetched with.
	Query string
	// Path overrides the default file name inside the exporter directory.
	Path string
}

// Exporter writes CSV files and records them in the export journal.
type Exporter struct {
	Dir     string
	Journal storage.Journal
	Logger  logging.Logger
	Now     func() time.Time
}

// NewExporter returns an exporter writing into dir.
func NewExporter(dir string, journal storage.Journal) *Exporter {
	if journal == nil {
		journal = storage.Disabled()
	}
	return &Exporter{Dir: dir, Journal: journal, Logger: logging.With("component", "export"), Now: time.Now}
}

// FilePath returns the file a request is written to.
func (e *Exporter) FilePath(req Request) string {
	if req.Path != "" {
		return req.Path
	}
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, domain.ProfileFor(req.Screen).ExportFile)
}

// ExportFile writes the request to its file, replacing any previous export,
// and journals it. A journal failure is logged and does not fail the export.
func (e *Exporter) ExportFile(ctx context.Context, req Request) (domain.ExportEntry, error) {
	path := e.FilePath(req)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.ExportEntry{}, fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.csv")
	if err != nil {
		return domain.ExportEntry{}, fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, req.Screen, req.Category, req.Records); err != nil {
		tmp.Close()
		return domain.ExportEntry{}, err
	}
	if err := tmp.Close(); err != nil {
		return domain.ExportEntry{}, fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return domain.ExportEntry{}, fmt.Errorf("move export file into place: %w", err)
	}

	entry := domain.ExportEntry{
		CreatedAt: e.now(),
		Screen:    req.Screen,
		Category:  req.Category,
		Rows:      len(req.Records),
		Path:      path,
		Query:     req.Query,
	}
	if e.Journal != nil {
		id, err := e.Journal.RecordExport(ctx, entry)
		if err != nil {
			e.logger().Warn("journal export failed", "path", path, "error", err)
		}
		entry.ID = id
	}
	e.logger().Info("exported records", "path", path, "rows", entry.Rows, "category", req.Category.String())
	return entry, nil
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Exporter) logger() logging.Logger {
	if e.Logger == nil {
		return logging.GetGlobal()
	}
	return e.Logger
}
