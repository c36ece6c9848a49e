// Package storage provides the export journal and its backend selection.
package storage

import (
	"context"
	"time"

	"github.com/taxdesk/clientsearch/internal/domain"
)

// Journal records CSV exports.
type Journal interface {
	RecordExport(ctx context.Context, e domain.ExportEntry) (int64, error)
	ListExports(ctx context.Context, limit int) ([]domain.ExportEntry, error)
	PruneExports(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// noopJournal is used when the journal is disabled or cannot be opened.
type noopJournal struct{}

func (noopJournal) RecordExport(context.Context, domain.ExportEntry) (int64, error) { return 0, nil }
func (noopJournal) ListExports(context.Context, int) ([]domain.ExportEntry, error) { return nil, nil }
func (noopJournal) PruneExports(context.Context, time.Time) (int64, error)          { return 0, nil }
func (noopJournal) Close() error                                                    { return nil }

// Disabled returns a journal that records nothing.
func Disabled() Journal {
	return noopJournal{}
}

// IsDisabled reports whether j records nothing.
func IsDisabled(j Journal) bool {
	_, ok := j.(noopJournal)
	return ok
}
