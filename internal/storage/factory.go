package storage

import (
	"fmt"
	"path/filepath"

	"github.com/taxdesk/clientsearch/internal/colors"
	"github.com/taxdesk/clientsearch/internal/config"
	"github.com/taxdesk/clientsearch/internal/storage/sqlite"
)

// JournalFileName is the export journal database inside the state directory.
const JournalFileName = "exports.db"

var _ Journal = (*sqlite.SQLiteStorage)(nil)

// NewFromConfig opens the export journal described by the loaded configuration.
// A disabled or broken journal falls back to one that records nothing, so
// exports never fail because of it.
func NewFromConfig() Journal {
	if !config.GetBool("journal_enabled", true) {
		return Disabled()
	}
	dir, err := ensureStateDir()
	if err != nil {
		colors.Warning(fmt.Sprintf("export journal disabled: %v", err))
		return Disabled()
	}
	j, err := Open(filepath.Join(dir, JournalFileName))
	if err != nil {
		colors.Warning(fmt.Sprintf("export journal disabled: %v", err))
		return Disabled()
	}
	return j
}

// Open opens the SQLite journal at path.
func Open(path string) (Journal, error) {
	s, err := sqlite.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
