package domain

import "time"

// ExportEntry records one CSV export.
type ExportEntry struct {
	ID        int64
	CreatedAt time.Time
	Screen    Screen
	Category  Category
	Rows      int
	Path      string
	// Query is the encoded query the exported page was fetched with.
	Query string
}
