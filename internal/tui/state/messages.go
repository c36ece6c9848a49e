package state

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taxdesk/clientsearch/internal/api"
	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/export"
	"github.com/taxdesk/clientsearch/internal/query"
)

// fetchResultMsg carries the outcome of one fetch and the sequence number it
// was issued with.
type fetchResultMsg struct {
	seq  uint64
	page *api.Page
	err  error
}

// searchDebouncedMsg fires when the search input has been quiet for the
// debounce delay. Only the tick of the latest generation is acted on.
type searchDebouncedMsg struct {
	gen uint64
}

// exportDoneMsg reports a finished CSV export.
type exportDoneMsg struct {
	entry domain.ExportEntry
	err   error
}

// statusExpiredMsg triggers a redraw once a status message has expired.
type statusExpiredMsg struct{}

func fetchCmd(ctx context.Context, fetcher api.Fetcher, seq uint64, intent query.Intent) tea.Cmd {
	return func() tea.Msg {
		page, err := fetcher.Fetch(ctx, intent)
		return fetchResultMsg{seq: seq, page: page, err: err}
	}
}

func debounceCmd(delay time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchDebouncedMsg{gen: gen}
	})
}

func exportCmd(ctx context.Context, exporter Exporter, req export.Request) tea.Cmd {
	return func() tea.Msg {
		entry, err := exporter.ExportFile(ctx, req)
		return exportDoneMsg{entry: entry, err: err}
	}
}

func statusExpiredAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}
