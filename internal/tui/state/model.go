// Package state holds the bubbletea model of the record listing screen.
package state

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taxdesk/clientsearch/internal/api"
	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/errors"
	"github.com/taxdesk/clientsearch/internal/export"
	"github.com/taxdesk/clientsearch/internal/filter"
	"github.com/taxdesk/clientsearch/internal/logging"
	"github.com/taxdesk/clientsearch/internal/pagination"
)

const (
	// DebounceDelay is the quiet period after the last search keystroke
	// before the search text is committed.
	DebounceDelay = 500 * time.Millisecond

	// header, chips, table header, pager, status and help lines
	headerFooterLines     = 6
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	statusClearDuration   = errors.DefaultMessageTTL
)

// Exporter writes the current page to a CSV file.
type Exporter interface {
	ExportFile(ctx context.Context, req export.Request) (domain.ExportEntry, error)
}

// Options configures a Model.
type Options struct {
	Screen   domain.Screen
	Category domain.Category
	Fetcher  api.Fetcher
	// Exporter is optional; without one the export key reports an error.
	Exporter Exporter
	Logger   logging.Logger
	// Debounce overrides DebounceDelay when positive.
	Debounce time.Duration
}

// Model represents the TUI model for bubbletea.
type Model struct {
	uiState      *UIState
	errorHandler *errors.TUIHandler

	profile domain.ScreenProfile
	filters *filter.State
	cursor  *pagination.Cursor

	fetcher  api.Fetcher
	exporter Exporter
	logger   logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	seq    *api.Sequencer

	// searchGen numbers search edits; only the newest debounce tick commits.
	searchGen uint64
	debounce  time.Duration

	records []domain.Record
	sort    domain.SortState
	loading bool
	// loadedQuery is the encoded query of the records on screen.
	loadedQuery string
	// detail is the record shown in detail mode.
	detail *domain.Record
	now    func() time.Time
}

// NewModel creates a new TUI model.
func NewModel(opts Options) (*Model, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("tui: a fetcher is required")
	}
	screen := opts.Screen
	if !screen.IsValid() {
		screen = domain.ScreenClients
	}
	category := opts.Category
	if !category.IsValid() {
		category = domain.DefaultCategory()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.With("component", "tui")
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DebounceDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		uiState:      NewUIState(),
		errorHandler: errors.NewTUIHandler(func(msg errors.Message) {
			logger.Debug("status message", "type", msg.Type.String(), "text", msg.Text)
		}),
		profile:      domain.ProfileFor(screen),
		filters:      filter.New(screen, category),
		cursor:       pagination.New(pagination.DefaultPerPage),
		fetcher:      opts.Fetcher,
		exporter:     opts.Exporter,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		seq:          &api.Sequencer{},
		debounce:     debounce,
		now:          time.Now,
	}
	return m, nil
}

// Init issues the first fetch.
func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)
	case searchDebouncedMsg:
		return m, m.handleSearchDebounced(msg)
	case fetchResultMsg:
		return m, m.handleFetchResult(msg)
	case exportDoneMsg:
		return m, m.handleExportDone(msg)
	case statusExpiredMsg:
		return m, nil
	}
	return m, nil
}

// handleWindowSizeMsg resizes the viewport.
func (m *Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.uiState.SetWidth(msg.Width)
	m.uiState.SetHeight(msg.Height)
	m.uiState.UpdateViewportSize()
	m.uiState.EnsureCursorVisible(len(m.records))
	return m, nil
}

// Shutdown cancels any in-flight fetch.
func (m *Model) Shutdown() {
	m.seq.Stop()
	m.cancel()
}

// Filters returns the filter state. Used by tests and the command layer.
func (m *Model) Filters() *filter.State {
	return m.filters
}

// Cursor returns the pagination cursor.
func (m *Model) Cursor() *pagination.Cursor {
	return m.cursor
}

// Records returns the rows on screen in display order.
func (m *Model) Records() []domain.Record {
	return domain.SortRecords(m.records, m.sort)
}

// Loading reports whether a fetch is outstanding.
func (m *Model) Loading() bool {
	return m.loading
}

// Mode returns the active input mode.
func (m *Model) Mode() Mode {
	return m.uiState.Mode()
}

// Status returns the visible status message, if any.
func (m *Model) Status() (errors.Message, bool) {
	return m.errorHandler.Current()
}
