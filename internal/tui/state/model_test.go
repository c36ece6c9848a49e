package state

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taxdesk/clientsearch/internal/api"
	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/export"
	"github.com/taxdesk/clientsearch/internal/filter"
	"github.com/taxdesk/clientsearch/internal/logging"
	"github.com/taxdesk/clientsearch/internal/query"
)

type mockFetcher struct {
	mock.Mock
}

func (f *mockFetcher) Fetch(ctx context.Context, intent query.Intent) (*api.Page, error) {
	args := f.Called(ctx, intent)
	page, _ := args.Get(0).(*api.Page)
	return page, args.Error(1)
}

type mockExporter struct {
	mock.Mock
}

func (e *mockExporter) ExportFile(ctx context.Context, req export.Request) (domain.ExportEntry, error) {
	args := e.Called(ctx, req)
	return args.Get(0).(domain.ExportEntry), args.Error(1)
}

func newTestModel(t *testing.T, fetcher api.Fetcher, exporter Exporter) *Model {
	t.Helper()
	m, err := NewModel(Options{
		Screen:   domain.ScreenClients,
		Category: domain.CategoryT1,
		Fetcher:  fetcher,
		Exporter: exporter,
		Logger:   logging.New(io.Discard, "error"),
		Debounce: time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)
	return m
}

func personRecords(prefix string, n int) []domain.Record {
	records := make([]domain.Record, n)
	for i := range records {
		records[i] = domain.Record{
			Category:    domain.CategoryT1,
			ClientID:    fmt.Sprintf("%s-%d", prefix, i),
			LastUpdated: "2025-01-02T03:04:05",
			Person: &domain.PersonFields{
				FirstNames: fmt.Sprintf("%s first %d", prefix, i),
				Surname:    fmt.Sprintf("%s last %d", prefix, i),
			},
		}
	}
	return records
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// press sends a key and returns the command it produced.
func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// deliver feeds a message produced by a command back into the model.
func deliver(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// loadPage runs a fetch command and delivers its result.
func loadPage(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	deliver(m, cmd())
}

func intentWith(pred func(query.Intent) bool) interface{} {
	return mock.MatchedBy(pred)
}

func TestNewModelRequiresFetcher(t *testing.T) {
	_, err := NewModel(Options{})
	assert.Error(t, err)
}

func TestNewModelDefaults(t *testing.T) {
	m, err := NewModel(Options{Fetcher: &mockFetcher{}, Screen: "bogus", Category: "T9"})
	require.NoError(t, err)
	defer m.Shutdown()

	assert.Equal(t, domain.ScreenClients, m.Filters().Screen())
	assert.Equal(t, domain.CategoryT1, m.Filters().Category())
	assert.Equal(t, DebounceDelay, m.debounce)
	assert.Equal(t, ModeList, m.Mode())
}

func TestInitFetchesFirstPage(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, intentWith(func(i query.Intent) bool {
		return i.Category == domain.CategoryT1 && i.Page == 0 && i.Search == ""
	})).Return(&api.Page{Records: personRecords("a", 20), Total: 45}, nil).Once()
	m := newTestModel(t, fetcher, nil)

	cmd := m.Init()
	assert.True(t, m.Loading())
	loadPage(t, m, cmd)

	assert.False(t, m.Loading())
	assert.Len(t, m.Records(), 20)
	assert.Equal(t, 45, m.Cursor().Total())
	assert.Equal(t, 3, m.Cursor().TotalPages())
	fetcher.AssertExpectations(t)
}

func TestSearchDebounceIssuesOneRequest(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, intentWith(func(i query.Intent) bool {
		return query.Build(i).Get(query.ParamSearchText) == "abc"
	})).Return(&api.Page{Records: personRecords("abc", 2), Total: 2}, nil).Once()
	m := newTestModel(t, fetcher, nil)

	press(m, runes("/"))
	require.Equal(t, ModeSearch, m.Mode())

	var ticks []tea.Cmd
	for _, r := range "abc" {
		ticks = append(ticks, press(m, runes(string(r))))
	}
	require.Len(t, ticks, 3)

	var fetches []tea.Cmd
	for _, tick := range ticks {
		msg := tick()
		require.IsType(t, searchDebouncedMsg{}, msg)
		if cmd := deliver(m, msg); cmd != nil {
			fetches = append(fetches, cmd)
		}
	}
	require.Len(t, fetches, 1, "only the last keystroke's tick may fetch")
	assert.Equal(t, "abc", m.Filters().Search())

	loadPage(t, m, fetches[0])
	assert.Len(t, m.Records(), 2)
	fetcher.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestSearchEnterCommitsImmediately(t *testing.T) {
	fetcher := &mockFetcher{}
	m := newTestModel(t, fetcher, nil)

	press(m, runes("/"))
	tick := press(m, runes("smith"))
	fetch := press(m, key(tea.KeyEnter))

	assert.Equal(t, ModeList, m.Mode())
	assert.Equal(t, "smith", m.Filters().Search())
	require.NotNil(t, fetch)
	assert.Nil(t, deliver(m, tick()), "pending tick is superseded by Enter")
}

func TestSearchBackspace(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)
	press(m, runes("/"))

	assert.Nil(t, press(m, key(tea.KeyBackspace)), "nothing to delete")
	press(m, runes("ab"))
	assert.NotNil(t, press(m, key(tea.KeyBackspace)))
	assert.Equal(t, "a", m.uiState.GetSearchQuery())

	press(m, key(tea.KeyEsc))
	assert.Equal(t, ModeList, m.Mode())
	assert.Equal(t, "a", m.uiState.GetSearchQuery(), "leaving search keeps the input")
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	tests := []struct {
		name    string
		arrival []string
	}{
		{"older arrives last", []string{"B", "A"}},
		{"older arrives first", []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			fetcher.On("Fetch", mock.Anything, mock.Anything).
				Return(&api.Page{Records: personRecords("A", 5), Total: 5}, nil).Once()
			fetcher.On("Fetch", mock.Anything, mock.Anything).
				Return(&api.Page{Records: personRecords("B", 3), Total: 3}, nil).Once()
			m := newTestModel(t, fetcher, nil)

			cmdA := press(m, runes("r"))
			msgA := cmdA()
			cmdB := press(m, runes("r"))
			msgB := cmdB()

			results := map[string]tea.Msg{"A": msgA, "B": msgB}
			for _, name := range tt.arrival {
				deliver(m, results[name])
			}

			require.Len(t, m.Records(), 3)
			assert.Equal(t, "B-0", m.Records()[0].ClientID)
			assert.Equal(t, 3, m.Cursor().Total())
			assert.False(t, m.Loading())
		})
	}
}

func TestStaleResponseKeepsLoading(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)
	m.fetch()
	m.fetch()

	deliver(m, fetchResultMsg{seq: 1, page: &api.Page{Records: personRecords("A", 1), Total: 1}})

	assert.True(t, m.Loading())
	assert.Empty(t, m.Records())
}

func TestSupersededFetchContextIsCanceled(t *testing.T) {
	fetcher := &mockFetcher{}
	var first context.Context
	fetcher.On("Fetch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		if first == nil {
			first = args.Get(0).(context.Context)
		}
	}).Return(&api.Page{}, nil)
	m := newTestModel(t, fetcher, nil)

	cmdA := m.fetch()
	m.fetch()
	cmdA()

	require.NotNil(t, first)
	assert.ErrorIs(t, first.Err(), context.Canceled)
}

func TestFetchErrorShownInline(t *testing.T) {
	fetcher := &mockFetcher{}
	fetchErr := &api.FetchError{URL: "http://example.test", StatusCode: 502}
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, fetchErr).Once()
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(&api.Page{Records: personRecords("ok", 1), Total: 1}, nil).Once()
	m := newTestModel(t, fetcher, nil)

	loadPage(t, m, m.Init())

	msg, ok := m.Status()
	require.True(t, ok)
	assert.Contains(t, msg.Text, "fetch failed")
	assert.Empty(t, m.Records())
	assert.False(t, m.Loading())
	assert.Contains(t, stripANSI(m.View()), "No results found")

	loadPage(t, m, press(m, runes("r")))
	_, ok = m.Status()
	assert.False(t, ok, "a successful fetch clears the error")
	assert.Len(t, m.Records(), 1)
}

func TestDroppedRowsWarn(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)
	m.fetch()

	cmd := deliver(m, fetchResultMsg{seq: 1, page: &api.Page{Records: personRecords("a", 2), Total: 3, Dropped: 1}})

	assert.NotNil(t, cmd)
	msg, ok := m.Status()
	require.True(t, ok)
	assert.Equal(t, "1 malformed rows skipped", msg.Text)
}

func TestCategorySwitchResetsState(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(&api.Page{Records: personRecords("a", 20), Total: 100}, nil)
	m := newTestModel(t, fetcher, nil)
	loadPage(t, m, m.Init())

	m.Filters().Toggle("gstDue")
	range2024, err := domain.ParseDateRange("2024-01-01", "2024-06-30")
	require.NoError(t, err)
	require.NoError(t, m.Filters().SetDateRange(range2024))
	loadPage(t, m, press(m, runes("a")))
	loadPage(t, m, press(m, runes("n")))
	loadPage(t, m, press(m, runes("n")))
	require.Equal(t, 2, m.Cursor().Page())
	require.Len(t, m.Filters().Chips(), 2)
	press(m, runes("s"))

	cmd := press(m, runes("2"))

	require.NotNil(t, cmd)
	assert.Equal(t, domain.CategoryT2, m.Filters().Category())
	assert.Equal(t, 0, m.Cursor().Page())
	assert.Empty(t, m.Filters().Chips())
	assert.False(t, m.Filters().Live().Temporal.IsSet())
	assert.Equal(t, filter.PhaseEditing, m.Filters().Phase())
	assert.Equal(t, domain.SortState{}, m.sort)

	loadPage(t, m, cmd)
	fetcher.AssertCalled(t, "Fetch", mock.Anything, intentWith(func(i query.Intent) bool {
		return i.Category == domain.CategoryT2 && i.Page == 0 && len(query.Clauses(i)) == 0
	}))

	assert.Nil(t, press(m, runes("2")), "same category is a no-op")
	assert.NotNil(t, press(m, key(tea.KeyTab)))
	assert.Equal(t, domain.CategoryT3, m.Filters().Category())
}

func TestApplyCopiesLiveSelection(t *testing.T) {
	fetcher := &mockFetcher{}
	m := newTestModel(t, fetcher, nil)

	press(m, runes("f"))
	require.Equal(t, ModePanel, m.Mode())
	press(m, key(tea.KeySpace))
	press(m, runes("j"))
	press(m, runes("j"))
	press(m, runes("j"))
	press(m, key(tea.KeySpace))
	assert.True(t, m.Filters().Dirty())

	cmd := press(m, runes("a"))
	require.NotNil(t, cmd)
	assert.Equal(t, ModeList, m.Mode())
	intent := m.Filters().Intent(0)
	assert.Equal(t, "bSelfEmployed eq true and bGSTDue eq true", query.Build(intent).Get(query.ParamFilterText))

	press(m, runes("f"))
	press(m, key(tea.KeySpace))
	assert.Equal(t, "bSelfEmployed eq true and bGSTDue eq true",
		query.Build(m.Filters().Intent(0)).Get(query.ParamFilterText), "pending edits stay out of the query")
}

func TestPanelYearToggleAndReset(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)

	press(m, runes("f"))
	press(m, runes("y"))
	assert.Equal(t, domain.YearPrevious, m.Filters().Year())
	press(m, key(tea.KeySpace))
	press(m, runes("a"))

	chips := m.Filters().Chips()
	require.Len(t, chips, 1)
	assert.Equal(t, "Self Employed (P)", chips[0].Label)

	cmd := press(m, runes("x"))
	require.NotNil(t, cmd)
	assert.Empty(t, m.Filters().Chips())
}

func TestRemoveLastChip(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)
	m.Filters().Toggle("selfEmployed")
	m.Filters().Toggle("gstDue")
	m.Filters().Apply()

	cmd := press(m, key(tea.KeyBackspace))

	require.NotNil(t, cmd)
	chips := m.Filters().Chips()
	require.Len(t, chips, 1)
	assert.Equal(t, "selfEmployed", chips[0].Flag)
	assert.False(t, m.Filters().IsChecked("gstDue"))
}

func TestPagingKeys(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(&api.Page{Records: personRecords("p", 20), Total: 45}, nil)
	m := newTestModel(t, fetcher, nil)
	loadPage(t, m, m.Init())

	assert.Nil(t, press(m, runes("p")), "already on the first page")
	loadPage(t, m, press(m, runes("n")))
	loadPage(t, m, press(m, runes("]")))
	assert.Equal(t, 2, m.Cursor().Page())
	assert.Equal(t, 40, m.Cursor().Skip())
	assert.Nil(t, press(m, runes("n")), "already on the last page")

	fetcher.AssertCalled(t, "Fetch", mock.Anything, intentWith(func(i query.Intent) bool {
		return query.Build(i).Get(query.ParamSkip) == "40"
	}))
	assert.Contains(t, stripANSI(m.View()), "Showing 41-45 of 45")
}

func TestShrunkResultRefetchesClampedPage(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, intentWith(func(i query.Intent) bool { return i.Page == 0 })).
		Return(&api.Page{Records: personRecords("a", 20), Total: 45}, nil).Once()
	fetcher.On("Fetch", mock.Anything, intentWith(func(i query.Intent) bool { return i.Page == 2 })).
		Return(&api.Page{Total: 10}, nil).Once()
	fetcher.On("Fetch", mock.Anything, intentWith(func(i query.Intent) bool { return i.Page == 0 })).
		Return(&api.Page{Records: personRecords("b", 10), Total: 10}, nil).Once()
	m := newTestModel(t, fetcher, nil)
	loadPage(t, m, m.Init())

	cmd := m.gotoPage(2)
	require.NotNil(t, cmd)
	refetch := deliver(m, cmd())

	require.NotNil(t, refetch, "clamped page should be fetched again")
	assert.Equal(t, 0, m.Cursor().Page())
	assert.True(t, m.Loading())
	assert.Empty(t, m.Records())

	deliver(m, refetch())
	assert.False(t, m.Loading())
	assert.Len(t, m.Records(), 10)
	assert.Equal(t, 1, m.Cursor().TotalPages())
	fetcher.AssertExpectations(t)
}

func TestEmptyResultOnFirstPageDoesNotRefetch(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(&api.Page{Total: 0}, nil).Once()
	m := newTestModel(t, fetcher, nil)

	assert.Nil(t, deliver(m, m.Init()()))
	assert.False(t, m.Loading())
	assert.Contains(t, stripANSI(m.View()), "No results found")
	fetcher.AssertExpectations(t)
}

func TestLocationKey(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)

	require.NotNil(t, press(m, runes("o")))
	assert.Equal(t, domain.LocationHeadOffice, m.Filters().Location())
	assert.Equal(t, "HeadOffice", query.Build(m.Filters().Intent(0)).Get(query.ParamLocation))
}

func TestSortKeys(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)
	m.fetch()
	records := personRecords("x", 3)
	records[0].Person.Surname = "Charlie"
	records[1].Person.Surname = "alpha"
	records[2].Person.Surname = "Bravo"
	deliver(m, fetchResultMsg{seq: 1, page: &api.Page{Records: records, Total: 3}})

	press(m, runes("l"))
	press(m, runes("s"))
	assert.Equal(t, domain.SortState{Column: domain.FieldSurname, Order: domain.SortOrderAsc}, m.sort)
	assert.Equal(t, "alpha", m.Records()[0].Person.Surname)

	press(m, runes("s"))
	assert.Equal(t, "Charlie", m.Records()[0].Person.Surname)

	press(m, runes("s"))
	assert.False(t, m.sort.IsSorted())
	assert.Equal(t, "Charlie", m.Records()[0].Person.Surname, "unsorted keeps server order")
}

func TestDetailNavigation(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)
	m.fetch()
	deliver(m, fetchResultMsg{seq: 1, page: &api.Page{Records: personRecords("d", 3), Total: 3}})

	press(m, runes("j"))
	press(m, key(tea.KeyEnter))

	require.Equal(t, ModeDetail, m.Mode())
	view := stripANSI(m.View())
	assert.Contains(t, view, "d first 1 d last 1")
	assert.Contains(t, view, "Client ID: d-1")

	press(m, key(tea.KeyEsc))
	assert.Equal(t, ModeList, m.Mode())
	assert.Equal(t, domain.CategoryT1, m.Filters().Category())
	assert.Equal(t, 1, m.uiState.GetCursor())
}

func TestExportKey(t *testing.T) {
	exporter := &mockExporter{}
	exporter.On("ExportFile", mock.Anything, mock.MatchedBy(func(req export.Request) bool {
		return req.Screen == domain.ScreenClients && req.Category == domain.CategoryT1 && len(req.Records) == 2 &&
			req.Query == "ProductCode=T1&Size=20&Skip=0"
	})).Return(domain.ExportEntry{Rows: 2, Path: "out/filtered_clients.csv"}, nil).Once()
	m := newTestModel(t, &mockFetcher{}, exporter)

	assert.NotNil(t, press(m, runes("e")))
	msg, _ := m.Status()
	assert.Equal(t, "Nothing to export", msg.Text)

	m.fetch()
	deliver(m, fetchResultMsg{seq: 1, page: &api.Page{Records: personRecords("e", 2), Total: 2}})
	cmd := press(m, runes("e"))
	require.NotNil(t, cmd)
	deliver(m, cmd())

	msg, ok := m.Status()
	require.True(t, ok)
	assert.Equal(t, "Exported 2 rows to out/filtered_clients.csv", msg.Text)
	exporter.AssertExpectations(t)
}

func TestExportFailure(t *testing.T) {
	exporter := &mockExporter{}
	exporter.On("ExportFile", mock.Anything, mock.Anything).Return(domain.ExportEntry{}, fmt.Errorf("disk full"))
	m := newTestModel(t, &mockFetcher{}, exporter)
	m.fetch()
	deliver(m, fetchResultMsg{seq: 1, page: &api.Page{Records: personRecords("e", 1), Total: 1}})

	deliver(m, press(m, runes("e"))())

	msg, ok := m.Status()
	require.True(t, ok)
	assert.Equal(t, "export failed: disk full", msg.Text)
}

func TestExportUnavailable(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)

	assert.Nil(t, press(m, runes("e")))
	msg, ok := m.Status()
	require.True(t, ok)
	assert.Equal(t, "Export is not available", msg.Text)
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), key(tea.KeyCtrlC)} {
		m := newTestModel(t, &mockFetcher{}, nil)
		cmd := press(m, k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t, &mockFetcher{}, nil)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.uiState.GetWidth())
	assert.Equal(t, 40-headerFooterLines, m.uiState.GetViewport().Height)
}
