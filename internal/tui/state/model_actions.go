package state

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/errors"
	"github.com/taxdesk/clientsearch/internal/export"
	"github.com/taxdesk/clientsearch/internal/filter"
	"github.com/taxdesk/clientsearch/internal/query"
)

// fetch issues a request for the applied query and the current page.
// Any earlier request still in flight is canceled and its result ignored.
func (m *Model) fetch() tea.Cmd {
	intent := m.filters.Intent(m.cursor.Page())
	ticket := m.seq.Issue(m.ctx)
	m.loading = true
	m.logger.Debug("fetch issued", "seq", ticket.Seq, "query", query.Encode(intent))
	return fetchCmd(ticket.Ctx, m.fetcher, ticket.Seq, intent)
}

// afterChange resets to the first page and refetches when a filter change
// altered the applied query.
func (m *Model) afterChange(outcome filter.Outcome) tea.Cmd {
	if outcome != filter.PageReset {
		return nil
	}
	m.cursor.Reset()
	m.uiState.ResetCursor()
	return m.fetch()
}

func (m *Model) handleFetchResult(msg fetchResultMsg) tea.Cmd {
	if !m.seq.Accept(msg.seq) {
		m.logger.Debug("discarding stale response", "seq", msg.seq, "latest", m.seq.Latest())
		return nil
	}
	m.loading = false

	if msg.err != nil {
		m.logger.Warn("fetch failed", "seq", msg.seq, "error", msg.err)
		m.records = nil
		m.cursor.SetTotal(0)
		m.uiState.ResetCursor()
		errors.Report(m.errorHandler, msg.err)
		return nil
	}

	m.errorHandler.ClearErrors()
	requested := m.cursor.Page()
	m.cursor.SetTotal(msg.page.Total)
	if m.cursor.Page() != requested && len(msg.page.Records) == 0 {
		// The result set shrank below the requested page.
		m.logger.Debug("page out of range, refetching", "requested", requested, "page", m.cursor.Page())
		m.records = nil
		m.uiState.ResetCursor()
		return m.fetch()
	}
	m.records = msg.page.Records
	m.loadedQuery = query.Encode(m.filters.Intent(requested))
	m.uiState.AdjustCursorBounds(len(m.records))
	m.uiState.EnsureCursorVisible(len(m.records))
	if msg.page.Dropped > 0 {
		m.errorHandler.Warning(fmt.Sprintf("%d malformed rows skipped", msg.page.Dropped))
		return statusExpiredAfter(statusClearDuration)
	}
	return nil
}

// scheduleSearch starts a new debounce window for the search input.
func (m *Model) scheduleSearch() tea.Cmd {
	m.searchGen++
	return debounceCmd(m.debounce, m.searchGen)
}

func (m *Model) handleSearchDebounced(msg searchDebouncedMsg) tea.Cmd {
	if msg.gen != m.searchGen {
		return nil
	}
	return m.afterChange(m.filters.SetSearch(m.uiState.GetSearchQuery()))
}

// commitSearch applies the search input at once, skipping the debounce.
func (m *Model) commitSearch() tea.Cmd {
	m.searchGen++
	return m.afterChange(m.filters.SetSearch(m.uiState.GetSearchQuery()))
}

func (m *Model) switchCategory(c domain.Category) tea.Cmd {
	if c == m.filters.Category() {
		return nil
	}
	m.records = nil
	m.sort = domain.SortState{}
	m.uiState.ResetSortFocus()
	m.uiState.ResetPanelCursor()
	return m.afterChange(m.filters.SwitchCategory(c))
}

func (m *Model) applyFilters() tea.Cmd {
	return m.afterChange(m.filters.Apply())
}

func (m *Model) resetFilters() tea.Cmd {
	m.uiState.SetSearchQuery("")
	m.searchGen++
	return m.afterChange(m.filters.Reset())
}

func (m *Model) cycleLocation() tea.Cmd {
	return m.afterChange(m.filters.SetLocation(m.filters.Location().Next()))
}

// removeChip removes the applied filter at a 1-based chip index.
func (m *Model) removeChip(index int) tea.Cmd {
	chips := m.filters.Chips()
	if index < 1 || index > len(chips) {
		m.errorHandler.Warning(fmt.Sprintf("No filter #%d", index))
		return statusExpiredAfter(statusClearDuration)
	}
	return m.afterChange(m.filters.RemoveChip(chips[index-1]))
}

// gotoPage moves to a page and fetches it when the page changed.
func (m *Model) gotoPage(page int) tea.Cmd {
	if !m.cursor.Goto(page) {
		return nil
	}
	m.uiState.ResetCursor()
	return m.fetch()
}

func (m *Model) nextPage() tea.Cmd {
	return m.gotoPage(m.cursor.Page() + 1)
}

func (m *Model) prevPage() tea.Cmd {
	return m.gotoPage(m.cursor.Page() - 1)
}

func (m *Model) columns() []domain.Column {
	return m.profile.Category(m.filters.Category()).Columns
}

// cycleSort advances the sort of the focused column.
func (m *Model) cycleSort() {
	cols := m.columns()
	if len(cols) == 0 {
		return
	}
	focus := m.uiState.GetSortFocus()
	m.sort = m.sort.Cycle(cols[focus].Key)
}

func (m *Model) moveSortFocus(delta int) {
	m.uiState.MoveSortFocus(delta, len(m.columns()))
}

// selected returns the record under the row cursor.
func (m *Model) selected() (domain.Record, bool) {
	rows := m.Records()
	idx := m.uiState.GetCursor()
	if idx < 0 || idx >= len(rows) {
		return domain.Record{}, false
	}
	return rows[idx], true
}

func (m *Model) openDetail() {
	rec, ok := m.selected()
	if !ok {
		return
	}
	m.detail = &rec
	m.uiState.SetMode(ModeDetail)
	m.logger.Debug("open client", "category", rec.Category.String(), "client", rec.ClientID)
}

func (m *Model) closeDetail() {
	m.detail = nil
	m.uiState.SetMode(ModeList)
}

// exportRecords writes the rows on screen to CSV. path may be empty.
func (m *Model) exportRecords(path string) tea.Cmd {
	if m.exporter == nil {
		m.errorHandler.Error("Export is not available")
		return nil
	}
	if len(m.records) == 0 {
		m.errorHandler.Warning("Nothing to export")
		return statusExpiredAfter(statusClearDuration)
	}
	req := export.Request{
		Screen:   m.filters.Screen(),
		Category: m.filters.Category(),
		Records:  m.Records(),
		Query:    m.loadedQuery,
		Path:     path,
	}
	return exportCmd(m.ctx, m.exporter, req)
}

func (m *Model) handleExportDone(msg exportDoneMsg) tea.Cmd {
	if msg.err != nil {
		errors.Report(m.errorHandler, fmt.Errorf("export failed: %w", msg.err))
		return nil
	}
	m.errorHandler.Success(fmt.Sprintf("Exported %d rows to %s", msg.entry.Rows, msg.entry.Path))
	return statusExpiredAfter(statusClearDuration)
}

// panelFlags returns the flags of the year being edited.
func (m *Model) panelFlags() []domain.Flag {
	return m.filters.Catalog().Flags
}

func (m *Model) togglePanelFlag() {
	flags := m.panelFlags()
	idx := m.uiState.GetPanelCursor()
	if idx < 0 || idx >= len(flags) {
		return
	}
	m.filters.Toggle(flags[idx].Name)
}

func (m *Model) toggleYear() {
	m.filters.SetYear(m.filters.Year().Toggle())
	m.uiState.MovePanelCursor(0, len(m.panelFlags()))
}

func (m *Model) cycleTrustType() {
	m.filters.SetTrustType(domain.NextTrustType(m.filters.Live().TrustType))
}

// chipLabels returns the labels of the applied filters.
func (m *Model) chipLabels() []string {
	return lo.Map(m.filters.Chips(), func(c filter.Chip, _ int) string { return c.Label })
}
