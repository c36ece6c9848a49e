package state

import (
	"strings"

	"github.com/samber/lo"

	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/tui/render"
)

// View renders the TUI.
func (m *Model) View() string {
	width := m.uiState.GetWidth()
	var s strings.Builder

	s.WriteString(render.Header(render.HeaderState{
		Title:    m.profile.Title,
		Active:   m.filters.Category(),
		Location: m.filters.Location(),
		Search:   m.filters.Search(),
		Width:    width,
	}))
	s.WriteString("\n")
	s.WriteString(render.Chips(m.chipLabels(), width))
	s.WriteString("\n")

	switch m.uiState.Mode() {
	case ModeDetail:
		s.WriteString(m.renderDetail())
	case ModePanel:
		s.WriteString(m.renderPanel())
	default:
		s.WriteString(m.renderTable(width))
	}

	s.WriteString("\n")
	first, last := m.cursor.Range()
	s.WriteString(render.Pager(render.PagerState{
		Page:       m.cursor.Page(),
		TotalPages: m.cursor.TotalPages(),
		First:      first,
		Last:       last,
		Total:      m.cursor.Total(),
		Loading:    m.loading,
	}))
	s.WriteString("\n")
	s.WriteString(m.renderFooter(width))
	return s.String()
}

func (m *Model) renderTable(width int) string {
	cols := m.columns()
	widths := render.ColumnWidths(len(cols), width)
	header := render.TableHeader(render.TableHeaderState{
		Columns: cols,
		Widths:  widths,
		Sort:    m.sort,
		Focus:   m.uiState.GetSortFocus(),
	})

	m.updateViewportContent(cols, widths)
	return header + "\n" + m.uiState.GetViewport().View()
}

// updateViewportContent fills the viewport with the rows on screen.
func (m *Model) updateViewportContent(cols []domain.Column, widths []int) {
	vp := m.uiState.GetViewport()
	rows := m.Records()
	if len(rows) == 0 {
		vp.SetContent(render.Empty(m.loading))
		return
	}
	cursor := m.uiState.GetCursor()
	lines := lo.Map(rows, func(r domain.Record, i int) string {
		return render.Row(render.RowState{
			Record:   r,
			Columns:  cols,
			Widths:   widths,
			Selected: i == cursor,
		})
	})
	vp.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) renderPanel() string {
	live := m.filters.Live()
	set := live.Flags(m.filters.Year())
	profile := m.filters.Filters()
	return render.FilterPanel(render.PanelState{
		Flags: lo.Map(m.panelFlags(), func(f domain.Flag, _ int) render.PanelFlag {
			return render.PanelFlag{Label: f.Label, Checked: set[f.Name]}
		}),
		Cursor:     m.uiState.GetPanelCursor(),
		Year:       m.filters.Year(),
		YearToggle: profile.HasYearToggle(),
		TrustTypes: profile.SupportsTrustType(),
		TrustType:  live.TrustType,
		Temporal:   live.Temporal.String(),
		Dirty:      m.filters.Dirty(),
	})
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		return render.Empty(false)
	}
	return render.Detail(render.DetailState{
		Record:  *m.detail,
		Columns: m.profile.Category(m.detail.Category).CSVColumns,
		Now:     m.now(),
	})
}

func (m *Model) renderFooter(width int) string {
	state := render.FooterState{
		SearchMode:  m.uiState.Mode() == ModeSearch,
		CommandMode: m.uiState.Mode() == ModeCommand,
		PanelMode:   m.uiState.Mode() == ModePanel,
		DetailMode:  m.uiState.Mode() == ModeDetail,
		SearchQuery: m.uiState.GetSearchQuery(),
		CommandView: m.uiState.Command().View(),
		Width:       width,
	}
	if msg, ok := m.errorHandler.Current(); ok {
		state.Status = msg.Text
		state.StatusType = msg.Type.String()
	}
	return render.Footer(state)
}
