package state

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taxdesk/clientsearch/internal/domain"
)

// handleKeyMsg routes keyboard input by mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	switch m.uiState.Mode() {
	case ModeSearch:
		return m, m.handleSearchKey(msg)
	case ModeCommand:
		return m.handleCommandKey(msg)
	case ModePanel:
		return m, m.handlePanelKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.Shutdown()
	return m, tea.Quit
}

// handleSearchKey edits the search input. Every edit restarts the debounce
// window; Enter commits at once.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.uiState.SetMode(ModeList)
		return nil
	case tea.KeyEnter:
		m.uiState.SetMode(ModeList)
		return m.commitSearch()
	case tea.KeyBackspace:
		if m.uiState.BackspaceSearchQuery() {
			return m.scheduleSearch()
		}
		return nil
	case tea.KeySpace:
		m.uiState.AppendToSearchQuery(' ')
		return m.scheduleSearch()
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.uiState.AppendToSearchQuery(r)
		}
		return m.scheduleSearch()
	}
	return nil
}

func (m *Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.uiState.SetMode(ModeList)
		return m, nil
	case tea.KeyEnter:
		line := m.uiState.GetCommandQuery()
		m.uiState.SetMode(ModeList)
		return m.executeCommand(line)
	}
	input, cmd := m.uiState.Command().Update(msg)
	*m.uiState.Command() = input
	return m, cmd
}

func (m *Model) handlePanelKey(msg tea.KeyMsg) tea.Cmd {
	n := len(m.panelFlags())
	switch msg.String() {
	case "esc", "f":
		m.uiState.SetMode(ModeList)
	case "j", "down":
		m.uiState.MovePanelCursor(1, n)
	case "k", "up":
		m.uiState.MovePanelCursor(-1, n)
	case " ":
		m.togglePanelFlag()
	case "y":
		m.toggleYear()
	case "t":
		m.cycleTrustType()
	case "a", "enter":
		m.uiState.SetMode(ModeList)
		return m.applyFilters()
	case "x":
		return m.resetFilters()
	}
	return nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.closeDetail()
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "1", "2", "3":
		idx := int(msg.Runes[0] - '1')
		return m, m.switchCategory(domain.Categories[idx])
	case "tab":
		return m, m.switchCategory(m.filters.Category().Next())
	case "/":
		m.uiState.SetMode(ModeSearch)
	case ":":
		m.uiState.SetMode(ModeCommand)
	case "f":
		m.uiState.SetMode(ModePanel)
	case "j", "down":
		m.uiState.MoveCursorDown(len(m.records))
		m.uiState.EnsureCursorVisible(len(m.records))
	case "k", "up":
		m.uiState.MoveCursorUp()
		m.uiState.EnsureCursorVisible(len(m.records))
	case "n", "]", "pgdown":
		return m, m.nextPage()
	case "p", "[", "pgup":
		return m, m.prevPage()
	case "h", "left":
		m.moveSortFocus(-1)
	case "l", "right":
		m.moveSortFocus(1)
	case "s":
		m.cycleSort()
	case "o":
		return m, m.cycleLocation()
	case "a":
		return m, m.applyFilters()
	case "x":
		return m, m.resetFilters()
	case "backspace":
		if chips := m.filters.Chips(); len(chips) > 0 {
			return m, m.removeChip(len(chips))
		}
	case "r":
		return m, m.fetch()
	case "e":
		return m, m.exportRecords("")
	case "enter":
		m.openDetail()
	}
	return m, nil
}
