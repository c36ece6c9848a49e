package state

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Mode is the input mode of the screen.
type Mode int

const (
	// ModeList moves through result rows.
	ModeList Mode = iota
	// ModeSearch edits the free-text search.
	ModeSearch
	// ModeCommand edits a ':' command.
	ModeCommand
	// ModePanel edits pending filters.
	ModePanel
	// ModeDetail shows one client.
	ModeDetail
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeCommand:
		return "command"
	case ModePanel:
		return "panel"
	case ModeDetail:
		return "detail"
	default:
		return "list"
	}
}

// UIState manages all UI-specific state for the TUI.
// This includes viewport management, cursor positions, input buffers and the
// active mode, separated from filter and query state.
type UIState struct {
	// Viewport management
	viewport viewport.Model
	width    int
	height   int

	mode Mode

	// Cursor over result rows and over filter panel rows
	cursor      int
	panelCursor int
	// sortFocus is the column index the sort keys act on
	sortFocus int

	// Search input; kept when leaving search mode
	searchQuery string

	command textinput.Model
}

// NewUIState creates a new UIState instance with default values.
func NewUIState() *UIState {
	cmd := textinput.New()
	cmd.Prompt = ":"
	cmd.CharLimit = 128
	return &UIState{
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight-headerFooterLines),
		width:    defaultViewportWidth,
		height:   defaultViewportHeight,
		command:  cmd,
	}
}

// GetViewport returns the current viewport model.
func (u *UIState) GetViewport() *viewport.Model {
	return &u.viewport
}

// GetWidth returns the current width of the UI.
func (u *UIState) GetWidth() int {
	return u.width
}

// SetWidth updates the width of the UI.
func (u *UIState) SetWidth(width int) {
	u.width = width
	if width <= 0 {
		u.width = defaultViewportWidth
	}
}

// GetHeight returns the current height of the UI.
func (u *UIState) GetHeight() int {
	return u.height
}

// SetHeight updates the height of the UI.
func (u *UIState) SetHeight(height int) {
	u.height = height
	if height <= 0 {
		u.height = defaultViewportHeight
	}
}

// UpdateViewportSize fits the viewport between header and footer.
func (u *UIState) UpdateViewportSize() {
	viewportHeight := u.height - headerFooterLines
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	u.viewport = viewport.New(u.width, viewportHeight)
	u.command.Width = u.width - 2
}

// Mode returns the active input mode.
func (u *UIState) Mode() Mode {
	return u.mode
}

// SetMode switches the input mode. Entering command mode focuses an empty
// command line; leaving it blurs the line.
func (u *UIState) SetMode(m Mode) {
	if u.mode == ModeCommand && m != ModeCommand {
		u.command.Blur()
		u.command.Reset()
	}
	if m == ModeCommand && u.mode != ModeCommand {
		u.command.Reset()
		u.command.Focus()
	}
	u.mode = m
}

// GetCursor returns the row cursor position.
func (u *UIState) GetCursor() int {
	return u.cursor
}

// SetCursor updates the row cursor position.
func (u *UIState) SetCursor(cursor int) {
	u.cursor = cursor
	if u.cursor < 0 {
		u.cursor = 0
	}
}

// MoveCursorUp moves the cursor up one position if possible.
func (u *UIState) MoveCursorUp() {
	if u.cursor > 0 {
		u.cursor--
	}
}

// MoveCursorDown moves the cursor down one position if possible.
func (u *UIState) MoveCursorDown(listLen int) {
	if u.cursor < listLen-1 {
		u.cursor++
	}
}

// ResetCursor resets the cursor to the first row and scrolls to the top.
func (u *UIState) ResetCursor() {
	u.cursor = 0
	u.viewport.SetYOffset(0)
}

// AdjustCursorBounds ensures the cursor is within valid bounds.
func (u *UIState) AdjustCursorBounds(listLen int) {
	if listLen == 0 {
		u.cursor = 0
		return
	}
	if u.cursor >= listLen {
		u.cursor = listLen - 1
	}
	if u.cursor < 0 {
		u.cursor = 0
	}
}

// EnsureCursorVisible adjusts the viewport to ensure the cursor is visible.
func (u *UIState) EnsureCursorVisible(listLen int) {
	if listLen == 0 {
		return
	}
	lineOffset := u.viewport.YOffset
	if u.cursor < lineOffset {
		u.viewport.SetYOffset(u.cursor)
	}
	if u.cursor >= lineOffset+u.viewport.Height {
		u.viewport.SetYOffset(u.cursor - u.viewport.Height + 1)
	}
}

// GetPanelCursor returns the filter panel cursor.
func (u *UIState) GetPanelCursor() int {
	return u.panelCursor
}

// MovePanelCursor moves the filter panel cursor by delta within n rows.
func (u *UIState) MovePanelCursor(delta, n int) {
	u.panelCursor += delta
	if u.panelCursor >= n {
		u.panelCursor = n - 1
	}
	if u.panelCursor < 0 {
		u.panelCursor = 0
	}
}

// ResetPanelCursor moves the panel cursor to the first flag.
func (u *UIState) ResetPanelCursor() {
	u.panelCursor = 0
}

// GetSortFocus returns the column index the sort keys act on.
func (u *UIState) GetSortFocus() int {
	return u.sortFocus
}

// MoveSortFocus moves the sort column focus by delta within n columns.
func (u *UIState) MoveSortFocus(delta, n int) {
	if n == 0 {
		u.sortFocus = 0
		return
	}
	u.sortFocus = (u.sortFocus + delta + n) % n
}

// ResetSortFocus focuses the first column.
func (u *UIState) ResetSortFocus() {
	u.sortFocus = 0
}

// GetSearchQuery returns the raw search input.
func (u *UIState) GetSearchQuery() string {
	return u.searchQuery
}

// SetSearchQuery updates the raw search input.
func (u *UIState) SetSearchQuery(query string) {
	u.searchQuery = query
}

// AppendToSearchQuery appends a rune to the search query.
func (u *UIState) AppendToSearchQuery(r rune) {
	u.searchQuery += string(r)
}

// BackspaceSearchQuery removes the last character from the search query.
// Reports whether anything was removed.
func (u *UIState) BackspaceSearchQuery() bool {
	if u.searchQuery == "" {
		return false
	}
	runes := []rune(u.searchQuery)
	u.searchQuery = string(runes[:len(runes)-1])
	return true
}

// Command returns the command line input.
func (u *UIState) Command() *textinput.Model {
	return &u.command
}

// GetCommandQuery returns the current command text.
func (u *UIState) GetCommandQuery() string {
	return u.command.Value()
}

// SetCommandQuery replaces the command text.
func (u *UIState) SetCommandQuery(query string) {
	u.command.SetValue(query)
}
