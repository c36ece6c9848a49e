// Package render draws the pieces of the record listing screen.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/taxdesk/clientsearch/internal/domain"
)

const (
	columnGap      = 2
	minColumnWidth = 6
	ellipsis       = "…"
	chipSeparator  = "  "
)

var (
	accent      = lipgloss.Color("4")
	muted       = lipgloss.Color("241")
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(accent).Padding(0, 1)
	inactiveTab = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	selectedRow = lipgloss.NewStyle().Background(accent).Foreground(lipgloss.Color("0"))
	chipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	helpStyle   = lipgloss.NewStyle().Foreground(muted)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = map[string]lipgloss.Style{
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"success": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"info":    lipgloss.NewStyle().Foreground(accent),
	}
)

// HeaderState defines the inputs needed to render the title and category tabs.
type HeaderState struct {
	Title    string
	Active   domain.Category
	Location domain.Location
	Search   string
	Width    int
}

// Header renders the screen title, category tabs and the query summary.
func Header(state HeaderState) string {
	tabs := lo.Map(domain.Categories, func(c domain.Category, i int) string {
		label := fmt.Sprintf("%d %s", i+1, c)
		if c == state.Active {
			return activeTab.Render(label)
		}
		return inactiveTab.Render(label)
	})

	line := titleStyle.Render(state.Title) + "  " + strings.Join(tabs, " ")
	var summary []string
	if state.Location != domain.LocationNone {
		summary = append(summary, "Location: "+state.Location.Label())
	}
	if state.Search != "" {
		summary = append(summary, fmt.Sprintf("Search: %q", state.Search))
	}
	if len(summary) > 0 {
		line += "  " + helpStyle.Render(strings.Join(summary, "  "))
	}
	return line
}

// Chips renders the applied filter labels, numbered for removal.
func Chips(labels []string, width int) string {
	if len(labels) == 0 {
		return helpStyle.Render("No filters applied")
	}
	parts := lo.Map(labels, func(l string, i int) string {
		return chipStyle.Render(fmt.Sprintf("[%d] %s ×", i+1, l))
	})
	return truncate("Filters: "+strings.Join(parts, chipSeparator), width)
}

// ColumnWidths spreads the available width across columns. Columns never get
// less than a minimum width; the last column absorbs the remainder.
func ColumnWidths(n, width int) []int {
	if n == 0 {
		return nil
	}
	usable := width - columnGap*(n-1)
	each := usable / n
	if each < minColumnWidth {
		each = minColumnWidth
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = each
	}
	if rest := usable - each*n; rest > 0 {
		widths[n-1] += rest
	}
	return widths
}

// TableHeaderState defines the inputs needed to render column headers.
type TableHeaderState struct {
	Columns []domain.Column
	Widths  []int
	Sort    domain.SortState
	// Focus is the column index the sort keys act on.
	Focus int
}

// TableHeader renders the column headers with sort indicators.
func TableHeader(state TableHeaderState) string {
	cells := make([]string, len(state.Columns))
	for i, col := range state.Columns {
		label := col.Header + state.Sort.OrderFor(col.Key).Indicator()
		if i == state.Focus {
			label = "›" + label
		}
		cells[i] = pad(label, state.Widths[i])
	}
	return headerStyle.Render(strings.Join(cells, strings.Repeat(" ", columnGap)))
}

// RowState defines the inputs needed to render a record row.
type RowState struct {
	Record   domain.Record
	Columns  []domain.Column
	Widths   []int
	Selected bool
}

// Row renders a single record row.
func Row(state RowState) string {
	cells := make([]string, len(state.Columns))
	for i, col := range state.Columns {
		value := col.Value(state.Record)
		if value == "" {
			value = "-"
		}
		cells[i] = pad(value, state.Widths[i])
	}
	row := strings.Join(cells, strings.Repeat(" ", columnGap))
	if state.Selected {
		return selectedRow.Render(row)
	}
	return row
}

// Empty renders the placeholder shown instead of rows.
func Empty(loading bool) string {
	if loading {
		return helpStyle.Render("Loading…")
	}
	return helpStyle.Render("No results found")
}

// PagerState defines the inputs needed to render the pagination line.
type PagerState struct {
	Page       int
	TotalPages int
	First      int
	Last       int
	Total      int
	Loading    bool
}

// Pager renders "Showing 21-40 of 45  Page 2/3".
func Pager(state PagerState) string {
	var parts []string
	if state.Total > 0 {
		parts = append(parts,
			fmt.Sprintf("Showing %d-%d of %s", state.First, state.Last, humanize.Comma(int64(state.Total))),
			fmt.Sprintf("Page %d/%d", state.Page+1, state.TotalPages),
		)
	} else {
		parts = append(parts, "0 results")
	}
	if state.Loading {
		parts = append(parts, "loading…")
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}

// PanelFlag is one checkbox of the filter panel.
type PanelFlag struct {
	Label   string
	Checked bool
}

// PanelState defines the inputs needed to render the filter panel.
type PanelState struct {
	Flags      []PanelFlag
	Cursor     int
	Year       domain.Year
	YearToggle bool
	TrustTypes bool
	TrustType  string
	Temporal   string
	Dirty      bool
}

// FilterPanel renders the pending filter selection.
func FilterPanel(state PanelState) string {
	var b strings.Builder
	title := "Filters"
	if state.YearToggle {
		title += fmt.Sprintf(" (%s year)", state.Year)
	}
	if state.Dirty {
		title += " *"
	}
	b.WriteString(labelStyle.Render(title))
	for i, f := range state.Flags {
		box := "[ ]"
		if f.Checked {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, f.Label)
		if i == state.Cursor {
			line = selectedRow.Render(line)
		}
		b.WriteString("\n" + line)
	}
	if state.TrustTypes {
		trust := state.TrustType
		if trust == "" {
			trust = "any"
		}
		b.WriteString("\nTrust type: " + trust)
	}
	if state.Temporal != "" {
		b.WriteString("\nDate: " + state.Temporal)
	}
	return b.String()
}

// DetailState defines the inputs needed to render the client detail view.
type DetailState struct {
	Record  domain.Record
	Columns []domain.Column
	Now     time.Time
}

// Detail renders every column of one record plus its identifiers.
func Detail(state DetailState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(state.Record.DisplayName()))
	fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Client ID:"), state.Record.ClientID)
	fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Category:"), state.Record.Category)
	for _, col := range state.Columns {
		value := col.Value(state.Record)
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render(col.Header+":"), value)
	}
	if updated, ok := domain.ParseTimestamp(state.Record.LastUpdated); ok {
		now := state.Now
		if now.IsZero() {
			now = time.Now()
		}
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Updated:"), humanize.RelTime(updated, now, "ago", "from now"))
	}
	return b.String()
}

// FooterState defines the inputs needed to render footer help text.
type FooterState struct {
	SearchMode   bool
	CommandMode  bool
	PanelMode    bool
	DetailMode   bool
	SearchQuery  string
	CommandView  string
	Status       string
	StatusType   string
	Width        int
}

// Footer renders the status line and the help for the current mode.
func Footer(state FooterState) string {
	var help []string
	switch {
	case state.SearchMode:
		help = append(help, fmt.Sprintf("Search: %s", state.SearchQuery), "Enter/ESC: done")
	case state.CommandMode:
		help = append(help, state.CommandView, "Enter: execute", "ESC: cancel")
	case state.PanelMode:
		help = append(help, "j/k: move", "space: toggle", "y: year", "t: trust type", "a: apply", "x: reset", "ESC: close")
	case state.DetailMode:
		help = append(help, "ESC: back", "q: quit")
	default:
		help = append(help, "1-3/tab: category", "/: search", "f: filters", "n/p: page",
			"h/l s: sort", "o: location", "e: export", "Enter: details", ":: command", "q: quit")
	}

	line := helpStyle.Render(truncate(strings.Join(help, "  |  "), state.Width))
	if state.Status == "" {
		return line
	}
	style, ok := statusStyle[state.StatusType]
	if !ok {
		style = statusStyle["info"]
	}
	return style.Render(truncate(state.Status, state.Width)) + "\n" + line
}

func pad(value string, width int) string {
	value = truncate(value, width)
	if n := utf8.RuneCountInString(value); n < width {
		value += strings.Repeat(" ", width-n)
	}
	return value
}

func truncate(value string, width int) string {
	if width <= 0 || utf8.RuneCountInString(value) <= width {
		return value
	}
	if width == 1 {
		return ellipsis
	}
	return string([]rune(value)[:width-1]) + ellipsis
}
