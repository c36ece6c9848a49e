package state

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taxdesk/clientsearch/internal/domain"
)

type commandHandler func(m *Model, args []string) tea.Cmd

var commandHandlers = map[string]commandHandler{
	"apply":     func(m *Model, args []string) tea.Cmd { return m.noArgs("apply", args, m.applyFilters) },
	"reset":     func(m *Model, args []string) tea.Cmd { return m.noArgs("reset", args, m.resetFilters) },
	"category":  (*Model).handleCategoryCommand,
	"year":      (*Model).handleYearCommand,
	"location":  (*Model).handleLocationCommand,
	"trust":     (*Model).handleTrustCommand,
	"toggle":    (*Model).handleToggleCommand,
	"range":     (*Model).handleRangeCommand,
	"month":     (*Model).handleMonthCommand,
	"cleardate": func(m *Model, args []string) tea.Cmd { return m.noArgs("cleardate", args, m.clearDate) },
	"remove":    (*Model).handleRemoveCommand,
	"page":      (*Model).handlePageCommand,
	"search":    (*Model).handleSearchCommand,
	"export":    (*Model).handleExportCommand,
}

// executeCommand runs one ':' command line.
func (m *Model) executeCommand(line string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return m, m.warn("Command is empty")
	}
	name := strings.ToLower(parts[0])
	args := parts[1:]

	if name == "q" || name == "quit" {
		if len(args) > 0 {
			return m, m.warn("Invalid usage: q")
		}
		return m.quit()
	}
	handler, ok := commandHandlers[name]
	if !ok {
		return m, m.warn(fmt.Sprintf("Unknown command: %s", name))
	}
	m.logger.Debug("command", "name", name, "args", len(args))
	return m, handler(m, args)
}

func (m *Model) warn(msg string) tea.Cmd {
	m.errorHandler.Warning(msg)
	return statusExpiredAfter(statusClearDuration)
}

func (m *Model) info(msg string) tea.Cmd {
	m.errorHandler.Info(msg)
	return statusExpiredAfter(statusClearDuration)
}

func (m *Model) noArgs(name string, args []string, run func() tea.Cmd) tea.Cmd {
	if len(args) > 0 {
		return m.warn("Invalid usage: " + name)
	}
	return run()
}

func (m *Model) clearDate() tea.Cmd {
	m.filters.ClearTemporal()
	return m.info("Date filter cleared; apply to search")
}

func (m *Model) handleCategoryCommand(args []string) tea.Cmd {
	if len(args) != 1 {
		return m.warn("Usage: category T1|T2|T3")
	}
	c, err := domain.ParseCategory(args[0])
	if err != nil {
		return m.warn(err.Error())
	}
	return m.switchCategory(c)
}

func (m *Model) handleYearCommand(args []string) tea.Cmd {
	if len(args) != 1 {
		return m.warn("Usage: year current|previous")
	}
	y := domain.Year(strings.ToLower(args[0]))
	if !y.IsValid() {
		return m.warn(fmt.Sprintf("Invalid year: %s", args[0]))
	}
	if !m.filters.Filters().HasYearToggle() {
		return m.warn(fmt.Sprintf("%s has no previous year filters", m.filters.Category()))
	}
	m.filters.SetYear(y)
	return nil
}

func (m *Model) handleLocationCommand(args []string) tea.Cmd {
	raw := strings.Join(args, " ")
	if strings.EqualFold(raw, "none") {
		raw = ""
	}
	l, err := domain.ParseLocation(raw)
	if err != nil {
		return m.warn(err.Error())
	}
	return m.afterChange(m.filters.SetLocation(l))
}

func (m *Model) handleTrustCommand(args []string) tea.Cmd {
	if len(args) != 1 {
		return m.warn("Usage: trust 900|300|903|none")
	}
	if !m.filters.Filters().SupportsTrustType() {
		return m.warn(fmt.Sprintf("Trust type is not available for %s", m.filters.Category()))
	}
	code := args[0]
	if strings.EqualFold(code, "none") {
		code = ""
	}
	if !domain.IsValidTrustType(code) {
		return m.warn(fmt.Sprintf("Invalid trust type: %s", args[0]))
	}
	m.filters.SetTrustType(code)
	return nil
}

func (m *Model) handleToggleCommand(args []string) tea.Cmd {
	if len(args) != 1 {
		return m.warn("Usage: toggle <flag>")
	}
	if _, ok := m.filters.Catalog().Lookup(args[0]); !ok {
		return m.warn(fmt.Sprintf("Unknown filter: %s", args[0]))
	}
	m.filters.Toggle(args[0])
	return nil
}

func (m *Model) handleRangeCommand(args []string) tea.Cmd {
	if len(args) != 2 {
		return m.warn("Usage: range yyyy-mm-dd yyyy-mm-dd")
	}
	r, err := domain.ParseDateRange(args[0], args[1])
	if err != nil {
		return m.warn(err.Error())
	}
	if err := m.filters.SetDateRange(r); err != nil {
		return m.warn(err.Error())
	}
	return m.info("Date range " + r.String() + "; apply to search")
}

func (m *Model) handleMonthCommand(args []string) tea.Cmd {
	if len(args) < 1 || len(args) > 2 {
		return m.warn("Usage: month <1-12> [day]")
	}
	month, err := strconv.Atoi(args[0])
	if err != nil {
		return m.warn(fmt.Sprintf("Invalid month: %s", args[0]))
	}
	day := 0
	if len(args) == 2 {
		if day, err = strconv.Atoi(args[1]); err != nil {
			return m.warn(fmt.Sprintf("Invalid day: %s", args[1]))
		}
	}
	md, err := domain.NewMonthDay(month, day)
	if err != nil {
		return m.warn(err.Error())
	}
	if err := m.filters.SetMonthDay(md); err != nil {
		return m.warn(err.Error())
	}
	return m.info(md.String() + " selected; apply to search")
}

func (m *Model) handleRemoveCommand(args []string) tea.Cmd {
	if len(args) != 1 {
		return m.warn("Usage: remove <filter number>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return m.warn(fmt.Sprintf("Invalid filter number: %s", args[0]))
	}
	return m.removeChip(n)
}

func (m *Model) handlePageCommand(args []string) tea.Cmd {
	if len(args) != 1 {
		return m.warn("Usage: page <number>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return m.warn(fmt.Sprintf("Invalid page: %s", args[0]))
	}
	return m.gotoPage(n - 1)
}

func (m *Model) handleSearchCommand(args []string) tea.Cmd {
	m.uiState.SetSearchQuery(strings.Join(args, " "))
	return m.commitSearch()
}

func (m *Model) handleExportCommand(args []string) tea.Cmd {
	if len(args) > 1 {
		return m.warn("Usage: export [path]")
	}
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	return m.exportRecords(path)
}
