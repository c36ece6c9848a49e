/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taxdesk/clientsearch/cmd"
	"github.com/taxdesk/clientsearch/internal/domain"
	apperrors "github.com/taxdesk/clientsearch/internal/errors"
	"github.com/taxdesk/clientsearch/internal/export"
	"github.com/taxdesk/clientsearch/internal/filter"
	"github.com/taxdesk/clientsearch/internal/format"
	"github.com/taxdesk/clientsearch/internal/logging"
	"github.com/taxdesk/clientsearch/internal/query"
	"github.com/taxdesk/clientsearch/internal/tui/app"
)

const searchCommandLong = `Fetch one page of records and print it.

USAGE:
    clientsearch search [OPTIONS]

OPTIONS:
    --screen <name>          clients or returns (default from config)
    --category <cat>         T1, T2 or T3 (default from config)
    --search <text>          Free text search
    --location <loc>         HeadOffice or SubOffice
    --flag <name>            Current year flag, repeatable (e.g. selfEmployed)
    --previous-flag <name>   Previous year flag, repeatable (T1 only)
    --trust <code>           Trust type for T3: 900, 300 or 903
    --from <yyyy-mm-dd>      Start of a date range (with --to)
    --to <yyyy-mm-dd>        End of a date range (with --from)
    --month <1-12>           Birth month or year-end month
    --day <1-31>             Day within --month
    --page <n>               Page number, 1-based (default 1)
    --format <format>        Output format: table (default), csv, json
    --output <file>          Export the page as CSV to a file
    --dry-run                Print the request URL without fetching
    -h, --help               Show this help`

// searchOptions holds the search command flags.
type searchOptions struct {
	target        targetFlags
	search        string
	location      string
	flags         []string
	previousFlags []string
	trust         string
	from          string
	to            string
	month         int
	day           int
	page          int
	format        string
	output        string
	dryRun        bool
}

// NewSearchCmd creates the search command with explicit dependencies.
// Warnings and export confirmations go through messages.
func NewSearchCmd(fetchers app.FetcherFactory, exporters app.ExporterFactory, messages apperrors.ErrorHandler) *cobra.Command {
	if fetchers == nil || exporters == nil || messages == nil {
		panic("NewSearchCmd: dependencies cannot be nil")
	}

	var opts searchOptions

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Fetch and print one page of records",
		Long:  searchCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, fetchers, exporters, messages)
		},
	}
	registerSearchFlags(searchCmd, &opts)

	return searchCmd
}

// registerSearchFlags registers all flags for the search command.
func registerSearchFlags(cmd *cobra.Command, opts *searchOptions) {
	registerTargetFlags(cmd, &opts.target)
	cmd.Flags().StringVar(&opts.search, "search", "", "Free text search")
	cmd.Flags().StringVar(&opts.location, "location", "", "Location: HeadOffice or SubOffice")
	cmd.Flags().StringArrayVar(&opts.flags, "flag", nil, "Current year flag (repeatable)")
	cmd.Flags().StringArrayVar(&opts.previousFlags, "previous-flag", nil, "Previous year flag (repeatable)")
	cmd.Flags().StringVar(&opts.trust, "trust", "", "Trust type: 900, 300 or 903")
	cmd.Flags().StringVar(&opts.from, "from", "", "Date range start (yyyy-mm-dd)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Date range end (yyyy-mm-dd)")
	cmd.Flags().IntVar(&opts.month, "month", 0, "Month (1-12)")
	cmd.Flags().IntVar(&opts.day, "day", 0, "Day within --month")
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page number, 1-based")
	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table, csv, json")
	cmd.Flags().StringVar(&opts.output, "output", "", "Export the page as CSV to a file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the request URL without fetching")
}

// urlBuilder is implemented by fetchers that can show the URL they would request.
type urlBuilder interface {
	URL(intent query.Intent) string
}

func runSearch(cmd *cobra.Command, opts searchOptions, fetchers app.FetcherFactory, exporters app.ExporterFactory, messages apperrors.ErrorHandler) error {
	formatterType, err := format.ParseFormatterType(opts.format)
	if err != nil {
		return err
	}
	if opts.page < 1 {
		return fmt.Errorf("invalid page: %d (must be 1 or greater)", opts.page)
	}
	screen, category, err := opts.target.resolve(cmd)
	if err != nil {
		return err
	}
	state := filter.New(screen, category)
	if err := opts.applyTo(state); err != nil {
		return err
	}
	intent := state.Intent(opts.page - 1)

	fetcher, err := fetchers.NewFetcher()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.dryRun {
		if b, ok := fetcher.(urlBuilder); ok {
			fmt.Fprintln(out, b.URL(intent))
		} else {
			fmt.Fprintln(out, query.Encode(intent))
		}
		return nil
	}

	logging.Debug("search", "screen", screen, "category", category, "query", query.Encode(intent))
	page, err := fetcher.Fetch(cmd.Context(), intent)
	if err != nil {
		return err
	}
	if page.Dropped > 0 {
		messages.Warning(fmt.Sprintf("%d malformed rows skipped", page.Dropped))
	}

	if opts.output != "" {
		exporter, closeExporter := exporters.NewExporter()
		if closeExporter != nil {
			defer func() { _ = closeExporter() }()
		}
		entry, err := exporter.ExportFile(cmd.Context(), export.Request{
			Screen:   screen,
			Category: category,
			Records:  page.Records,
			Query:    query.Encode(intent),
			Path:     opts.output,
		})
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		messages.Success(fmt.Sprintf("Exported %d rows to %s", entry.Rows, entry.Path))
		return nil
	}

	return format.NewFormatter(formatterType).FormatRecords(format.Result{
		Screen:   screen,
		Category: category,
		Records:  page.Records,
		Total:    page.Total,
		Page:     intent.Page,
	}, out)
}

// applyTo stages every filter flag and applies them in one step.
func (o searchOptions) applyTo(state *filter.State) error {
	state.SetSearch(o.search)

	if o.location != "" {
		loc, err := domain.ParseLocation(o.location)
		if err != nil {
			return err
		}
		state.SetLocation(loc)
	}

	if err := toggleFlags(state, domain.YearCurrent, o.flags); err != nil {
		return err
	}
	if len(o.previousFlags) > 0 {
		if !state.Filters().HasYearToggle() {
			return fmt.Errorf("%s has no previous year filters", state.Category())
		}
		if err := toggleFlags(state, domain.YearPrevious, o.previousFlags); err != nil {
			return err
		}
	}

	if o.trust != "" {
		if !state.Filters().SupportsTrustType() {
			return fmt.Errorf("trust type is not available for %s", state.Category())
		}
		if !domain.IsValidTrustType(o.trust) {
			return fmt.Errorf("invalid trust type: %q", o.trust)
		}
		state.SetTrustType(o.trust)
	}

	hasRange := o.from != "" || o.to != ""
	hasMonth := o.month != 0 || o.day != 0
	switch {
	case hasRange && hasMonth:
		return errors.New("use either --from/--to or --month/--day")
	case hasRange:
		if o.from == "" || o.to == "" {
			return errors.New("--from and --to must be given together")
		}
		r, err := domain.ParseDateRange(o.from, o.to)
		if err != nil {
			return err
		}
		if err := state.SetDateRange(r); err != nil {
			return err
		}
	case hasMonth:
		md, err := domain.NewMonthDay(o.month, o.day)
		if err != nil {
			return err
		}
		if err := state.SetMonthDay(md); err != nil {
			return err
		}
	}

	state.Apply()
	return nil
}

func toggleFlags(state *filter.State, year domain.Year, names []string) error {
	state.SetYear(year)
	defer state.SetYear(domain.YearCurrent)
	for _, name := range names {
		if _, ok := state.Catalog().Lookup(name); !ok {
			return fmt.Errorf("unknown filter: %q (available: %v)", name, state.Catalog().Names())
		}
		if !state.IsChecked(name) {
			state.Toggle(name)
		}
	}
	return nil
}

// searchCmd represents the search command
var searchCmd = NewSearchCmd(fetcherFactory, exporterFactory, console)

func init() {
	cmd.RootCmd.AddCommand(searchCmd)
}
