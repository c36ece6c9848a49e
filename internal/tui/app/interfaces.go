// Package app provides TUI application adapters for command wiring.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taxdesk/clientsearch/internal/api"
	"github.com/taxdesk/clientsearch/internal/config"
	"github.com/taxdesk/clientsearch/internal/export"
	"github.com/taxdesk/clientsearch/internal/storage"
	"github.com/taxdesk/clientsearch/internal/tui/state"
)

// ProgramRunner defines the interface for running a bubbletea program.
// This abstraction allows for easier testing and swapping of implementations.
type ProgramRunner interface {
	// Run starts the bubbletea program with the given model.
	Run(model tea.Model) error
}

// DefaultProgramRunner is the default implementation of ProgramRunner
// that wraps tea.NewProgram with standard options.
type DefaultProgramRunner struct{}

// NewDefaultProgramRunner creates a new DefaultProgramRunner.
func NewDefaultProgramRunner() *DefaultProgramRunner {
	return &DefaultProgramRunner{}
}

// Run starts a bubbletea program on the alternate screen.
func (r *DefaultProgramRunner) Run(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// FetcherFactory builds the record fetcher used by the screen.
type FetcherFactory interface {
	NewFetcher() (api.Fetcher, error)
}

// DefaultFetcherFactory builds an HTTP client from the loaded configuration.
type DefaultFetcherFactory struct{}

// NewFetcher returns an api.Client configured from base_url and user_id.
func (DefaultFetcherFactory) NewFetcher() (api.Fetcher, error) {
	return api.NewClientFromConfig()
}

// ExporterFactory builds the CSV exporter and releases what it opened.
type ExporterFactory interface {
	NewExporter() (state.Exporter, func() error)
}

// DefaultExporterFactory writes into export_dir and journals to the state dir.
type DefaultExporterFactory struct{}

// NewExporter returns an exporter and a func closing its journal.
func (DefaultExporterFactory) NewExporter() (state.Exporter, func() error) {
	journal := storage.NewFromConfig()
	return export.NewExporter(config.Get("export_dir", "."), journal), journal.Close
}
