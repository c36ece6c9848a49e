package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/logging"
	"github.com/taxdesk/clientsearch/internal/tui/state"
)

// Model defines the narrow TUI model surface used by command wiring.
type Model interface {
	tea.Model
	Shutdown()
}

// Settings selects what the screen opens on.
type Settings struct {
	Screen   domain.Screen
	Category domain.Category
}

// Client defines dependencies needed by the tui command.
type Client interface {
	CreateModel(settings Settings) (Model, error)
	RunProgram(model Model) error
}

// DefaultClient is the default adapter-based implementation used by CLI wiring.
type DefaultClient struct {
	fetcherFactory  FetcherFactory
	exporterFactory ExporterFactory
	programRunner   ProgramRunner
	closers         []func() error
}

// NewDefaultClient creates a default TUI client adapter.
// Nil arguments fall back to the default implementations.
func NewDefaultClient(fetcherFactory FetcherFactory, exporterFactory ExporterFactory, programRunner ProgramRunner) *DefaultClient {
	if fetcherFactory == nil {
		fetcherFactory = DefaultFetcherFactory{}
	}
	if exporterFactory == nil {
		exporterFactory = DefaultExporterFactory{}
	}
	if programRunner == nil {
		programRunner = NewDefaultProgramRunner()
	}
	return &DefaultClient{
		fetcherFactory:  fetcherFactory,
		exporterFactory: exporterFactory,
		programRunner:   programRunner,
	}
}

// CreateModel builds a TUI model implementation.
func (d *DefaultClient) CreateModel(settings Settings) (Model, error) {
	fetcher, err := d.fetcherFactory.NewFetcher()
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}
	exporter, closeExporter := d.exporterFactory.NewExporter()
	if closeExporter != nil {
		d.closers = append(d.closers, closeExporter)
	}
	m, err := state.NewModel(state.Options{
		Screen:   settings.Screen,
		Category: settings.Category,
		Fetcher:  fetcher,
		Exporter: exporter,
		Logger:   logging.With("component", "tui"),
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RunProgram starts the bubbletea program using the configured ProgramRunner
// and releases the model's resources when it exits.
func (d *DefaultClient) RunProgram(model Model) error {
	defer d.close()
	defer model.Shutdown()

	if err := d.programRunner.Run(model); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func (d *DefaultClient) close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			logging.Warn("close failed", "error", err)
		}
	}
	d.closers = nil
}
