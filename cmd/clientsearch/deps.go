package main

import (
	"github.com/taxdesk/clientsearch/internal/errors"
	"github.com/taxdesk/clientsearch/internal/storage"
	"github.com/taxdesk/clientsearch/internal/tui/app"
)

var (
	fetcherFactory  app.FetcherFactory  = app.DefaultFetcherFactory{}
	exporterFactory app.ExporterFactory = app.DefaultExporterFactory{}
	tuiClient                           = app.NewDefaultClient(fetcherFactory, exporterFactory, nil)
	openJournal                         = storage.NewFromConfig
	console         errors.ErrorHandler = errors.NewConsoleHandler()
)
