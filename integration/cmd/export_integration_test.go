//go:build integration
// +build integration

package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxdesk/clientsearch/cmd"
	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/export"
	"github.com/taxdesk/clientsearch/internal/filter"
	"github.com/taxdesk/clientsearch/internal/query"
	"github.com/taxdesk/clientsearch/internal/storage"
	"github.com/taxdesk/clientsearch/internal/tui/app"
)

const trustsBody = `{
  "item1": 2,
  "item2": [
    {"clientId": "31", "estateName": "Estate of Smith", "SNFull": "T-0001", "t3retefileFilingStatus": "Filed"},
    {"clientId": "32", "estateName": "Jones Family Trust", "SNFull": "T-0002"}
  ]
}`

func TestSearchAndExportIntegration(t *testing.T) {
	var gotQuery string
	r := mux.NewRouter()
	r.HandleFunc("/taxreturnsearch/getreturnsdata/{user}/all", func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(trustsBody))
	}).Methods(http.MethodGet)
	srv := httptest.NewServer(r)
	defer srv.Close()

	tmpDir := t.TempDir()
	t.Setenv("CLIENTSEARCH_CONFIG_DIR", tmpDir)
	t.Setenv("CLIENTSEARCH_STATE_DIR", filepath.Join(tmpDir, "state"))
	t.Setenv("CLIENTSEARCH_EXPORT_DIR", filepath.Join(tmpDir, "exports"))
	t.Setenv("CLIENTSEARCH_BASE_URL", srv.URL)
	t.Setenv("CLIENTSEARCH_USER_ID", "u-9")
	cmd.Setup()

	state := filter.New(domain.ScreenReturns, domain.CategoryT3)
	state.SetTrustType("900")
	state.Apply()
	intent := state.Intent(0)

	fetcher, err := app.DefaultFetcherFactory{}.NewFetcher()
	require.NoError(t, err)
	page, err := fetcher.Fetch(context.Background(), intent)
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.Equal(t, query.Encode(intent), gotQuery)
	assert.Contains(t, gotQuery, "ProductCode=T3")

	exporter, closeExporter := app.DefaultExporterFactory{}.NewExporter()
	entry, err := exporter.ExportFile(context.Background(), export.Request{
		Screen:   domain.ScreenReturns,
		Category: domain.CategoryT3,
		Records:  page.Records,
		Query:    gotQuery,
	})
	require.NoError(t, err)
	require.NoError(t, closeExporter())

	data, err := os.ReadFile(entry.Path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "exports"), filepath.Dir(entry.Path))
	assert.Equal(t, 3, len(strings.Split(strings.TrimSpace(string(data)), "\n")))

	journal := storage.NewFromConfig()
	defer journal.Close()
	entries, err := journal.ListExports(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.Path, entries[0].Path)
	assert.Equal(t, 2, entries[0].Rows)
}
