package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxdesk/clientsearch/internal/domain"
	"github.com/taxdesk/clientsearch/internal/query"
	"github.com/taxdesk/clientsearch/internal/version"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const returnsT2Body = `{
  "item1": 45,
  "item2": [
    {"clientId": 101, "tags": ["vip", "2024"], "companyName": "Acme Ltd", "fyEnd": "12-31", "cifFilingStatus": "Filed", "lastUpdated": "2024-03-05T10:00:00"},
    {"clientId": "", "companyName": "Missing Id"},
    {"clientId": "102", "companyName": "Beta Corp", "lastUpdated": null}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/taxreturnsearch/getreturnsdata/{user}/all", handler).Methods(http.MethodGet)
	r.HandleFunc("/clientsearch/getclientsdata/{user}", handler).Methods(http.MethodGet)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, UserID: "u-42", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return srv, c
}

func TestNewClient_RequiresConfig(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://localhost"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewClient(Config{UserID: "u"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFetch_DecodesTuplePage(t *testing.T) {
	var gotQuery, gotUser, gotRequestID, gotAgent string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUser = mux.Vars(r)["user"]
		gotRequestID = r.Header.Get(RequestIDHeader)
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(returnsT2Body))
	})

	intent := query.Intent{Screen: domain.ScreenReturns, Category: domain.CategoryT2, Page: 2}
	page, err := c.Fetch(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, "u-42", gotUser)
	assert.Equal(t, query.Encode(intent), gotQuery)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, gotRequestID, page.RequestID)
	assert.Equal(t, version.UserAgent(), gotAgent)

	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 1, page.Dropped)
	require.Len(t, page.Records, 2)

	first := page.Records[0]
	assert.Equal(t, domain.CategoryT2, first.Category)
	assert.Equal(t, "101", first.ClientID)
	assert.Equal(t, "vip, 2024", first.Tags)
	require.NotNil(t, first.Company)
	assert.Equal(t, "Acme Ltd", first.Company.CompanyName)
	assert.Equal(t, "Filed", first.Company.FileStatus)
	assert.Equal(t, "2024-03-05", domain.FormatDate(first.LastUpdated))
	assert.Equal(t, "N/A", domain.FormatDate(page.Records[1].LastUpdated))
}

func TestFetch_DecodesNamedPage(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalCount": 2, "records": [
			{"clientId": "7", "firstnames": "Ada", "surname": "Lovelace", "SIN": "123456789", "phoneNo": 5551234},
			{"clientId": "8", "firstnames": "Alan", "surname": "Turing"}
		]}`))
	})

	page, err := c.Fetch(context.Background(), query.Intent{Screen: domain.ScreenClients, Category: domain.CategoryT1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Records, 2)
	require.NotNil(t, page.Records[0].Person)
	assert.Equal(t, "123456789", page.Records[0].Person.SIN)
	assert.Equal(t, "5551234", page.Records[0].Person.Phone)
	assert.Equal(t, "Ada Lovelace", page.Records[0].DisplayName())
}

func TestFetch_HTTPErrorIsFetchError(t *testing.T) {
	var hits atomic.Int32
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Fetch(context.Background(), query.Intent{Screen: domain.ScreenReturns, Category: domain.CategoryT1})
	require.Error(t, err)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.True(t, IsFetchError(err))
	assert.EqualValues(t, 1, hits.Load(), "no retries by default")
}

func TestFetch_MalformedBody(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"item1": `))
	})

	_, err := c.Fetch(context.Background(), query.Intent{Screen: domain.ScreenReturns, Category: domain.CategoryT1})
	assert.True(t, IsFetchError(err))
}

func TestFetch_CanceledContext(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"item1": 0, "item2": []}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Fetch(ctx, query.Intent{Screen: domain.ScreenReturns, Category: domain.CategoryT1})
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: base, UserID: "u"})
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), query.Intent{Screen: domain.ScreenClients, Category: domain.CategoryT1})
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.StatusCode)
	assert.Contains(t, fe.Error(), "fetch failed")
}
