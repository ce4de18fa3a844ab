package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aoideee/books-api/internal/data"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testDefaultOwner = uuid.MustParse("262786f6-a6bf-4249-a709-4229be7c39f1")

// newTestApplication returns an application backed by a fresh in-memory
// store, with rate limiting off and logs discarded.
func newTestApplication(t *testing.T) *applicationDependencies {
	t.Helper()

	models, err := data.NewMemoryModels()
	require.NoError(t, err)

	var cfg serverConfig
	cfg.Environment = "testing"
	cfg.Store = "memory"
	cfg.DefaultOwner = testDefaultOwner.String()
	cfg.defaultOwner = testDefaultOwner

	return &applicationDependencies{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		models: models,
	}
}

// send runs one request through the full handler chain.
func send(t *testing.T, h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// sendForm posts a URL-encoded form body.
func sendForm(t *testing.T, h http.Handler, target, form string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a JSON response body.
func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

// seedBook inserts a book directly into the application's store.
func seedBook(t *testing.T, app *applicationDependencies, name, author string, price float64) *data.BookView {
	t.Helper()
	book, err := app.models.Books.Insert(context.Background(), data.CreateBookInput{
		Name:    name,
		Author:  author,
		Price:   price,
		OwnerID: testDefaultOwner,
	})
	require.NoError(t, err)
	return book
}

// stubStore lets a test replace single store operations.
type stubStore struct {
	data.BookStore
	getAll func(ctx context.Context, filters data.ListFilters) ([]*data.BookView, int, error)
}

func (s stubStore) GetAll(ctx context.Context, filters data.ListFilters) ([]*data.BookView, int, error) {
	return s.getAll(ctx, filters)
}

type stubHealth struct {
	status data.DBStatus
}

func (s stubHealth) Check(context.Context) data.DBStatus {
	return s.status
}
