package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONPayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    map[string]any
		wantErr string
	}{
		{"empty", "", map[string]any{}, ""},
		{"whitespace", "  \n", map[string]any{}, ""},
		{"null", "null", map[string]any{}, ""},
		{"object", `{"name":"Dune"}`, map[string]any{"name": "Dune"}, ""},
		{"array", `[]`, nil, "Invalid JSON data"},
		{"number", `42`, nil, "Invalid JSON data"},
		{"truncated", `{"name"`, nil, "Invalid JSON data"},
		{"two values", `{} {}`, nil, "Invalid JSON data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readJSONPayload(strings.NewReader(tt.body))
			if tt.wantErr != "" {
				require.Error(t, err)
				var ce *clientError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, tt.wantErr, ce.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadPayloadTooLarge(t *testing.T) {
	app := newTestApplication(t)
	body := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	_, err := app.readPayload(httptest.NewRecorder(), req)
	require.Error(t, err)
	assert.Equal(t, "Request body must not be larger than 1MB", err.Error())
}

func TestReadListFilters(t *testing.T) {
	app := newTestApplication(t)

	qs, err := url.ParseQuery("page=2&limit=25&q=%20borges%20&min_price=10.5&max_price=20abc&author=%20Jorge%20")
	require.NoError(t, err)

	f := app.readListFilters(qs)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 25, f.PageSize)
	assert.Equal(t, "borges", f.Search)
	assert.Equal(t, "Jorge", f.Author)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 10.5, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 20.0, *f.MaxPrice)

	f = app.readListFilters(url.Values{})
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, defaultPageSize, f.PageSize)
	assert.Empty(t, f.Search)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)

	f = app.readListFilters(url.Values{"q": {"0"}, "author": {"0"}, "min_price": {"0"}})
	assert.Empty(t, f.Search)
	assert.Empty(t, f.Author)
	assert.Nil(t, f.MinPrice)
}

func TestListTreatsZeroFiltersAsAbsent(t *testing.T) {
	app := newTestApplication(t)
	h := app.routes()
	seedBook(t, app, "Dune", "Frank Herbert", 19.99)
	seedBook(t, app, "Ficciones", "Jorge Luis Borges", 12.5)

	for _, target := range []string{"/api/v1/books?q=0", "/api/v1/books?author=0"} {
		rr := send(t, h, http.MethodGet, target, "", nil)
		require.Equal(t, http.StatusOK, rr.Code, target)
		assert.Len(t, decode(t, rr)["data"], 2, target)
	}
}

func TestReadPrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"12", 12, true},
		{"12.75", 12.75, true},
		{" 8.5x", 8.5, true},
		{"abc", 0, true},
		{"0.0", 0, true},
	}
	for _, tt := range tests {
		got, ok := readPrice(url.Values{"p": {tt.raw}}, "p")
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestLeadingInt(t *testing.T) {
	assert.Equal(t, 7, leadingInt("", 7))
	assert.Equal(t, 12, leadingInt("12abc", 7))
	assert.Equal(t, 0, leadingInt("abc", 7))
	assert.Equal(t, -3, leadingInt("-3", 7))
	assert.Equal(t, 2147483647, leadingInt("99999999999999", 7))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:5123"
	assert.Equal(t, "198.51.100.7", clientIP(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.1")
	assert.Equal(t, "203.0.113.1", clientIP(req))
}

func TestRequestOwner(t *testing.T) {
	app := newTestApplication(t)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.Equal(t, testDefaultOwner, app.requestOwner(req))

	owner := uuid.New()
	req.Header.Set("X-User-ID", owner.String())
	assert.Equal(t, owner, app.requestOwner(req))

	req.Header.Set("X-User-ID", uuid.Nil.String())
	assert.Equal(t, testDefaultOwner, app.requestOwner(req))
}

func TestPayloadKeys(t *testing.T) {
	assert.Equal(t, []string{"author", "name", "price"}, payloadKeys(map[string]any{"price": 1, "name": "x", "author": "y"}))
	assert.Empty(t, payloadKeys(nil))
}
