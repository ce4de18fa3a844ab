// cmd/api/request.go
// This file turns a raw *http.Request into the values the handlers work
// with: the decoded body, pagination, search and filter parameters, and
// the caller's address.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aoideee/books-api/internal/data"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

const (
	maxBodyBytes    = 1_048_576
	defaultPageSize = 10
	maxPageSize     = 100
)

var (
	leadingIntRX   = regexp.MustCompile(`^\s*[+-]?\d+`)
	leadingFloatRX = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
)

// readPayload decodes the request body into a generic object. JSON bodies
// are used when the Content-Type says so, form fields otherwise. An empty
// JSON body or a JSON null yields an empty payload.
func (app *applicationDependencies) readPayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	// Cap the body before anything reads it.
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		return readJSONPayload(r.Body)
	}

	// Anything else is read as a form, multipart or urlencoded.
	mediaType, _, _ := mime.ParseMediaType(contentType)
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, newClientError("Request body must not be larger than 1MB")
		}
		return nil, newClientError("Invalid form data")
	}

	// Repeated keys keep their first value.
	payload := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}
	return payload, nil
}

func readJSONPayload(body io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, newClientError("Request body must not be larger than 1MB")
		}
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, newClientError("Invalid JSON data")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, newClientError("Invalid JSON data")
	}

	switch v := decoded.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, newClientError("Invalid JSON data")
	}
}

// readIDParam returns the raw ":id" URL parameter added by httprouter.
func (app *applicationDependencies) readIDParam(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("id")
}

// readPage returns the requested page number, never below 1.
func (app *applicationDependencies) readPage(qs url.Values) int {
	return max(1, leadingInt(qs.Get("page"), 1))
}

// readLimit returns the requested page size clamped to [1, maxPageSize].
func (app *applicationDependencies) readLimit(qs url.Values) int {
	return min(maxPageSize, max(1, leadingInt(qs.Get("limit"), defaultPageSize)))
}

// readListFilters collects pagination, the search term and the optional
// price and author filters. Empty and "0" parameters are treated as absent.
func (app *applicationDependencies) readListFilters(qs url.Values) data.ListFilters {
	filters := data.ListFilters{
		Page:     app.readPage(qs),
		PageSize: app.readLimit(qs),
		Search:   readText(qs, "q"),
		Author:   readText(qs, "author"),
	}
	if v, ok := readPrice(qs, "min_price"); ok {
		filters.MinPrice = &v
	}
	if v, ok := readPrice(qs, "max_price"); ok {
		filters.MaxPrice = &v
	}
	return filters
}

// readText reads a text filter, trimmed. Missing, empty and "0" values
// yield "".
func readText(qs url.Values, key string) string {
	s := qs.Get(key)
	if s == "" || s == "0" {
		return ""
	}
	return strings.TrimSpace(s)
}

// readPrice reads a price bound. Missing, empty and "0" values are
// ignored; anything else is read as its leading number (0 if none).
func readPrice(qs url.Values, key string) (float64, bool) {
	s := qs.Get(key)
	if s == "" || s == "0" {
		return 0, false
	}
	m := leadingFloatRX.FindString(s)
	if m == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, true
	}
	return f, true
}

// leadingInt reads the integer prefix of s ("12abc" is 12, "abc" is 0).
// An absent value yields def.
func leadingInt(s string, def int) int {
	if s == "" {
		return def
	}
	m := leadingIntRX.FindString(s)
	if m == "" {
		return 0
	}
	// On overflow ParseInt returns the nearest 32-bit bound.
	n, _ := strconv.ParseInt(strings.TrimSpace(m), 10, 32)
	return int(n)
}

// clientIP returns the caller's address as reported by a proxy header,
// falling back to the connection's remote address.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == "" {
			return "unknown"
		}
		return r.RemoteAddr
	}
	return host
}

// requestOwner returns the principal creating a record: a valid X-User-ID
// header when present, the configured default owner otherwise.
func (app *applicationDependencies) requestOwner(r *http.Request) uuid.UUID {
	if h := r.Header.Get("X-User-ID"); h != "" {
		if id, err := uuid.Parse(h); err == nil && id != uuid.Nil {
			return id
		}
	}
	return app.config.defaultOwner
}

// payloadKeys returns the sorted field names of payload, for logging.
func payloadKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
