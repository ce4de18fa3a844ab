// cmd/api/helpers.go
// This file contains the response envelopes and the JSON writer every
// handler goes through. Error-response helpers live in errors.go.
package main

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/aoideee/books-api/internal/data"
	"github.com/aoideee/books-api/internal/validator"
)

// envelope is the success wrapper: {"success": true, "data": ..., "message": ...}.
// Pagination is only set by list responses, in which case Data is always
// present, even when empty.
type envelope struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data,omitempty"`
	Pagination *data.Metadata `json:"pagination,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// errorEnvelope is the failure wrapper: {"success": false, "error": ..., "code": ...}.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// validationEnvelope carries the per-field messages of a 422 response.
type validationEnvelope struct {
	Success bool             `json:"success"`
	Error   string           `json:"error"`
	Details validator.Errors `json:"details"`
}

// healthFailureEnvelope is returned by /health when the store is unreachable.
type healthFailureEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// writeJSON encodes payload as indented JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// sends the body. HTML characters are written as-is since values are
// escaped on the way in.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, payload any, headers http.Header) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(payload); err != nil {
		return err
	}

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// success writes a success envelope with the given status.
func (app *applicationDependencies) success(w http.ResponseWriter, status int, payload any, message string) error {
	app.logResponse(status, message)
	return app.writeJSON(w, status, envelope{Success: true, Data: payload, Message: message}, nil)
}

// successWithPagination writes a list page and its pagination metadata.
func (app *applicationDependencies) successWithPagination(w http.ResponseWriter, items any, md data.Metadata) error {
	app.logResponse(http.StatusOK, "")
	return app.writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Pagination: &md}, nil)
}
