// cmd/api/handlers.go
// This file contains the HTTP handlers for the books resource. The two
// entry points dispatch on the request method; the per-operation handlers
// return errors to the boundary in errors.go rather than writing them.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/books-api/internal/data"
	"github.com/aoideee/books-api/internal/validator"
	"github.com/google/uuid"
)

const (
	collectionAllow = "GET, POST, OPTIONS"
	itemAllow       = "GET, PUT, DELETE, OPTIONS"
	optionsAllow    = "GET, POST, PUT, DELETE, OPTIONS"
)

// booksCollectionHandler handles /api/v1/books.
func (app *applicationDependencies) booksCollectionHandler(w http.ResponseWriter, r *http.Request) error {
	payload, err := app.requestBody(w, r)
	app.logRequest(r, payload)
	if err != nil {
		return err
	}

	switch r.Method {
	case http.MethodGet:
		return app.listBooksHandler(w, r)
	case http.MethodPost:
		return app.createBookHandler(w, r, payload)
	case http.MethodOptions:
		app.optionsResponse(w, optionsAllow)
		return nil
	default:
		app.methodNotAllowedResponse(w, r, collectionAllow)
		return nil
	}
}

// bookItemHandler handles /api/v1/books/:id. The id is checked before the
// method so that a malformed id is reported the same way for every verb.
func (app *applicationDependencies) bookItemHandler(w http.ResponseWriter, r *http.Request) error {
	payload, err := app.requestBody(w, r)
	app.logRequest(r, payload)
	if err != nil {
		return err
	}

	raw := app.readIDParam(r)
	if !validator.IsValidUUID(raw) {
		return newClientError("Invalid book ID format")
	}
	id := uuid.MustParse(raw)

	switch r.Method {
	case http.MethodGet:
		return app.showBookHandler(w, r, id)
	case http.MethodPut:
		return app.updateBookHandler(w, r, id, payload)
	case http.MethodDelete:
		return app.deleteBookHandler(w, r, id)
	case http.MethodOptions:
		app.optionsResponse(w, optionsAllow)
		return nil
	default:
		app.methodNotAllowedResponse(w, r, itemAllow)
		return nil
	}
}

// requestBody decodes the body of write requests. Other methods carry no
// payload.
func (app *applicationDependencies) requestBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	if !validator.In(r.Method, http.MethodPost, http.MethodPut) {
		return nil, nil
	}
	return app.readPayload(w, r)
}

// optionsResponse answers a preflight with an empty 200.
func (app *applicationDependencies) optionsResponse(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	w.WriteHeader(http.StatusOK)
	app.logResponse(http.StatusOK, "")
}

// listBooksHandler handles GET /api/v1/books.
// It returns one page of active books, newest first, narrowed by the
// q, min_price, max_price and author query parameters.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) error {
	filters := app.readListFilters(r.URL.Query())

	books, total, err := app.models.Books.GetAll(r.Context(), filters)
	if err != nil {
		return err
	}
	if books == nil {
		books = []*data.BookView{}
	}

	return app.successWithPagination(w, books, data.CalculateMetadata(total, filters.Page, filters.PageSize))
}

// showBookHandler handles GET /api/v1/books/:id.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request, id uuid.UUID) error {
	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			app.notFoundResponse(w, r, "Book not found")
			return nil
		}
		return err
	}

	return app.success(w, http.StatusOK, book, "")
}

// createBookHandler handles POST /api/v1/books.
// Text fields are sanitized before validation; the new book is owned by
// the principal identified on the request.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request, payload map[string]any) error {
	// Lengths are checked on the escaped text.
	validator.SanitizeFields(payload, data.SanitizedBookFields...)

	v := validator.New()
	if data.ValidateBookPayload(v, payload, false); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return nil
	}

	book, err := app.models.Books.Insert(r.Context(), data.NewCreateBookInput(payload, app.requestOwner(r)))
	if err != nil {
		return err
	}

	return app.success(w, http.StatusCreated, book, "Book created successfully")
}

// updateBookHandler handles PUT /api/v1/books/:id.
// Unknown keys are dropped; whatever remains is sanitized and checked
// against the update rules, so a partial body is accepted.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request, id uuid.UUID, payload map[string]any) error {
	// A missing book is reported before the body is looked at.
	exists, err := app.models.Books.Exists(r.Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		app.notFoundResponse(w, r, "Book not found")
		return nil
	}

	// Keep only the writable columns.
	fields := make(map[string]any, len(data.BookFields))
	for _, key := range data.BookFields {
		if value, ok := payload[key]; ok {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return newClientError("No valid fields provided for update")
	}

	validator.SanitizeFields(fields, data.SanitizedBookFields...)

	// Update rules only check the fields that are present.
	v := validator.New()
	if data.ValidateBookPayload(v, fields, true); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return nil
	}

	book, err := app.models.Books.Update(r.Context(), id, data.NewUpdateBookInput(fields))
	if err != nil {
		// Deleted between the existence check and the update.
		if errors.Is(err, data.ErrRecordNotFound) {
			app.notFoundResponse(w, r, "Book not found")
			return nil
		}
		return err
	}

	return app.success(w, http.StatusOK, book, "Book updated successfully")
}

// deleteBookHandler handles DELETE /api/v1/books/:id.
// The row is only flagged as deleted; reads stop returning it.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request, id uuid.UUID) error {
	deleted, err := app.models.Books.SoftDelete(r.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		app.notFoundResponse(w, r, "Book not found")
		return nil
	}

	return app.success(w, http.StatusOK, nil, "Book deleted successfully")
}
