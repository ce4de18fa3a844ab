// cmd/api/errors.go
// This file is the application's single error boundary. Handlers return
// errors instead of writing failures themselves; handle() and recoverPanic
// classify them here and send the matching error envelope.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"

	"github.com/aoideee/books-api/internal/data"
	"github.com/aoideee/books-api/internal/validator"
)

// clientError is a failure caused by the request itself. Its message is
// safe to show to the caller and is sent with a 400 status.
type clientError struct {
	message string
}

func (e *clientError) Error() string {
	return e.message
}

func newClientError(message string) error {
	return &clientError{message: message}
}

// apiHandler is a handler that reports failures by returning them.
type apiHandler func(w http.ResponseWriter, r *http.Request) error

// handle adapts h to an http.HandlerFunc, routing any returned error
// through handleError.
func (app *applicationDependencies) handle(h apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			app.handleError(w, r, err)
		}
	}
}

// handleError maps err to a response. Client errors become 400s, store
// failures and everything else become 500s whose detail is only exposed
// when debug mode is on.
func (app *applicationDependencies) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		clientErr *clientError
		dbErr     *data.DBError
	)

	switch {
	case errors.As(err, &clientErr):
		app.logger.Warn(clientErr.message,
			slog.String("request_method", r.Method),
			slog.String("request_url", r.URL.String()),
		)
		app.badRequestResponse(w, r, clientErr.message)
	case errors.As(err, &dbErr):
		app.logError(r, err)
		if app.config.Debug {
			app.errorResponse(w, r, http.StatusInternalServerError, "Database error: "+dbErr.Err.Error(), "")
			return
		}
		app.errorResponse(w, r, http.StatusInternalServerError, "Database operation failed", "500")
	default:
		app.serverErrorResponse(w, r, err)
	}
}

// handlePanic turns a recovered panic value into an error and classifies
// it like a returned one. It must be called from the deferred function
// that recovered, so the panicking frame is still on the stack.
func (app *applicationDependencies) handlePanic(w http.ResponseWriter, r *http.Request, recovered any) {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}

	var (
		clientErr *clientError
		dbErr     *data.DBError
	)
	if app.config.Debug && !errors.As(err, &clientErr) && !errors.As(err, &dbErr) {
		file, line := panicLocation()
		err = fmt.Errorf("%w in %s on line %d", err, file, line)
	}

	w.Header().Set("Connection", "close")
	app.handleError(w, r, err)
}

// panicLocation returns the file and line of the frame that panicked.
func panicLocation() (string, int) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	unwinding := false
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.") {
			if frame.Function == "runtime.gopanic" {
				unwinding = true
			}
		} else if unwinding {
			return frame.File, frame.Line
		}
		if !more {
			return "unknown", 0
		}
	}
}

// logError logs an internal error at ERROR level with the request method and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
	)
}

// logRequest records an incoming request. Only the names of the body
// fields are logged, never their values.
func (app *applicationDependencies) logRequest(r *http.Request, payload map[string]any) {
	ua := r.UserAgent()
	if len(ua) > 100 {
		ua = ua[:100]
	}
	app.logger.Info("Request: "+r.Method+" "+r.URL.Path,
		slog.String("ip", clientIP(r)),
		slog.String("user_agent", ua),
		slog.Any("data", payloadKeys(payload)),
	)
}

// logResponse records the status and message of an outgoing response.
func (app *applicationDependencies) logResponse(status int, message string) {
	app.logger.Info(fmt.Sprintf("Response: %d", status), slog.String("message", message))
}

// errorResponse sends an error envelope with the given status, message
// and optional machine-readable code.
// It is the low-level building block used by all the specific error helpers below.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	app.logResponse(status, message)
	err := app.writeJSON(w, status, errorEnvelope{Error: message, Code: code}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse logs an unexpected error and sends a 500. The
// error's text is only returned in debug mode.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	if app.config.Debug {
		app.errorResponse(w, r, http.StatusInternalServerError, err.Error(), "")
		return
	}
	app.errorResponse(w, r, http.StatusInternalServerError, "An internal error occurred", "500")
}

// notFoundResponse sends a 404 with the given message.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusNotFound, message, "404")
}

// endpointNotFound is the router's fallback for unknown paths.
func (app *applicationDependencies) endpointNotFound(w http.ResponseWriter, r *http.Request) {
	app.logRequest(r, nil)
	app.notFoundResponse(w, r, "Endpoint not found")
}

// methodNotAllowedResponse sends a 405 listing the methods the resource
// does accept in the Allow header.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed", "405")
}

// badRequestResponse sends a 400 Bad Request error with the given message.
func (app *applicationDependencies) badRequestResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusBadRequest, message, "")
}

// failedValidationResponse sends a 422 Unprocessable Entity response containing
// the field-level validation errors collected by a Validator.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, errs validator.Errors) {
	app.logResponse(http.StatusUnprocessableEntity, "Validation failed")
	err := app.writeJSON(w, http.StatusUnprocessableEntity, validationEnvelope{Error: "Validation failed", Details: errs}, nil)
	if err != nil {
		app.logError(r, err)
	}
}

// rateLimitExceededResponse sends a 429 Too Many Requests error.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, "Rate limit exceeded", "429")
}
