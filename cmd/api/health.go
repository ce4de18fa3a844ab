// cmd/api/health.go
package main

import (
	"net/http"
	"time"

	"github.com/aoideee/books-api/internal/data"
)

const healthAllow = "GET, OPTIONS"

type healthReport struct {
	Message     string        `json:"message"`
	Version     string        `json:"version"`
	Timestamp   string        `json:"timestamp"`
	Environment string        `json:"env"`
	Database    data.DBStatus `json:"database"`
}

type welcomeReport struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// healthcheckHandler handles /api/v1/health. It answers 200 while the
// store responds and 503 once it does not.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) error {
	app.logRequest(r, nil)

	switch r.Method {
	case http.MethodGet:
	case http.MethodOptions:
		app.optionsResponse(w, healthAllow)
		return nil
	default:
		w.Header().Set("Allow", healthAllow)
		app.errorResponse(w, r, http.StatusMethodNotAllowed, "Only GET method is allowed for health check", "405")
		return nil
	}

	report := healthReport{
		Message:     "API is running",
		Version:     appVersion,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Environment: app.config.Environment,
		Database:    app.models.Health.Check(r.Context()),
	}

	if !report.Database.Success {
		app.logger.Error("health check failed", "error", report.Database.Error)
		app.logResponse(http.StatusServiceUnavailable, "Service partially unavailable")
		return app.writeJSON(w, http.StatusServiceUnavailable, healthFailureEnvelope{
			Message: "Service partially unavailable",
			Details: report,
		}, nil)
	}

	return app.success(w, http.StatusOK, report, "")
}

// welcomeHandler handles / and /api/v1 with a short description of the API.
func (app *applicationDependencies) welcomeHandler(w http.ResponseWriter, r *http.Request) error {
	app.logRequest(r, nil)

	if r.Method == http.MethodOptions {
		app.optionsResponse(w, healthAllow)
		return nil
	}
	if r.Method != http.MethodGet {
		app.methodNotAllowedResponse(w, r, healthAllow)
		return nil
	}

	app.logResponse(http.StatusOK, "Books API - Welcome")
	return app.writeJSON(w, http.StatusOK, welcomeReport{
		Success: true,
		Message: "Books API - Welcome",
		Version: appVersion,
		Endpoints: map[string]string{
			"GET /api/v1/health":        "Health check",
			"GET /api/v1/books":         "List books (page, limit, q, min_price, max_price, author)",
			"GET /api/v1/books/{id}":    "Get a book",
			"POST /api/v1/books":        "Create a book",
			"PUT /api/v1/books/{id}":    "Update a book",
			"DELETE /api/v1/books/{id}": "Delete a book",
		},
	}, nil)
}
