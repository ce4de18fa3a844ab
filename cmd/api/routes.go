// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routedMethods are registered on every path so that the handlers, not the
// router, decide which verbs a resource accepts.
var routedMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// routes registers all HTTP endpoints and returns the router wrapped in
// the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → enableCORS → rateLimit → router
//
// Endpoints:
//
//	/, /api/v1           – welcome
//	/api/v1/health       – health check
//	/api/v1/books        – list (GET), create (POST)
//	/api/v1/books/:id    – show (GET), update (PUT), soft delete (DELETE)
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()
	router.HandleOPTIONS = false
	router.HandleMethodNotAllowed = false
	router.NotFound = http.HandlerFunc(app.endpointNotFound)

	register := func(path string, h apiHandler) {
		for _, method := range routedMethods {
			router.HandlerFunc(method, path, app.handle(h))
		}
	}

	register("/", app.welcomeHandler)
	register(basePath, app.welcomeHandler)
	register(basePath+"/health", app.healthcheckHandler)
	register(basePath+"/books", app.booksCollectionHandler)
	register(basePath+"/books/:id", app.bookItemHandler)

	return app.recoverPanic(app.enableCORS(app.rateLimit(router)))
}
