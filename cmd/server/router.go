package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/routine-api/internal/api"
	apiMiddleware "github.com/phrazzld/routine-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	seriesHandler := api.NewSeriesHandler(app.seriesService)
	occurrenceHandler := api.NewOccurrenceHandler(app.occurrenceService)
	directoryHandler := api.NewDirectoryHandler(app.directoryStore)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenVerifier, app.identityService)

	// Register routes; everything under /api requires a valid token.
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Series endpoints
		r.Post("/series", seriesHandler.Create)
		r.Get("/series", seriesHandler.List)
		r.Get("/series/{id}", seriesHandler.Get)
		r.Patch("/series/{id}", seriesHandler.Update)
		r.Post("/series/{id}/complete", seriesHandler.Complete)

		// Occurrence endpoints
		r.Get("/occurrences", occurrenceHandler.List)
		r.Patch("/occurrences/{id}", occurrenceHandler.Update)
		r.Post("/occurrences/{id}/complete", occurrenceHandler.Complete)

		// Directory endpoints
		r.Get("/me", directoryHandler.Me)
		r.Get("/departments", directoryHandler.ListDepartments)
		r.Get("/employees", directoryHandler.ListEmployees)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
