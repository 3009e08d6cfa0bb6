// Package http provides HTTP routing and middleware configuration
// for the BachesApp service.
package http

import (
	"net/http"

	"github.com/bachesapp/bachesapp/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// BachesApp API. It applies JSON content-type enforcement and request
// logging, and mounts the auth and report endpoints under /api.
//
// Routes:
//
//	POST   /api/register                   → authHandler.Register
//	POST   /api/login                      → authHandler.Login
//	POST   /api/logout                     → authHandler.Logout
//	GET    /api/session                    → authHandler.Session
//	POST   /api/password-reset             → authHandler.RequestReset
//	GET    /api/password-reset/{token}     → authHandler.ValidateReset
//	POST   /api/password-reset/{token}     → authHandler.PerformReset
//	GET    /api/reports                    → reportHandler.List
//	POST   /api/reports                    → reportHandler.Create
//	GET    /api/reports/located            → reportHandler.Located
//	GET    /api/reports/{id}               → reportHandler.Get
//	POST   /api/reports/{id}/vote          → reportHandler.Vote
//	POST   /api/reports/{id}/comments      → reportHandler.Comment
//	DELETE /api/reports/{id}               → reportHandler.Delete (session required)
func NewRouter(
	authHandler *AuthHandler,
	reportHandler *ReportHandler,
	sessions middleware.SessionChecker,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Auth endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)

		// Password-reset flow
		r.Post("/password-reset", authHandler.RequestReset)
		r.Get("/password-reset/{token}", authHandler.ValidateReset)
		r.Post("/password-reset/{token}", authHandler.PerformReset)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", reportHandler.List)
			r.Post("/", reportHandler.Create)
			r.Get("/located", reportHandler.Located)
			r.Get("/{id}", reportHandler.Get)
			r.Post("/{id}/vote", reportHandler.Vote)
			r.Post("/{id}/comments", reportHandler.Comment)

			// Protected group: deletion requires an active session
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession(sessions))
				r.Delete("/{id}", reportHandler.Delete)
			})
		})
	})

	return r
}
