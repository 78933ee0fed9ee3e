package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pvestal/vacavibes/internal/auth"
	"github.com/pvestal/vacavibes/internal/db"
	"github.com/pvestal/vacavibes/internal/email"
	"github.com/pvestal/vacavibes/internal/handlers"
	"github.com/pvestal/vacavibes/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, notifier *email.Notifier, events *auth.Events) error {
	authMiddleware := middleware.NewAuthMiddleware(s.Store, database)

	accountHandler := handlers.NewAccountHandler(database)
	linkHandler := handlers.NewLinkHandler(database, notifier)
	submissionHandler := handlers.NewSubmissionHandler(database, notifier)
	probeHandler := handlers.NewProbeHandler(database)

	// Auth routes - OIDC is required for all write access
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All accounts must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database, events)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authMiddleware.OptionalAuth, authHandler.Logout)

	// Account directory
	s.App.Get("/api/me", authMiddleware.RequireAuth, accountHandler.Me)
	s.App.Get("/api/accounts/lookup", authMiddleware.RequireAuth, accountHandler.Lookup)
	s.App.Get("/api/accounts/search", authMiddleware.RequireAuth, accountHandler.Search)

	// Link relationships. The list endpoint tolerates anonymous callers and
	// returns an empty set, so it takes OptionalAuth.
	s.App.Get("/api/links", authMiddleware.OptionalAuth, linkHandler.List)
	s.App.Get("/api/links/requests/incoming", authMiddleware.RequireAuth, linkHandler.Incoming)
	s.App.Get("/api/links/requests/outgoing", authMiddleware.RequireAuth, linkHandler.Outgoing)
	s.App.Post("/api/links/requests", authMiddleware.RequireAuth, linkHandler.Request)
	s.App.Post("/api/links/requests/:id/approve", authMiddleware.RequireAuth, linkHandler.Approve)
	s.App.Post("/api/links/requests/:id/deny", authMiddleware.RequireAuth, linkHandler.Deny)
	s.App.Delete("/api/links/:accountID", authMiddleware.RequireAuth, linkHandler.Delete)

	// Submissions
	s.App.Get("/api/submissions", authMiddleware.RequireAuth, submissionHandler.List)
	s.App.Post("/api/submissions", authMiddleware.RequireAuth, submissionHandler.Create)
	s.App.Get("/api/submissions/:id", authMiddleware.RequireAuth, submissionHandler.Get)
	s.App.Put("/api/submissions/:id/score", authMiddleware.RequireAuth, submissionHandler.UpdateScore)
	s.App.Delete("/api/submissions/:id", authMiddleware.RequireAuth, submissionHandler.Delete)

	// Observability
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
