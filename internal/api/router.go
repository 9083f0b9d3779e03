// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"auction-listings/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	listingHandler *handler.ListingHandler,
	authHandler *handler.AuthHandler,
	authenticator *handler.Authenticator,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Cancel the request context after DefaultTimeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authenticator.RequireAuth).Get("/me", authHandler.Me)
	})

	// Browsing works anonymously; a valid token adds the viewer's watch state.
	r.Group(func(r chi.Router) {
		r.Use(authenticator.OptionalAuth)
		r.Get("/listings", listingHandler.ListActive)
		r.Get("/listings/{listingID}", listingHandler.Get)
		r.Get("/categories", listingHandler.ListCategories)
		r.Get("/categories/{categoryID}/listings", listingHandler.ListCategoryListings)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator.RequireAuth)
		r.Post("/listings", listingHandler.Create)
		r.Delete("/listings/{listingID}", listingHandler.Delete)
		r.Post("/listings/{listingID}/bids", listingHandler.PlaceBid)
		r.Post("/listings/{listingID}/bids/quick", listingHandler.PlaceQuickBid)
		r.Post("/listings/{listingID}/comments", listingHandler.PostComment)
		r.Post("/listings/{listingID}/close", listingHandler.Close)
		r.Post("/listings/{listingID}/watch", listingHandler.ToggleWatch)
		r.Put("/listings/{listingID}/watch", listingHandler.Watch)
		r.Delete("/listings/{listingID}/watch", listingHandler.Unwatch)
		r.Get("/watchlist", listingHandler.Watchlist)
	})

	logger.Debug("HTTP routes registered")
	return r
}
