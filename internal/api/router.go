package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/settings"
)

// Deps bundles what the API router needs.
type Deps struct {
	Catalog  *catalog.Service
	Settings *settings.Service
	Uploads  *UploadHandler
	Auth     Authenticator
	// AuthEnabled controls whether Bearer token auth is enforced on mutations.
	AuthEnabled bool
	// LoginRatePerMin limits login attempts per client IP; 0 disables it.
	LoginRatePerMin int
	Events          Publisher
	// SSE, if non-nil, is mounted at GET /events.
	SSE http.Handler
}

// NewRouter creates a chi router with all API routes mounted. Reads are
// public; mutations sit behind AuthMiddleware.
func NewRouter(d Deps) chi.Router {
	h := NewHandler(d.Catalog, d.Settings, d.Events)
	lh := NewLoginHandler(d.Auth, d.AuthEnabled)

	r := chi.NewRouter()

	// Public reads.
	r.Get("/cards", h.ListCards)
	r.Get("/cards/highlights", h.Highlights)
	r.Get("/cards/category/{category}", h.ByCategory)
	r.Get("/cards/{id}", h.GetCard)
	r.Get("/settings", h.GetSettings)

	// Login.
	r.With(RateLimit(d.LoginRatePerMin, 0)).Post("/auth", lh.Login)

	// Admin mutations.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(d.AuthEnabled, d.Auth))
		r.Post("/cards", h.CreateCard)
		r.Put("/cards", h.UpdateCard)
		r.Delete("/cards", h.DeleteCard)
		r.Put("/settings", h.UpdateSettings)
		if d.Uploads != nil {
			r.Post("/upload", d.Uploads.Upload)
		}
	})

	if d.SSE != nil {
		r.Get("/events", d.SSE.ServeHTTP)
	}

	return r
}
