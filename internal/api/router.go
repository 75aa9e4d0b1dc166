package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events; it also accepts the
// token as a query parameter.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Get("/memo", h.GetMemo)
		r.Put("/memo", h.UpdateMemo)
		r.Get("/notice", h.GetNotice)
	})

	if sseHandler != nil {
		r.With(StreamAuthMiddleware(authEnabled, token)).Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
