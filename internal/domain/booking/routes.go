package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns booking router. Every route requires authentication.
func (h *Handler) Routes(authMiddleware ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware...)

	r.Get("/", h.ListMine)
	r.Post("/", h.Create)
	r.Post("/quote", h.Quote)
	r.Delete("/{id}", h.Cancel)

	return r
}
