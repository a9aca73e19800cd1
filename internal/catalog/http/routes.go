package cataloghttp

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers catalog endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/products", h.handleProducts)
	r.Get("/zones", h.handleZones)
	r.Get("/categories", h.handleCategories)
	r.Get("/lines", h.handleLines)
	r.Get("/sublines", h.handleSublines)
	r.Get("/options", h.handleOptions)
}
