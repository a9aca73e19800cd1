package handoffhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simula-fin/simula/internal/handoff"
	"github.com/simula-fin/simula/internal/platform/httpx"
)

// Store defines the persistence contract the handler consumes.
type Store interface {
	Save(ctx context.Context, p handoff.Payload) (string, error)
	Fetch(ctx context.Context, token string) (handoff.Payload, error)
}

// Handler exposes the print hand-off endpoints.
type Handler struct {
	logger *slog.Logger
	store  Store
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, store Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// MountRoutes registers hand-off endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Post("/handoff", h.handleSave)
	r.Get("/handoff/{token}", h.handleFetch)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload handoff.Payload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	token, err := h.store.Save(r.Context(), payload)
	if err != nil {
		h.logger.Error("save handoff", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	payload, err := h.store.Fetch(r.Context(), token)
	if err != nil {
		if errors.Is(err, handoff.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no hand-off payload for token")
			return
		}
		h.logger.Error("fetch handoff", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payload)
}
