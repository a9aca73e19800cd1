package simulationhttp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/simula-fin/simula/internal/platform/httpx"
	"github.com/simula-fin/simula/internal/simulation"
)

// SimulationService defines the contract the handler consumes.
type SimulationService interface {
	Run(ctx context.Context, req simulation.Request) (simulation.Result, error)
}

// Handler exposes the simulation endpoint.
type Handler struct {
	logger   *slog.Logger
	service  SimulationService
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service SimulationService) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulation.Request
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range verrs {
				fields = append(fields, fieldErr.Field())
			}
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid fields: "+strings.Join(fields, ", "))
		return
	}

	result, err := h.service.Run(r.Context(), req)
	if err != nil {
		h.logger.Error("run simulation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
