package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	cataloghttp "github.com/simula-fin/simula/internal/catalog/http"
	handoffhttp "github.com/simula-fin/simula/internal/handoff/http"
	"github.com/simula-fin/simula/internal/observability"
	simulationhttp "github.com/simula-fin/simula/internal/simulation/http"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	CatalogHandler    *cataloghttp.Handler
	SimulationHandler *simulationhttp.Handler
	HandoffHandler    *handoffhttp.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Simula defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.CatalogHandler != nil {
		r.Route("/catalog", params.CatalogHandler.MountRoutes)
	}
	if params.SimulationHandler != nil {
		params.SimulationHandler.MountRoutes(r)
	}
	if params.HandoffHandler != nil {
		params.HandoffHandler.MountRoutes(r)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
