package cataloghttp

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/simula-fin/simula/internal/catalog"
	"github.com/simula-fin/simula/internal/platform/httpx"
)

// Handler serves the read-only product catalog.
type Handler struct {
	logger  *slog.Logger
	service *catalog.Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *catalog.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoria := q.Get("categoria")
	linea := q.Get("linea")
	sublinea := q.Get("sublinea")

	var products []catalog.Product
	if categoria == "" && linea == "" && sublinea == "" {
		products = h.service.Products()
	} else {
		products = h.service.ProductsByFilters(categoria, linea, sublinea)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) handleZones(w http.ResponseWriter, r *http.Request) {
	zones := h.service.Zones()
	if zones == nil {
		zones = []catalog.Zone{}
	}
	httpx.JSON(w, http.StatusOK, zones)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, stringsOrEmpty(h.service.Categories()))
}

func (h *Handler) handleLines(w http.ResponseWriter, r *http.Request) {
	categoria := r.URL.Query().Get("categoria")
	httpx.JSON(w, http.StatusOK, stringsOrEmpty(h.service.LinesByCategory(categoria)))
}

func (h *Handler) handleSublines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	httpx.JSON(w, http.StatusOK, stringsOrEmpty(h.service.SublinesByLine(q.Get("categoria"), q.Get("linea"))))
}

// optionsResponse is the combined payload the selection form loads in one
// round trip.
type optionsResponse struct {
	Categories []string       `json:"categories"`
	Lines      []string       `json:"lines"`
	Sublines   []string       `json:"sublines"`
	Zones      []catalog.Zone `json:"zones"`
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoria := q.Get("categoria")
	linea := q.Get("linea")

	var resp optionsResponse
	g, _ := errgroup.WithContext(r.Context())
	g.Go(func() error {
		resp.Categories = stringsOrEmpty(h.service.Categories())
		return nil
	})
	g.Go(func() error {
		resp.Lines = stringsOrEmpty(h.service.LinesByCategory(categoria))
		return nil
	})
	g.Go(func() error {
		resp.Sublines = stringsOrEmpty(h.service.SublinesByLine(categoria, linea))
		return nil
	})
	g.Go(func() error {
		resp.Zones = h.service.Zones()
		if resp.Zones == nil {
			resp.Zones = []catalog.Zone{}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("catalog options", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
