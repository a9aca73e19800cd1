package catalog

import (
	"context"
	"sort"
	"sync/atomic"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Service serves catalog reads from an immutable in-memory snapshot.
// The snapshot is loaded once at startup and swapped atomically on reload,
// so all read methods are safe for concurrent use.
type Service struct {
	repo Repository
	snap atomic.Pointer[snapshot]
}

type snapshot struct {
	products []Product
	zones    []Zone
	byID     map[string]Product
}

// NewService wires a Service over the repository. Call Load before serving.
func NewService(repo Repository) *Service {
	s := &Service{repo: repo}
	s.snap.Store(&snapshot{byID: map[string]Product{}})
	return s
}

// Load fetches products and zones and installs them as the current snapshot.
func (s *Service) Load(ctx context.Context) error {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return err
	}
	zones, err := s.repo.ListZones(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	s.snap.Store(&snapshot{products: products, zones: zones, byID: byID})
	return nil
}

// Reload refreshes the snapshot. Readers keep the old view until the swap.
func (s *Service) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Service) current() *snapshot {
	return s.snap.Load()
}

// Products returns every catalog product.
func (s *Service) Products() []Product {
	return s.current().products
}

// Zones returns the zone definitions.
func (s *Service) Zones() []Zone {
	return s.current().zones
}

// ProductByID looks a product up by identifier.
func (s *Service) ProductByID(id string) (Product, bool) {
	p, ok := s.current().byID[id]
	return p, ok
}

// PriceForZone resolves the catalog price of a product in a zone.
func (s *Service) PriceForZone(p Product, zoneID string) float64 {
	return p.PriceForZone(s.current().zones, zoneID)
}

// Categories enumerates distinct product categories, sorted with Spanish
// collation to match the catalog's locale.
func (s *Service) Categories() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range s.current().products {
		if p.Categoria == "" {
			continue
		}
		if _, ok := seen[p.Categoria]; ok {
			continue
		}
		seen[p.Categoria] = struct{}{}
		out = append(out, p.Categoria)
	}
	sortSpanish(out)
	return out
}

// LinesByCategory enumerates distinct lines within a category.
func (s *Service) LinesByCategory(categoria string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range s.current().products {
		if p.Categoria != categoria || p.Linea == "" {
			continue
		}
		if _, ok := seen[p.Linea]; ok {
			continue
		}
		seen[p.Linea] = struct{}{}
		out = append(out, p.Linea)
	}
	sortSpanish(out)
	return out
}

// SublinesByLine enumerates distinct sub-lines within a category and line.
func (s *Service) SublinesByLine(categoria, linea string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range s.current().products {
		if p.Categoria != categoria || p.Linea != linea || p.Sublinea == "" {
			continue
		}
		if _, ok := seen[p.Sublinea]; ok {
			continue
		}
		seen[p.Sublinea] = struct{}{}
		out = append(out, p.Sublinea)
	}
	sortSpanish(out)
	return out
}

// ProductsByFilters returns products matching the classification filters.
// Empty filter values match everything at that level.
func (s *Service) ProductsByFilters(categoria, linea, sublinea string) []Product {
	var out []Product
	for _, p := range s.current().products {
		if categoria != "" && p.Categoria != categoria {
			continue
		}
		if linea != "" && p.Linea != linea {
			continue
		}
		if sublinea != "" && p.Sublinea != sublinea {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortSpanish(values []string) {
	c := collate.New(language.Spanish)
	sort.Slice(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})
}
