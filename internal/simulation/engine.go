package simulation

import (
	"github.com/simula-fin/simula/internal/catalog"
)

// Catalog is the read-only product data the engine consumes.
type Catalog interface {
	ProductByID(id string) (catalog.Product, bool)
	PriceForZone(p catalog.Product, zoneID string) float64
}

// DefaultTargetIRR is the decimal rate-of-return threshold the advisor
// steers configurations toward.
const DefaultTargetIRR = 0.20

// discountRate is the fixed rate used for NPV.
const discountRate = 0.10

// Engine computes cash-flow projections, investment metrics, and adjustment
// suggestions over a catalog snapshot. It holds no mutable state; every call
// recomputes from scratch, so an Engine is safe for concurrent use.
type Engine struct {
	catalog Catalog
	target  float64

	// OnGridFallback, when set, is invoked each time an IRR solve falls
	// through to the coarse grid scan.
	OnGridFallback func()
}

// NewEngine wires an Engine over a catalog. A non-positive target falls back
// to DefaultTargetIRR.
func NewEngine(cat Catalog, targetIRR float64) *Engine {
	if targetIRR <= 0 {
		targetIRR = DefaultTargetIRR
	}
	return &Engine{catalog: cat, target: targetIRR}
}

// effectivePrice resolves the unit price a selection sells at: the manual
// override when present, zero in the "otro" zone, else the catalog price.
func (e *Engine) effectivePrice(p catalog.Product, sel Selection) float64 {
	if sel.ManualPrice != nil {
		return *sel.ManualPrice
	}
	if sel.ZoneID == catalog.ZoneOther {
		return 0
	}
	return e.catalog.PriceForZone(p, sel.ZoneID)
}
