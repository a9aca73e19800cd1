package catalog

// ZoneOther is the reserved pseudo-zone: no catalog pricing applies and the
// caller supplies the unit price manually.
const ZoneOther = "otro"

// DefaultAnnualIncrease is applied when a product row carries no escalation
// rate of its own.
const DefaultAnnualIncrease = 0.05

// Product is one sellable catalog entry with zone pricing.
type Product struct {
	ID             string             `json:"id"`
	Description    string             `json:"description"`
	Unit           string             `json:"unit"`
	BaseCost       float64            `json:"baseCost"`
	AnnualIncrease float64            `json:"annualIncrease"`
	Categoria      string             `json:"categoria"`
	Linea          string             `json:"linea"`
	Sublinea       string             `json:"sublinea"`
	Prices         map[string]float64 `json:"prices"`
}

// Zone is a pricing region. Key indexes into Product.Prices.
type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// PriceForZone resolves the catalog unit price of p in the given zone.
// Absent or non-positive prices resolve to zero, as does the "otro" zone.
func (p Product) PriceForZone(zones []Zone, zoneID string) float64 {
	if zoneID == ZoneOther {
		return 0
	}
	for _, z := range zones {
		if z.ID == zoneID {
			if price, ok := p.Prices[z.Key]; ok && price > 0 {
				return price
			}
			return 0
		}
	}
	return 0
}
