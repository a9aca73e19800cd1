package simulation

// Selection is one product+zone+quantity line item in a simulation request.
// Categoria/Linea/Sublinea are UI filter echoes and do not affect the math.
type Selection struct {
	ProductID   string   `json:"productId"`
	ZoneID      string   `json:"zoneId"`
	Quantity    int      `json:"quantity"`
	ManualPrice *float64 `json:"manualPrice,omitempty"`
	Categoria   string   `json:"categoria,omitempty"`
	Linea       string   `json:"linea,omitempty"`
	Sublinea    string   `json:"sublinea,omitempty"`
}

// PeriodRow is one row of the projected cash-flow table. Monetary fields are
// rounded to the nearest unit; rows are never mutated after construction.
type PeriodRow struct {
	Label              string  `json:"label"`
	Investment         float64 `json:"investment"`
	Sales              float64 `json:"sales"`
	Cost               float64 `json:"cost"`
	Overhead           float64 `json:"overhead"`
	NetCashFlow        float64 `json:"netCashFlow"`
	CumulativeCashFlow float64 `json:"cumulativeCashFlow"`
}

// Metrics aggregates the investment indicators derived from a projection.
// IRR and ROI are percentages; Suggestions is present only when the IRR
// missed the target threshold.
type Metrics struct {
	NPV           float64      `json:"npv"`
	IRR           float64      `json:"irr"`
	ROI           float64      `json:"roi"`
	PaybackPeriod int          `json:"paybackPeriod"`
	TotalCashFlow float64      `json:"totalCashFlow"`
	Suggestions   []Suggestion `json:"suggestions,omitempty"`
}

// AdjustmentKind distinguishes price from quantity suggestions.
type AdjustmentKind string

const (
	AdjustPrice AdjustmentKind = "price"
	AdjustUnits AdjustmentKind = "units"
)

// Override is one per-item change carried by a group suggestion.
type Override struct {
	ProductID      string  `json:"productId"`
	ZoneID         string  `json:"zoneId"`
	CurrentValue   float64 `json:"currentValue"`
	SuggestedValue float64 `json:"suggestedValue"`
}

// Suggestion is a proposed parameter adjustment that lifts the projected IRR
// above target. Group suggestions carry one Override per line item to apply
// atomically; individual suggestions address a single product+zone.
type Suggestion struct {
	Kind           AdjustmentKind `json:"kind"`
	Group          bool           `json:"group"`
	ProductID      string         `json:"productId,omitempty"`
	ZoneID         string         `json:"zoneId,omitempty"`
	CurrentValue   float64        `json:"currentValue,omitempty"`
	SuggestedValue float64        `json:"suggestedValue,omitempty"`
	EstimatedIRR   float64        `json:"estimatedIrr"`
	Detail         string         `json:"detail,omitempty"`
	Overrides      []Override     `json:"overrides,omitempty"`
}
