package simulation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/simula-fin/simula/internal/catalog"
)

const (
	maxPriceFactor = 5.0
	maxUnitsFactor = 10.0
	factorEps      = 1e-6
	maxSuggestions = 2
)

// lineOverride patches one selection when probing a candidate configuration.
// Nil fields leave the original value in place.
type lineOverride struct {
	manualPrice *float64
	zoneID      string
	quantity    *int
}

// Suggest searches for minimal-magnitude price or quantity changes that push
// the projected IRR above target. Per-item searches bisect a multiplicative
// price factor and an integer quantity range; with two or more valid items a
// group search scales every item proportionally to its revenue share. The
// result is ranked group-first, then by estimated IRR, capped at two entries.
func (e *Engine) Suggest(investment float64, selections []Selection, horizon int) []Suggestion {
	var individual, group []Suggestion

	irrForOverrides := func(overrides map[int]lineOverride) float64 {
		modified := applyOverrides(selections, overrides)
		rows := e.Project(investment, modified, horizon)
		return e.solveIRR(cashFlowVector(investment, rows))
	}
	irrForOverrideAt := func(idx int, ov lineOverride) float64 {
		return irrForOverrides(map[int]lineOverride{idx: ov})
	}

	for idx, sel := range selections {
		product, ok := e.catalog.ProductByID(sel.ProductID)
		if !ok {
			continue
		}

		basePrice := e.effectivePrice(product, sel)
		baseQty := sel.Quantity

		if basePrice > 0 {
			low, high := 1.0, maxPriceFactor
			foundFactor := 0.0

			ceilingPrice := basePrice * high
			if irrForOverrideAt(idx, lineOverride{manualPrice: &ceilingPrice}) > e.target {
				for iter := 0; iter < 60; iter++ {
					mid := (low + high) / 2
					candidate := basePrice * mid
					if irrForOverrideAt(idx, lineOverride{manualPrice: &candidate}) > e.target {
						foundFactor = mid
						high = mid
					} else {
						low = mid
					}
					if high-low < factorEps {
						break
					}
				}
			}

			if foundFactor > 0 {
				suggestedPrice := round2(basePrice * foundFactor)
				estimated := irrForOverrideAt(idx, lineOverride{manualPrice: &suggestedPrice})
				individual = append(individual, Suggestion{
					Kind:           AdjustPrice,
					ProductID:      sel.ProductID,
					ZoneID:         sel.ZoneID,
					CurrentValue:   basePrice,
					SuggestedValue: suggestedPrice,
					EstimatedIRR:   estimated,
					Detail:         fmt.Sprintf("Aumentar precio ~%d%% (individual)", int(math.Round((foundFactor-1)*100))),
				})
			}
		}

		if baseQty > 0 {
			low := baseQty
			high := int(math.Ceil(float64(baseQty) * maxUnitsFactor))
			if baseQty+100 > high {
				high = baseQty + 100
			}
			foundQty := 0

			if q := high; irrForOverrideAt(idx, lineOverride{quantity: &q}) > e.target {
				for iter := 0; iter < 80; iter++ {
					mid := (low + high) / 2
					if mid == low {
						break
					}
					q := mid
					if irrForOverrideAt(idx, lineOverride{quantity: &q}) > e.target {
						foundQty = mid
						high = mid
					} else {
						low = mid
					}
				}
			}

			if foundQty > 0 {
				q := foundQty
				estimated := irrForOverrideAt(idx, lineOverride{quantity: &q})
				individual = append(individual, Suggestion{
					Kind:           AdjustUnits,
					ProductID:      sel.ProductID,
					ZoneID:         sel.ZoneID,
					CurrentValue:   float64(baseQty),
					SuggestedValue: float64(foundQty),
					EstimatedIRR:   estimated,
					Detail:         fmt.Sprintf("Aumentar unidades a %d (individual)", foundQty),
				})
			}
		}
	}

	shares := e.revenueShares(selections)
	if len(shares) >= 2 {
		if priceInd, priceGroup, ok := e.groupPriceSearch(shares, irrForOverrides); ok {
			individual = append(individual, priceInd...)
			group = append(group, priceGroup)
		}
		if unitsInd, unitsGroup, ok := e.groupUnitsSearch(shares, irrForOverrides); ok {
			individual = append(individual, unitsInd...)
			group = append(group, unitsGroup)
		}
	}

	sort.SliceStable(individual, func(i, j int) bool { return individual[i].EstimatedIRR > individual[j].EstimatedIRR })
	sort.SliceStable(group, func(i, j int) bool { return group[i].EstimatedIRR > group[j].EstimatedIRR })

	return assemble(individual, group, len(shares) >= 2)
}

// revenueShare pairs a valid selection with its slice of baseline revenue.
type revenueShare struct {
	index     int
	productID string
	zoneID    string
	price     float64
	qty       int
	share     float64
}

func (e *Engine) revenueShares(selections []Selection) []revenueShare {
	var shares []revenueShare
	var totalRevenue float64
	for idx, sel := range selections {
		if sel.ProductID == "" || sel.Quantity <= 0 {
			continue
		}
		var price float64
		if product, ok := e.catalog.ProductByID(sel.ProductID); ok {
			price = e.effectivePrice(product, sel)
		}
		shares = append(shares, revenueShare{
			index:     idx,
			productID: sel.ProductID,
			zoneID:    sel.ZoneID,
			price:     price,
			qty:       sel.Quantity,
		})
		totalRevenue += price * float64(sel.Quantity)
	}
	if totalRevenue <= 0 {
		return nil
	}
	for i := range shares {
		shares[i].share = shares[i].price * float64(shares[i].qty) / totalRevenue
	}
	return shares
}

// groupPriceSearch bisects a scalar k so that scaling each item's price by
// (1 + k*share) reaches target IRR. When k=5 would push an item past the 5x
// price ceiling, the search range shrinks to the largest admissible k.
func (e *Engine) groupPriceSearch(shares []revenueShare, irrFor func(map[int]lineOverride) float64) ([]Suggestion, Suggestion, bool) {
	overridesAt := func(k float64) map[int]lineOverride {
		out := make(map[int]lineOverride, len(shares))
		for _, sh := range shares {
			price := round2(sh.price * (1 + k*sh.share))
			out[sh.index] = lineOverride{manualPrice: &price, zoneID: catalog.ZoneOther}
		}
		return out
	}

	lowK, highK := 0.0, maxPriceFactor
	withinCeiling := true
	for _, sh := range shares {
		if 1+highK*sh.share > maxPriceFactor {
			withinCeiling = false
			break
		}
	}
	if !withinCeiling {
		allowableHigh := math.Inf(1)
		for _, sh := range shares {
			if sh.share > 0 {
				allowableHigh = math.Min(allowableHigh, (maxPriceFactor-1)/sh.share)
			}
		}
		if allowableHigh <= 0 {
			return nil, Suggestion{}, false
		}
		highK = math.Min(highK, allowableHigh)
	}

	if irrFor(overridesAt(highK)) <= e.target {
		return nil, Suggestion{}, false
	}

	foundK := -1.0
	for iter := 0; iter < 80; iter++ {
		mid := (lowK + highK) / 2
		if irrFor(overridesAt(mid)) > e.target {
			foundK = mid
			highK = mid
		} else {
			lowK = mid
		}
		if highK-lowK < factorEps {
			break
		}
	}
	if foundK < 0 {
		return nil, Suggestion{}, false
	}

	finalIRR := irrFor(overridesAt(foundK))

	var derived []Suggestion
	var overrides []Override
	var detailParts []string
	for _, sh := range shares {
		suggestedPrice := round2(sh.price * (1 + foundK*sh.share))
		pct := 0
		if sh.price > 0 {
			pct = int(math.Round((suggestedPrice/sh.price - 1) * 100))
		}
		derived = append(derived, Suggestion{
			Kind:           AdjustPrice,
			ProductID:      sh.productID,
			ZoneID:         sh.zoneID,
			CurrentValue:   sh.price,
			SuggestedValue: suggestedPrice,
			EstimatedIRR:   finalIRR,
			Detail:         fmt.Sprintf("+%d%% (derivado combinado)", pct),
		})
		overrides = append(overrides, Override{
			ProductID:      sh.productID,
			ZoneID:         sh.zoneID,
			CurrentValue:   sh.price,
			SuggestedValue: suggestedPrice,
		})
		detailParts = append(detailParts, fmt.Sprintf("%s +%d%%", sh.productID, pct))
	}

	groupSuggestion := Suggestion{
		Kind:         AdjustPrice,
		Group:        true,
		EstimatedIRR: finalIRR,
		Detail:       "Ajuste combinado de precios: " + strings.Join(detailParts, ", "),
		Overrides:    overrides,
	}
	return derived, groupSuggestion, true
}

// groupUnitsSearch mirrors groupPriceSearch for quantities, with k up to 10
// and ceil-rounded integer results.
func (e *Engine) groupUnitsSearch(shares []revenueShare, irrFor func(map[int]lineOverride) float64) ([]Suggestion, Suggestion, bool) {
	overridesAt := func(k float64) map[int]lineOverride {
		out := make(map[int]lineOverride, len(shares))
		for _, sh := range shares {
			qty := int(math.Ceil(float64(sh.qty) * (1 + k*sh.share)))
			q := qty
			out[sh.index] = lineOverride{quantity: &q}
		}
		return out
	}

	lowK, highK := 0.0, maxUnitsFactor
	if irrFor(overridesAt(highK)) <= e.target {
		return nil, Suggestion{}, false
	}

	foundK := -1.0
	for iter := 0; iter < 80; iter++ {
		mid := (lowK + highK) / 2
		if irrFor(overridesAt(mid)) > e.target {
			foundK = mid
			highK = mid
		} else {
			lowK = mid
		}
		if highK-lowK < factorEps {
			break
		}
	}
	if foundK < 0 {
		return nil, Suggestion{}, false
	}

	finalIRR := irrFor(overridesAt(foundK))

	var derived []Suggestion
	var overrides []Override
	var detailParts []string
	for _, sh := range shares {
		suggestedQty := int(math.Ceil(float64(sh.qty) * (1 + foundK*sh.share)))
		pct := int(math.Round((float64(suggestedQty)/float64(sh.qty) - 1) * 100))
		derived = append(derived, Suggestion{
			Kind:           AdjustUnits,
			ProductID:      sh.productID,
			ZoneID:         sh.zoneID,
			CurrentValue:   float64(sh.qty),
			SuggestedValue: float64(suggestedQty),
			EstimatedIRR:   finalIRR,
			Detail:         fmt.Sprintf("+%d%% (derivado combinado)", pct),
		})
		overrides = append(overrides, Override{
			ProductID:      sh.productID,
			ZoneID:         sh.zoneID,
			CurrentValue:   float64(sh.qty),
			SuggestedValue: float64(suggestedQty),
		})
		detailParts = append(detailParts, fmt.Sprintf("%s +%d%%", sh.productID, pct))
	}

	groupSuggestion := Suggestion{
		Kind:         AdjustUnits,
		Group:        true,
		EstimatedIRR: finalIRR,
		Detail:       "Ajuste combinado de unidades: " + strings.Join(detailParts, ", "),
		Overrides:    overrides,
	}
	return derived, groupSuggestion, true
}

// assemble applies the final selection policy: group suggestions first
// (price before units), then the highest-IRR individuals not duplicating an
// already chosen target, then any remaining groups, capped at two.
func assemble(individual, group []Suggestion, multiItem bool) []Suggestion {
	final := make([]Suggestion, 0, maxSuggestions)

	if multiItem {
		for _, kind := range []AdjustmentKind{AdjustPrice, AdjustUnits} {
			if len(final) >= maxSuggestions {
				break
			}
			for _, g := range group {
				if g.Kind == kind {
					final = append(final, g)
					break
				}
			}
		}
		for _, ind := range individual {
			if len(final) >= maxSuggestions {
				break
			}
			if hasTarget(final, ind) {
				continue
			}
			final = append(final, ind)
		}
		for _, g := range group {
			if len(final) >= maxSuggestions {
				break
			}
			if !containsGroup(final, g) {
				final = append(final, g)
			}
		}
		return final
	}

	for _, g := range group {
		if len(final) >= maxSuggestions {
			break
		}
		final = append(final, g)
	}
	for _, ind := range individual {
		if len(final) >= maxSuggestions {
			break
		}
		final = append(final, ind)
	}
	return final
}

func hasTarget(list []Suggestion, s Suggestion) bool {
	for _, f := range list {
		if !f.Group && f.ProductID == s.ProductID && f.Kind == s.Kind {
			return true
		}
	}
	return false
}

func containsGroup(list []Suggestion, g Suggestion) bool {
	for _, f := range list {
		if f.Group && f.Kind == g.Kind && f.Detail == g.Detail {
			return true
		}
	}
	return false
}

// applyOverrides clones the selection list with per-index patches applied.
func applyOverrides(selections []Selection, overrides map[int]lineOverride) []Selection {
	modified := make([]Selection, len(selections))
	copy(modified, selections)
	for idx, ov := range overrides {
		if idx < 0 || idx >= len(modified) {
			continue
		}
		if ov.manualPrice != nil {
			price := *ov.manualPrice
			modified[idx].ManualPrice = &price
		}
		if ov.zoneID != "" {
			modified[idx].ZoneID = ov.zoneID
		}
		if ov.quantity != nil {
			modified[idx].Quantity = *ov.quantity
		}
	}
	return modified
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
