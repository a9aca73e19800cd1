package simulation

import (
	"fmt"
	"math"
)

// lineState carries the running unit economics of one valid selection across
// period iterations. Price and cost compound independently at the end of
// every period.
type lineState struct {
	quantity int
	price    float64
	cost     float64
	increase float64
}

// Project builds the period-by-period cash-flow table. Period 0 recognizes
// the investment outflow; periods 1..horizon aggregate sales, cost of goods,
// and overhead across selections. Selections with an unknown product id or a
// non-positive quantity contribute nothing.
func (e *Engine) Project(investment float64, selections []Selection, horizon int) []PeriodRow {
	cumulative := -investment

	var valid []Selection
	for _, sel := range selections {
		if sel.ProductID != "" && sel.Quantity > 0 {
			valid = append(valid, sel)
		}
	}
	if len(valid) == 0 {
		return []PeriodRow{zeroPeriodRow(investment)}
	}

	rows := make([]PeriodRow, 0, horizon+1)
	rows = append(rows, zeroPeriodRow(investment))

	states := make([]lineState, 0, len(valid))
	for _, sel := range valid {
		product, ok := e.catalog.ProductByID(sel.ProductID)
		if !ok {
			continue
		}
		states = append(states, lineState{
			quantity: sel.Quantity,
			price:    e.effectivePrice(product, sel),
			cost:     product.BaseCost,
			increase: product.AnnualIncrease,
		})
	}

	for period := 1; period <= horizon; period++ {
		var monthlyPriceSum, monthlyCostSum float64
		for _, s := range states {
			monthlyPriceSum += s.price * float64(s.quantity)
			monthlyCostSum += s.cost * float64(s.quantity)
		}

		// Monthly unit economics annualized.
		sales := monthlyPriceSum * 12
		cost := monthlyCostSum * 12
		overhead := sales * 0.2

		netCashFlow := sales - cost - overhead
		cumulative += netCashFlow

		rows = append(rows, PeriodRow{
			Label:              periodLabel(period),
			Sales:              math.Round(sales),
			Cost:               math.Round(cost),
			Overhead:           math.Round(overhead),
			NetCashFlow:        math.Round(netCashFlow),
			CumulativeCashFlow: math.Round(cumulative),
		})

		for i := range states {
			states[i].price *= 1 + states[i].increase
			states[i].cost *= 1 + states[i].increase
		}
	}

	return rows
}

func zeroPeriodRow(investment float64) PeriodRow {
	return PeriodRow{
		Label:              periodLabel(0),
		Investment:         investment,
		NetCashFlow:        -investment,
		CumulativeCashFlow: -investment,
	}
}

func periodLabel(period int) string {
	return fmt.Sprintf("Año %d", period)
}
