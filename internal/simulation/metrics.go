package simulation

import "math"

// Calculate derives the investment metrics for a configuration. The advisor
// is consulted only when the solved IRR fails to clear the target rate.
func (e *Engine) Calculate(investment float64, selections []Selection, horizon int) Metrics {
	rows := e.Project(investment, selections, horizon)

	npv := -investment
	for i := 1; i < len(rows); i++ {
		npv += rows[i].NetCashFlow / math.Pow(1+discountRate, float64(i))
	}

	irrDecimal := e.solveIRR(cashFlowVector(investment, rows))

	totalCashFlow := rows[len(rows)-1].CumulativeCashFlow
	var roi float64
	if investment > 0 {
		roi = totalCashFlow / investment * 100
	}

	payback := 0
	for i := 1; i < len(rows); i++ {
		if rows[i].CumulativeCashFlow >= 0 {
			payback = i
			break
		}
	}
	if payback == 0 {
		payback = horizon
	}

	m := Metrics{
		NPV:           math.Round(npv),
		IRR:           irrDecimal * 100,
		ROI:           roi,
		PaybackPeriod: payback,
		TotalCashFlow: math.Round(totalCashFlow),
	}
	if !(isFinite(irrDecimal) && irrDecimal > e.target) {
		m.Suggestions = e.Suggest(investment, selections, horizon)
	}
	return m
}

// cashFlowVector assembles the sequence the IRR solver consumes: the initial
// outflow followed by each projected period's net cash flow.
func cashFlowVector(investment float64, rows []PeriodRow) []float64 {
	flows := make([]float64, 0, len(rows))
	flows = append(flows, -investment)
	for _, row := range rows[1:] {
		flows = append(flows, row.NetCashFlow)
	}
	return flows
}
