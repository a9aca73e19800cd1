package simulation

import "math"

// SolveIRR finds the discount rate zeroing the net present value of the
// cash-flow sequence, where cashFlows[0] is the initial outflow. It runs
// Newton-Raphson first, then bisection on a fixed bracket, then a coarse
// grid scan; a non-finite result collapses to the -1 total-loss sentinel.
// The fallback chain is deterministic on purpose: the adjustment advisor
// bisects over repeated solves and needs stable convergence.
func SolveIRR(cashFlows []float64) float64 {
	rate, _ := solveIRR(cashFlows)
	return rate
}

func (e *Engine) solveIRR(cashFlows []float64) float64 {
	rate, grid := solveIRR(cashFlows)
	if grid && e.OnGridFallback != nil {
		e.OnGridFallback()
	}
	return rate
}

func solveIRR(cashFlows []float64) (irr float64, gridUsed bool) {
	npvAt := func(rate float64) float64 {
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= -0.999999 {
			return math.Inf(1)
		}
		var npv float64
		for i, cf := range cashFlows {
			npv += cf / math.Pow(1+rate, float64(i))
		}
		return npv
	}

	irr = 0.1
	converged := false

	for iter := 0; iter < 100; iter++ {
		var f, df float64
		for i, cf := range cashFlows {
			denom := math.Pow(1+irr, float64(i))
			f += cf / denom
			if i > 0 {
				df -= float64(i) * cf / math.Pow(1+irr, float64(i+1))
			}
		}

		if !isFinite(f) || !isFinite(df) {
			break
		}
		if math.Abs(f) < 1e-6 {
			converged = true
			break
		}
		if math.Abs(df) < 1e-12 {
			break
		}

		next := irr - f/df
		if !isFinite(next) || next <= -0.999999 {
			break
		}
		irr = next
	}

	if !converged {
		low, high := -0.9999, 10.0
		fLow, fHigh := npvAt(low), npvAt(high)

		switch {
		case math.Abs(fLow) < 1e-6:
			irr = low
			converged = true
		case math.Abs(fHigh) < 1e-6:
			irr = high
			converged = true
		case fLow*fHigh < 0:
			for iter := 0; iter < 200; iter++ {
				mid := (low + high) / 2
				fMid := npvAt(mid)
				if math.Abs(fMid) < 1e-6 {
					irr = mid
					converged = true
					break
				}
				if fLow*fMid < 0 {
					high = mid
					fHigh = fMid
				} else {
					low = mid
					fLow = fMid
				}
			}
			if !converged {
				irr = (low + high) / 2
			}
		default:
			gridUsed = true
			bestRate := irr
			bestVal := math.Abs(npvAt(irr))
			for r := -0.9; r <= 5; r += 0.05 {
				if v := math.Abs(npvAt(r)); v < bestVal {
					bestVal = v
					bestRate = r
				}
			}
			irr = bestRate
		}
	}

	if !isFinite(irr) {
		irr = -1
	}
	return irr, gridUsed
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
