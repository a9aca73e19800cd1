package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNPVAtFixedDiscount(t *testing.T) {
	engine, _ := newTestEngine()

	// prod-a, qty 1: net 480 per period.
	sel := []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}}
	m := engine.Calculate(2000, sel, 3)

	// -2000 + 480/1.1 + 480/1.21 + 480/1.331, rounded.
	assert.Equal(t, -806.0, m.NPV)
}

func TestCalculateROI(t *testing.T) {
	engine, _ := newTestEngine()
	sel := []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}}

	m := engine.Calculate(2000, sel, 3)
	// total = -2000 + 3*480 = -560
	assert.Equal(t, -560.0, m.TotalCashFlow)
	assert.InDelta(t, -28.0, m.ROI, 1e-9)
}

func TestCalculateROIGuardedForZeroInvestment(t *testing.T) {
	engine, _ := newTestEngine()

	m := engine.Calculate(0, nil, 3)
	assert.Zero(t, m.ROI)
	assert.Zero(t, m.NPV)
}

func TestCalculatePaybackExactCrossing(t *testing.T) {
	engine, _ := newTestEngine()
	sel := []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}}

	// Cumulative: -1440+480 = -960, -480, 0 → crosses at period 3.
	m := engine.Calculate(1440, sel, 5)
	assert.Equal(t, 3, m.PaybackPeriod)
}

func TestCalculatePaybackNeverReachedEqualsHorizon(t *testing.T) {
	engine, _ := newTestEngine()
	sel := []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}}

	m := engine.Calculate(1_000_000, sel, 4)
	assert.Equal(t, 4, m.PaybackPeriod)
}

func TestCalculateIRRReportedAsPercentage(t *testing.T) {
	engine, _ := newTestEngine()
	sel := []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}}

	// [-1000, 480, 480, 480] has IRR just above 20%.
	m := engine.Calculate(1000, sel, 3)
	assert.Greater(t, m.IRR, 20.0)
	assert.Less(t, m.IRR, 30.0)
}

func TestSuggestionsPresentOnlyBelowTarget(t *testing.T) {
	engine, _ := newTestEngine()
	sel := []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}}

	healthy := engine.Calculate(1000, sel, 3)
	assert.Nil(t, healthy.Suggestions, "no suggestions above target")

	struggling := engine.Calculate(2000, sel, 3)
	require.NotNil(t, struggling.Suggestions)
	assert.LessOrEqual(t, len(struggling.Suggestions), 2)
}
