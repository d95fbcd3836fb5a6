package calc

import (
	"testing"

	"github.com/rustyeddy/tradedash/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"rise", "Buy", "LONG", " up "} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		assert.Equal(t, Rise, d)
	}
	for _, s := range []string{"fall", "sell", "short", "Down"} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		assert.Equal(t, Fall, d)
	}
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestComputeTradeLevelsGoldRise(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	got := e.ComputeTradeLevels(TradeLevelsInput{
		EntryPrice:     2000,
		Direction:      Rise,
		TakeProfitPips: 1000,
		StopLossPips:   500,
		Balance:        1000,
	}, market.MustLookup(market.XAUUSD))

	assert.True(t, got.PricesSet)
	assert.True(t, got.LotSet)
	assert.InDelta(t, 2010.0, got.TakeProfit, 1e-9)
	assert.InDelta(t, 1995.0, got.StopLoss, 1e-9)
	assert.InDelta(t, 0.02, got.LotSize, 1e-12)

	d := got.Display()
	assert.Equal(t, "2010.00", d.TakeProfit)
	assert.Equal(t, "1995.00", d.StopLoss)
	assert.Equal(t, "0.02", d.LotSize)
}

func TestComputeTradeLevelsV75Fall(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	got := e.ComputeTradeLevels(TradeLevelsInput{
		EntryPrice:     400000,
		Direction:      Fall,
		TakeProfitPips: 500,
		StopLossPips:   1000,
		Balance:        1000,
	}, market.MustLookup(market.V75))

	d := got.Display()
	assert.Equal(t, "399500.00", d.TakeProfit)
	assert.Equal(t, "401000.00", d.StopLoss)
	assert.Equal(t, "0.010", d.LotSize)
}

func TestComputeTradeLevelsOrdering(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	entries := []float64{0.5, 1.0851, 150.25, 2350.7, 410000}
	pips := []float64{1, 10, 250, 1000}

	for _, inst := range market.All() {
		spec := market.MustLookup(inst)
		for _, entry := range entries {
			for _, p := range pips {
				rise := e.ComputeTradeLevels(TradeLevelsInput{
					EntryPrice: entry, Direction: Rise, TakeProfitPips: p, StopLossPips: p, Balance: 1000,
				}, spec)
				assert.Greater(t, rise.TakeProfit, entry)
				assert.Greater(t, entry, rise.StopLoss)

				fall := e.ComputeTradeLevels(TradeLevelsInput{
					EntryPrice: entry, Direction: Fall, TakeProfitPips: p, StopLossPips: p, Balance: 1000,
				}, spec)
				assert.Less(t, fall.TakeProfit, entry)
				assert.Less(t, entry, fall.StopLoss)
			}
		}
	}
}

func TestComputeTradeLevelsStopDistanceSizesLot(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	spec := market.MustLookup(market.XAUUSD)

	tight := e.ComputeTradeLevels(TradeLevelsInput{EntryPrice: 2000, StopLossPips: 250, Balance: 1000}, spec)
	wide := e.ComputeTradeLevels(TradeLevelsInput{EntryPrice: 2000, StopLossPips: 1000, Balance: 1000}, spec)

	assert.InDelta(t, 0.04, tight.LotSize, 1e-12)
	assert.InDelta(t, 0.01, wide.LotSize, 1e-12)
}

func TestComputeTradeLevelsDefaultsPips(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	spec := market.MustLookup(market.XAUUSD)
	got := e.ComputeTradeLevels(TradeLevelsInput{EntryPrice: 2000, Balance: 1000}, spec)

	assert.InDelta(t, 2000+spec.TakeProfitPips*spec.PipSize, got.TakeProfit, 1e-9)
	assert.InDelta(t, 2000-spec.StopLossPips*spec.PipSize, got.StopLoss, 1e-9)
	assert.InDelta(t, 0.02, got.LotSize, 1e-12)
}

func TestComputeTradeLevelsUnset(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	spec := market.MustLookup(market.XAUUSD)

	noEntry := e.ComputeTradeLevels(TradeLevelsInput{Balance: 1000, TakeProfitPips: 100, StopLossPips: 100}, spec).Display()
	assert.Equal(t, Unset, noEntry.TakeProfit)
	assert.Equal(t, Unset, noEntry.StopLoss)
	assert.Equal(t, "0.10", noEntry.LotSize)

	noBalance := e.ComputeTradeLevels(TradeLevelsInput{EntryPrice: 2000, TakeProfitPips: 100, StopLossPips: 100}, spec).Display()
	assert.Equal(t, LevelsDisplay{Unset, Unset, Unset}, noBalance)
}
