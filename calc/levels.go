package calc

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradedash/market"
)

type Direction int

const (
	Rise Direction = iota
	Fall
)

func (d Direction) String() string {
	if d == Fall {
		return "fall"
	}
	return "rise"
}

// ParseDirection accepts rise/buy/long/up and fall/sell/short/down.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rise", "buy", "long", "up":
		return Rise, nil
	case "fall", "sell", "short", "down":
		return Fall, nil
	}
	return Rise, fmt.Errorf("invalid direction %q (want rise or fall)", s)
}

type TradeLevelsInput struct {
	EntryPrice     float64
	Direction      Direction
	TakeProfitPips float64
	StopLossPips   float64
	Balance        float64
}

// TradeLevels is the result of a manual what-if trade. PricesSet is false when
// no entry price was given or there is no balance; LotSet is false when there
// is no balance.
type TradeLevels struct {
	TakeProfit float64
	StopLoss   float64
	LotSize    float64
	PricesSet  bool
	LotSet     bool

	// Pip distances actually used, after defaults were applied.
	TakeProfitPips float64
	StopLossPips   float64

	priceDecimals int32
	lotDecimals   int32
}

type LevelsDisplay struct {
	TakeProfit string `json:"take_profit"`
	StopLoss   string `json:"stop_loss"`
	LotSize    string `json:"lot_size"`
}

// Display formats the levels to the instrument precisions, using Unset for
// values that could not be computed.
func (l TradeLevels) Display() LevelsDisplay {
	d := LevelsDisplay{TakeProfit: Unset, StopLoss: Unset, LotSize: Unset}
	if l.PricesSet {
		d.TakeProfit = Fixed(l.TakeProfit, l.priceDecimals)
		d.StopLoss = Fixed(l.StopLoss, l.priceDecimals)
	}
	if l.LotSet {
		d.LotSize = Fixed(l.LotSize, l.lotDecimals)
	}
	return d
}

// ComputeTradeLevels converts pip distances to take-profit and stop-loss
// prices around the entry and sizes the position against the stop distance.
// Pip distances that are not positive fall back to the instrument defaults.
func (e *Engine) ComputeTradeLevels(in TradeLevelsInput, spec market.Spec) TradeLevels {
	out := TradeLevels{
		priceDecimals: spec.PriceDecimals,
		lotDecimals:   spec.LotDecimals,
	}

	tpPips := in.TakeProfitPips
	if tpPips <= 0 {
		tpPips = spec.TakeProfitPips
	}
	slPips := in.StopLossPips
	riskPips := slPips
	if slPips <= 0 {
		slPips = spec.StopLossPips
		riskPips = spec.ReferencePips
	}
	out.TakeProfitPips = tpPips
	out.StopLossPips = slPips

	hasBalance := finite(in.Balance) && in.Balance > 0
	if hasBalance && finite(in.EntryPrice) && in.EntryPrice != 0 {
		tpDelta := tpPips * spec.PipSize
		slDelta := slPips * spec.PipSize
		if in.Direction == Rise {
			out.TakeProfit = in.EntryPrice + tpDelta
			out.StopLoss = in.EntryPrice - slDelta
		} else {
			out.TakeProfit = in.EntryPrice - tpDelta
			out.StopLoss = in.EntryPrice + slDelta
		}
		out.PricesSet = true
	}

	if hasBalance {
		out.LotSize = e.LotSize(in.Balance, spec, riskPips)
		out.LotSet = true
	}
	return out
}
