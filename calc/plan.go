package calc

import (
	"fmt"

	"github.com/rustyeddy/tradedash/market"
)

type TradeStatus int

const (
	Pending TradeStatus = iota
	Completed
)

func (s TradeStatus) String() string {
	if s == Completed {
		return "Completed"
	}
	return "Pending"
}

func (s TradeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TradeStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Pending":
		*s = Pending
	case "Completed":
		*s = Completed
	default:
		return fmt.Errorf("invalid trade status %q", b)
	}
	return nil
}

type TradeDetail struct {
	TradeNumber int         `json:"trade_number"`
	Lots        float64     `json:"lots"`
	Profit      float64     `json:"profit"`
	Percent     float64     `json:"percent"`
	Status      TradeStatus `json:"status"`
}

type TradeGroup struct {
	Name   string        `json:"name"`
	Trades []TradeDetail `json:"trades"`
}

// TradePlan is the derived daily schedule for one balance. It is rebuilt on
// every change and never persisted.
type TradePlan struct {
	Instrument          market.Instrument `json:"instrument"`
	Balance             float64           `json:"balance"`
	DailyTargetAmount   float64           `json:"daily_target_amount"`
	TotalTradesRequired int               `json:"total_trades_required"`
	CompletedTrades     int               `json:"completed_trades"`
	RemainingTrades     int               `json:"remaining_trades"`
	Groups              []TradeGroup      `json:"groups"`
}

// Empty reports whether the plan has no trades to take.
func (p TradePlan) Empty() bool {
	return p.TotalTradesRequired == 0
}

// MarkProgress walks every trade across all groups in order and marks it
// Completed when its zero-based index is below completed.
func (p *TradePlan) MarkProgress(completed int) {
	if completed < 0 {
		completed = 0
	}
	idx := 0
	done := 0
	for g := range p.Groups {
		for t := range p.Groups[g].Trades {
			if completed > idx {
				p.Groups[g].Trades[t].Status = Completed
				done++
			} else {
				p.Groups[g].Trades[t].Status = Pending
			}
			idx++
		}
	}
	p.CompletedTrades = done
	p.RemainingTrades = p.TotalTradesRequired - done
}

// LotSize is the risk sized lot for a balance: balance x risk fraction spread
// over riskPips, clamped into the instrument's lot range and rounded to its
// lot precision.
func (e *Engine) LotSize(balance float64, spec market.Spec, riskPips float64) float64 {
	if riskPips <= 0 {
		riskPips = spec.ReferencePips
	}
	pipValue := spec.PipValue
	if pipValue <= 0 {
		pipValue = 1
	}
	raw := balance * e.p.RiskFraction / (riskPips * pipValue)
	return roundTo(clamp(raw, spec.MinLot, spec.MaxLot), spec.LotDecimals)
}

// ComputeTradePlan builds the daily plan for balance. Every trade starts
// Pending; use MarkProgress to apply today's trade count.
func (e *Engine) ComputeTradePlan(balance float64, spec market.Spec) TradePlan {
	plan := TradePlan{
		Instrument: spec.Instrument,
		Balance:    balance,
		Groups:     []TradeGroup{},
	}
	if !finite(balance) || balance <= 0 {
		return plan
	}

	lots := e.LotSize(balance, spec, spec.ReferencePips)
	profit := lots * spec.TakeProfitPips * spec.PipValue
	pct := profit / balance * 100

	plan.DailyTargetAmount = balance * e.p.DailyTargetFraction

	n := 0
	for gi, count := range spec.Groups {
		g := TradeGroup{Name: fmt.Sprintf("Group %d", gi+1)}
		for i := 0; i < count; i++ {
			n++
			g.Trades = append(g.Trades, TradeDetail{
				TradeNumber: n,
				Lots:        lots,
				Profit:      profit,
				Percent:     pct,
				Status:      Pending,
			})
		}
		plan.Groups = append(plan.Groups, g)
	}
	plan.TotalTradesRequired = n
	plan.RemainingTrades = n
	return plan
}
