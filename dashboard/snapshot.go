package dashboard

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/market"
)

// Metric labels, in display order.
const (
	MetricBalance      = "Current Balance"
	MetricDaysToTarget = "Days to Target"
	MetricTodayTarget  = "Today's Target"
	MetricTodayRisk    = "Today's Risk"
	MetricLotSize      = "Recommended Lot"
)

type Metric struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Copyable bool   `json:"copyable"`
}

type Snapshot struct {
	Instrument  market.Instrument `json:"instrument"`
	State       string            `json:"state"`
	Balance     float64           `json:"balance"`
	TradesToday int               `json:"trades_today"`
	LastDate    string            `json:"last_trade_date"`
	Plan        *calc.TradePlan   `json:"plan"`
	Metrics     []Metric          `json:"metrics"`
}

// Metric finds a metric by label, ignoring case.
func (s Snapshot) Metric(label string) (Metric, bool) {
	for _, m := range s.Metrics {
		if strings.EqualFold(m.Label, strings.TrimSpace(label)) {
			return m, true
		}
	}
	return Metric{}, false
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Instrument:  c.inst,
		State:       c.state.String(),
		Balance:     c.balance,
		TradesToday: c.tradesToday,
		LastDate:    c.lastDate,
		Plan:        c.planLocked(),
		Metrics:     c.metricsLocked(),
	}
}

func (c *Controller) metricsLocked() []Metric {
	p := c.engine.Params()
	b := c.balance

	days, target, risk, lot := calc.Unset, calc.Unset, calc.Unset, calc.Unset
	if b > 0 {
		switch n := c.engine.DaysToTarget(b, c.spec.TargetBalance); n {
		case 0:
			days = "reached"
		case 1:
			days = "1 day"
		default:
			days = fmt.Sprintf("%d days", n)
		}
		target = calc.Money(b * p.DailyTargetFraction)
		risk = calc.Money(b * p.RiskFraction)
		lot = calc.Fixed(c.engine.LotSize(b, c.spec, c.spec.ReferencePips), c.spec.LotDecimals)
	}

	return []Metric{
		{Label: MetricBalance, Value: calc.Money(b), Copyable: true},
		{Label: MetricDaysToTarget, Value: days},
		{Label: MetricTodayTarget, Value: target, Copyable: true},
		{Label: MetricTodayRisk, Value: risk, Copyable: true},
		{Label: MetricLotSize, Value: lot, Copyable: true},
	}
}
