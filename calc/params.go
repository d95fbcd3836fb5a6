// Package calc holds the pure balance arithmetic behind the dashboard: daily
// trade plans, manual trade levels, compounding projections and withdrawal
// suggestions. Nothing in here performs I/O or keeps state between calls.
package calc

import "fmt"

// Params are the account-wide constants shared by every instrument.
type Params struct {
	RiskFraction        float64 `json:"risk_fraction" yaml:"risk_fraction"`
	DailyTargetFraction float64 `json:"daily_target_fraction" yaml:"daily_target_fraction"`
	DailyGrowthRate     float64 `json:"daily_growth_rate" yaml:"daily_growth_rate"`

	TradingDaysPerMonth int `json:"trading_days_per_month" yaml:"trading_days_per_month"`
	TradingDaysPerYear  int `json:"trading_days_per_year" yaml:"trading_days_per_year"`

	WithdrawalSteps    int     `json:"withdrawal_steps" yaml:"withdrawal_steps"`
	WithdrawalFraction float64 `json:"withdrawal_fraction" yaml:"withdrawal_fraction"`
}

// DefaultParams returns the canonical rule set.
func DefaultParams() Params {
	return Params{
		RiskFraction:        0.01,
		DailyTargetFraction: 0.02,
		DailyGrowthRate:     0.02,
		TradingDaysPerMonth: 20,
		TradingDaysPerYear:  250,
		WithdrawalSteps:     20,
		WithdrawalFraction:  0.05,
	}
}

// Validate checks every fraction is in (0, 1] and every step count positive.
func (p Params) Validate() error {
	fractions := []struct {
		name string
		v    float64
	}{
		{"risk_fraction", p.RiskFraction},
		{"daily_target_fraction", p.DailyTargetFraction},
		{"daily_growth_rate", p.DailyGrowthRate},
		{"withdrawal_fraction", p.WithdrawalFraction},
	}
	for _, f := range fractions {
		if f.v <= 0 || f.v > 1 {
			return fmt.Errorf("%s must be between 0 and 1", f.name)
		}
	}
	if p.TradingDaysPerMonth <= 0 {
		return fmt.Errorf("trading_days_per_month must be positive")
	}
	if p.TradingDaysPerYear <= 0 {
		return fmt.Errorf("trading_days_per_year must be positive")
	}
	if p.WithdrawalSteps <= 0 {
		return fmt.Errorf("withdrawal_steps must be positive")
	}
	return nil
}

// Engine evaluates the formulas for one parameter set. Instrument constants
// are passed per call as a market.Spec.
type Engine struct {
	p Params
}

func NewEngine(p Params) *Engine {
	return &Engine{p: p}
}

func (e *Engine) Params() Params { return e.p }
