package calc

import (
	"fmt"
	"math"
	"strings"
)

type Frequency int

const (
	Daily Frequency = iota
	Monthly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	}
	return "daily"
}

func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "days", "d":
		return Daily, nil
	case "monthly", "month", "months", "m":
		return Monthly, nil
	case "yearly", "year", "years", "y":
		return Yearly, nil
	}
	return Daily, fmt.Errorf("invalid frequency %q (want daily, monthly or yearly)", s)
}

// Compounding is a projected balance after growing for a number of periods.
type Compounding struct {
	ProjectedBalance float64
	TotalGrowth      float64
	Valid            bool
}

// Withdrawal is the growth earned over the withdrawal window and the share of
// it that can be taken out.
type Withdrawal struct {
	TotalGrowth        float64
	WithdrawableAmount float64
	Valid              bool
}

type CompoundingDisplay struct {
	ProjectedBalance string `json:"projected_balance"`
	TotalGrowth      string `json:"total_growth"`
}

type WithdrawalDisplay struct {
	TotalGrowth        string `json:"total_growth"`
	WithdrawableAmount string `json:"withdrawable_amount"`
}

func (c Compounding) Display() CompoundingDisplay {
	if !c.Valid {
		return CompoundingDisplay{Unset, Unset}
	}
	return CompoundingDisplay{Money(c.ProjectedBalance), Money(c.TotalGrowth)}
}

func (w Withdrawal) Display() WithdrawalDisplay {
	if !w.Valid {
		return WithdrawalDisplay{Unset, Unset}
	}
	return WithdrawalDisplay{Money(w.TotalGrowth), Money(w.WithdrawableAmount)}
}

// Steps converts periods of the given frequency into daily growth steps.
func (e *Engine) Steps(f Frequency, periods int) int {
	switch f {
	case Monthly:
		return periods * e.p.TradingDaysPerMonth
	case Yearly:
		return periods * e.p.TradingDaysPerYear
	}
	return periods
}

func (e *Engine) growthFactor(steps int) float64 {
	return math.Pow(1+e.p.DailyGrowthRate, float64(steps))
}

// ComputeCompounding projects initial forward at the daily growth rate.
func (e *Engine) ComputeCompounding(initial float64, f Frequency, periods int) Compounding {
	if !finite(initial) || initial <= 0 || periods <= 0 {
		return Compounding{}
	}
	projected := initial * e.growthFactor(e.Steps(f, periods))
	if !finite(projected) {
		return Compounding{}
	}
	return Compounding{
		ProjectedBalance: projected,
		TotalGrowth:      projected - initial,
		Valid:            true,
	}
}

// ComputeWithdrawal discounts current back over the withdrawal window to find
// the starting balance, then offers a fixed share of the growth.
func (e *Engine) ComputeWithdrawal(current float64) Withdrawal {
	if !finite(current) || current <= 0 {
		return Withdrawal{}
	}
	start := current / e.growthFactor(e.p.WithdrawalSteps)
	growth := current - start
	return Withdrawal{
		TotalGrowth:        growth,
		WithdrawableAmount: growth * e.p.WithdrawalFraction,
		Valid:              true,
	}
}

// DaysToTarget estimates how many trading days of compounding at the daily
// growth rate take balance to target. It returns 0 when the target is already
// reached and -1 when balance is not positive.
func (e *Engine) DaysToTarget(balance, target float64) int {
	if !finite(balance) || balance <= 0 {
		return -1
	}
	if balance >= target {
		return 0
	}
	return int(math.Ceil(math.Log(target/balance) / math.Log(1+e.p.DailyGrowthRate)))
}
