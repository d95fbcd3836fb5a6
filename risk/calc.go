package risk

import "math"

// PlannedRisk is the account currency lost if the stop is hit.
func PlannedRisk(lots, stopPips, pipValue float64) float64 {
	return math.Abs(lots) * math.Abs(stopPips) * pipValue
}

// RR is the reward to risk ratio of the two pip distances.
func RR(takeProfitPips, stopPips float64) float64 {
	if stopPips == 0 {
		return 0
	}
	return math.Abs(takeProfitPips) / math.Abs(stopPips)
}

func RiskPct(plannedRisk, balance float64) float64 {
	if balance <= 0 {
		return math.Inf(1)
	}
	return plannedRisk / balance
}
