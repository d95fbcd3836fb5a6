package risk

import (
	"fmt"

	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/market"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations"`

	PlannedRisk    float64 `json:"planned_risk"`
	PlannedRiskPct float64 `json:"planned_risk_pct"`
	PlannedRR      float64 `json:"planned_rr"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Evaluate checks computed trade levels against the policy. Lot clamping to
// the instrument minimum is what usually pushes risk over the limit on small
// balances.
func Evaluate(p Policy, l calc.TradeLevels, balance float64, spec market.Spec) Decision {
	d := Decision{Allowed: true, Violations: []Violation{}}

	if !l.LotSet || balance <= 0 {
		d.add("NO_BALANCE", "set a balance to size the trade")
		return d
	}

	pipValue := spec.PipValue
	if pipValue <= 0 {
		pipValue = 1
	}
	d.PlannedRisk = PlannedRisk(l.LotSize, l.StopLossPips, pipValue)
	d.PlannedRiskPct = RiskPct(d.PlannedRisk, balance)
	d.PlannedRR = RR(l.TakeProfitPips, l.StopLossPips)

	if d.PlannedRiskPct > p.MaxRiskPct {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("planned risk %.2f%% exceeds max %.2f%%",
				100*d.PlannedRiskPct, 100*p.MaxRiskPct))
	}
	if d.PlannedRR < p.MinRR {
		d.add("RR_TOO_LOW",
			fmt.Sprintf("RR %.2f below minimum %.2f", d.PlannedRR, p.MinRR))
	}
	return d
}
