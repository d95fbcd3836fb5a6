package risk

import "fmt"

// Policy bounds a manual trade. Fractions are of the current balance.
type Policy struct {
	MaxRiskPct float64 `json:"max_risk_pct" yaml:"max_risk_pct"` // 0.02
	MinRR      float64 `json:"min_rr" yaml:"min_rr"`             // 0.5
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRiskPct: 0.02,
		MinRR:      0.5,
	}
}

func (p Policy) Validate() error {
	if !(p.MaxRiskPct > 0 && p.MaxRiskPct <= 1) {
		return fmt.Errorf("max_risk_pct must be in (0, 1], got %v", p.MaxRiskPct)
	}
	if p.MinRR < 0 {
		return fmt.Errorf("min_rr must not be negative, got %v", p.MinRR)
	}
	return nil
}
