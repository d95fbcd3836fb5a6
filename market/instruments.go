// market/instruments.go
package market

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownInstrument = errors.New("unknown instrument")

// Instrument is one of the two tradable symbols the dashboard supports.
type Instrument string

const (
	XAUUSD Instrument = "XAUUSD"
	V75    Instrument = "V75"
)

// Spec is the immutable constant set for an instrument.
type Spec struct {
	Name          string
	Instrument    Instrument
	PipSize       float64 // price move of one pip
	MinLot        float64
	MaxLot        float64
	LotDecimals   int32
	PriceDecimals int32

	StopLossPips   float64
	TakeProfitPips float64
	ReferencePips  float64 // pips that correspond to the risk fraction
	PipValue       float64 // account currency per pip per standard lot

	// Groups lists the number of trades in each trade group of a daily plan.
	Groups []int

	SeedBalance   float64
	TargetBalance float64
}

var specs = map[Instrument]Spec{
	XAUUSD: {
		Name:           "Gold / US Dollar",
		Instrument:     XAUUSD,
		PipSize:        0.01,
		MinLot:         0.01,
		MaxLot:         100,
		LotDecimals:    2,
		PriceDecimals:  2,
		StopLossPips:   500,
		TakeProfitPips: 1000,
		ReferencePips:  500,
		PipValue:       1,
		Groups:         []int{1},
		SeedBalance:    1000,
		TargetBalance:  100000,
	},
	V75: {
		Name:           "Volatility 75 Index",
		Instrument:     V75,
		PipSize:        1,
		MinLot:         0.001,
		MaxLot:         10,
		LotDecimals:    3,
		PriceDecimals:  2,
		StopLossPips:   1000,
		TakeProfitPips: 500,
		ReferencePips:  1000,
		PipValue:       1,
		Groups:         []int{2, 2},
		SeedBalance:    1000,
		TargetBalance:  100000,
	},
}

// All returns the supported instruments in display order.
func All() []Instrument {
	return []Instrument{XAUUSD, V75}
}

// Lookup returns the constant set for an instrument. The Groups slice is a
// copy so callers cannot mutate the registry.
func Lookup(i Instrument) (Spec, error) {
	s, ok := specs[i]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownInstrument, i)
	}
	s.Groups = append([]int(nil), s.Groups...)
	return s, nil
}

// MustLookup is Lookup for instruments known at compile time.
func MustLookup(i Instrument) Spec {
	s, err := Lookup(i)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse accepts the common spellings used on the command line and in URLs.
func Parse(s string) (Instrument, error) {
	n := strings.ToUpper(strings.TrimSpace(s))
	n = strings.NewReplacer("_", "", "/", "", "-", "").Replace(n)
	switch n {
	case "XAUUSD", "GOLD", "XAU":
		return XAUUSD, nil
	case "V75", "VIX75", "VOLATILITY75":
		return V75, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInstrument, s)
}

func (i Instrument) String() string { return string(i) }

// Key builds an instrument scoped storage key, e.g. XAUUSD_currentBalance.
func (i Instrument) Key(suffix string) string {
	return string(i) + "_" + suffix
}

// TradesPerDay is the total number of trades across all groups.
func (s Spec) TradesPerDay() int {
	n := 0
	for _, g := range s.Groups {
		n += g
	}
	return n
}
