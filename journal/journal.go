// journal/journal.go
package journal

import (
	"time"

	"github.com/rustyeddy/tradedash/market"
)

// BalanceRecord is one recorded balance update. Previous is the balance
// before the update and TradesToday the counter after it.
type BalanceRecord struct {
	ID          string
	Instrument  market.Instrument
	Time        time.Time
	Previous    float64
	Balance     float64
	TradesToday int
}

// Change is the signed difference the update made to the balance.
func (r BalanceRecord) Change() float64 {
	return r.Balance - r.Previous
}

type Journal interface {
	RecordBalance(BalanceRecord) error
	Close() error
}
