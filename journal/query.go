package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradedash/market"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBalance(row rowScanner) (BalanceRecord, error) {
	var (
		rec  BalanceRecord
		inst string
	)
	err := row.Scan(
		&rec.ID,
		&inst,
		&rec.Time,
		&rec.Previous,
		&rec.Balance,
		&rec.TradesToday,
	)
	rec.Instrument = market.Instrument(inst)
	return rec, err
}

// Get returns a single balance update by ID.
func (j *SQLite) Get(recordID string) (BalanceRecord, error) {
	row := j.db.QueryRow(`
		SELECT id, instrument, time, previous, balance, trades_today
		FROM balance_updates
		WHERE id = ?`, recordID)

	rec, err := scanBalance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BalanceRecord{}, fmt.Errorf("balance update %q not found", recordID)
		}
		return BalanceRecord{}, err
	}
	return rec, nil
}

// ListBetween returns the instrument's updates within [start, end), oldest
// first.
func (j *SQLite) ListBetween(inst market.Instrument, start, end time.Time) ([]BalanceRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, instrument, time, previous, balance, trades_today
		FROM balance_updates
		WHERE instrument = ? AND time >= ? AND time < ?
		ORDER BY time ASC, id ASC`, string(inst), start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BalanceRecord
	for rows.Next() {
		rec, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary is the net balance movement over a list of updates.
type Summary struct {
	Updates   int
	NetChange float64
	Start     float64
	End       float64
}

func Summarize(recs []BalanceRecord) Summary {
	var s Summary
	if len(recs) == 0 {
		return s
	}
	s.Updates = len(recs)
	s.Start = recs[0].Previous
	s.End = recs[len(recs)-1].Balance
	s.NetChange = s.End - s.Start
	return s
}
