package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/tradedash/pkg/id"
)

type SQLite struct {
	db    *sql.DB
	owned bool
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	j, err := NewSQLiteFromDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	j.owned = true
	return j, nil
}

// NewSQLiteFromDB journals into an existing handle; Close leaves it open.
func NewSQLiteFromDB(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// RecordBalance inserts r, assigning a ULID when r.ID is empty.
func (j *SQLite) RecordBalance(r BalanceRecord) error {
	if r.ID == "" {
		r.ID = id.NewAt(r.Time)
	}
	_, err := j.db.Exec(`
		INSERT INTO balance_updates
		(id, instrument, time, previous, balance, trades_today)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Instrument), r.Time.UTC(), r.Previous, r.Balance, r.TradesToday,
	)
	return err
}

func (j *SQLite) Close() error {
	if !j.owned {
		return nil
	}
	return j.db.Close()
}
