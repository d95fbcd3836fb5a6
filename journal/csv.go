package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{"id", "instrument", "time", "previous", "balance", "change", "trades_today"}

// CSVJournal writes balance updates as CSV rows, flushing after each one.
type CSVJournal struct {
	w *csv.Writer
	c io.Closer
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	j, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	j.c = f
	return j, nil
}

// NewCSVWriter writes to w; the caller owns w.
func NewCSVWriter(w io.Writer) (*CSVJournal, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &CSVJournal{w: cw}, nil
}

func (j *CSVJournal) RecordBalance(r BalanceRecord) error {
	err := j.w.Write([]string{
		r.ID,
		string(r.Instrument),
		r.Time.UTC().Format(time.RFC3339),
		f(r.Previous),
		f(r.Balance),
		f(r.Change()),
		strconv.Itoa(r.TradesToday),
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

// WriteAll exports recs in order.
func (j *CSVJournal) WriteAll(recs []BalanceRecord) error {
	for _, r := range recs {
		if err := j.RecordBalance(r); err != nil {
			return err
		}
	}
	return nil
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	if j.c != nil {
		return j.c.Close()
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
