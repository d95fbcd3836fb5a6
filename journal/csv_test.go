package journal

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/tradedash/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "instrument", "time", "previous", "balance", "change", "trades_today"}, header)
}

func TestCSVJournalWriteAll(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	j, err := NewCSVWriter(&buf)
	require.NoError(t, err)

	ts := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	err = j.WriteAll([]BalanceRecord{
		{ID: "A", Instrument: market.XAUUSD, Time: ts, Previous: 1000, Balance: 1020, TradesToday: 1},
		{ID: "B", Instrument: market.XAUUSD, Time: ts.Add(time.Hour), Previous: 1020, Balance: 1005.5, TradesToday: 2},
	})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "XAUUSD", "2026-10-19T12:00:00Z", "1000.00", "1020.00", "20.00", "1"}, rows[1])
	assert.Equal(t, []string{"B", "XAUUSD", "2026-10-19T13:00:00Z", "1020.00", "1005.50", "-14.50", "2"}, rows[2])
}
