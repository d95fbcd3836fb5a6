package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a throwaway sqlite database in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	base := []string{
		"--env-file", filepath.Join(dir, "missing.env"),
		"--db", filepath.Join(dir, "tradedash.sqlite"),
		"--store", "sqlite",
		"--log-level", "error",
	}
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "tradedash (dev)\n", out)
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tradedash.yaml")

	out, err := run(t, dir, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")
	assert.FileExists(t, path)

	out, err = run(t, dir, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Instrument: XAUUSD")
	assert.Contains(t, out, "Risk: 1.0%")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("instrument: BTCUSD\n"), 0644))
	_, err = run(t, dir, "config", "validate", "-f", bad)
	assert.ErrorContains(t, err, "validation failed")
}

func TestInvalidInstrumentFlag(t *testing.T) {
	_, err := run(t, t.TempDir(), "-i", "EURUSD", "show")
	assert.ErrorContains(t, err, "unknown instrument")
}

func TestBalanceSetPersists(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "-i", "v75", "balance", "set", "$2,000")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance: 2000.00")
	assert.Contains(t, out, "Trades today: 1 of 4")

	out, err = run(t, dir, "-i", "v75", "balance")
	require.NoError(t, err)
	assert.Equal(t, "2000.00\n", out)

	// The other instrument still has its seed balance.
	out, err = run(t, dir, "-i", "xauusd", "balance")
	require.NoError(t, err)
	assert.Equal(t, "1000.00\n", out)
}

func TestBalanceSetRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "balance", "set", "lots")
	assert.ErrorContains(t, err, "invalid balance")

	_, err = run(t, dir, "balance", "set", "--", "-10")
	assert.ErrorContains(t, err, "non-negative")
}

func TestShowAndPlan(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Balance")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "233 days")
	assert.Contains(t, out, "Group 1")
	assert.Contains(t, out, "trades 0/1")

	_, err = run(t, dir, "balance", "set", "2000")
	require.NoError(t, err)

	out, err = run(t, dir, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "target 40.00")
	assert.Contains(t, out, "trades 1/1")
	assert.Contains(t, out, "Completed")

	_, err = run(t, dir, "balance", "set", "0")
	require.NoError(t, err)

	out, err = run(t, dir, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No plan")
}

func TestShowCopy(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	dir := t.TempDir()

	out, err := run(t, dir, "show", "--copy", "recommended lot")
	require.NoError(t, err)
	assert.Equal(t, "0.02", copied)
	assert.Contains(t, out, "Copied Recommended Lot: 0.02")

	_, err = run(t, dir, "show", "--copy", "Days to Target")
	assert.ErrorContains(t, err, "cannot be copied")

	_, err = run(t, dir, "show", "--copy", "nope")
	assert.ErrorContains(t, err, "no metric")
}

func TestLevels(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "balance", "set", "0")
	require.NoError(t, err)

	out, err := run(t, dir, "levels", "--entry", "2000")
	require.NoError(t, err)
	assert.Contains(t, out, "Take profit: -")
	assert.Contains(t, out, "warning: set a balance")

	_, err = run(t, dir, "balance", "set", "1000")
	require.NoError(t, err)

	out, err = run(t, dir, "levels", "--entry", "2000", "-d", "rise")
	require.NoError(t, err)
	assert.Contains(t, out, "Take profit: 2010.00")
	assert.Contains(t, out, "Stop loss:   1995.00")
	assert.Contains(t, out, "Lot size:    0.02")
	assert.Contains(t, out, "Risk:        10.00 (1.00%)  RR 2.00")
	assert.NotContains(t, out, "warning")

	// 100 x 1% / 500 pips is below the minimum lot.
	_, err = run(t, dir, "balance", "set", "100")
	require.NoError(t, err)
	out, err = run(t, dir, "levels", "--entry", "2000")
	require.NoError(t, err)
	assert.Contains(t, out, "Lot size:    0.01")
	assert.Contains(t, out, "warning: planned risk 5.00% exceeds max 2.00%")

	_, err = run(t, dir, "levels", "--entry", "2000", "-d", "sideways")
	assert.ErrorContains(t, err, "invalid direction")
}

func TestLevelsRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "-i", "v75", "levels", "--entry=-100", "-d", "fall")
	assert.ErrorContains(t, err, "invalid --entry")

	_, err = run(t, dir, "levels", "--entry", "2000", "--tp", "0")
	assert.ErrorContains(t, err, "--tp must be positive")

	_, err = run(t, dir, "levels", "--entry", "2000", "--sl=-5")
	assert.ErrorContains(t, err, "--sl must be positive")

	out, err := run(t, dir, "levels", "--entry", "2000", "--tp", "2000", "--sl", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "Take profit: 2020.00")
	assert.Contains(t, out, "Stop loss:   1990.00")
}

func TestCompoundAndWithdraw(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "compound", "1000", "-f", "daily", "-n", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Projected balance: 1485.95")
	assert.Contains(t, out, "Total growth:      485.95")

	out, err = run(t, dir, "compound", "0", "-n", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Projected balance: -")

	_, err = run(t, dir, "compound", "1000", "-f", "weekly")
	assert.ErrorContains(t, err, "invalid frequency")

	out, err = run(t, dir, "withdraw", "1485.95")
	require.NoError(t, err)
	assert.Contains(t, out, "Withdrawable amount: 24.30")

	_, err = run(t, dir, "withdraw", "abc")
	assert.ErrorContains(t, err, "invalid current balance")
}

func TestHistory(t *testing.T) {
	dir := t.TempDir()
	for _, b := range []string{"2000", "2040", "2020"} {
		_, err := run(t, dir, "balance", "set", b)
		require.NoError(t, err)
	}

	now := time.Now()
	from := now.AddDate(0, 0, -1).Format(time.DateOnly)
	to := now.AddDate(0, 0, 1).Format(time.DateOnly)

	out, err := run(t, dir, "history", "--from", from, "--to", to)
	require.NoError(t, err)
	assert.Contains(t, out, "3 updates, net +1020.00")
	assert.Contains(t, out, "2000.00 -> 2040.00  (+40.00)  trade 2")

	csvPath := filepath.Join(dir, "history.csv")
	out, err = run(t, dir, "history", "--from", from, "--to", to, "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 updates")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,instrument,time,previous,balance,change,trades_today", lines[0])

	_, err = run(t, dir, "history", "--from", "yesterday")
	assert.ErrorContains(t, err, "bad --from")
}

func TestHistoryNeedsSQLite(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "--store", "memory", "history")
	assert.ErrorContains(t, err, "sqlite store")
}

func TestClockOnce(t *testing.T) {
	out, err := run(t, t.TempDir(), "clock", "--local=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Sydney")
	assert.Contains(t, out, "New York")
}
