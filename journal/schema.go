// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS balance_updates (
	id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	time DATETIME NOT NULL,
	previous REAL NOT NULL,
	balance REAL NOT NULL,
	trades_today INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_balance_updates_time ON balance_updates(instrument, time);
`
