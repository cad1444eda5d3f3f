package journal

// Schema creates the journal tables. Amounts are stored as decimal text.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id       TEXT PRIMARY KEY,
	time     DATETIME NOT NULL,
	source   TEXT NOT NULL,
	decision TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS executions (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	seq      INTEGER NOT NULL,
	action   TEXT NOT NULL,
	symbol   TEXT NOT NULL,
	quantity TEXT,
	price    TEXT,
	success  BOOLEAN NOT NULL,
	message  TEXT NOT NULL,
	reason   TEXT,
	PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS snapshots (
	run_id          TEXT PRIMARY KEY REFERENCES runs(id),
	time            DATETIME NOT NULL,
	cash            TEXT NOT NULL,
	positions_value TEXT NOT NULL,
	total_assets    TEXT NOT NULL,
	total_pnl       TEXT NOT NULL,
	realized_pnl    TEXT NOT NULL
);
`
