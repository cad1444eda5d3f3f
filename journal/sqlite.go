// Package journal keeps an history of the runs executed on an account in SQLite.
//
// The ledger file remains the source of truth, the journal is an append only
// record of decisions, execution results and asset snapshots.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/etnz/papertrade"
)

// SQLite is a papertrade.Recorder backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ papertrade.Recorder = (*SQLite)(nil)

// NewSQLite opens (or creates) the journal database in path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		return nil, errors.Join(fmt.Errorf("cannot create journal schema: %w", err), db.Close())
	}
	return &SQLite{db: db}, nil
}

// Record implements papertrade.Recorder. The run, its executions and its
// snapshot are written in a single transaction.
func (j *SQLite) Record(ctx context.Context, run papertrade.Run) (id string, err error) {
	id = NewID(run.Time)
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, time, source, decision)
		VALUES (?, ?, ?, ?)`,
		id, run.Time.UTC(), run.Source, run.Decision,
	); err != nil {
		return "", fmt.Errorf("cannot record run: %w", err)
	}

	for i, r := range run.Results {
		ins := r.Instruction
		var quantity, price sql.NullString
		if ins.Quantity != nil {
			quantity = sql.NullString{String: ins.Quantity.String(), Valid: true}
		}
		if ins.Price != nil {
			price = sql.NullString{String: ins.Price.Decimal().String(), Valid: true}
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO executions
			(run_id, seq, action, symbol, quantity, price, success, message, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, string(ins.Action), ins.Symbol, quantity, price, r.Success, r.Message, ins.Reason,
		); err != nil {
			return "", fmt.Errorf("cannot record execution %d: %w", i, err)
		}
	}

	a := run.Assets
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots
		(run_id, time, cash, positions_value, total_assets, total_pnl, realized_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, run.Time.UTC(), a.Cash.Decimal().String(), a.PositionsValue.Decimal().String(),
		a.TotalAssets.Decimal().String(), a.TotalPnL.Decimal().String(), run.RealizedPnL.Decimal().String(),
	); err != nil {
		return "", fmt.Errorf("cannot record snapshot: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// RunSummary is a journal entry as listed by ListRuns.
type RunSummary struct {
	ID          string
	Time        time.Time
	Source      string
	Succeeded   int
	Failed      int
	TotalAssets papertrade.Money
	TotalPnL    papertrade.Money
}

// ListRuns returns the most recent runs first. limit <= 0 means all.
func (j *SQLite) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT r.id, r.time, r.source,
			COALESCE(SUM(CASE WHEN e.success THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN e.success THEN 0 ELSE 1 END), 0),
			COALESCE(s.total_assets, '0'), COALESCE(s.total_pnl, '0')
		FROM runs r
		LEFT JOIN executions e ON e.run_id = r.id
		LEFT JOIN snapshots s ON s.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r           RunSummary
			assets, pnl string
		)
		if err := rows.Scan(&r.ID, &r.Time, &r.Source, &r.Succeeded, &r.Failed, &assets, &pnl); err != nil {
			return nil, err
		}
		if r.TotalAssets, err = papertrade.ParseMoney(assets); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		if r.TotalPnL, err = papertrade.ParseMoney(pnl); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Decision returns the decision text of a run.
func (j *SQLite) Decision(ctx context.Context, id string) (string, error) {
	var decision string
	err := j.db.QueryRowContext(ctx, `SELECT decision FROM runs WHERE id = ?`, id).Scan(&decision)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("unknown run %q", id)
	}
	return decision, err
}

// Close closes the database.
func (j *SQLite) Close() error {
	return j.db.Close()
}
