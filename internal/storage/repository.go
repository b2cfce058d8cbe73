// Package storage persists pipeline results in a sqlite warehouse, the
// operational-database destination of the load phase. Each run replaces
// the derived tables wholesale; pipeline_runs keeps the run bookkeeping.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"txnetl/internal/core"
	"txnetl/internal/etl"

	_ "modernc.org/sqlite"
)

type Warehouse struct {
	db *sql.DB
}

var _ etl.Sink = (*Warehouse)(nil)

func Open(dbPath string) (*Warehouse, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Warehouse{db: db}, nil
}

func (w *Warehouse) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

// Write replaces the three derived tables with the run's result in one
// transaction, so readers never observe a half-loaded warehouse.
func (w *Warehouse) Write(ctx context.Context, res *etl.Result) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %v: %w", err, core.ErrSinkUnavailable)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions_clean", "daily_summary", "category_summary"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %v: %w", table, err, core.ErrSinkUnavailable)
		}
	}

	for i, rec := range res.Cleaned {
		amount := sql.NullInt64{Int64: rec.Amount.Cents, Valid: !rec.AmountMissing}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions_clean (position, transaction_id, transaction_date, amount_cents, merchant_category, status)
			VALUES (?, ?, ?, ?, ?, ?)`,
			i, rec.ID, rec.Date.String(), amount, rec.Category, rec.Status)
		if err != nil {
			return fmt.Errorf("insert cleaned transaction %s: %v: %w", rec.ID, err, core.ErrSinkUnavailable)
		}
	}

	for _, row := range res.Daily {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_summary (transaction_date, transaction_count, total_cents, avg_cents, max_cents)
			VALUES (?, ?, ?, ?, ?)`,
			row.Date.String(), row.TransactionCount, row.TotalAmount.Cents, row.AvgAmount.Cents, row.MaxAmount.Cents)
		if err != nil {
			return fmt.Errorf("insert daily summary %s: %v: %w", row.Date, err, core.ErrSinkUnavailable)
		}
	}

	for i, row := range res.Categories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO category_summary (position, merchant_category, total_cents, transaction_count)
			VALUES (?, ?, ?, ?)`,
			i, row.Category, row.TotalSpent.Cents, row.TransactionCount)
		if err != nil {
			return fmt.Errorf("insert category summary %q: %v: %w", row.Category, err, core.ErrSinkUnavailable)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %v: %w", err, core.ErrSinkUnavailable)
	}
	return nil
}

// RecordRun stores the bookkeeping row for a run, successful or failed.
func (w *Warehouse) RecordRun(ctx context.Context, report etl.RunReport) error {
	_, err := w.db.ExecContext(ctx, `
		INSERT INTO pipeline_runs (run_id, state, failed_stage, started_at, finished_at, extracted, kept, removed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, string(report.State), report.FailedStage,
		report.StartedAt.Format(time.RFC3339), report.FinishedAt.Format(time.RFC3339),
		report.Extracted, report.Kept, report.Removed)
	if err != nil {
		return fmt.Errorf("record run %s: %w", report.RunID, err)
	}
	return nil
}

// RunRow is one stored pipeline_runs entry.
type RunRow struct {
	RunID       string
	State       etl.State
	FailedStage string
	Extracted   int
	Kept        int
	Removed     int
}

// LastRun returns the most recently started run, or sql.ErrNoRows.
func (w *Warehouse) LastRun(ctx context.Context) (RunRow, error) {
	var row RunRow
	var state string
	err := w.db.QueryRowContext(ctx, `
		SELECT run_id, state, failed_stage, extracted, kept, removed
		FROM pipeline_runs ORDER BY started_at DESC, run_id DESC LIMIT 1`).
		Scan(&row.RunID, &state, &row.FailedStage, &row.Extracted, &row.Kept, &row.Removed)
	if err != nil {
		return RunRow{}, fmt.Errorf("query last run: %w", err)
	}
	row.State = etl.State(state)
	return row, nil
}

// CleanedCount returns the number of cleaned transactions in the warehouse.
func (w *Warehouse) CleanedCount(ctx context.Context) (int, error) {
	var n int
	if err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions_clean`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cleaned transactions: %w", err)
	}
	return n, nil
}

// DailySummary reads back the stored daily view, ascending by date.
func (w *Warehouse) DailySummary(ctx context.Context) (etl.DailySummary, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT transaction_date, transaction_count, total_cents, avg_cents, max_cents
		FROM daily_summary ORDER BY transaction_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query daily summary: %w", err)
	}
	defer rows.Close()

	var daily etl.DailySummary
	for rows.Next() {
		var dateStr string
		var row etl.DailyRow
		if err := rows.Scan(&dateStr, &row.TransactionCount,
			&row.TotalAmount.Cents, &row.AvgAmount.Cents, &row.MaxAmount.Cents); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		row.Date = date
		daily = append(daily, row)
	}
	return daily, rows.Err()
}

// CategorySummary reads back the stored category view in ranked order.
func (w *Warehouse) CategorySummary(ctx context.Context) (etl.CategorySummary, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT merchant_category, total_cents, transaction_count
		FROM category_summary ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query category summary: %w", err)
	}
	defer rows.Close()

	var categories etl.CategorySummary
	for rows.Next() {
		var row etl.CategoryRow
		if err := rows.Scan(&row.Category, &row.TotalSpent.Cents, &row.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan category summary: %w", err)
		}
		categories = append(categories, row)
	}
	return categories, rows.Err()
}
