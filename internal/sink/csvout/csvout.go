// Package csvout persists a pipeline result as three delimited-text
// artifacts: the cleaned transactions, the daily summary, and the
// category summary.
package csvout

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"txnetl/internal/core"
	"txnetl/internal/etl"
)

// Artifact file names, matching the original output layout.
const (
	CleanedFile  = "transactions_clean.csv"
	DailyFile    = "daily_summary.csv"
	CategoryFile = "category_summary.csv"
)

// Writer is a sink that writes the three artifacts into one directory.
type Writer struct {
	dir string
}

var _ etl.Sink = (*Writer)(nil)

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write persists all three artifacts. Row order follows the summaries'
// value ordering: cleaned transactions in cleaned-set order, daily rows
// ascending by date, category rows descending by total spent.
func (w *Writer) Write(_ context.Context, res *etl.Result) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %v: %w", w.dir, err, core.ErrSinkUnavailable)
	}
	if err := w.writeFile(CleanedFile, cleanedRows(res.Cleaned)); err != nil {
		return err
	}
	if err := w.writeFile(DailyFile, dailyRows(res.Daily)); err != nil {
		return err
	}
	return w.writeFile(CategoryFile, categoryRows(res.Categories))
}

func (w *Writer) writeFile(name string, rows [][]string) error {
	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %v: %w", path, err, core.ErrSinkUnavailable)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %v: %w", path, err, core.ErrSinkUnavailable)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %v: %w", path, err, core.ErrSinkUnavailable)
	}
	return nil
}

func cleanedRows(records []core.Record) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, core.Columns)
	for _, rec := range records {
		amount := ""
		if !rec.AmountMissing {
			amount = rec.Amount.String()
		}
		rows = append(rows, []string{
			rec.ID,
			rec.Date.String(),
			amount,
			rec.Category,
			rec.Status,
		})
	}
	return rows
}

func dailyRows(daily etl.DailySummary) [][]string {
	rows := make([][]string, 0, len(daily)+1)
	rows = append(rows, []string{
		core.ColumnTransactionDate,
		"transaction_count",
		"total_amount",
		"avg_amount",
		"max_amount",
	})
	for _, row := range daily {
		rows = append(rows, []string{
			row.Date.String(),
			fmt.Sprint(row.TransactionCount),
			row.TotalAmount.String(),
			row.AvgAmount.String(),
			row.MaxAmount.String(),
		})
	}
	return rows
}

func categoryRows(categories etl.CategorySummary) [][]string {
	rows := make([][]string, 0, len(categories)+1)
	rows = append(rows, []string{
		core.ColumnCategory,
		"total_spent",
		"transaction_count",
	})
	for _, row := range categories {
		rows = append(rows, []string{
			row.Category,
			row.TotalSpent.String(),
			fmt.Sprint(row.TransactionCount),
		})
	}
	return rows
}
