package csvout

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"txnetl/internal/core"
	"txnetl/internal/etl"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	jan1 := core.NewDate(2026, 1, 1)
	jan2 := core.NewDate(2026, 1, 2)

	res := &etl.Result{
		Cleaned: []core.Record{
			{ID: "1", Date: jan1, Amount: core.Money{Cents: 10000}, Category: "A", Status: "completed"},
			{ID: "2", Date: jan2, AmountMissing: true, Category: "B", Status: "completed"},
		},
		Daily: etl.DailySummary{
			{Date: jan1, TransactionCount: 1, TotalAmount: core.Money{Cents: 10000}, AvgAmount: core.Money{Cents: 10000}, MaxAmount: core.Money{Cents: 10000}},
			{Date: jan2, TransactionCount: 1},
		},
		Categories: etl.CategorySummary{
			{Category: "A", TotalSpent: core.Money{Cents: 10000}, TransactionCount: 1},
			{Category: "B", TransactionCount: 1},
		},
	}

	if err := NewWriter(dir).Write(context.Background(), res); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	cleaned := readRows(t, filepath.Join(dir, CleanedFile))
	wantCleaned := [][]string{
		{"transaction_id", "transaction_date", "amount", "merchant_category", "status"},
		{"1", "2026-01-01", "100.00", "A", "completed"},
		{"2", "2026-01-02", "", "B", "completed"},
	}
	if !reflect.DeepEqual(cleaned, wantCleaned) {
		t.Errorf("cleaned rows = %v, want %v", cleaned, wantCleaned)
	}

	daily := readRows(t, filepath.Join(dir, DailyFile))
	wantDaily := [][]string{
		{"transaction_date", "transaction_count", "total_amount", "avg_amount", "max_amount"},
		{"2026-01-01", "1", "100.00", "100.00", "100.00"},
		{"2026-01-02", "1", "0.00", "0.00", "0.00"},
	}
	if !reflect.DeepEqual(daily, wantDaily) {
		t.Errorf("daily rows = %v, want %v", daily, wantDaily)
	}

	categories := readRows(t, filepath.Join(dir, CategoryFile))
	wantCategories := [][]string{
		{"merchant_category", "total_spent", "transaction_count"},
		{"A", "100.00", "1"},
		{"B", "0.00", "1"},
	}
	if !reflect.DeepEqual(categories, wantCategories) {
		t.Errorf("category rows = %v, want %v", categories, wantCategories)
	}
}

func TestWriter_WriteEmptyResult(t *testing.T) {
	dir := t.TempDir()
	if err := NewWriter(dir).Write(context.Background(), &etl.Result{}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	for _, name := range []string{CleanedFile, DailyFile, CategoryFile} {
		rows := readRows(t, filepath.Join(dir, name))
		if len(rows) != 1 {
			t.Errorf("%s has %d rows, want header only", name, len(rows))
		}
	}
}

func TestWriter_UnwritableDir(t *testing.T) {
	// A file standing where the output directory should be makes the sink
	// unavailable.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "out")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	err := NewWriter(blocked).Write(context.Background(), &etl.Result{})
	if err == nil {
		t.Fatal("expected error writing into a blocked path")
	}
}
