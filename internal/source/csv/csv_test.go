package csv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"txnetl/internal/core"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReader_Fetch(t *testing.T) {
	path := writeFile(t, `transaction_id,transaction_date,amount,merchant_category,status
1,2026-01-01,100.00,grocery,completed
2,2026-01-01,,travel,pending
3,2026-01-02,30.50,,completed
`)

	records, err := NewReader(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	want := core.RawRecord{
		TransactionID:   "1",
		TransactionDate: "2026-01-01",
		Amount:          "100.00",
		Category:        "grocery",
		Status:          "completed",
	}
	if records[0] != want {
		t.Errorf("record 0 = %+v, want %+v", records[0], want)
	}
	if !records[1].IsNull(core.ColumnAmount) {
		t.Error("empty amount cell should be null")
	}
	if !records[2].IsNull(core.ColumnCategory) {
		t.Error("empty category cell should be null")
	}
}

func TestReader_Fetch_ColumnOrderIndependent(t *testing.T) {
	path := writeFile(t, `status,merchant_category,amount,transaction_date,transaction_id,extra
completed,dining,9.99,2026-02-01,42,ignored
`)

	records, err := NewReader(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	rec := records[0]
	if rec.TransactionID != "42" || rec.Amount != "9.99" || rec.Status != "completed" {
		t.Errorf("columns mapped incorrectly: %+v", rec)
	}
}

func TestReader_Fetch_MissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv")).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
}

func TestReader_Fetch_MissingColumn(t *testing.T) {
	path := writeFile(t, `transaction_id,amount,status
1,1.00,completed
`)

	_, err := NewReader(path).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
}

func TestReader_Fetch_HeaderOnly(t *testing.T) {
	path := writeFile(t, "transaction_id,transaction_date,amount,merchant_category,status\n")

	records, err := NewReader(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
