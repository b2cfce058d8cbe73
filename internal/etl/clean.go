// Package etl implements the transform core of the pipeline: data-quality
// cleaning of raw transaction rows and aggregation of the cleaned set into
// the daily and category summary views.
package etl

import (
	"fmt"

	"txnetl/internal/core"
)

// CleanReport carries the data-quality diagnostics of one cleaning pass.
// Null counts are informational only; the status filter is the only rule
// that removes records.
type CleanReport struct {
	Input      int
	Kept       int
	Removed    int
	NullCounts map[string]int
}

// TotalNulls returns the number of missing values across all columns.
func (r CleanReport) TotalNulls() int {
	total := 0
	for _, n := range r.NullCounts {
		total += n
	}
	return total
}

// Clean applies the data-quality rules to a raw record set and returns the
// cleaned, typed records together with a diagnostic report.
//
// Rules, in order:
//   - count missing values per column across the whole input (reported,
//     never filtered on);
//   - keep exactly the records whose status equals "completed", preserving
//     input order;
//   - parse each survivor's date and amount. A survivor whose date cannot
//     be parsed (including a missing date) is a fatal transform error, as
//     is a malformed non-missing amount. A missing amount survives with
//     AmountMissing set.
func Clean(raw []core.RawRecord) ([]core.Record, CleanReport, error) {
	report := CleanReport{
		Input:      len(raw),
		NullCounts: make(map[string]int, len(core.Columns)),
	}

	for _, rec := range raw {
		for _, col := range core.Columns {
			if rec.IsNull(col) {
				report.NullCounts[col]++
			}
		}
	}

	cleaned := make([]core.Record, 0, len(raw))
	for i, rec := range raw {
		if rec.Status != core.StatusCompleted {
			report.Removed++
			continue
		}

		date, err := core.ParseDate(rec.TransactionDate)
		if err != nil {
			return nil, report, fmt.Errorf("record %d (%s): parse date %q: %w",
				i, rec.TransactionID, rec.TransactionDate, err)
		}

		out := core.Record{
			ID:       rec.TransactionID,
			Date:     date,
			Category: rec.Category,
			Status:   rec.Status,
		}
		if rec.IsNull(core.ColumnAmount) {
			out.AmountMissing = true
		} else {
			amount, err := core.ParseAmount(rec.Amount)
			if err != nil {
				return nil, report, fmt.Errorf("record %d (%s): parse amount %q: %w",
					i, rec.TransactionID, rec.Amount, err)
			}
			out.Amount = amount
		}
		cleaned = append(cleaned, out)
	}

	report.Kept = len(cleaned)
	return cleaned, report, nil
}
