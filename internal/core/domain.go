package core

import (
	"errors"
	"time"
)

// Column names of the raw transaction table. Sources address columns by
// these names, and the cleaner reports null counts keyed by them.
const (
	ColumnTransactionID   = "transaction_id"
	ColumnTransactionDate = "transaction_date"
	ColumnAmount          = "amount"
	ColumnCategory        = "merchant_category"
	ColumnStatus          = "status"
)

// Columns lists the raw table columns in their canonical order.
var Columns = []string{
	ColumnTransactionID,
	ColumnTransactionDate,
	ColumnAmount,
	ColumnCategory,
	ColumnStatus,
}

// StatusCompleted is the only status value retained by the cleaner.
// Matching is exact and case-sensitive.
const StatusCompleted = "completed"

type (
	// RawRecord is one untyped row as delivered by a source. An empty
	// string in any field means the value was missing (null) at the source.
	RawRecord struct {
		TransactionID   string
		TransactionDate string
		Amount          string
		Category        string
		Status          string
	}

	// Record is a cleaned transaction: status-filtered and re-typed.
	// AmountMissing marks records whose raw amount was null; they survive
	// cleaning (only the status filter removes records) and contribute
	// zero during aggregation.
	Record struct {
		ID            string
		Date          Date
		Amount        Money
		AmountMissing bool
		Category      string
		Status        string
	}

	// Date is a calendar date at UTC midnight.
	Date struct {
		time.Time
	}
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSinkUnavailable   = errors.New("sink unavailable")
	ErrMalformedDate     = errors.New("malformed transaction date")
	ErrMalformedAmount   = errors.New("malformed amount")
)

// dateLayouts are tried in order when parsing raw date strings.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a raw date string into a Date, truncating any time
// component to UTC midnight. Returns ErrMalformedDate (wrapped) when no
// supported layout matches.
func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return Date{}, ErrMalformedDate
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String renders the date in the canonical YYYY-MM-DD form used by the
// raw table and the output artifacts.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// IsNull reports whether the field was missing at the source.
func (r RawRecord) IsNull(column string) bool {
	switch column {
	case ColumnTransactionID:
		return r.TransactionID == ""
	case ColumnTransactionDate:
		return r.TransactionDate == ""
	case ColumnAmount:
		return r.Amount == ""
	case ColumnCategory:
		return r.Category == ""
	case ColumnStatus:
		return r.Status == ""
	}
	return false
}
