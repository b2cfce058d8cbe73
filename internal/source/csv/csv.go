// Package csv reads the raw transaction table from a delimited text file.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"txnetl/internal/core"
	"txnetl/internal/etl"
)

// Reader is a record source backed by a CSV file with a header row.
type Reader struct {
	path string
}

var _ etl.Source = (*Reader)(nil)

func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Fetch reads every row of the file into raw records. Columns are
// addressed by header name, so column order in the file does not matter
// and extra columns are ignored. An empty cell is a null value.
func (r *Reader) Fetch(_ context.Context) ([]core.RawRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", r.path, err, core.ErrSourceUnavailable)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %v: %w", r.path, err, core.ErrSourceUnavailable)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range core.Columns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q: %w", r.path, name, core.ErrSourceUnavailable)
		}
	}

	cell := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []core.RawRecord
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %v: %w", r.path, line, err, core.ErrSourceUnavailable)
		}
		records = append(records, core.RawRecord{
			TransactionID:   cell(row, core.ColumnTransactionID),
			TransactionDate: cell(row, core.ColumnTransactionDate),
			Amount:          cell(row, core.ColumnAmount),
			Category:        cell(row, core.ColumnCategory),
			Status:          cell(row, core.ColumnStatus),
		})
	}

	return records, nil
}
