package sheet

import (
	"fmt"
	"strings"

	"txnetl/internal/core"
)

// rowsToRecords converts a values matrix (as returned by the Sheets API)
// into raw records. The first row must contain the raw table's column
// names; cells missing from short rows are nulls.
func rowsToRecords(values [][]interface{}) ([]core.RawRecord, error) {
	if len(values) == 0 {
		return nil, nil
	}

	headers := toStrings(values[0])
	cols := make(map[string]int, len(headers))
	for i, name := range headers {
		cols[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range core.Columns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v",
			strings.Join(missing, ","), headers)
	}

	records := make([]core.RawRecord, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		records = append(records, core.RawRecord{
			TransactionID:   safeGet(row, cols[core.ColumnTransactionID]),
			TransactionDate: safeGet(row, cols[core.ColumnTransactionDate]),
			Amount:          safeGet(row, cols[core.ColumnAmount]),
			Category:        safeGet(row, cols[core.ColumnCategory]),
			Status:          safeGet(row, cols[core.ColumnStatus]),
		})
	}
	return records, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
