package storage

import (
	"database/sql"
	"fmt"

	"hiringapi/pkg/records"
)

// ScanRecords drains a database/sql result set into records keyed by cols,
// accumulating in chunkSize slabs so a large table never forces one giant
// reallocation-heavy append sequence. Driver []byte values are copied into
// strings because drivers may reuse the backing array between Next calls.
func ScanRecords(rows *sql.Rows, cols []string, chunkSize int) ([]records.Record, error) {
	if chunkSize <= 0 {
		chunkSize = 1
	}

	var out []records.Record
	chunk := make([]records.Record, 0, chunkSize)

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := make(records.Record, len(cols))
		for i, c := range cols {
			rec[c] = normalizeValue(vals[i])
		}
		chunk = append(chunk, rec)
		if len(chunk) >= chunkSize {
			out = append(out, chunk...)
			chunk = chunk[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	out = append(out, chunk...)
	return out, nil
}

// normalizeValue maps driver values onto the small set of types records
// carry: int64, string, or nil.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return v
	}
}
