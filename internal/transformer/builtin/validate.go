package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"hiringapi/internal/schema"
	"hiringapi/pkg/records"
)

// Validate splits records into the valid and invalid partitions according to
// an entity contract. The rules are data-driven by the contract's field table
// rather than duplicated per entity:
//
//   - a required identifier column must be present and parse as an integer
//     greater than zero; parse failure nulls the column and rejects the row
//   - a required text column must be non-null
//   - identifier cells of accepted rows are coerced to int64
//   - a provisionally valid row whose required columns all coerced to null is
//     reclassified as invalid before the split is returned
//
// Every input row lands in exactly one partition; nothing is silently
// dropped.
type Validate struct {
	Contract schema.Contract

	// Reject, when set, receives every rejected row. Used by Apply; Partition
	// callers get the invalid slice back directly.
	Reject func(RejectedRow)
}

// RejectedRow is an invalid row with the reason it was rejected. Raw holds
// the cells as they arrived, before any coercion.
type RejectedRow struct {
	Raw    records.Record
	Reason string
}

// Partition validates each record against the contract and returns the two
// partitions. Valid rows come back with identifier cells coerced to int64;
// rejected rows keep their raw cells.
func (v Validate) Partition(in []records.Record) (valid []records.Record, invalid []RejectedRow) {
	valid = make([]records.Record, 0, len(in))
	for _, rec := range in {
		coerced, reason := v.checkRecord(rec)
		if reason != "" {
			invalid = append(invalid, RejectedRow{Raw: rec, Reason: reason})
			continue
		}
		valid = append(valid, coerced)
	}
	return valid, invalid
}

// Apply keeps the lenient transformer shape: valid rows pass through,
// rejected rows are dropped after notifying the Reject sink.
func (v Validate) Apply(in []records.Record) []records.Record {
	valid, invalid := v.Partition(in)
	if v.Reject != nil {
		for _, rr := range invalid {
			v.Reject(rr)
		}
	}
	return valid
}

// checkRecord validates one row. It coerces into a clone so a rejection
// leaves the caller's record untouched. A non-empty reason means rejection.
func (v Validate) checkRecord(r records.Record) (records.Record, string) {
	out := r.Clone()

	for _, f := range v.Contract.Fields {
		val := out[f.Name]
		if isEmpty(val) {
			out[f.Name] = nil
			if f.Required {
				return nil, fmt.Sprintf("required column %q missing", f.Name)
			}
			continue
		}

		switch f.Kind {
		case schema.KindID:
			n, ok := coerceID(val)
			if !ok {
				// Parse failure is a null column, not a fatal error.
				out[f.Name] = nil
				if f.Required {
					return nil, fmt.Sprintf("column %q: %v is not a positive integer", f.Name, val)
				}
				continue
			}
			if n <= 0 {
				out[f.Name] = nil
				if f.Required {
					return nil, fmt.Sprintf("column %q: %d is not a positive integer", f.Name, n)
				}
				continue
			}
			out[f.Name] = n

		case schema.KindText, schema.KindTimestamp:
			// Non-null is all that matters at ingest time; timestamps are
			// only parsed by the report queries.
		}
	}

	// A row whose required columns all nulled out under coercion carries no
	// usable data; reclassify it before the split is returned.
	allNull := true
	for _, f := range v.Contract.Fields {
		if f.Required && out[f.Name] != nil {
			allNull = false
			break
		}
	}
	if allNull {
		return nil, "all required columns null after coercion"
	}

	return out, ""
}

// coerceID parses identifier cells into int64. Strings are trimmed first;
// numeric types pass through. Anything else fails.
func coerceID(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case float64:
		n := int64(t)
		if float64(n) != t {
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// isEmpty treats nil and empty strings as missing cells.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
