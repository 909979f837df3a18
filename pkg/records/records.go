// Package records defines the row representation shared by the parser,
// transformers, and storage backends. A Record is a column-name keyed map;
// values are nil (missing), string (as read from CSV), or a coerced Go type
// (int64 for identifier columns).
package records

// Record is a single logical row.
type Record map[string]any

// Clone returns a shallow copy of r. Transformers that rewrite cells in place
// clone first when the caller may still hold the original.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
