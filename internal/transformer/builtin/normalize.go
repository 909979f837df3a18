package builtin

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"hiringapi/pkg/records"
)

// cleaner strips Unicode format runes (zero-width joiners, BOMs that survive
// inside cells, directional marks) and composes the rest to NFC, so the same
// department or job name spelled two ways compares and groups as one value.
var cleaner = transform.Chain(runes.Remove(runes.In(unicode.Cf)), norm.NFC)

// Normalize canonicalizes every string cell in place.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, rec := range in {
		for k, v := range rec {
			s, ok := v.(string)
			if !ok {
				continue
			}
			cleaned, _, err := transform.String(cleaner, s)
			if err != nil {
				// Keep the raw cell; validation decides its fate.
				continue
			}
			if cleaned == "" {
				rec[k] = nil
			} else if cleaned != s {
				rec[k] = cleaned
			}
		}
	}
	return in
}
