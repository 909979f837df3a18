// Package csv implements a streaming CSV parser for headerless uploads. The
// caller supplies the column order from the entity contract; cells are keyed
// by those names. It avoids whole-file buffering so large uploads stay cheap.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"hiringapi/pkg/records"
)

// Options configures the parser. Columns is mandatory; the rest default
// sensibly when zero.
type Options struct {
	// Columns names the cells of each row, in file order. Uploads are
	// headerless, so this comes from the entity contract.
	Columns []string

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each cell.
	TrimSpace bool
}

// Parser parses CSV input according to Options. Safe to reuse across inputs;
// not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first cell of the first row if present.
const utf8BOM = "\uFEFF"

// skipLogLimit caps per-upload skip logging so a pathological file cannot
// flood the log.
const skipLogLimit = 400

// Parse consumes CSV records from r and returns the parsed rows plus the
// number of rows skipped for parse errors or width mismatches. Rows narrower
// than the contract are padded with nil cells (a trailing empty identifier
// column arrives that way from most spreadsheet exports); wider rows are
// skipped. Empty cells become nil.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	if len(p.opt.Columns) == 0 {
		return nil, 0, fmt.Errorf("csv: Columns must not be empty")
	}

	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	// Width is enforced here against the contract, not by encoding/csv.
	cr.FieldsPerRecord = -1

	var out []records.Record
	var skipped int

	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < skipLogLimit {
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}
		if len(row) > len(p.opt.Columns) {
			if skipped < skipLogLimit {
				log.Printf("csv: skipping row %d: %d fields, contract has %d", line, len(row), len(p.opt.Columns))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(p.opt.Columns))
		for i, name := range p.opt.Columns {
			if i >= len(row) {
				rec[name] = nil
				continue
			}
			val := row[i]
			if line == 1 && i == 0 {
				val = strings.TrimPrefix(val, utf8BOM)
			}
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[name] = emptyToNil(val)
		}
		out = append(out, rec)
	}

	return out, skipped, nil
}

// emptyToNil converts an empty string to nil; all other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
