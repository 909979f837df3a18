// Package ingest orchestrates the upload path: parse a headerless CSV for a
// known entity, partition rows into valid and invalid, and batch-insert the
// valid ones. Invalid rows are logged and counted, never persisted.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"hiringapi/internal/metrics"
	csvparser "hiringapi/internal/parser/csv"
	"hiringapi/internal/schema"
	"hiringapi/internal/storage"
	"hiringapi/internal/transformer"
	"hiringapi/internal/transformer/builtin"
	"hiringapi/pkg/records"
)

// Result summarizes one upload. Read counts parsed rows, Skipped counts rows
// the parser dropped before validation, Valid+Invalid partition the parsed
// rows, and Inserted is what the store acknowledged.
type Result struct {
	Entity   string `json:"entity"`
	Read     int    `json:"read"`
	Skipped  int    `json:"skipped"`
	Valid    int    `json:"valid"`
	Invalid  int    `json:"invalid"`
	Inserted int64  `json:"inserted"`
}

// Pipeline runs uploads against a single repository. Safe for concurrent use
// as long as the repository is.
type Pipeline struct {
	Repo      storage.Repository
	ChunkSize int
}

// NewPipeline constructs a Pipeline. ChunkSize must be positive.
func NewPipeline(repo storage.Repository, chunkSize int) (*Pipeline, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingest: repository is required")
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("ingest: chunk size must be > 0, got %d", chunkSize)
	}
	return &Pipeline{Repo: repo, ChunkSize: chunkSize}, nil
}

// Ingest parses r as a headerless CSV for the named entity and persists the
// valid rows. Unknown entities fail before any data is read. A persistence
// failure returns an error with nothing reported as inserted; rows written in
// already-committed batches remain (the store is append-only).
func (p *Pipeline) Ingest(ctx context.Context, entity string, r io.Reader) (Result, error) {
	contract, err := schema.Lookup(entity)
	if err != nil {
		return Result{}, err
	}
	res := Result{Entity: contract.Name}
	began := time.Now()

	start := time.Now()
	parser := csvparser.NewParser(csvparser.Options{
		Columns:   contract.Columns(),
		TrimSpace: true,
	})
	rows, skipped, err := parser.Parse(r)
	metrics.RecordStep(contract.Name, "parse", err, time.Since(start))
	if err != nil {
		return Result{}, fmt.Errorf("ingest %s: parse: %w", contract.Name, err)
	}
	res.Read = len(rows)
	res.Skipped = skipped
	metrics.RecordRows(contract.Name, "read", int64(len(rows)))
	metrics.RecordRows(contract.Name, "skipped", int64(skipped))

	start = time.Now()
	rejects := newRejectLog(contract.Name)
	validate := builtin.Validate{Contract: contract, Reject: rejects.Add}
	chain := transformer.Chain{builtin.Normalize{}, validate}
	valid := chain.Apply(rows)
	rejects.Flush()

	res.Valid = len(valid)
	res.Invalid = rejects.Total()
	metrics.RecordStep(contract.Name, "validate", nil, time.Since(start))
	metrics.RecordRows(contract.Name, "valid", int64(res.Valid))
	metrics.RecordRows(contract.Name, "invalid", int64(res.Invalid))

	start = time.Now()
	inserted, err := p.insert(ctx, contract, valid)
	metrics.RecordStep(contract.Name, "insert", err, time.Since(start))
	if err != nil {
		return Result{}, fmt.Errorf("ingest %s: insert: %w", contract.Name, err)
	}
	res.Inserted = inserted

	log.Printf("ingest: entity=%s read=%d skipped=%d valid=%d invalid=%d inserted=%d in %s",
		res.Entity, res.Read, res.Skipped, res.Valid, res.Invalid, res.Inserted,
		time.Since(began).Truncate(time.Millisecond))
	return res, nil
}

// insert streams the valid rows through the batched loader. A feeder
// goroutine turns records into ordered rows while the loader flushes chunks,
// so large uploads never materialize a second [][]any copy.
func (p *Pipeline) insert(ctx context.Context, contract schema.Contract, valid []records.Record) (int64, error) {
	if len(valid) == 0 {
		return 0, nil
	}
	cols := contract.Columns()
	ch := make(chan []any, p.ChunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ch)
		for _, rec := range valid {
			row := make([]any, len(cols))
			for i, name := range cols {
				row[i] = rec[name]
			}
			select {
			case ch <- row:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var inserted int64
	g.Go(func() error {
		n, err := storage.LoadBatches(ctx, cols, ch, p.ChunkSize,
			func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
				n, err := p.Repo.InsertRows(ctx, contract.Name, columns, rows)
				if err == nil {
					metrics.RecordBatches(contract.Name, 1)
				}
				return n, err
			})
		inserted = n
		return err
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return inserted, nil
}
