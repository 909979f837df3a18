// Package storage contains the storage-agnostic contracts: the Repository
// interface every backend implements, the backend factory registry, and the
// batched loader that drives all bulk writes.
package storage

import (
	"context"

	"hiringapi/internal/schema"
	"hiringapi/pkg/records"
)

// QuarterCount is one grouped row of the quarterly hiring query: employees
// hired for a (department, job) pair in one quarter of the requested year.
type QuarterCount struct {
	Department string
	Job        string
	Quarter    int
	Count      int64
}

// DepartmentHires is one row of the per-department totals query. Hired is
// the literal SUM of hired-employee identifiers grouped by department.
type DepartmentHires struct {
	ID         int64  `json:"id"`
	Department string `json:"department"`
	Hired      int64  `json:"hired"`
}

// Repository is the store access contract. Implementations exist per backend
// (sqlite, postgres, mysql, mssql); callers stay backend-agnostic.
//
// All reads and writes move data in bounded chunks sized by Config.ChunkSize;
// chunking is a memory/throughput knob with no effect on results.
type Repository interface {
	// EnsureSchema creates the entity tables if absent. No foreign keys are
	// declared: referential integrity is enforced only implicitly by the
	// inner joins of the report queries.
	EnsureSchema(ctx context.Context, contracts []schema.Contract) error

	// InsertRows appends rows (aligned to columns order) to table. It never
	// overwrites and performs no uniqueness checks.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// SelectAll returns every row of the contract's table ordered by id
	// ascending.
	SelectAll(ctx context.Context, c schema.Contract) ([]records.Record, error)

	// QuarterCounts groups hired employees of the given year by
	// (department, job, quarter) via inner joins to departments and jobs.
	QuarterCounts(ctx context.Context, year int) ([]QuarterCount, error)

	// DepartmentHireSums sums hired-employee ids per department via inner
	// joins through hired_employees and jobs.
	DepartmentHireSums(ctx context.Context) ([]DepartmentHires, error)

	// Exec runs an arbitrary statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	Close() error
}
