// Package postgres implements storage.Repository using pgx v5. Bulk writes
// use the native COPY protocol via pgxpool.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hiringapi/internal/schema"
	"hiringapi/internal/storage"
	"hiringapi/pkg/records"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is the Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool  *pgxpool.Pool
	chunk int
}

// NewRepository connects a pgx pool using the configured DSN
// (postgres://... or postgresql://...).
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, chunk: cfg.ChunkSize}, nil
}

func (r *Repository) EnsureSchema(ctx context.Context, contracts []schema.Contract) error {
	for _, c := range contracts {
		cols := make([]string, 0, len(c.Fields))
		for _, f := range c.Fields {
			cols = append(cols, fmt.Sprintf("%s %s", pgIdent(f.Name), sqlType(f.Kind)))
		}
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
			pgIdent(c.Table()), strings.Join(cols, ", "))
		if err := r.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("postgres: ensure %s: %w", c.Table(), err)
		}
	}
	return nil
}

// InsertRows appends rows with the COPY protocol.
func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: InsertRows: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy into %s: %w", table, err)
	}
	return n, nil
}

func (r *Repository) SelectAll(ctx context.Context, c schema.Contract) ([]records.Record, error) {
	cols := c.Columns()
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY id",
		strings.Join(mapIdent(cols), ", "), pgIdent(c.Table()))
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: select %s: %w", c.Table(), err)
	}
	defer rows.Close()

	chunkSize := r.chunk
	if chunkSize <= 0 {
		chunkSize = 1
	}
	var out []records.Record
	chunk := make([]records.Record, 0, chunkSize)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: select %s values: %w", c.Table(), err)
		}
		rec := make(records.Record, len(cols))
		for i, col := range cols {
			rec[col] = normalizeValue(vals[i])
		}
		chunk = append(chunk, rec)
		if len(chunk) >= chunkSize {
			out = append(out, chunk...)
			chunk = chunk[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: select %s rows: %w", c.Table(), err)
	}
	out = append(out, chunk...)
	return out, nil
}

const quarterSQL = `
SELECT d.department, j.job,
       EXTRACT(QUARTER FROM CAST(he.datetime AS TIMESTAMP))::int AS quarter,
       COUNT(*) AS num_employees
FROM hired_employees he
JOIN departments d ON he.department_id = d.id
JOIN jobs j ON he.job_id = j.id
WHERE EXTRACT(YEAR FROM CAST(he.datetime AS TIMESTAMP)) = $1
GROUP BY d.department, j.job, quarter
ORDER BY d.department, j.job`

func (r *Repository) QuarterCounts(ctx context.Context, year int) ([]storage.QuarterCount, error) {
	rows, err := r.pool.Query(ctx, quarterSQL, year)
	if err != nil {
		return nil, fmt.Errorf("postgres: quarter counts: %w", err)
	}
	defer rows.Close()

	var out []storage.QuarterCount
	for rows.Next() {
		var qc storage.QuarterCount
		if err := rows.Scan(&qc.Department, &qc.Job, &qc.Quarter, &qc.Count); err != nil {
			return nil, fmt.Errorf("postgres: quarter counts scan: %w", err)
		}
		out = append(out, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: quarter counts rows: %w", err)
	}
	return out, nil
}

const hireSumsSQL = `
SELECT departments.id AS id,
       departments.department AS department,
       SUM(hired_employees.id)::bigint AS hired
FROM hired_employees
JOIN jobs ON hired_employees.job_id = jobs.id
JOIN departments ON hired_employees.department_id = departments.id
GROUP BY departments.department, departments.id`

func (r *Repository) DepartmentHireSums(ctx context.Context) ([]storage.DepartmentHires, error) {
	rows, err := r.pool.Query(ctx, hireSumsSQL)
	if err != nil {
		return nil, fmt.Errorf("postgres: hire sums: %w", err)
	}
	defer rows.Close()

	var out []storage.DepartmentHires
	for rows.Next() {
		var dh storage.DepartmentHires
		if err := rows.Scan(&dh.ID, &dh.Department, &dh.Hired); err != nil {
			return nil, fmt.Errorf("postgres: hire sums scan: %w", err)
		}
		out = append(out, dh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: hire sums rows: %w", err)
	}
	return out, nil
}

func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func sqlType(k schema.Kind) string {
	if k == schema.KindID {
		return "BIGINT"
	}
	return "TEXT"
}

// normalizeValue maps pgx values onto records' narrow type set.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case int32:
		return int64(t)
	case int16:
		return int64(t)
	default:
		return v
	}
}

// pgIdent safely quotes a single identifier.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

func mapIdent(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgIdent(c)
	}
	return out
}
