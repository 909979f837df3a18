// Package mysql implements storage.Repository on database/sql with the
// go-sql-driver. Writes use a prepared INSERT inside a transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"hiringapi/internal/schema"
	"hiringapi/internal/storage"
	"hiringapi/pkg/records"
)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is the MySQL-backed implementation of storage.Repository.
type Repository struct {
	db    *sql.DB
	chunk int
}

// NewRepository opens a MySQL connection. The configured DSN may carry the
// "mysql://" scheme used for backend selection; the remainder must be a
// driver-native DSN, e.g. "user:pass@tcp(host:3306)/hr".
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	dsn := storage.TrimScheme(cfg.DSN)
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("mysql: DSN must not be empty")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}

	return &Repository{db: db, chunk: cfg.ChunkSize}, nil
}

func (r *Repository) EnsureSchema(ctx context.Context, contracts []schema.Contract) error {
	for _, c := range contracts {
		cols := make([]string, 0, len(c.Fields))
		for _, f := range c.Fields {
			cols = append(cols, fmt.Sprintf("%s %s", myIdent(f.Name), sqlType(f.Kind)))
		}
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
			myIdent(c.Table()), strings.Join(cols, ", "))
		if err := r.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("mysql: ensure %s: %w", c.Table(), err)
		}
	}
	return nil
}

func (r *Repository) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: InsertRows: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		myIdent(table),
		strings.Join(mapIdent(columns), ", "),
		strings.Join(placeholders, ", "))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("mysql: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("mysql: InsertRows: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("mysql: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return inserted, nil
}

func (r *Repository) SelectAll(ctx context.Context, c schema.Contract) ([]records.Record, error) {
	cols := c.Columns()
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY id",
		strings.Join(mapIdent(cols), ", "), myIdent(c.Table()))
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("mysql: select %s: %w", c.Table(), err)
	}
	defer rows.Close()
	return storage.ScanRecords(rows, cols, r.chunk)
}

// tsExpr converts the stored ISO-8601 text ("2021-07-27T16:02:08Z") into a
// DATETIME the date functions accept.
const tsExpr = "CAST(REPLACE(REPLACE(he.datetime, 'T', ' '), 'Z', '') AS DATETIME)"

var quarterSQL = `
SELECT d.department, j.job,
       QUARTER(` + tsExpr + `) AS quarter,
       COUNT(*) AS num_employees
FROM hired_employees he
JOIN departments d ON he.department_id = d.id
JOIN jobs j ON he.job_id = j.id
WHERE YEAR(` + tsExpr + `) = ?
GROUP BY d.department, j.job, quarter
ORDER BY d.department, j.job`

func (r *Repository) QuarterCounts(ctx context.Context, year int) ([]storage.QuarterCount, error) {
	rows, err := r.db.QueryContext(ctx, quarterSQL, year)
	if err != nil {
		return nil, fmt.Errorf("mysql: quarter counts: %w", err)
	}
	defer rows.Close()

	var out []storage.QuarterCount
	for rows.Next() {
		var qc storage.QuarterCount
		if err := rows.Scan(&qc.Department, &qc.Job, &qc.Quarter, &qc.Count); err != nil {
			return nil, fmt.Errorf("mysql: quarter counts scan: %w", err)
		}
		out = append(out, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: quarter counts rows: %w", err)
	}
	return out, nil
}

const hireSumsSQL = `
SELECT departments.id AS id,
       departments.department AS department,
       CAST(SUM(hired_employees.id) AS SIGNED) AS hired
FROM hired_employees
JOIN jobs ON hired_employees.job_id = jobs.id
JOIN departments ON hired_employees.department_id = departments.id
GROUP BY departments.department, departments.id`

func (r *Repository) DepartmentHireSums(ctx context.Context) ([]storage.DepartmentHires, error) {
	rows, err := r.db.QueryContext(ctx, hireSumsSQL)
	if err != nil {
		return nil, fmt.Errorf("mysql: hire sums: %w", err)
	}
	defer rows.Close()

	var out []storage.DepartmentHires
	for rows.Next() {
		var dh storage.DepartmentHires
		if err := rows.Scan(&dh.ID, &dh.Department, &dh.Hired); err != nil {
			return nil, fmt.Errorf("mysql: hire sums scan: %w", err)
		}
		out = append(out, dh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: hire sums rows: %w", err)
	}
	return out, nil
}

func (r *Repository) Exec(ctx context.Context, sqlStmt string) error {
	if strings.TrimSpace(sqlStmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sqlStmt); err != nil {
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

func (r *Repository) Close() error { return r.db.Close() }

func sqlType(k schema.Kind) string {
	if k == schema.KindID {
		return "BIGINT"
	}
	return "TEXT"
}

// myIdent safely quotes a single identifier with backticks.
func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

func mapIdent(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = myIdent(c)
	}
	return out
}
