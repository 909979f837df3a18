package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hiringapi/internal/apperror"
	"hiringapi/internal/schema"
	"hiringapi/internal/storage"
	_ "hiringapi/internal/storage/sqlite"
)

func newTestPipeline(tb testing.TB, chunkSize int) (*Pipeline, storage.Repository) {
	tb.Helper()
	repo, err := storage.Open(context.Background(), storage.Config{
		Kind: "sqlite", DSN: ":memory:", ChunkSize: chunkSize,
	})
	if err != nil {
		tb.Fatalf("open sqlite :memory:: %v", err)
	}
	tb.Cleanup(func() { _ = repo.Close() })
	if err := repo.EnsureSchema(context.Background(), schema.All()); err != nil {
		tb.Fatalf("EnsureSchema: %v", err)
	}
	p, err := NewPipeline(repo, chunkSize)
	if err != nil {
		tb.Fatalf("NewPipeline: %v", err)
	}
	return p, repo
}

func TestIngest_PartitionsAndPersists(t *testing.T) {
	t.Parallel()

	p, repo := newTestPipeline(t, 100)

	// Row 1 is valid; row 2 is missing its identifier.
	csv := "1,Engineer\n,Manager\n"
	res, err := p.Ingest(context.Background(), "jobs", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	want := Result{Entity: "jobs", Read: 2, Skipped: 0, Valid: 1, Invalid: 1, Inserted: 1}
	if res != want {
		t.Fatalf("Result = %+v, want %+v", res, want)
	}

	jobs, _ := schema.Lookup("jobs")
	recs, err := repo.SelectAll(context.Background(), jobs)
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("persisted rows = %d, want 1", len(recs))
	}
	if recs[0]["id"] != int64(1) || recs[0]["job"] != "Engineer" {
		t.Errorf("persisted row = %#v", recs[0])
	}
}

func TestIngest_HiredEmployeesAcrossBatches(t *testing.T) {
	t.Parallel()

	// ChunkSize 2 forces multiple flushes for 5 rows.
	p, repo := newTestPipeline(t, 2)

	csv := strings.Join([]string{
		"1,Alice,2021-01-01T00:00:00Z,1,1",
		"2,Bob,2021-02-01T00:00:00Z,1,1",
		"3,,,1,1", // optional name/datetime may be empty
		"4,Dana,2021-04-01T00:00:00Z,2,2",
		"5,Eve,2021-05-01T00:00:00Z,2,2",
		"",
	}, "\n")

	res, err := p.Ingest(context.Background(), "hired_employees", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Valid != 5 || res.Inserted != 5 || res.Invalid != 0 {
		t.Fatalf("Result = %+v, want 5 valid and inserted", res)
	}

	he, _ := schema.Lookup("hired_employees")
	recs, err := repo.SelectAll(context.Background(), he)
	if err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("persisted rows = %d, want 5", len(recs))
	}
	if recs[2]["name"] != nil || recs[2]["datetime"] != nil {
		t.Errorf("optional empties should persist as NULL, got %#v", recs[2])
	}
}

func TestIngest_UnknownEntity(t *testing.T) {
	t.Parallel()

	p, _ := newTestPipeline(t, 10)
	_, err := p.Ingest(context.Background(), "salaries", strings.NewReader("1,x\n"))
	if err == nil {
		t.Fatal("Ingest accepted unknown entity")
	}
	if apperror.GetCode(err) != apperror.CodeNotFound {
		t.Errorf("error code = %v, want CodeNotFound", apperror.GetCode(err))
	}
}

func TestIngest_EmptyBody(t *testing.T) {
	t.Parallel()

	p, _ := newTestPipeline(t, 10)
	res, err := p.Ingest(context.Background(), "departments", strings.NewReader(""))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Read != 0 || res.Inserted != 0 {
		t.Errorf("Result = %+v, want all zero", res)
	}
}

type failingRepo struct {
	storage.Repository
	err error
}

func (f failingRepo) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return 0, f.err
}

func TestIngest_InsertFailure(t *testing.T) {
	t.Parallel()

	_, repo := newTestPipeline(t, 10)
	sentinel := errors.New("disk full")
	p, err := NewPipeline(failingRepo{Repository: repo, err: sentinel}, 10)
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Ingest(context.Background(), "jobs", strings.NewReader("1,Engineer\n"))
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want wrapped sentinel", err)
	}
}

func TestNewPipeline_BadArgs(t *testing.T) {
	t.Parallel()

	if _, err := NewPipeline(nil, 10); err == nil {
		t.Error("accepted nil repository")
	}
	_, repo := newTestPipeline(t, 10)
	if _, err := NewPipeline(repo, 0); err == nil {
		t.Error("accepted chunk size 0")
	}
}
