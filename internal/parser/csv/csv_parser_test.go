package csv

import (
	"strings"
	"testing"

	"hiringapi/pkg/records"
)

var jobCols = []string{"id", "job"}

func parseAll(t *testing.T, opt Options, in string) ([]records.Record, int) {
	t.Helper()
	recs, skipped, err := NewParser(opt).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return recs, skipped
}

func TestParse_Headerless(t *testing.T) {
	t.Parallel()

	recs, skipped := parseAll(t, Options{Columns: jobCols}, "1,Engineer\n2,Manager\n")
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(recs) != 2 {
		t.Fatalf("rows = %d, want 2", len(recs))
	}
	if recs[0]["id"] != "1" || recs[0]["job"] != "Engineer" {
		t.Errorf("row 0 = %#v", recs[0])
	}
	if recs[1]["id"] != "2" || recs[1]["job"] != "Manager" {
		t.Errorf("row 1 = %#v", recs[1])
	}
}

func TestParse_EmptyCellsBecomeNil(t *testing.T) {
	t.Parallel()

	recs, _ := parseAll(t, Options{Columns: jobCols}, ",Manager\n")
	if recs[0]["id"] != nil {
		t.Errorf("id = %#v, want nil", recs[0]["id"])
	}
	if recs[0]["job"] != "Manager" {
		t.Errorf("job = %#v", recs[0]["job"])
	}
}

func TestParse_ShortRowsPadded(t *testing.T) {
	t.Parallel()

	cols := []string{"id", "name", "datetime", "department_id", "job_id"}
	recs, skipped := parseAll(t, Options{Columns: cols}, "4,Jane Doe,2021-07-27T16:02:08Z\n")
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if recs[0]["department_id"] != nil || recs[0]["job_id"] != nil {
		t.Errorf("missing trailing cells not padded: %#v", recs[0])
	}
}

func TestParse_WideRowsSkipped(t *testing.T) {
	t.Parallel()

	recs, skipped := parseAll(t, Options{Columns: jobCols}, "1,Engineer,extra\n2,Manager\n")
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(recs) != 1 || recs[0]["id"] != "2" {
		t.Fatalf("rows = %#v", recs)
	}
}

func TestParse_TrimSpaceAndBOM(t *testing.T) {
	t.Parallel()

	recs, _ := parseAll(t, Options{Columns: jobCols, TrimSpace: true}, "\uFEFF 1 , Engineer \n")
	if recs[0]["id"] != "1" {
		t.Errorf("id = %#v, want \"1\"", recs[0]["id"])
	}
	if recs[0]["job"] != "Engineer" {
		t.Errorf("job = %#v, want \"Engineer\"", recs[0]["job"])
	}
}

func TestParse_AltDelimiter(t *testing.T) {
	t.Parallel()

	recs, _ := parseAll(t, Options{Columns: jobCols, Comma: ';'}, "7;Analyst\n")
	if recs[0]["id"] != "7" || recs[0]["job"] != "Analyst" {
		t.Errorf("row = %#v", recs[0])
	}
}

func TestParse_NoColumns(t *testing.T) {
	t.Parallel()

	if _, _, err := NewParser(Options{}).Parse(strings.NewReader("1,x\n")); err == nil {
		t.Fatal("Parse accepted empty Columns")
	}
}
