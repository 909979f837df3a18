package report

import (
	"reflect"
	"testing"

	"hiringapi/internal/storage"
)

func qc(dept, job string, quarter int, count int64) storage.QuarterCount {
	return storage.QuarterCount{Department: dept, Job: job, Quarter: quarter, Count: count}
}

func TestPivotQuarters_AllFourQuarters(t *testing.T) {
	t.Parallel()

	in := []storage.QuarterCount{
		qc("Engineering", "Engineer", 1, 3),
		qc("Engineering", "Engineer", 2, 1),
		qc("Engineering", "Engineer", 3, 4),
		qc("Engineering", "Engineer", 4, 2),
	}
	want := []QuarterRow{
		{Department: "Engineering", Job: "Engineer", Q1: 3, Q2: 1, Q3: 4, Q4: 2},
	}
	if got := PivotQuarters(in); !reflect.DeepEqual(got, want) {
		t.Errorf("PivotQuarters = %+v, want %+v", got, want)
	}
}

// A pair with activity in only some quarters is dropped entirely by the
// inner join across the four quarterly subsets.
func TestPivotQuarters_PartialYearDropped(t *testing.T) {
	t.Parallel()

	in := []storage.QuarterCount{
		qc("Sales", "Analyst", 1, 5),
		qc("Sales", "Analyst", 2, 2),
	}
	if got := PivotQuarters(in); len(got) != 0 {
		t.Errorf("PivotQuarters = %+v, want empty", got)
	}
}

func TestPivotQuarters_MixedPairs(t *testing.T) {
	t.Parallel()

	in := []storage.QuarterCount{
		// Complete year.
		qc("Support", "Agent", 1, 1),
		qc("Support", "Agent", 2, 1),
		qc("Support", "Agent", 3, 1),
		qc("Support", "Agent", 4, 1),
		// Missing Q4: dropped.
		qc("Engineering", "Engineer", 1, 9),
		qc("Engineering", "Engineer", 2, 9),
		qc("Engineering", "Engineer", 3, 9),
	}
	got := PivotQuarters(in)
	if len(got) != 1 || got[0].Department != "Support" {
		t.Fatalf("PivotQuarters = %+v, want only Support/Agent", got)
	}
}

func TestPivotQuarters_Ordering(t *testing.T) {
	t.Parallel()

	full := func(dept, job string) []storage.QuarterCount {
		return []storage.QuarterCount{
			qc(dept, job, 1, 1), qc(dept, job, 2, 1), qc(dept, job, 3, 1), qc(dept, job, 4, 1),
		}
	}
	var in []storage.QuarterCount
	in = append(in, full("Sales", "Analyst")...)
	in = append(in, full("Engineering", "Manager")...)
	in = append(in, full("Engineering", "Engineer")...)

	got := PivotQuarters(in)
	wantOrder := [][2]string{
		{"Engineering", "Engineer"},
		{"Engineering", "Manager"},
		{"Sales", "Analyst"},
	}
	if len(got) != len(wantOrder) {
		t.Fatalf("rows = %d, want %d", len(got), len(wantOrder))
	}
	for i, w := range wantOrder {
		if got[i].Department != w[0] || got[i].Job != w[1] {
			t.Errorf("row %d = %s/%s, want %s/%s", i, got[i].Department, got[i].Job, w[0], w[1])
		}
	}
}

func TestPivotQuarters_IgnoresOutOfRangeQuarter(t *testing.T) {
	t.Parallel()

	in := []storage.QuarterCount{
		qc("X", "Y", 0, 1),
		qc("X", "Y", 5, 1),
	}
	if got := PivotQuarters(in); len(got) != 0 {
		t.Errorf("PivotQuarters = %+v, want empty", got)
	}
}

func TestPivotQuarters_Empty(t *testing.T) {
	t.Parallel()

	if got := PivotQuarters(nil); len(got) != 0 {
		t.Errorf("PivotQuarters(nil) = %+v, want empty", got)
	}
}
