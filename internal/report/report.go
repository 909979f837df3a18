// Package report reshapes aggregate query results into the response shapes
// of the two reporting endpoints.
package report

import (
	"sort"

	"hiringapi/internal/storage"
)

// QuarterRow is one output row of the quarterly hiring report: hires per
// calendar quarter for a (department, job) pair.
type QuarterRow struct {
	Department string `json:"department"`
	Job        string `json:"job"`
	Q1         int64  `json:"Q1"`
	Q2         int64  `json:"Q2"`
	Q3         int64  `json:"Q3"`
	Q4         int64  `json:"Q4"`
}

// PivotQuarters pivots grouped (department, job, quarter) counts into one row
// per (department, job) with Q1..Q4 columns. The pivot is an inner join
// across the four quarterly subsets: a pair lacking activity in any quarter
// of the year produces no output row at all. Output is ordered by department,
// then job.
func PivotQuarters(in []storage.QuarterCount) []QuarterRow {
	type pair struct{ department, job string }

	acc := map[pair]*[4]int64{}
	for _, qc := range in {
		if qc.Quarter < 1 || qc.Quarter > 4 {
			continue
		}
		p := pair{qc.Department, qc.Job}
		q, ok := acc[p]
		if !ok {
			q = &[4]int64{}
			acc[p] = q
		}
		q[qc.Quarter-1] += qc.Count
	}

	out := make([]QuarterRow, 0, len(acc))
	for p, q := range acc {
		if q[0] == 0 || q[1] == 0 || q[2] == 0 || q[3] == 0 {
			continue
		}
		out = append(out, QuarterRow{
			Department: p.department,
			Job:        p.job,
			Q1:         q[0],
			Q2:         q[1],
			Q3:         q[2],
			Q4:         q[3],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Department != out[j].Department {
			return out[i].Department < out[j].Department
		}
		return out[i].Job < out[j].Job
	})
	return out
}
