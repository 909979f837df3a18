package ingest

import (
	"log"

	"github.com/zeebo/xxh3"

	"hiringapi/internal/transformer/builtin"
)

// rejectLogLimit caps per-upload reject logging; beyond it only the summary
// line reports the damage.
const rejectLogLimit = 50

// rejectLog collects rejected rows for one upload. Rejection reasons are
// fingerprinted so a file with thousands of copies of the same defect logs
// each distinct reason once, plus a count in the summary.
type rejectLog struct {
	entity string
	total  int
	logged int
	counts map[uint64]int
	reason map[uint64]string
}

func newRejectLog(entity string) *rejectLog {
	return &rejectLog{
		entity: entity,
		counts: map[uint64]int{},
		reason: map[uint64]string{},
	}
}

// Add records one rejected row. First sight of a reason logs it with the raw
// row; repeats only bump the counter.
func (l *rejectLog) Add(rr builtin.RejectedRow) {
	l.total++
	fp := xxh3.HashString(rr.Reason)
	l.counts[fp]++
	if l.counts[fp] == 1 {
		l.reason[fp] = rr.Reason
	}
	if l.counts[fp] > 1 || l.logged >= rejectLogLimit {
		return
	}
	l.logged++
	log.Printf("ingest: %s: rejected row %v: %s", l.entity, rr.Raw, rr.Reason)
}

// Total returns the number of rows rejected so far.
func (l *rejectLog) Total() int { return l.total }

// Flush writes a per-reason summary when anything was rejected.
func (l *rejectLog) Flush() {
	if l.total == 0 {
		return
	}
	for fp, n := range l.counts {
		if n > 1 {
			log.Printf("ingest: %s: %d rows rejected: %s", l.entity, n, l.reason[fp])
		}
	}
	log.Printf("ingest: %s: %d rows rejected total", l.entity, l.total)
}
