package ingest

import (
	"testing"

	"hiringapi/internal/transformer/builtin"
	"hiringapi/pkg/records"
)

func TestRejectLog_CountsAndDedupes(t *testing.T) {
	t.Parallel()

	l := newRejectLog("jobs")
	if l.Total() != 0 {
		t.Fatalf("Total = %d, want 0", l.Total())
	}

	for i := 0; i < 3; i++ {
		l.Add(builtin.RejectedRow{
			Raw:    records.Record{"id": nil, "job": "Manager"},
			Reason: "required field id is missing",
		})
	}
	l.Add(builtin.RejectedRow{
		Raw:    records.Record{"id": "abc", "job": "Clerk"},
		Reason: "field id is not a positive integer",
	})

	if l.Total() != 4 {
		t.Errorf("Total = %d, want 4", l.Total())
	}
	// Two distinct reasons, each logged once.
	if l.logged != 2 {
		t.Errorf("logged = %d, want 2", l.logged)
	}
	if len(l.counts) != 2 {
		t.Errorf("distinct reasons = %d, want 2", len(l.counts))
	}

	l.Flush() // should not panic and should cover the summary path
}

func TestRejectLog_LogCap(t *testing.T) {
	t.Parallel()

	l := newRejectLog("departments")
	for i := 0; i < rejectLogLimit+25; i++ {
		// Distinct reasons defeat deduplication so the cap must hold the line.
		l.Add(builtin.RejectedRow{
			Raw:    records.Record{"id": i},
			Reason: string(rune('a'+i%26)) + "-reason-" + string(rune('0'+i%10)),
		})
	}
	if l.logged > rejectLogLimit {
		t.Errorf("logged = %d, want <= %d", l.logged, rejectLogLimit)
	}
}
