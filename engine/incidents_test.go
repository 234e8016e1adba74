package engine

import (
	"testing"

	"crowdwatch/model"
)

func feed(n int) []model.IncidentRecord {
	records := make([]model.IncidentRecord, n)
	for i := range records {
		// Newest-first, like the backend sends it
		records[i] = model.IncidentRecord{
			Timestamp:   int64(1700000000000 - i*1000),
			RiskLevel:   model.RiskHigh,
			PeopleCount: 30 + i,
			RiskScore:   0.8,
		}
	}
	return records
}

func TestReconcilerCapsLog(t *testing.T) {
	r := NewReconciler()
	r.Apply(feed(37))

	got := r.Records()
	if len(got) != model.IncidentLogCap {
		t.Fatalf("log length = %d, want %d", len(got), model.IncidentLogCap)
	}
	// The cap keeps the newest entries: the head of the feed
	if got[0].Timestamp != 1700000000000 {
		t.Fatalf("first record ts = %d, want newest", got[0].Timestamp)
	}
}

func TestReconcilerReplacesWholesale(t *testing.T) {
	r := NewReconciler()
	r.Apply(feed(8))
	if len(r.Records()) != 8 {
		t.Fatalf("len = %d, want 8", len(r.Records()))
	}

	// A shrinking feed between polls must shrink the log, never accumulate
	r.Apply(feed(3))
	if len(r.Records()) != 3 {
		t.Fatalf("len after shrinking feed = %d, want 3", len(r.Records()))
	}

	// An empty successful poll yields the explicit empty state
	r.Apply(nil)
	if len(r.Records()) != 0 {
		t.Fatalf("len after empty feed = %d, want 0", len(r.Records()))
	}
	if !r.Polled() {
		t.Fatal("empty successful poll should still count as polled")
	}
}

func TestReconcilerClear(t *testing.T) {
	r := NewReconciler()
	r.Apply(feed(5))
	r.Clear()

	if len(r.Records()) != 0 || r.Polled() {
		t.Fatal("Clear should empty the log and reset the polled flag")
	}
}
