package metrics

import (
	"testing"
	"testing/quick"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_RecordSuccessIncrementsCounter(t *testing.T) {
	r := NewRegistry()
	r.RecordSuccess("NewVertex")
	r.RecordSuccess("NewVertex")
	r.RecordFailure("NewVertex")

	if got := testutil.ToFloat64(r.OperationsTotal.WithLabelValues("NewVertex", "success")); got != 2 {
		t.Errorf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(r.OperationsTotal.WithLabelValues("NewVertex", "failure")); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
}

func TestRegistry_RecordConflictRetry(t *testing.T) {
	r := NewRegistry()
	r.RecordConflictRetry("Link")
	r.RecordConflictRetry("Link")

	if got := testutil.ToFloat64(r.ConflictRetriesTotal.WithLabelValues("Link")); got != 2 {
		t.Errorf("expected 2 conflict retries, got %v", got)
	}
}

func TestRegistry_NilReceiverIsNoOp(t *testing.T) {
	var r *Registry
	r.RecordSuccess("NewVertex")
	r.RecordFailure("NewVertex")
	r.RecordConflictRetry("Link")
	r.RecordIDListLength("outbound", 3)
	timer := r.StartTimer("NewVertex")
	timer.ObserveDuration()
}

func TestRegistry_RecordIDListLengthAcceptsAnyNonNegativeLength(t *testing.T) {
	r := NewRegistry()
	f := func(n uint16) bool {
		r.RecordIDListLength("outbound", int(n))
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
