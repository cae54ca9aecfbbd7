package metrics

import "time"

// Timer measures one facade operation's wall-clock duration, including any
// retries, and records it against OperationDuration when stopped.
type Timer struct {
	registry  *Registry
	operation string
	start     time.Time
}

// StartTimer begins timing operation. Safe to call on a nil Registry.
func (r *Registry) StartTimer(operation string) *Timer {
	return &Timer{registry: r, operation: operation, start: time.Now()}
}

// ObserveDuration records the elapsed time since StartTimer. Safe to call
// even if the Timer's Registry is nil.
func (t *Timer) ObserveDuration() time.Duration {
	elapsed := time.Since(t.start)
	if t.registry != nil {
		t.registry.OperationDuration.WithLabelValues(t.operation).Observe(elapsed.Seconds())
	}
	return elapsed
}

// RecordSuccess increments the success counter for operation.
func (r *Registry) RecordSuccess(operation string) {
	if r == nil {
		return
	}
	r.OperationsTotal.WithLabelValues(operation, "success").Inc()
}

// RecordFailure increments the failure counter for operation.
func (r *Registry) RecordFailure(operation string) {
	if r == nil {
		return
	}
	r.OperationsTotal.WithLabelValues(operation, "failure").Inc()
}

// RecordConflictRetry increments the conflict-retry counter for operation.
func (r *Registry) RecordConflictRetry(operation string) {
	if r == nil {
		return
	}
	r.ConflictRetriesTotal.WithLabelValues(operation).Inc()
}

// RecordIDListLength observes the length of an adjacency id-list walked in
// the given slot ("outbound", "inbound", "undirected").
func (r *Registry) RecordIDListLength(slot string, length int) {
	if r == nil {
		return
	}
	r.IDListLength.WithLabelValues(slot).Observe(float64(length))
}
