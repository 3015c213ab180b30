// internal/status/tracker.go
package status

// Tracker folds per-cycle outcomes into a Snapshot and answers the two
// questions the runner has: "escalate to a reconnect now?" and "did the
// render path just change state?". No IO. No side effects.
type Tracker struct {
	snap Snapshot
}

func (t *Tracker) Snapshot() Snapshot { return t.snap }

// ObserveCycle records one completed poll cycle.
func (t *Tracker) ObserveCycle(readable, total int) Snapshot {
	switch {
	case total > 0 && readable == 0:
		t.snap.Health = HealthDown
		t.snap.ConsecutiveDown++
	case readable < total:
		t.snap.Health = HealthDegraded
		t.snap.ConsecutiveDown = 0
	default:
		t.snap.Health = HealthOK
		t.snap.ConsecutiveDown = 0
	}
	return t.snap
}

// NeedsReconnect reports whether the down streak reached the threshold.
// The caller must follow up with ReconnectAttempted so a single streak
// triggers exactly one attempt.
func (t *Tracker) NeedsReconnect() bool {
	return t.snap.ConsecutiveDown >= ReconnectThreshold
}

// ReconnectAttempted resets the streak counter after one attempt.
func (t *Tracker) ReconnectAttempted() {
	t.snap.ConsecutiveDown = 0
}

// ObserveRender records a render outcome. It returns true on a failure
// transition in either direction, so callers can log once per
// transition instead of once per cycle.
func (t *Tracker) ObserveRender(err error) bool {
	failing := err != nil
	changed := failing != t.snap.RenderFailing
	t.snap.RenderFailing = failing
	return changed
}
