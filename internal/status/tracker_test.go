// internal/status/tracker_test.go
package status

import (
	"errors"
	"testing"
)

func TestTracker_HealthTransitions(t *testing.T) {
	var tr Tracker

	if tr.Snapshot().Health != HealthUnknown {
		t.Fatalf("boot health=%d", tr.Snapshot().Health)
	}

	snap := tr.ObserveCycle(2, 2)
	if snap.Health != HealthOK {
		t.Fatalf("all readable: health=%d", snap.Health)
	}

	snap = tr.ObserveCycle(1, 2)
	if snap.Health != HealthDegraded {
		t.Fatalf("partial: health=%d", snap.Health)
	}

	snap = tr.ObserveCycle(0, 2)
	if snap.Health != HealthDown || snap.ConsecutiveDown != 1 {
		t.Fatalf("down: health=%d streak=%d", snap.Health, snap.ConsecutiveDown)
	}

	// a degraded cycle breaks the down streak
	snap = tr.ObserveCycle(1, 2)
	if snap.ConsecutiveDown != 0 {
		t.Fatalf("streak not reset: %d", snap.ConsecutiveDown)
	}
}

func TestTracker_ReconnectThreshold(t *testing.T) {
	var tr Tracker

	for i := 0; i < ReconnectThreshold-1; i++ {
		tr.ObserveCycle(0, 3)
		if tr.NeedsReconnect() {
			t.Fatalf("reconnect requested after %d cycles", i+1)
		}
	}

	tr.ObserveCycle(0, 3)
	if !tr.NeedsReconnect() {
		t.Fatalf("reconnect not requested at threshold")
	}

	tr.ReconnectAttempted()
	if tr.NeedsReconnect() {
		t.Fatalf("reconnect requested twice for one streak")
	}
}

func TestTracker_RenderTransitions(t *testing.T) {
	var tr Tracker
	fail := errors.New("display dead")

	if tr.ObserveRender(nil) {
		t.Fatalf("healthy start reported as transition")
	}
	if !tr.ObserveRender(fail) {
		t.Fatalf("failure onset not reported")
	}
	if tr.ObserveRender(fail) {
		t.Fatalf("repeated failure reported again")
	}
	if !tr.ObserveRender(nil) {
		t.Fatalf("recovery not reported")
	}
}
