// internal/status/snapshot.go
package status

// Snapshot is the poll loop's current health state.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health          uint8
	ConsecutiveDown int
	RenderFailing   bool
}
