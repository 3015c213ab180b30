// internal/status/constants.go
package status

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state, before the first cycle.
const HealthUnknown uint8 = 0

// HealthOK represents a cycle with every channel readable.
const HealthOK uint8 = 1

// HealthDegraded represents a cycle with some channels unreadable.
const HealthDegraded uint8 = 2

// HealthDown represents a cycle with zero channels readable.
const HealthDown uint8 = 3

// ---- ESCALATION ----

// ReconnectThreshold is the number of consecutive all-channel-failure
// cycles that triggers one transport reconnect attempt.
const ReconnectThreshold = 3
