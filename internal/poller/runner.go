// internal/poller/runner.go
package poller

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/transistorgrab/modmon/internal/status"
)

// Renderer is the render side of a poll cycle. The display package
// provides the implementations.
type Renderer interface {
	Render(readings []Reading) error
}

// Runner drives poll-then-render cycles on a fixed-period timer.
// Cycles never overlap: if one runs long, the next tick is simply
// delayed. Steady-state errors are logged and recovered; nothing here
// terminates the process.
type Runner struct {
	p       *Poller
	r       Renderer
	tracker status.Tracker
}

func NewRunner(p *Poller, r Renderer) *Runner {
	return &Runner{p: p, r: r}
}

// Run loops until ctx is cancelled. The first cycle starts immediately
// so the display is not blank for a full interval after boot.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.p.cfg.Interval)
	defer ticker.Stop()

	r.Cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cycle(ctx)
		}
	}
}

// Cycle executes one poll-then-render pass. Exported for --single mode.
func (r *Runner) Cycle(ctx context.Context) {
	res, err := r.p.PollOnce(ctx)
	if err != nil {
		// Cancelled between channel reads; the partial cycle is
		// discarded so the display never shows a mixed state.
		return
	}

	snap := r.tracker.ObserveCycle(res.Readable, len(res.Readings))
	if snap.Health == status.HealthDown {
		klog.InfoS("Poll cycle read no channels", "consecutive", snap.ConsecutiveDown)
	} else {
		klog.V(4).InfoS("Poll cycle complete", "readable", res.Readable, "channels", len(res.Readings))
	}

	rerr := r.r.Render(res.Readings)
	if r.tracker.ObserveRender(rerr) {
		// Once per transition, not once per cycle.
		if rerr != nil {
			klog.ErrorS(rerr, "Display backend failing")
		} else {
			klog.InfoS("Display backend recovered")
		}
	}

	if r.tracker.NeedsReconnect() {
		if err := r.p.Reconnect(); err != nil {
			klog.ErrorS(err, "Transport reconnect failed, will keep polling")
		} else {
			klog.InfoS("Transport reconnected")
		}
		r.tracker.ReconnectAttempted()
	}
}

// Snapshot exposes current health, mainly for tests.
func (r *Runner) Snapshot() status.Snapshot { return r.tracker.Snapshot() }
