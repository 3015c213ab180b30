// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"k8s.io/klog/v2"

	"github.com/transistorgrab/modmon/internal/channel"
	"github.com/transistorgrab/modmon/internal/format"
	"github.com/transistorgrab/modmon/internal/source"
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval  time.Duration
	WordOrder channel.WordOrder
	Channels  []channel.Channel
}

// Poller is a dumb, clock-driven reader. It owns the transport handle
// for the process lifetime; nothing else issues reads.
type Poller struct {
	cfg Config
	src source.Source
}

// New creates a poller with immutable config.
func New(cfg Config, src source.Source) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Channels) == 0 {
		return nil, errors.New("poller: at least one channel required")
	}
	if cfg.WordOrder == "" {
		cfg.WordOrder = channel.BigEndian
	}
	return &Poller{cfg: cfg, src: src}, nil
}

// PollOnce performs exactly one poll cycle: every channel in
// configuration order, one read each. A failing channel yields a
// placeholder Reading and the cycle continues; only cancellation stops
// it early, in which case the partial result is discarded.
func (p *Poller) PollOnce(ctx context.Context) (CycleResult, error) {
	res := CycleResult{At: time.Now()}

	for _, ch := range p.cfg.Channels {
		// Safe checkpoint: never interrupt mid-transport-call.
		select {
		case <-ctx.Done():
			return CycleResult{}, ctx.Err()
		default:
		}

		res.Readings = append(res.Readings, p.readChannel(ch, res.At))
		if last := &res.Readings[len(res.Readings)-1]; last.Raw != nil {
			res.Readable++
		}
	}
	return res, nil
}

func (p *Poller) readChannel(ch channel.Channel, at time.Time) Reading {
	rd := Reading{ChannelID: ch.ID, At: at, Text: format.Placeholder(ch.Slot.Width)}

	count, err := ch.Type.WordCount()
	if err != nil {
		// Unreachable after config validation.
		klog.ErrorS(err, "Channel has unknown data type", "channel", ch.ID)
		return rd
	}

	words, err := p.src.Read(ch.SlaveID, ch.Function, ch.Address, count)
	if err != nil {
		klog.V(2).InfoS("Channel read failed", "channel", ch.ID, "address", ch.Address, "error", err)
		return rd
	}
	rd.Raw = words

	v, err := channel.Decode(ch.Type, words, p.cfg.WordOrder)
	if err != nil {
		klog.ErrorS(err, "Channel decode failed", "channel", ch.ID)
		rd.Raw = nil
		return rd
	}

	if v.Unavailable {
		// Device is reachable but has no measurement (e.g. DC values
		// at night). Renders as the placeholder, does not count as a
		// communication failure.
		return rd
	}

	rd.OK = true
	if ch.Type.IsString() {
		rd.Text = format.Text(v.Text, ch.Slot.Width)
		return rd
	}
	rd.Value = v.Float * ch.Scale
	rd.Text = format.Fixed(rd.Value, ch.Precision, ch.Unit, ch.Slot.Width)
	return rd
}

// Reconnect asks the underlying source for one reconnect attempt.
func (p *Poller) Reconnect() error {
	return p.src.Reconnect()
}
