// cmd/modmon/main.go

// modmon is the headless monitor: it polls a configurable set of Modbus
// registers from a solar controller and renders the values on a local
// display. Configuration comes from a file written by modmon-setup.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/transistorgrab/modmon/internal/channel"
	"github.com/transistorgrab/modmon/internal/config"
	"github.com/transistorgrab/modmon/internal/display"
	"github.com/transistorgrab/modmon/internal/poller"
	"github.com/transistorgrab/modmon/internal/source/modbus"
)

type options struct {
	configPath string
	interval   int
	backend    string
	single     bool
	print      bool
}

func main() {
	cmd := newMonitorCmd()
	defer klog.Flush()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newMonitorCmd() *cobra.Command {
	o := options{}
	cmd := &cobra.Command{
		Use:           "modmon",
		Short:         "Modbus solar monitor with local display output",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o)
		},
	}

	cmd.Flags().StringVarP(&o.configPath, "config", "i", "", "configuration file (required)")
	cmd.Flags().IntVarP(&o.interval, "interval", "L", 0, "override poll interval in seconds")
	cmd.Flags().StringVar(&o.backend, "backend", "", "override display backend (char|pixel|led)")
	cmd.Flags().BoolVarP(&o.single, "single", "S", false, "do one poll cycle and exit")
	cmd.Flags().BoolVarP(&o.print, "print", "P", false, "print polled values to the console as well")
	addLoggingFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// addLoggingFlags exposes the klog flags (--v, --logtostderr, ...) on
// the command's flag set, where cobra actually parses them.
func addLoggingFlags(fs *pflag.FlagSet) {
	logFlags := goflag.NewFlagSet("logging", goflag.ContinueOnError)
	klog.InitFlags(logFlags)
	fs.AddGoFlagSet(logFlags)
}

func run(o options) error {
	// --------------------
	// Load + validate config. Failures here are fatal; nothing has
	// touched the device or the display yet.
	// --------------------

	cfg, err := config.Load(o.configPath)
	if err != nil {
		klog.ErrorS(err, "Configuration load failed")
		return err
	}
	if o.interval > 0 {
		cfg.Connection.PollInterval = o.interval
	}
	if o.backend != "" {
		cfg.Display.Backend = o.backend
	}
	if err := config.Validate(cfg); err != nil {
		klog.ErrorS(err, "Configuration validation failed")
		return err
	}
	config.Normalize(cfg)

	channels := cfg.ChannelList()
	if len(channels) == 0 {
		err := &config.Error{Field: "channels", Reason: "no channels configured, nothing to monitor"}
		klog.ErrorS(err, "Configuration validation failed")
		return err
	}

	backend := buildBackend(cfg, channels)
	if o.print {
		backend = display.Multi(backend, printBackend{})
	}

	// --------------------
	// Build the pipeline
	// --------------------

	p, closeSource, err := poller.Build(
		modbus.Config{
			Transport: cfg.Connection.Transport,
			Address:   cfg.Connection.Address,
			BaudRate:  cfg.Connection.BaudRate,
			DataBits:  cfg.Connection.DataBits,
			Parity:    cfg.Connection.Parity,
			StopBits:  cfg.Connection.StopBits,
			Timeout:   cfg.Connection.Timeout(),
		},
		poller.Config{
			Interval:  cfg.Connection.Interval(),
			WordOrder: cfg.WordOrder(),
			Channels:  channels,
		},
	)
	if err != nil {
		klog.ErrorS(err, "Transport setup failed")
		return err
	}
	defer func() {
		if err := closeSource(); err != nil {
			klog.V(2).InfoS("Transport close failed", "error", err)
		}
	}()

	runner := poller.NewRunner(p, backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	klog.InfoS("Monitor started",
		"transport", cfg.Connection.Transport,
		"address", cfg.Connection.Address,
		"backend", cfg.Display.Backend,
		"channels", len(channels),
		"interval", cfg.Connection.Interval())

	if o.single {
		runner.Cycle(ctx)
	} else {
		runner.Run(ctx)
	}

	// Blank the display and switch all LEDs off on the way out.
	if err := backend.Clear(); err != nil {
		klog.V(2).InfoS("Display clear on shutdown failed", "error", err)
	}

	klog.InfoS("Monitor exited cleanly")
	return nil
}

// buildBackend assembles the configured backend over the in-tree
// console devices. A build for real hardware swaps the device
// constructors here; the backends only see the device interfaces.
func buildBackend(cfg *config.Config, channels []channel.Channel) display.Backend {
	switch cfg.Display.Backend {
	case display.BackendPixel:
		return display.NewPixelText(display.NewConsoleFrame(os.Stdout), channels)
	case display.BackendLED:
		return display.NewLEDBank(display.NewConsoleShift(os.Stdout), channels, *cfg.Display.Backlight)
	default:
		return display.NewCharGrid(display.NewConsoleChar(os.Stdout), channels)
	}
}

// printBackend mirrors each cycle's values to stdout, independent of
// the display geometry.
type printBackend struct{}

func (printBackend) Render(readings []poller.Reading) error {
	for _, rd := range readings {
		fmt.Printf("%s\t%s\n", rd.ChannelID, rd.Text)
	}
	return nil
}

func (printBackend) Clear() error { return nil }
