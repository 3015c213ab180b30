// cmd/modmon-setup/main.go

// modmon-setup edits the monitor's configuration file on a machine with
// a keyboard: which registers to poll, how to scale them, and where
// each value sits on the display. It shares only the configuration
// model with the monitor; the two never run as one process.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/transistorgrab/modmon/internal/config"
)

func main() {
	if err := newSetupCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSetupCmd() *cobra.Command {
	var path string

	root := &cobra.Command{
		Use:          "modmon-setup",
		Short:        "Edit the modmon configuration file",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&path, "config", "i", "", "configuration file (required)")
	addLoggingFlags(root.PersistentFlags())
	_ = root.MarkPersistentFlagRequired("config")

	root.AddCommand(
		newInitCmd(&path),
		newShowCmd(&path),
		newValidateCmd(&path),
		newSetConnectionCmd(&path),
		newSetDisplayCmd(&path),
		newAddChannelCmd(&path),
		newRemoveChannelCmd(&path),
	)
	return root
}

// addLoggingFlags exposes the klog flags (--v, --logtostderr, ...) on
// the root flag set, where cobra actually parses them. They are
// persistent so every subcommand inherits them.
func addLoggingFlags(fs *pflag.FlagSet) {
	logFlags := goflag.NewFlagSet("logging", goflag.ContinueOnError)
	klog.InitFlags(logFlags)
	fs.AddGoFlagSet(logFlags)
}

func newInitCmd(path *string) *cobra.Command {
	conn := config.ConnectionConfig{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new configuration file skeleton",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(*path); err == nil {
				return errors.Errorf("%s already exists", *path)
			}
			cfg := &config.Config{Connection: conn}
			config.Normalize(cfg)
			return config.Save(*path, cfg)
		},
	}
	cmd.Flags().StringVar(&conn.Transport, "transport", "tcp", "tcp or rtu")
	cmd.Flags().StringVar(&conn.Address, "address", "", "host:port or serial device")
	cmd.Flags().Uint8Var(&conn.SlaveID, "slave", 1, "default Modbus slave id")
	return cmd
}

func newShowCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*path)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func newValidateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration the way the monitor will",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*path)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			fmt.Println("configuration ok")
			return nil
		},
	}
}

func newSetConnectionCmd(path *string) *cobra.Command {
	var conn config.ConnectionConfig
	cmd := &cobra.Command{
		Use:   "set-connection",
		Short: "Update connection parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(*path, func(cfg *config.Config) {
				f := cmd.Flags()
				if f.Changed("transport") {
					cfg.Connection.Transport = conn.Transport
				}
				if f.Changed("address") {
					cfg.Connection.Address = conn.Address
				}
				if f.Changed("baud") {
					cfg.Connection.BaudRate = conn.BaudRate
				}
				if f.Changed("slave") {
					cfg.Connection.SlaveID = conn.SlaveID
				}
				if f.Changed("timeout-ms") {
					cfg.Connection.TimeoutMs = conn.TimeoutMs
				}
				if f.Changed("interval") {
					cfg.Connection.PollInterval = conn.PollInterval
				}
				if f.Changed("word-order") {
					cfg.Connection.WordOrder = conn.WordOrder
				}
			})
		},
	}
	cmd.Flags().StringVar(&conn.Transport, "transport", "", "tcp or rtu")
	cmd.Flags().StringVar(&conn.Address, "address", "", "host:port or serial device")
	cmd.Flags().IntVar(&conn.BaudRate, "baud", 0, "serial baud rate")
	cmd.Flags().Uint8Var(&conn.SlaveID, "slave", 0, "default Modbus slave id")
	cmd.Flags().IntVar(&conn.TimeoutMs, "timeout-ms", 0, "per-read timeout")
	cmd.Flags().IntVar(&conn.PollInterval, "interval", 0, "poll interval in seconds")
	cmd.Flags().StringVar(&conn.WordOrder, "word-order", "", "big or little")
	return cmd
}

func newSetDisplayCmd(path *string) *cobra.Command {
	var backend string
	var backlight bool
	cmd := &cobra.Command{
		Use:   "set-display",
		Short: "Select the display backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(*path, func(cfg *config.Config) {
				if cmd.Flags().Changed("backend") {
					cfg.Display.Backend = backend
				}
				if cmd.Flags().Changed("backlight") {
					cfg.Display.Backlight = &backlight
				}
			})
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "char, pixel or led")
	cmd.Flags().BoolVar(&backlight, "backlight", true, "LED bank backlight")
	return cmd
}

func newAddChannelCmd(path *string) *cobra.Command {
	var cc config.ChannelConfig
	var led int
	cmd := &cobra.Command{
		Use:   "add-channel",
		Short: "Append a channel definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(*path, func(cfg *config.Config) {
				if cmd.Flags().Changed("led") {
					cc.Slot.LED = &led
				}
				cfg.Channels = append(cfg.Channels, cc)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&cc.ID, "id", "", "channel id")
	f.StringVar(&cc.Label, "label", "", "display label")
	f.Uint16Var(&cc.Address, "address", 0, "register address")
	f.StringVar(&cc.Function, "function", "", "input or holding")
	f.StringVar(&cc.Type, "type", "unsigned16", "register data type")
	f.Float64Var(&cc.Scale, "scale", 1, "scale factor")
	f.IntVar(&cc.Precision, "precision", 0, "decimal places")
	f.StringVar(&cc.Unit, "unit", "", "unit suffix")
	f.Float64Var(&cc.Threshold, "threshold", 0, "LED on-threshold")
	f.IntVar(&cc.Slot.Row, "row", 0, "character grid row")
	f.IntVar(&cc.Slot.Col, "col", 0, "character grid column")
	f.IntVar(&cc.Slot.Width, "width", 0, "slot width in characters")
	f.IntVar(&cc.Slot.X, "x", 0, "pixel region x")
	f.IntVar(&cc.Slot.Y, "y", 0, "pixel region y")
	f.IntVar(&led, "led", 0, "LED index")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

func newRemoveChannelCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-channel <id>",
		Short: "Remove a channel by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(*path, func(cfg *config.Config) {
				kept := cfg.Channels[:0]
				for _, cc := range cfg.Channels {
					if cc.ID != args[0] {
						kept = append(kept, cc)
					}
				}
				cfg.Channels = kept
			})
		},
	}
}

// edit loads, mutates, re-validates and saves. An edit that would leave
// the file unloadable by the monitor is rejected and not written.
func edit(path string, mutate func(cfg *config.Config)) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	mutate(cfg)
	if err := config.Validate(cfg); err != nil {
		return errors.Wrap(err, "edit rejected")
	}
	return config.Save(path, cfg)
}
