// internal/source/modbus/client.go
package modbus

import (
	"fmt"
	"time"

	"github.com/goburrow/modbus"
	"k8s.io/klog/v2"

	"github.com/transistorgrab/modmon/internal/channel"
	"github.com/transistorgrab/modmon/internal/source"
)

// Config is minimal transport config.
type Config struct {
	// Transport is "tcp" or "rtu".
	Transport string

	// Address is host:port for TCP, the serial device path for RTU.
	Address string

	// Serial parameters (RTU only).
	BaudRate int
	DataBits int
	Parity   string
	StopBits int

	Timeout time.Duration
}

// Client implements source.Source over goburrow/modbus. One underlying
// connection, reused while healthy.
type Client struct {
	connect  func() error
	close    func() error
	setSlave func(uint8)
	mb       modbus.Client

	connected bool
}

// New creates a connected Modbus client. Startup fails fast: a dead
// device at boot is a configuration-level problem.
func New(cfg Config) (*Client, error) {
	c := &Client{}

	switch cfg.Transport {
	case "tcp":
		h := modbus.NewTCPClientHandler(cfg.Address)
		h.Timeout = cfg.Timeout
		c.connect = h.Connect
		c.close = h.Close
		c.setSlave = func(id uint8) { h.SlaveId = id }
		c.mb = modbus.NewClient(h)

	case "rtu":
		h := modbus.NewRTUClientHandler(cfg.Address)
		h.BaudRate = cfg.BaudRate
		h.DataBits = cfg.DataBits
		h.Parity = cfg.Parity
		h.StopBits = cfg.StopBits
		h.Timeout = cfg.Timeout
		c.connect = h.Connect
		c.close = h.Close
		c.setSlave = func(id uint8) { h.SlaveId = id }
		c.mb = modbus.NewClient(h)

	default:
		return nil, fmt.Errorf("modbus: unknown transport %q", cfg.Transport)
	}

	if err := c.connect(); err != nil {
		return nil, &source.CommError{Op: "connect", Err: err}
	}
	c.connected = true
	return c, nil
}

// Read performs one register read. Exactly count words or a CommError.
func (c *Client) Read(slaveID uint8, fn channel.RegisterFunction, address, count uint16) ([]uint16, error) {
	if !c.connected {
		return nil, &source.CommError{Op: "read"}
	}

	// The handle is owned by a single loop, so mutating the slave id
	// between reads is safe.
	c.setSlave(slaveID)

	var raw []byte
	var err error
	switch fn {
	case channel.HoldingRegister:
		raw, err = c.mb.ReadHoldingRegisters(address, count)
	default:
		raw, err = c.mb.ReadInputRegisters(address, count)
	}
	if err != nil {
		return nil, &source.CommError{Op: fmt.Sprintf("read slave=%d addr=%d count=%d", slaveID, address, count), Err: err}
	}
	if len(raw) != int(count)*2 {
		return nil, &source.CommError{Op: fmt.Sprintf("read addr=%d", address), Err: fmt.Errorf("short response: %d bytes for %d registers", len(raw), count)}
	}

	words := make([]uint16, count)
	for i := range words {
		words[i] = uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
	}
	return words, nil
}

func (c *Client) Connected() bool { return c.connected }

// Reconnect tears the connection down and dials again. One attempt.
func (c *Client) Reconnect() error {
	klog.V(2).InfoS("Reconnecting modbus transport")
	if err := c.close(); err != nil {
		klog.V(4).InfoS("Close before reconnect failed", "error", err)
	}
	c.connected = false
	if err := c.connect(); err != nil {
		return &source.CommError{Op: "reconnect", Err: err}
	}
	c.connected = true
	return nil
}

func (c *Client) Close() error {
	c.connected = false
	return c.close()
}
