// Package serialport provides the go.bug.st/serial backed implementation of
// the device.Port interface.
//
// The IconHD USB-serial bridge runs at 115200 baud with 8 data bits, even
// parity and 1 stop bit, no flow control. Open configures exactly that; the
// connection manager stays in charge of the control-line sequencing and
// never reconfigures the port afterwards.
package serialport

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/divetools/go-iconhd/device"
)

// Line discipline for the IconHD family.
const (
	// BaudRate is the fixed line speed
	BaudRate = 115200

	// readTimeout bounds one Read call so the session's reader goroutine
	// can observe a closing port instead of blocking forever. Short enough
	// to stay responsive, long enough to not busy-poll.
	readTimeout = 100 * time.Millisecond
)

// Compile-time interface check.
var _ device.Port = (*port)(nil)

// port wraps a go.bug.st serial.Port as a device.Port.
type port struct {
	p serial.Port
}

// Open opens the serial device at path configured for the IconHD line
// discipline. It satisfies device.Opener:
//
//	mgr := device.NewManager(serialport.Open)
func Open(path string) (device.Port, error) {
	mode := &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.EvenParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := p.SetReadTimeout(readTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", path, err)
	}

	return &port{p: p}, nil
}

func (s *port) Read(b []byte) (int, error) {
	return s.p.Read(b)
}

func (s *port) Write(b []byte) (int, error) {
	return s.p.Write(b)
}

func (s *port) SetRTS(level bool) error {
	return s.p.SetRTS(level)
}

func (s *port) SetDTR(level bool) error {
	return s.p.SetDTR(level)
}

func (s *port) Close() error {
	return s.p.Close()
}
