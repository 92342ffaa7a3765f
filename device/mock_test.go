package device

import (
	"context"
	"encoding/binary"
	"io"
	"sync"

	"github.com/divetools/go-iconhd/protocol"
)

// fakePort is a scripted device.Port. A handler inspects each written
// command and queues response bytes for Read; a nil handler (or nil handler
// result) models a silent device.
type fakePort struct {
	mu      sync.Mutex
	pending []byte
	writes  [][]byte
	rts     []bool
	dtr     []bool

	handler func(cmd []byte) [][]byte

	rx        chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakePort(handler func(cmd []byte) [][]byte) *fakePort {
	return &fakePort{
		handler: handler,
		rx:      make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	if len(p.pending) > 0 {
		n := copy(b, p.pending)
		p.pending = p.pending[n:]
		p.mu.Unlock()
		return n, nil
	}
	p.mu.Unlock()

	select {
	case data := <-p.rx:
		p.mu.Lock()
		p.pending = append(p.pending, data...)
		n := copy(b, p.pending)
		p.pending = p.pending[n:]
		p.mu.Unlock()
		return n, nil
	case <-p.closed:
		return 0, io.ErrClosedPipe
	}
}

func (p *fakePort) Write(b []byte) (int, error) {
	select {
	case <-p.closed:
		return 0, io.ErrClosedPipe
	default:
	}

	cmd := append([]byte(nil), b...)
	p.mu.Lock()
	p.writes = append(p.writes, cmd)
	handler := p.handler
	p.mu.Unlock()

	if handler != nil {
		for _, chunk := range handler(cmd) {
			p.rx <- chunk
		}
	}
	return len(b), nil
}

func (p *fakePort) SetRTS(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rts = append(p.rts, level)
	return nil
}

func (p *fakePort) SetDTR(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dtr = append(p.dtr, level)
	return nil
}

func (p *fakePort) Close() error {
	p.closeOnce.Do(func() { close(p.closed) })
	return nil
}

func (p *fakePort) writeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writes)
}

// opener returns a device.Opener that always hands out this port.
func (p *fakePort) opener() Opener {
	return func(path string) (Port, error) {
		return p, nil
	}
}

// frame wraps a payload in the ACK/END markers.
func frame(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+2)
	out = append(out, protocol.AckMarker)
	out = append(out, payload...)
	out = append(out, protocol.EndMarker)
	return out
}

// versionPayload builds a plausible version response payload.
func versionPayload(product string) []byte {
	payload := make([]byte, protocol.VersionResponseSize)
	for i := range payload {
		payload[i] = 0xFF
	}
	copy(payload[protocol.ProductNameOffset:], product)
	copy(payload[protocol.FirmwareOffset:], "1.04")
	copy(payload[protocol.SerialOffset:], "PP3412045")
	return payload
}

// imageExchanger serves memory reads from an in-memory device image,
// implementing Exchanger without any transport underneath.
type imageExchanger struct {
	image    []byte
	reads    int
	failAddr map[uint32]error
	err      error
}

func (e *imageExchanger) Exchange(ctx context.Context, cmd []byte) ([]byte, error) {
	return e.ExchangeExpect(ctx, cmd, 0)
}

func (e *imageExchanger) ExchangeExpect(ctx context.Context, cmd []byte, payloadLen int) ([]byte, error) {
	e.reads++
	if e.err != nil {
		return nil, e.err
	}

	addr := binary.LittleEndian.Uint32(cmd[2:6])
	length := binary.LittleEndian.Uint32(cmd[6:10])

	if err, ok := e.failAddr[addr]; ok {
		return nil, err
	}

	end := addr + length
	if int(end) > len(e.image) {
		end = uint32(len(e.image))
	}
	return frame(e.image[addr:end]), nil
}
