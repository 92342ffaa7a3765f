package device

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/divetools/go-iconhd/protocol"
)

// readChunkSize is the size of one read from the port.
const readChunkSize = 512

// rxBacklog bounds how many unconsumed read chunks the session buffers.
const rxBacklog = 32

// session owns the open port and implements the one-command-one-response
// exchange primitive. All received bytes flow through a single reader
// goroutine into the rx channel; exchange is the only consumer. At most one
// exchange may be in flight at a time.
type session struct {
	port    Port
	timeout time.Duration

	busy atomic.Bool
	rx   chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

// newSession wraps an open, configured port and starts the reader goroutine.
func newSession(port Port, timeout time.Duration) *session {
	s := &session{
		port:    port,
		timeout: timeout,
		rx:      make(chan []byte, rxBacklog),
		closed:  make(chan struct{}),
	}
	go s.readLoop()
	return s
}

// readLoop moves bytes from the port into the rx channel until the port
// fails or the session closes. Closing the port unblocks a pending Read.
func (s *session) readLoop() {
	buf := make([]byte, readChunkSize)
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.rx <- chunk:
			case <-s.closed:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// exchange writes cmd as a single transfer and accumulates the response.
//
// If expect > 0 the response is complete once expect bytes have arrived
// (used for memory reads, whose payload may contain the END marker value).
// If expect == 0 the response is complete at the first END marker byte.
//
// Fails with ErrBusy if another exchange is pending, ErrTimeout if the
// response does not complete within the session timeout, ErrDisconnected if
// the session closes mid-exchange. The partial buffer is discarded on
// every failure path.
func (s *session) exchange(ctx context.Context, cmd []byte, expect int) ([]byte, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	select {
	case <-s.closed:
		return nil, ErrDisconnected
	default:
	}

	// Drop any bytes left over from a previous timed-out exchange so they
	// are not mistaken for the head of this response.
	s.drain()

	// The command and its parameter block must go out as one transfer; the
	// device treats a split write as two unrelated commands and reboots.
	if _, err := s.port.Write(cmd); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	var buf []byte
	for {
		select {
		case chunk := <-s.rx:
			buf = append(buf, chunk...)
			if done, n := responseComplete(buf, expect); done {
				return buf[:n], nil
			}
		case <-timer.C:
			return nil, fmt.Errorf("%w after %v (%d bytes received)", ErrTimeout, s.timeout, len(buf))
		case <-s.closed:
			return nil, ErrDisconnected
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// responseComplete reports whether buf holds a complete response and how
// many bytes of it belong to the response.
func responseComplete(buf []byte, expect int) (bool, int) {
	if expect > 0 {
		if len(buf) >= expect {
			return true, expect
		}
		return false, 0
	}
	for i, b := range buf {
		if b == protocol.EndMarker {
			return true, i + 1
		}
	}
	return false, 0
}

// drain discards buffered receive chunks without blocking.
func (s *session) drain() {
	for {
		select {
		case <-s.rx:
		default:
			return
		}
	}
}

// close shuts the session down, cancelling a pending exchange and stopping
// the reader goroutine. Safe to call more than once.
func (s *session) close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.port.Close()
	})
	return err
}
