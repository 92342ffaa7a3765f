package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/divetools/go-iconhd/dive"
	"github.com/divetools/go-iconhd/protocol"
)

// Manager owns the serial channel to one dive computer and runs the
// connection state machine:
//
//	Disconnected -> Connecting -> Connected
//	Connecting   -> Failed
//	Connected    -> Disconnected (explicit disconnect or channel loss)
//
// All protocol state lives here and in the session it owns; no other
// component writes to the channel.
type Manager struct {
	open Opener
	cfg  Config

	mu      sync.Mutex
	state   State
	lastErr error
	sess    *session
	info    *protocol.DeviceInfo
}

// NewManager creates a Manager that opens channels through the given Opener.
//
// Example:
//
//	mgr := device.NewManager(serialport.Open,
//	    device.WithLogger(myLogger),
//	    device.WithProfile(p),
//	)
func NewManager(open Opener, opts ...Option) *Manager {
	if open == nil {
		panic("opener cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Manager{
		open:  open,
		cfg:   cfg,
		state: Disconnected,
	}
}

// Connect opens the channel at path and runs the bring-up sequence:
//
//  1. Open the port (the Opener configures 115200 8E1, no flow control)
//  2. Settle: the device is unstable right after the port opens
//  3. Deassert RTS and DTR; leaving either asserted reboots the device
//  4. Settle again while the line states take effect
//
// Only after step 4 does the state become Connected. No command is sent
// automatically. Steps 2-4 are a non-skippable prefix of every attempt;
// there is no fast path.
func (m *Manager) Connect(ctx context.Context, path string) error {
	m.mu.Lock()
	if m.state == Connecting || m.state == Connected {
		m.mu.Unlock()
		return fmt.Errorf("connect: already %s", m.state)
	}
	m.state = Connecting
	m.lastErr = nil
	m.mu.Unlock()

	m.logDebug("opening port", "path", path)

	port, err := m.open(path)
	if err != nil {
		openErr := &OpenError{Path: path, Err: err}
		m.fail(openErr)
		return openErr
	}

	if err := m.bringUp(ctx, port); err != nil {
		_ = port.Close()
		m.fail(err)
		return err
	}

	m.mu.Lock()
	m.sess = newSession(port, m.cfg.Profile.ExchangeTimeout.Std())
	m.state = Connected
	m.mu.Unlock()

	m.logInfo("connected", "path", path)
	return nil
}

// bringUp performs the settle/deassert/settle sequence on a freshly opened
// port. The waits respect ctx so a caller can abandon a connect attempt.
func (m *Manager) bringUp(ctx context.Context, port Port) error {
	if err := sleepCtx(ctx, m.cfg.Profile.OpenSettle.Std()); err != nil {
		return err
	}

	if err := port.SetRTS(false); err != nil {
		return fmt.Errorf("deassert RTS: %w", err)
	}
	if err := port.SetDTR(false); err != nil {
		return fmt.Errorf("deassert DTR: %w", err)
	}
	m.logDebug("control lines deasserted")

	return sleepCtx(ctx, m.cfg.Profile.LineSettle.Std())
}

// Disconnect cancels any in-flight exchange, closes the channel and clears
// cached device metadata. Idempotent.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	sess := m.sess
	m.sess = nil
	m.info = nil
	m.state = Disconnected
	m.lastErr = nil
	m.mu.Unlock()

	if sess == nil {
		return nil
	}

	err := sess.close()
	m.logInfo("disconnected")
	return err
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the reason for the last failed connection attempt, or nil.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Exchange writes one command and returns the raw response frame, complete
// at the first END marker byte. Use ExchangeExpect for responses whose
// payload may legitimately contain the END marker value.
func (m *Manager) Exchange(ctx context.Context, cmd []byte) ([]byte, error) {
	sess, err := m.session()
	if err != nil {
		return nil, err
	}
	return sess.exchange(ctx, cmd, 0)
}

// ExchangeExpect writes one command and returns the raw response frame,
// complete once payloadLen payload bytes plus the two marker bytes have
// arrived. This is the right primitive for memory reads: log memory bytes
// can take any value, including the END marker's.
func (m *Manager) ExchangeExpect(ctx context.Context, cmd []byte, payloadLen int) ([]byte, error) {
	sess, err := m.session()
	if err != nil {
		return nil, err
	}
	return sess.exchange(ctx, cmd, payloadLen+protocol.MinFrameSize)
}

// Identify sends the version command and returns the decoded device
// identity. The result is cached until disconnect.
func (m *Manager) Identify(ctx context.Context) (*protocol.DeviceInfo, error) {
	m.mu.Lock()
	cached := m.info
	m.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	raw, err := m.Exchange(ctx, protocol.EncodeVersion())
	if err != nil {
		return nil, fmt.Errorf("version command: %w", err)
	}

	payload, err := protocol.ParseFrame(raw)
	if err != nil {
		return nil, fmt.Errorf("version response: %w", err)
	}

	info, err := protocol.ParseVersionResponse(payload)
	if err != nil {
		return nil, fmt.Errorf("version response: %w", err)
	}

	m.mu.Lock()
	m.info = info
	m.mu.Unlock()

	m.logInfo("device identified",
		"product", info.Product,
		"firmware", info.Firmware,
		"serial", info.Serial,
	)
	return info, nil
}

// DownloadDives scans the device's log memory and returns all recognized
// dives in discovery order, which is reverse-chronological.
func (m *Manager) DownloadDives(ctx context.Context) ([]dive.Dive, error) {
	scanner := NewScanner(m,
		WithProfile(m.cfg.Profile),
		WithLogger(m.cfg.Logger),
		WithProgressCallback(m.cfg.ProgressCallback),
	)
	return scanner.Run(ctx)
}

// session returns the live session or ErrDisconnected.
func (m *Manager) session() (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil, ErrDisconnected
	}
	return m.sess, nil
}

// fail records a failed connection attempt.
func (m *Manager) fail(err error) {
	m.mu.Lock()
	m.state = Failed
	m.lastErr = err
	m.mu.Unlock()

	m.logError("connect failed", "error", err)
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) logDebug(msg string, keysAndValues ...interface{}) {
	if m.cfg.Logger != nil {
		m.cfg.Logger.Debug(msg, keysAndValues...)
	}
}

func (m *Manager) logInfo(msg string, keysAndValues ...interface{}) {
	if m.cfg.Logger != nil {
		m.cfg.Logger.Info(msg, keysAndValues...)
	}
}

func (m *Manager) logError(msg string, keysAndValues ...interface{}) {
	if m.cfg.Logger != nil {
		m.cfg.Logger.Error(msg, keysAndValues...)
	}
}
