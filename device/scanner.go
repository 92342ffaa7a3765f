package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/divetools/go-iconhd/dive"
	"github.com/divetools/go-iconhd/protocol"
)

// Exchanger is the transport surface the Scanner needs: one command in, one
// raw response frame out. Manager implements it; tests supply fakes.
type Exchanger interface {
	Exchange(ctx context.Context, cmd []byte) ([]byte, error)
	ExchangeExpect(ctx context.Context, cmd []byte, payloadLen int) ([]byte, error)
}

// Scanner discovers dive records by streaming device log memory backward.
//
// The device has no trustworthy dive-count field (the candidate count
// addresses read back an all-ones sentinel or values with no confirmed
// encoding), so the scanner reads fixed-size blocks from the top of the log
// region down to address 0, classifies each block as erased or not, and
// probes non-erased blocks for record length prefixes.
type Scanner struct {
	x   Exchanger
	cfg Config
}

// NewScanner creates a Scanner over the given Exchanger.
func NewScanner(x Exchanger, opts ...Option) *Scanner {
	if x == nil {
		panic("exchanger cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Scanner{x: x, cfg: cfg}
}

// Run executes the full scan and returns all recognized dives in discovery
// order (reverse-chronological, since addresses descend).
//
// Per-block failures — timeouts, framing errors, implausible candidates —
// are logged and skipped; a single corrupted read must not abort a
// multi-minute scan. Run itself fails only when the scan cannot continue at
// all: the channel is gone or ctx was cancelled. A completed scan that
// recognized nothing returns an empty, non-nil slice.
func (s *Scanner) Run(ctx context.Context) ([]dive.Dive, error) {
	blockSize := s.cfg.Profile.BlockSize
	totalBlocks := int(s.cfg.Profile.LogTop / blockSize)

	dives := []dive.Dive{}
	start := time.Now()
	blocksRead := 0

	s.logInfo("scan started",
		"log_top", fmt.Sprintf("0x%08X", s.cfg.Profile.LogTop),
		"block_size", blockSize,
		"blocks", totalBlocks,
	)

	// Walk downward from the top of the log region. The loop variable is
	// signed so the final step below address 0 terminates cleanly.
	for addr := int64(s.cfg.Profile.LogTop) - int64(blockSize); addr >= 0; addr -= int64(blockSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		block, err := s.readMemory(ctx, uint32(addr), blockSize)
		blocksRead++
		if err != nil {
			if errors.Is(err, ErrDisconnected) || ctx.Err() != nil {
				return nil, err
			}
			// Expected noise in a heuristic scan: skip the block, keep going.
			s.logError("block read failed, skipping",
				"addr", fmt.Sprintf("0x%08X", addr), "error", err)
			s.report(PhaseScanning, blocksRead, totalBlocks, len(dives), start)
			continue
		}

		d, ok := s.probeBlock(ctx, uint32(addr), block)
		if ok {
			dives = append(dives, *d)
			s.logInfo("dive found",
				"addr", fmt.Sprintf("0x%08X", addr),
				"number", d.Header.Number,
				"start", d.Header.Start.Format("2006-01-02 15:04:05"),
				"max_depth_m", d.Header.MaxDepth,
			)
		}

		s.report(PhaseScanning, blocksRead, totalBlocks, len(dives), start)
	}

	s.report(PhaseComplete, blocksRead, totalBlocks, len(dives), start)
	s.logInfo("scan complete",
		"blocks_read", blocksRead,
		"dives", len(dives),
		"elapsed", time.Since(start).String(),
	)
	return dives, nil
}

// probeBlock classifies one block and, if it starts a plausible record,
// decodes it. Records longer than one block are completed with a single
// follow-up read so the trailing header is reachable.
func (s *Scanner) probeBlock(ctx context.Context, addr uint32, block []byte) (*dive.Dive, bool) {
	if isErased(block, s.cfg.Profile.EmptyTolerance) {
		return nil, false
	}

	length, ok := dive.DecodeLength(block)
	if !ok {
		return nil, false
	}

	record := block
	if length > uint32(len(block)) {
		full, err := s.readMemory(ctx, addr, length)
		if err != nil {
			s.logError("record completion read failed, skipping",
				"addr", fmt.Sprintf("0x%08X", addr), "length", length, "error", err)
			return nil, false
		}
		record = full
	}

	d, ok := dive.DecodeRecord(record[:length])
	if !ok {
		return nil, false
	}
	return d, true
}

// readMemory exchanges one memory read and returns the payload bytes.
func (s *Scanner) readMemory(ctx context.Context, addr, length uint32) ([]byte, error) {
	cmd := protocol.EncodeMemoryRead(addr, length)

	raw, err := s.x.ExchangeExpect(ctx, cmd, int(length))
	if err != nil {
		return nil, err
	}

	payload, err := protocol.ParseFrame(raw)
	if err != nil {
		return nil, err
	}

	if uint32(len(payload)) != length {
		return nil, fmt.Errorf("short memory read: got %d bytes, requested %d", len(payload), length)
	}
	return payload, nil
}

// isErased reports whether a block is erased flash: all 0xFF up to a small
// noise tolerance.
func isErased(block []byte, tolerance int) bool {
	noise := 0
	for _, b := range block {
		if b != 0xFF {
			noise++
			if noise > tolerance {
				return false
			}
		}
	}
	return true
}

func (s *Scanner) report(phase string, blocksRead, totalBlocks, divesFound int, start time.Time) {
	if s.cfg.ProgressCallback == nil {
		return
	}

	pct := 100.0
	if totalBlocks > 0 && phase != PhaseComplete {
		pct = float64(blocksRead) / float64(totalBlocks) * 100
	}

	s.cfg.ProgressCallback(Progress{
		Phase:       phase,
		BlocksRead:  blocksRead,
		TotalBlocks: totalBlocks,
		DivesFound:  divesFound,
		Percentage:  pct,
		Elapsed:     time.Since(start),
	})
}

func (s *Scanner) logInfo(msg string, keysAndValues ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Info(msg, keysAndValues...)
	}
}

func (s *Scanner) logError(msg string, keysAndValues ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Error(msg, keysAndValues...)
	}
}
