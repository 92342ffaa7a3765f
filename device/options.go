package device

import (
	"time"

	"github.com/divetools/go-iconhd/profile"
)

// Config holds the Manager and Scanner configuration.
type Config struct {
	// Profile carries the memory geometry and timing parameters
	Profile profile.Profile

	// Logger is used for logging operations (optional)
	Logger Logger

	// ProgressCallback is called during scanning to report progress (optional)
	ProgressCallback ProgressCallback
}

// defaultConfig returns the default configuration: Puck Pro geometry and
// timings, no logger, no progress callback.
func defaultConfig() Config {
	return Config{
		Profile: profile.PuckPro(),
	}
}

// Option is a functional option for configuring the Manager or Scanner.
type Option func(*Config)

// WithProfile sets the device profile (memory geometry and timings).
//
// Example:
//
//	p, _ := profile.Load("iconhd.yaml")
//	mgr := device.NewManager(serialport.Open, device.WithProfile(p))
func WithProfile(p profile.Profile) Option {
	return func(c *Config) {
		c.Profile = p
	}
}

// WithLogger sets a logger for connection and scan operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithProgressCallback sets a callback to track scan progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithExchangeTimeout overrides the profile's exchange timeout.
func WithExchangeTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.Profile.ExchangeTimeout = profile.Duration(timeout)
		}
	}
}

// WithSettleDelays overrides the profile's bring-up settle delays: the wait
// after opening the port and the wait after deasserting the control lines.
// Shortening these on a real device risks rebooting it; the override exists
// for tests and for firmware revisions with confirmed faster boot ROMs.
func WithSettleDelays(open, line time.Duration) Option {
	return func(c *Config) {
		if open >= 0 {
			c.Profile.OpenSettle = profile.Duration(open)
		}
		if line >= 0 {
			c.Profile.LineSettle = profile.Duration(line)
		}
	}
}
