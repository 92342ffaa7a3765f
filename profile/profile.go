// Package profile defines per-device-family configuration for the download
// engine.
//
// The IconHD wire protocol itself is fixed, but the memory geometry is not:
// the top of the used log region and the scan block size vary by model and
// firmware revision and were only empirically confirmed per family. They are
// therefore carried as configuration rather than protocol constants, along
// with the connection timing knobs.
package profile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile holds the memory geometry and timing parameters for one device
// family. Treat values as immutable once the profile is handed to the
// download engine.
type Profile struct {
	// Model is the device model name the profile applies to
	Model string `yaml:"model"`

	// LogTop is the exclusive upper bound of the used log region. Scanning
	// starts at LogTop-BlockSize and walks down to address 0.
	LogTop uint32 `yaml:"log_top"`

	// BlockSize is the size of one scan read, in bytes
	BlockSize uint32 `yaml:"block_size"`

	// EmptyTolerance is the number of non-0xFF bytes a block may contain
	// and still be classified as erased (tolerates line noise)
	EmptyTolerance int `yaml:"empty_tolerance"`

	// OpenSettle is the delay after opening the port, before touching the
	// control lines; the device is unstable right after open
	OpenSettle Duration `yaml:"open_settle"`

	// LineSettle is the delay after deasserting RTS and DTR, before the
	// first command may be sent
	LineSettle Duration `yaml:"line_settle"`

	// ExchangeTimeout bounds one command/response exchange
	ExchangeTimeout Duration `yaml:"exchange_timeout"`
}

// PuckPro returns the profile for the Mares Puck Pro, the one unit the
// memory geometry has been validated against. Other family members are
// expected to differ in LogTop; validate against a live device first.
func PuckPro() Profile {
	return Profile{
		Model:           "Puck Pro",
		LogTop:          0x00020000,
		BlockSize:       256,
		EmptyTolerance:  10,
		OpenSettle:      Duration(500 * time.Millisecond),
		LineSettle:      Duration(2 * time.Second),
		ExchangeTimeout: Duration(3 * time.Second),
	}
}

// Load reads a profile from a YAML file. Fields absent from the file keep
// the Puck Pro defaults, so a profile file only needs to name what differs.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	p := PuckPro()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile for values the scanner cannot work with.
func (p Profile) Validate() error {
	if p.BlockSize == 0 {
		return fmt.Errorf("block_size must be positive")
	}
	if p.LogTop == 0 {
		return fmt.Errorf("log_top must be positive")
	}
	if p.LogTop%p.BlockSize != 0 {
		return fmt.Errorf("log_top 0x%X is not a multiple of block_size %d", p.LogTop, p.BlockSize)
	}
	if p.EmptyTolerance < 0 || uint32(p.EmptyTolerance) >= p.BlockSize {
		return fmt.Errorf("empty_tolerance %d must be in [0, block_size)", p.EmptyTolerance)
	}
	if p.ExchangeTimeout <= 0 {
		return fmt.Errorf("exchange_timeout must be positive")
	}
	return nil
}

// Duration is a time.Duration that unmarshals from YAML strings like "500ms"
// or "3s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
