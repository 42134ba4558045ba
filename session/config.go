package session

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/cellterm/bell"
	"github.com/lixenwraith/cellterm/grid"
	"github.com/lixenwraith/cellterm/input"
)

// EnvPrefix is prepended to every configuration variable
const EnvPrefix = "CELLTERM_"

// Mode selects how the caller consumes input
type Mode string

const (
	ModeDirect Mode = "direct" // Read polls once, never blocks
	ModeFilter Mode = "filter" // WaitFor blocks until an event of one kind
	ModeEvent  Mode = "event"  // Start runs a worker that dispatches to observers
)

// Config holds session settings, loaded from CELLTERM_* variables
type Config struct {
	Mode          Mode          `env:"MODE" envDefault:"direct"`
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"10ms"`
	EscapeTimeout time.Duration `env:"ESCAPE_TIMEOUT" envDefault:"50ms"`
	Binding       string        `env:"BINDING" envDefault:"raw"`
	Bell          string        `env:"BELL" envDefault:"terminal"`
	DefaultFg     string        `env:"DEFAULT_FG" envDefault:"#c0c0c0"`
	DefaultBg     string        `env:"DEFAULT_BG" envDefault:"#000000"`
	Debug         bool          `env:"DEBUG"`
	LogFile       string        `env:"LOG_FILE" envDefault:"logs/cellterm.log"`
}

// DefaultConfig returns the built-in defaults, ignoring the environment
func DefaultConfig() Config {
	cfg, _ := LoadConfigFrom(map[string]string{})
	return cfg
}

// LoadConfig reads configuration from the process environment
func LoadConfig() (Config, error) {
	return LoadConfigFrom(nil)
}

// LoadConfigFrom reads configuration from environ; nil means the process environment
func LoadConfigFrom(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("session: config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values and unusable durations or colors
func (c Config) Validate() error {
	switch c.Mode {
	case ModeDirect, ModeFilter, ModeEvent:
	default:
		return fmt.Errorf("session: unknown mode %q", c.Mode)
	}
	switch c.Binding {
	case input.BindingRaw, input.BindingTcell:
	default:
		return fmt.Errorf("session: unknown binding %q", c.Binding)
	}
	if _, err := bell.ParseMode(c.Bell); err != nil {
		return err
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("session: poll interval must be positive, got %v", c.PollInterval)
	}
	if _, _, err := c.Colors(); err != nil {
		return err
	}
	return nil
}

// Colors parses the default foreground and background
func (c Config) Colors() (fg, bg grid.RGB, err error) {
	if fg, err = parseHex(c.DefaultFg); err != nil {
		return
	}
	bg, err = parseHex(c.DefaultBg)
	return
}

func parseHex(s string) (grid.RGB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return grid.RGB{}, fmt.Errorf("session: color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return grid.RGB{R: r, G: g, B: b}, nil
}
