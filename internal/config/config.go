// Package config loads the settings shared by the papyrus command line tools.
//
// A configuration file is optional. Keys missing from the file keep their default value.
// The decoder is picked from the file extension: '.toml' or '.yaml' / '.yml'.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no path is given.
const EnvConfigPath = "PAPYRUS_CONFIG"

var (
	ErrUnknownFormat = errors.New("unknown config file format")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// OutputFormats lists the accepted values of 'output.format'.
var OutputFormats = []string{"text", "json", "yaml"}

type Config struct {
	Parser    ParserConfig    `toml:"parser" yaml:"parser"`
	Workspace WorkspaceConfig `toml:"workspace" yaml:"workspace"`
	Output    OutputConfig    `toml:"output" yaml:"output"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Watch     WatchConfig     `toml:"watch" yaml:"watch"`
}

type ParserConfig struct {
	// MaxDepth bounds how deep statements and expressions may nest
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
}

type WorkspaceConfig struct {
	Extensions  []string `toml:"extensions" yaml:"extensions"`
	MaxDirDepth int      `toml:"max_dir_depth" yaml:"max_dir_depth"`
	// Concurrency is the number of files parsed at once, 0 means one per CPU
	Concurrency int `toml:"concurrency" yaml:"concurrency"`
}

type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
	Color  bool   `toml:"color" yaml:"color"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	// File receives the language server logs, empty means the OS temp directory
	File string `toml:"file" yaml:"file"`
}

type WatchConfig struct {
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration wraps time.Duration so that both decoders accept strings like "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}

	d.Duration = duration
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxDepth: 256,
		},
		Workspace: WorkspaceConfig{
			Extensions:  []string{"psc"},
			MaxDirDepth: 5,
			Concurrency: 0,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: Duration{200 * time.Millisecond},
		},
	}
}

// Load reads the configuration at 'path' on top of the defaults.
// An empty path falls back to $PAPYRUS_CONFIG, and to the defaults alone when that is unset too.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path == "" {
		return Default(), nil
	}

	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(content, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes 'content' on top of the defaults, 'ext' selects the decoder.
// The result is validated.
func Parse(content []byte, ext string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Parser.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: parser.max_depth must be positive, got %d", ErrInvalidConfig, c.Parser.MaxDepth))
	}

	if c.Workspace.MaxDirDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: workspace.max_dir_depth must not be negative, got %d", ErrInvalidConfig, c.Workspace.MaxDirDepth))
	}

	if c.Workspace.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("%w: workspace.concurrency must not be negative, got %d", ErrInvalidConfig, c.Workspace.Concurrency))
	}

	if len(c.Workspace.Extensions) == 0 {
		errs = append(errs, fmt.Errorf("%w: workspace.extensions is empty", ErrInvalidConfig))
	}

	if !slices.Contains(OutputFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("%w: unknown output.format %q", ErrInvalidConfig, c.Output.Format))
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if c.Watch.Debounce.Duration < 0 {
		errs = append(errs, fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ParseLevel maps 'debug', 'info', 'warn' and 'error' to their slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level

	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: unknown log.level %q", ErrInvalidConfig, level)
	}

	return l, nil
}
