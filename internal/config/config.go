// Package config loads the textkit command configuration from YAML with
// environment overrides. Library packages never read it; the command turns
// it into options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/textkit/text"
)

// FontConfig selects the fonts.
type FontConfig struct {
	Family    string  `yaml:"family"`
	PointSize float64 `yaml:"point_size"`
	DPI       float64 `yaml:"dpi"`

	// Files are font files registered next to the embedded Go fonts.
	Files []string `yaml:"files"`
}

// LayoutConfig holds the default presentation settings.
type LayoutConfig struct {
	Wrap          string  `yaml:"wrap"`           // word | character
	Align         string  `yaml:"align"`          // begin | center | end
	VerticalAlign string  `yaml:"vertical_align"` // top | middle | bottom
	LineSpacing   float64 `yaml:"line_spacing"`
	MultiLine     bool    `yaml:"multi_line"`
	Ellipsis      bool    `yaml:"ellipsis"`
}

// AsyncConfig sizes the task manager.
type AsyncConfig struct {
	// Workers <= 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// LoggingConfig configures the command logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
	Source bool   `yaml:"source"`
	// File enables a rotated log file next to the console output.
	File   string `yaml:"file"`
}

// Config is the command configuration.
type Config struct {
	ConfigVersion int           `yaml:"config_version"`
	Font          FontConfig    `yaml:"font"`
	Layout        LayoutConfig  `yaml:"layout"`
	Async         AsyncConfig   `yaml:"async"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ConfigVersion: 1,
		Font:          FontConfig{Family: "Go", PointSize: 16, DPI: 72},
		Layout:        LayoutConfig{Wrap: "word", Align: "begin", VerticalAlign: "top", MultiLine: true},
		Logging:       LoggingConfig{Level: "info", Format: "text"},
	}
}

// Environment overrides.
const (
	EnvFontFamily  = "TEXTKIT_FONT_FAMILY"
	EnvPointSize   = "TEXTKIT_POINT_SIZE"
	EnvDPI         = "TEXTKIT_DPI"
	EnvFontFiles   = "TEXTKIT_FONT_FILES"
	EnvWrap        = "TEXTKIT_WRAP"
	EnvAlign       = "TEXTKIT_ALIGN"
	EnvLineSpacing = "TEXTKIT_LINE_SPACING"
	EnvWorkers     = "TEXTKIT_WORKERS"
	EnvLogLevel    = "TEXTKIT_LOG_LEVEL"
	EnvLogFormat   = "TEXTKIT_LOG_FORMAT"
	EnvLogSource   = "TEXTKIT_LOG_SOURCE"
	EnvLogFile     = "TEXTKIT_LOG_FILE"
)

// Load reads the YAML file at path over the defaults, applies the
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", filepath.Base(path), err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Keys missing from data keep their values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.Layout.Wrap = normalize(cfg.Layout.Wrap)
	cfg.Layout.Align = normalize(cfg.Layout.Align)
	cfg.Layout.VerticalAlign = normalize(cfg.Layout.VerticalAlign)
	cfg.Logging.Level = normalize(cfg.Logging.Level)
	cfg.Logging.Format = normalize(cfg.Logging.Format)
	return nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseBool(s string) bool {
	switch normalize(s) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func applyEnvOverrides(cfg *Config) error {
	var errs []error
	float := func(key string, dst *float64) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	str(EnvFontFamily, &cfg.Font.Family)
	float(EnvPointSize, &cfg.Font.PointSize)
	float(EnvDPI, &cfg.Font.DPI)
	if v := os.Getenv(EnvFontFiles); v != "" {
		cfg.Font.Files = filepath.SplitList(v)
	}
	if v := os.Getenv(EnvWrap); v != "" {
		cfg.Layout.Wrap = normalize(v)
	}
	if v := os.Getenv(EnvAlign); v != "" {
		cfg.Layout.Align = normalize(v)
	}
	float(EnvLineSpacing, &cfg.Layout.LineSpacing)
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvWorkers, err))
		} else {
			cfg.Async.Workers = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = normalize(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = normalize(v)
	}
	if v := os.Getenv(EnvLogSource); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	str(EnvLogFile, &cfg.Logging.File)
	return errors.Join(errs...)
}

// EnvOverrideFor returns the environment variable overriding a config key,
// if it is set.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := map[string]string{
		"font.family":         EnvFontFamily,
		"font.point_size":     EnvPointSize,
		"font.dpi":            EnvDPI,
		"font.files":          EnvFontFiles,
		"layout.wrap":         EnvWrap,
		"layout.align":        EnvAlign,
		"layout.line_spacing": EnvLineSpacing,
		"async.workers":       EnvWorkers,
		"logging.level":       EnvLogLevel,
		"logging.format":      EnvLogFormat,
		"logging.source":      EnvLogSource,
		"logging.file":        EnvLogFile,
	}[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if !(c.Font.PointSize > 0) {
		errs = append(errs, fmt.Errorf("font.point_size must be positive, got %v", c.Font.PointSize))
	}
	if !(c.Font.DPI > 0) {
		errs = append(errs, fmt.Errorf("font.dpi must be positive, got %v", c.Font.DPI))
	}
	if _, err := c.Layout.WrapMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Layout.HorizontalAlignment(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Layout.VerticalAlignment(); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// WrapMode returns the configured wrap mode.
func (l LayoutConfig) WrapMode() (text.WrapMode, error) {
	switch l.Wrap {
	case "word", "":
		return text.WrapWord, nil
	case "character", "char":
		return text.WrapCharacter, nil
	}
	return text.WrapWord, fmt.Errorf("layout.wrap: unknown mode %q", l.Wrap)
}

// HorizontalAlignment returns the configured horizontal alignment.
func (l LayoutConfig) HorizontalAlignment() (text.HorizontalAlignment, error) {
	switch l.Align {
	case "begin", "start", "":
		return text.AlignBegin, nil
	case "center":
		return text.AlignCenter, nil
	case "end":
		return text.AlignEnd, nil
	}
	return text.AlignBegin, fmt.Errorf("layout.align: unknown alignment %q", l.Align)
}

// VerticalAlignment returns the configured vertical alignment.
func (l LayoutConfig) VerticalAlignment() (text.VerticalAlignment, error) {
	switch l.VerticalAlign {
	case "top", "":
		return text.AlignTop, nil
	case "middle", "center":
		return text.AlignMiddle, nil
	case "bottom":
		return text.AlignBottom, nil
	}
	return text.AlignTop, fmt.Errorf("layout.vertical_align: unknown alignment %q", l.VerticalAlign)
}
