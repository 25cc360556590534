package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jenga/jenga-go/jengaprotocol"
)

// Config holds the CLI settings. Values are layered: built-in defaults,
// then the config file, then the environment (including .env), then flags.
type Config struct {
	Host          string   `toml:"host" yaml:"host"`
	Port          int      `toml:"port" yaml:"port"`
	ScreenshotDir string   `toml:"screenshot_dir" yaml:"screenshot_dir"`
	Settle        Duration `toml:"settle" yaml:"settle"`
	DialTimeout   Duration `toml:"dial_timeout" yaml:"dial_timeout"`
	IOTimeout     Duration `toml:"io_timeout" yaml:"io_timeout"`
	LogFile       string   `toml:"log_file" yaml:"log_file"`
	LogLevel      string   `toml:"log_level" yaml:"log_level"`
	HistoryFile   string   `toml:"history_file" yaml:"history_file"`
}

// Duration wraps time.Duration so config files can use "500ms" or "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// UnmarshalYAML parses a duration scalar from a YAML document.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(text))
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Environment variables that override config file values.
const (
	envHost          = "JENGA_HOST"
	envPort          = "JENGA_PORT"
	envScreenshotDir = "JENGA_SCREENSHOT_DIR"
	envSettle        = "JENGA_SETTLE"
	envDialTimeout   = "JENGA_DIAL_TIMEOUT"
	envIOTimeout     = "JENGA_IO_TIMEOUT"
	envLogFile       = "JENGA_LOG_FILE"
	envLogLevel      = "JENGA_LOG_LEVEL"
	envHistoryFile   = "JENGA_HISTORY_FILE"
)

const (
	// configDirName is the per-user directory for logs and the default config.
	configDirName = ".jenga"

	// historyFileName is the name of the REPL history file in the home directory.
	historyFileName = ".jenga_history"
)

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() *Config {
	home := homeDir()
	return &Config{
		Host:          jengaprotocol.DefaultHost,
		Port:          jengaprotocol.DefaultPort,
		ScreenshotDir: jengaprotocol.DefaultScreenshotDir,
		Settle:        Duration{jengaprotocol.DefaultSettleTime},
		DialTimeout:   Duration{jengaprotocol.ConnectionTimeout},
		IOTimeout:     Duration{jengaprotocol.CommandTimeout},
		LogFile:       filepath.Join(home, configDirName, "jenga.log"),
		LogLevel:      "info",
		HistoryFile:   filepath.Join(home, historyFileName),
	}
}

// defaultConfigPaths lists the files tried when no --config is given.
func defaultConfigPaths() []string {
	return []string{
		"jenga.toml",
		"jenga.yaml",
		filepath.Join(homeDir(), configDirName, "config.toml"),
	}
}

// LoadConfig builds the configuration from defaults, the config file at
// path (or the first default location that exists when path is empty),
// the .env file in the working directory and the process environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		for _, candidate := range defaultConfigPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes a TOML or YAML file over the current values.
func (c *Config) loadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .toml or .yaml)", filepath.Ext(path))
	}
	return nil
}

// loadEnvFiles loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Variables already set are left alone and a
// missing file is not an error.
func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// applyEnv overrides values from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := parseSettle(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		dst.Duration = d
		return nil
	}

	str(envHost, &c.Host)
	str(envScreenshotDir, &c.ScreenshotDir)
	str(envLogFile, &c.LogFile)
	str(envLogLevel, &c.LogLevel)
	str(envHistoryFile, &c.HistoryFile)

	if v, ok := lookup(envPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", envPort, v)
		}
		c.Port = port
	}

	for key, dst := range map[string]*Duration{
		envSettle:      &c.Settle,
		envDialTimeout: &c.DialTimeout,
		envIOTimeout:   &c.IOTimeout,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Settle.Duration < 0 {
		return fmt.Errorf("settle time %v must not be negative", c.Settle.Duration)
	}
	if c.DialTimeout.Duration < 0 || c.IOTimeout.Duration < 0 {
		return errors.New("timeouts must not be negative")
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Endpoint returns the configured host address.
func (c *Config) Endpoint() jengaprotocol.Endpoint {
	return jengaprotocol.Endpoint{Host: c.Host, Port: c.Port}
}

// maxSettleSeconds keeps plain-second values inside time.Duration's range.
const maxSettleSeconds = float64(math.MaxInt64 / int64(time.Second))

// parseSettle accepts a Go duration ("750ms") or plain seconds ("0.5").
func parseSettle(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 || math.IsNaN(secs) || secs > maxSettleSeconds {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
