// Package config loads the YAML settings shared by the server and the CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

type ChartConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Config struct {
	Port              int         `yaml:"port"`
	OutputDir         string      `yaml:"outputDir"`
	UploadLimitMB     int         `yaml:"uploadLimitMB"`
	DurationTolerance float64     `yaml:"durationTolerance"`
	DecoderWindow     *int        `yaml:"decoderWindow"`
	ExportWAV         bool        `yaml:"exportWAV"`
	PDFReport         bool        `yaml:"pdfReport"`
	Chart             ChartConfig `yaml:"chart"`
	AllowOrigins      []string    `yaml:"allowOrigins"`
	Logs              LogConfig   `yaml:"logs"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path. A missing file yields the defaults;
// relative directories resolve against the file's directory.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	resolvePath := func(p string) string {
		p = strings.TrimSpace(p)
		if p == "" || filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Clean(filepath.Join(baseDir, p))
	}
	if cfg.OutputDir != "" {
		cfg.OutputDir = resolvePath(cfg.OutputDir)
	}
	if cfg.Logs.Directory != "" {
		cfg.Logs.Directory = resolvePath(cfg.Logs.Directory)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.UploadLimitMB <= 0 {
		c.UploadLimitMB = 32
	}
	if c.DurationTolerance <= 0 {
		c.DurationTolerance = 1.0
	}
	if c.DecoderWindow == nil {
		w := 3
		c.DecoderWindow = &w
	}
	if c.Chart.Width <= 0 {
		c.Chart.Width = 75
	}
	if c.Chart.Height <= 0 {
		c.Chart.Height = 37.5
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"http://localhost:3000"}
	}
	if c.Logs.Directory == "" {
		c.Logs.Directory = filepath.Join(".", "logs")
	}
	if c.Logs.MaxSizeMB <= 0 {
		c.Logs.MaxSizeMB = 25
	}
	if c.Logs.MaxAgeDays <= 0 {
		c.Logs.MaxAgeDays = 7
	}
	if c.Logs.MaxBackups <= 0 {
		c.Logs.MaxBackups = 5
	}
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DecoderWindow != nil && *c.DecoderWindow < 0 {
		return fmt.Errorf("decoderWindow must not be negative, got %d", *c.DecoderWindow)
	}
	return nil
}

// Window returns the decoder context depth.
func (c Config) Window() int {
	if c.DecoderWindow == nil {
		return 3
	}
	return *c.DecoderWindow
}

// UploadLimit returns the upload limit in bytes.
func (c Config) UploadLimit() int64 {
	return int64(c.UploadLimitMB) << 20
}

// ListenPort returns the port to serve on; PORT in the environment wins.
func (c Config) ListenPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return strconv.Itoa(c.Port)
}

// SetupLogging sends the standard logger to stdout and a rotated file named
// name under the configured log directory.
func SetupLogging(cfg Config, name string) error {
	if err := os.MkdirAll(cfg.Logs.Directory, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile := filepath.Join(cfg.Logs.Directory, name)
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    cfg.Logs.MaxSizeMB,
		MaxAge:     cfg.Logs.MaxAgeDays,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   cfg.Logs.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return nil
}
