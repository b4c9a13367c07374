// Package config loads the go-timesheet configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timesheet/internal/core/holiday"
	"github.com/penwyp/go-timesheet/internal/util"
	"gopkg.in/yaml.v3"
)

const (
	// HomeDir is the application directory under the user's home
	HomeDir = "~/.go-timesheet"

	DefaultPreviewAddr = "127.0.0.1:8765"
)

type Config struct {
	DataFile string         `yaml:"dataFile" json:"dataFile"`
	CacheDir string         `yaml:"cacheDir" json:"cacheDir"`
	LogFile  string         `yaml:"logFile" json:"logFile"`
	LogLevel string         `yaml:"logLevel" json:"logLevel"`
	// Timezone dates backups and PDFs; "Local" is the system timezone
	Timezone string         `yaml:"timezone" json:"timezone"`
	Holidays HolidaysConfig `yaml:"holidays" json:"holidays"`
	Export   ExportConfig   `yaml:"export" json:"export"`
	Preview  PreviewConfig  `yaml:"preview" json:"preview"`
}

type HolidaysConfig struct {
	// Source is "nager" for the public API or "builtin" for the offline tables
	Source  string   `yaml:"source" json:"source"`
	BaseURL string   `yaml:"baseURL" json:"baseURL"`
	Offline bool     `yaml:"offline" json:"offline"`
	Timeout Duration `yaml:"timeout" json:"timeout"`
}

type ExportConfig struct {
	OutputDir string `yaml:"outputDir" json:"outputDir"`
	// FontDir holds Roboto-Regular.ttf and Roboto-Bold.ttf for full Unicode PDFs
	FontDir string `yaml:"fontDir" json:"fontDir"`
}

type PreviewConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// DefaultPath is where the configuration file is looked up when no path is given
func DefaultPath() string {
	return util.ExpandPath(filepath.Join(HomeDir, "config.yaml"))
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		DataFile: filepath.Join(HomeDir, "data.json"),
		CacheDir: filepath.Join(HomeDir, "cache"),
		LogFile:  filepath.Join(HomeDir, "logs", "app.log"),
		LogLevel: "info",
		Timezone: "Local",
		Holidays: HolidaysConfig{
			Source:  "nager",
			BaseURL: "https://date.nager.at/api/v3",
			Timeout: Duration(30 * time.Second),
		},
		Export: ExportConfig{
			OutputDir: ".",
		},
		Preview: PreviewConfig{
			Addr: DefaultPreviewAddr,
		},
	}
}

// Load reads the configuration at path over the defaults. A missing file yields the
// defaults. The format follows the extension; unknown extensions try YAML, then JSON.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.resolvePaths()
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML config: %w", err)
		}
	case ".json":
		if err := sonic.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			if jsonErr := sonic.Unmarshal(data, cfg); jsonErr != nil {
				return nil, fmt.Errorf("parse config (tried YAML and JSON): YAML error: %w, JSON error: %v", err, jsonErr)
			}
		}
	}

	cfg.resolvePaths()
	return cfg, nil
}

// Save writes cfg to path in the format its extension names
func Save(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = sonic.MarshalIndent(cfg, "", "  ")
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return util.WriteFileAtomic(path, data, 0644)
}

// HolidaySource converts the holiday settings for the provider factory
func (c *Config) HolidaySource() *holiday.SourceConfig {
	return &holiday.SourceConfig{
		Source:  c.Holidays.Source,
		BaseURL: c.Holidays.BaseURL,
		Offline: c.Holidays.Offline,
		Timeout: time.Duration(c.Holidays.Timeout),
	}
}

func (c *Config) resolvePaths() {
	resolve := func(path string) string {
		if path == "" {
			return path
		}
		return util.ExpandPath(path)
	}

	c.DataFile = resolve(c.DataFile)
	c.CacheDir = resolve(c.CacheDir)
	c.LogFile = resolve(c.LogFile)
	c.Export.OutputDir = resolve(c.Export.OutputDir)
	c.Export.FontDir = resolve(c.Export.FontDir)
}

// Duration is a time.Duration written as "30s" in configuration files. Bare numbers
// are read as seconds.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	return d.parse(strings.Trim(string(data), `"`))
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}
