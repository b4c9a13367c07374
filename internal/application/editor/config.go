package editor

import (
	"time"

	"github.com/penwyp/go-timesheet/internal/core/holiday"
)

// Config contains what the editor needs to open a state file
type Config struct {
	DataFile string
	CacheDir string

	Holidays holiday.SourceConfig

	// Export settings
	OutputDir string
	FontDir   string
}

// Validate fills unset fields with their defaults
func (c *Config) Validate() error {
	if c.DataFile == "" {
		c.DataFile = "~/.go-timesheet/data.json"
	}
	if c.CacheDir == "" {
		c.CacheDir = "~/.go-timesheet/cache"
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Holidays.Timeout == 0 {
		c.Holidays.Timeout = 30 * time.Second
	}
	return nil
}
