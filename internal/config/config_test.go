package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".go-timesheet", "data.json"), cfg.DataFile)
	assert.Equal(t, filepath.Join(home, ".go-timesheet", "cache"), cfg.CacheDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.Equal(t, "nager", cfg.Holidays.Source)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.Holidays.Timeout))
	assert.Equal(t, DefaultPreviewAddr, cfg.Preview.Addr)
	assert.True(t, filepath.IsAbs(cfg.Export.OutputDir))
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `dataFile: /tmp/ts/data.json
logLevel: debug
holidays:
  source: builtin
  offline: true
  timeout: 5s
export:
  outputDir: /tmp/ts/out
`,
		},
		{
			name:    "json",
			file:    "config.json",
			content: `{"dataFile":"/tmp/ts/data.json","logLevel":"debug","holidays":{"source":"builtin","offline":true,"timeout":"5s"},"export":{"outputDir":"/tmp/ts/out"}}`,
		},
		{
			name:    "unknown extension",
			file:    "config.conf",
			content: `{"dataFile":"/tmp/ts/data.json","logLevel":"debug","holidays":{"source":"builtin","offline":true,"timeout":5},"export":{"outputDir":"/tmp/ts/out"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, "/tmp/ts/data.json", cfg.DataFile)
			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, "builtin", cfg.Holidays.Source)
			assert.True(t, cfg.Holidays.Offline)
			assert.Equal(t, 5*time.Second, time.Duration(cfg.Holidays.Timeout))
			assert.Equal(t, "/tmp/ts/out", cfg.Export.OutputDir)
			// untouched keys keep their defaults
			assert.Equal(t, "https://date.nager.at/api/v3", cfg.Holidays.BaseURL)
			assert.Equal(t, DefaultPreviewAddr, cfg.Preview.Addr)
		})
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("dataFile: ~/timesheets/data.json\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "timesheets", "data.json"), cfg.DataFile)
}

func TestLoad_InvalidFile(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"bad.yaml", "holidays: [unclosed"},
		{"bad.json", "{"},
		{"bad.yaml", "holidays:\n  timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, file := range []string{"config.yaml", "config.json"} {
		t.Run(file, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", file)

			cfg := DefaultConfig()
			cfg.DataFile = "/srv/ts/data.json"
			cfg.Holidays.Timeout = Duration(90 * time.Second)
			require.NoError(t, Save(cfg, path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "/srv/ts/data.json", loaded.DataFile)
			assert.Equal(t, 90*time.Second, time.Duration(loaded.Holidays.Timeout))
		})
	}
}

func TestHolidaySource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Holidays.Offline = true

	src := cfg.HolidaySource()
	assert.Equal(t, "nager", src.Source)
	assert.True(t, src.Offline)
	assert.Equal(t, 30*time.Second, src.Timeout)
}
