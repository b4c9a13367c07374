package commands

import (
	"fmt"
	"path/filepath"

	"github.com/penwyp/go-timesheet/internal/application/editor"
	"github.com/penwyp/go-timesheet/internal/config"
	"github.com/penwyp/go-timesheet/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Configuration
	configFile string
	dataFile   string
	offline    bool
	timezone   string

	// cfg is loaded before any command runs
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "go-timesheet [flags]",
		Short: "Monthly timesheet editor",
		Long: `go-timesheet keeps a monthly timesheet of (date, project, hours) entries and exports it
as PDF, XLSX or CSV.

Working days are derived from the calendar and the public holidays of the selected region.
The state lives in a single JSON file that every command reads and writes.

Examples:
  go-timesheet                                       # Show the selected month
  go-timesheet settings --year 2025 --month 3        # Select March 2025
  go-timesheet set 2025-03-03 --project Alpha --hours 8
  go-timesheet apply-defaults                        # Fill working days with the defaults
  go-timesheet copy-previous                         # Copy February onto March
  go-timesheet export all --out ~/Documents          # Write PDF, XLSX and CSV
  go-timesheet preview --watch                       # Serve a live PDF preview`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runShow,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Configuration file (default ~/.go-timesheet/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "",
		"State file path (overrides dataFile from the configuration)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false,
		"Use cached or built-in holidays only")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone setting (e.g., Europe/Warsaw, UTC; default: timezone from the configuration)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")

	addShowFlags(rootCmd)
}

// setup loads the configuration, applies flag overrides and initializes logging
func setup(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}

	loaded, err := config.Load(util.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dataFile != "" {
		loaded.DataFile = util.ExpandPath(dataFile)
	}
	if offline {
		loaded.Holidays.Offline = true
	}
	if timezone != "" {
		loaded.Timezone = timezone
	}
	if err := util.InitializeTimeProvider(loaded.Timezone); err != nil {
		return err
	}

	// Determine log level based on debug flag
	logLevel := loaded.LogLevel
	if debug {
		logLevel = "debug"
	}
	if err := util.EnsureDir(filepath.Dir(loaded.LogFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, loaded.LogFile, debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg = loaded
	util.LogDebugf("Using config %s, state file %s", path, cfg.DataFile)
	return nil
}

// newEditor opens the state file named by the loaded configuration
func newEditor() (*editor.Editor, error) {
	if err := util.EnsureDir(cfg.CacheDir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return editor.New(&editor.Config{
		DataFile:  cfg.DataFile,
		CacheDir:  cfg.CacheDir,
		Holidays:  *cfg.HolidaySource(),
		OutputDir: cfg.Export.OutputDir,
		FontDir:   cfg.Export.FontDir,
	})
}

func Execute() error {
	return rootCmd.Execute()
}
