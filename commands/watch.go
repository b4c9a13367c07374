package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/penwyp/go-timesheet/internal/data/store"
	"github.com/penwyp/go-timesheet/internal/presentation/export"
	"github.com/penwyp/go-timesheet/internal/util"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces the bursts of events one atomic write produces
const watchDebounce = 300 * time.Millisecond

var (
	watchFormat string
	watchOutDir string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-export whenever the state file changes",
	Long: `Exports the selected month once, then again after every change another command makes
to the state file, until interrupted.`,
	Example: `  go-timesheet watch --format pdf --out ~/Documents`,
	Args:    cobra.NoArgs,
	RunE:    runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "all",
		"Format to export (pdf, xlsx, csv, all)")
	watchCmd.Flags().StringVar(&watchOutDir, "out", "",
		"Output directory (default: export.outputDir from the configuration)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	formats := export.Formats()
	if !strings.EqualFold(watchFormat, "all") {
		format, err := export.ParseFormat(watchFormat)
		if err != nil {
			return err
		}
		formats = []export.Format{format}
	}

	ed, err := newEditor()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	exportAll := func() error {
		for _, format := range formats {
			path, err := ed.Export(ctx, format, watchOutDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %s\n", path)
		}
		return nil
	}

	if err := exportAll(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Watching %s\n", ed.Store().Path())

	return followState(ctx, ed.Store().Path(), ed.Reload, exportAll)
}

// followState calls onChange after each change of the state file that reload reports.
// Failures of onChange are logged and do not stop the loop. It returns when ctx is done.
func followState(ctx context.Context, path string, reload func() (bool, error), onChange func() error) error {
	watcher, err := store.NewWatcher(path, watchDebounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}

			changed, err := reload()
			if err != nil {
				util.LogWarn("Failed to reload state: " + err.Error())
				continue
			}
			if !changed {
				continue
			}

			util.LogDebugf("State file changed (%s)", ev.Operation)
			if err := onChange(); err != nil {
				util.LogError("Update after state change failed: " + err.Error())
			}
		}
	}
}
