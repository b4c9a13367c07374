package commands

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-timesheet/internal/presentation/export"
	"github.com/spf13/cobra"
)

var exportOutDir string

var exportCmd = &cobra.Command{
	Use:   "export [pdf|xlsx|csv|all]",
	Short: "Export the selected month",
	Long: `Writes the selected month as PDF, XLSX or CSV, or all three. Files are named
timesheet-<year>-<month>.pdf and timesheet_<year>_<MM>.<xlsx|csv>.`,
	Example: `  go-timesheet export pdf
  go-timesheet export all --out ~/Documents/timesheets`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"pdf", "xlsx", "csv", "all"},
	RunE:      runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOutDir, "out", "",
		"Output directory (default: export.outputDir from the configuration)")
}

func runExport(cmd *cobra.Command, args []string) error {
	target := "all"
	if len(args) == 1 {
		target = strings.ToLower(args[0])
	}

	ed, err := newEditor()
	if err != nil {
		return err
	}

	if target == "all" {
		paths, err := ed.ExportAll(cmd.Context(), exportOutDir)
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
		}
		return err
	}

	format, err := export.ParseFormat(target)
	if err != nil {
		return err
	}
	path, err := ed.Export(cmd.Context(), format, exportOutDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
