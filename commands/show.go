package commands

import (
	"fmt"

	"github.com/penwyp/go-timesheet/internal/presentation/grid"
	"github.com/spf13/cobra"
)

var (
	showYear   int
	showMonth  int
	showOutput string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the month grid",
	Long: `Prints every day of the month with its project and hours, followed by the total.

Holidays are marked with *, weekends with ~. --year and --month look at another month
without changing the selection.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	addShowFlags(showCmd)
}

func addShowFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&showYear, "year", 0,
		"Year to show (default: selected year)")
	cmd.Flags().IntVar(&showMonth, "month", 0,
		"Month to show, 1-12 (default: selected month)")
	cmd.Flags().StringVarP(&showOutput, "output", "o", "table",
		"Output format (table, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	ed, err := newEditor()
	if err != nil {
		return err
	}

	state := ed.State()
	year, month := state.Year, state.Month
	if showYear != 0 {
		year = showYear
	}
	if showMonth != 0 {
		if showMonth < 1 || showMonth > 12 {
			return fmt.Errorf("invalid month %d (expected 1-12)", showMonth)
		}
		month = showMonth
	}

	data := ed.MonthData(cmd.Context(), year, month)
	// the logo is a data URL and only matters to the PDF
	data.Logo = ""

	switch showOutput {
	case "table":
		return grid.NewTable(cmd.OutOrStdout(), grid.TerminalWidth()).Render(data, state.Lang)
	case "json":
		return grid.WriteJSON(cmd.OutOrStdout(), data)
	default:
		return fmt.Errorf("unsupported output format: %s (expected table or json)", showOutput)
	}
}
