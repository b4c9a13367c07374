package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	setProject string
	setHours   string
)

var setCmd = &cobra.Command{
	Use:   "set <date>",
	Short: "Edit the entry of one day",
	Long: `Sets the project and/or hours of a day given as YYYY-MM-DD. A flag that is not given
keeps the stored value, so --hours alone only changes the hours.

Hours are stored as typed. Text that is not a number counts as 0 in totals.`,
	Example: `  go-timesheet set 2025-03-03 --project Alpha --hours 8
  go-timesheet set 2025-03-04 --hours 4.5
  go-timesheet set 2025-03-05 --project "" --hours ""`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().StringVarP(&setProject, "project", "p", "",
		"Project name")
	setCmd.Flags().StringVarP(&setHours, "hours", "H", "",
		"Hours worked")
}

func runSet(cmd *cobra.Command, args []string) error {
	var project, hours *string
	if cmd.Flags().Changed("project") {
		project = &setProject
	}
	if cmd.Flags().Changed("hours") {
		hours = &setHours
	}
	if project == nil && hours == nil {
		return fmt.Errorf("nothing to change: pass --project and/or --hours")
	}

	ed, err := newEditor()
	if err != nil {
		return err
	}
	if err := ed.SetEntry(args[0], project, hours); err != nil {
		return err
	}

	entry := ed.State().Entries[args[0]]
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", args[0], orDash(entry.Project), orDash(entry.Hours))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
