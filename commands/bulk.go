package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var applyDefaultsCmd = &cobra.Command{
	Use:   "apply-defaults",
	Short: "Fill the working days of the selected month with the defaults",
	Long: `Sets the default project and hours on every working day of the selected month.
Weekends and holidays are skipped, and fields that already hold a value are kept.`,
	Args: cobra.NoArgs,
	RunE: runApplyDefaults,
}

var copyPreviousCmd = &cobra.Command{
	Use:   "copy-previous",
	Short: "Copy the previous month's entries onto the selected month",
	Long: `Copies each entry of the previous month onto the working day of the selected month
with the same day number. Weekends and holidays of the selected month are skipped.`,
	Args: cobra.NoArgs,
	RunE: runCopyPrevious,
}

func init() {
	rootCmd.AddCommand(applyDefaultsCmd)
	rootCmd.AddCommand(copyPreviousCmd)
}

func runApplyDefaults(cmd *cobra.Command, args []string) error {
	ed, err := newEditor()
	if err != nil {
		return err
	}

	changed, err := ed.ApplyDefaults(cmd.Context())
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to fill")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Defaults applied")
	return nil
}

func runCopyPrevious(cmd *cobra.Command, args []string) error {
	ed, err := newEditor()
	if err != nil {
		return err
	}

	if err := ed.CopyPreviousMonth(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Previous month copied")
	return nil
}
