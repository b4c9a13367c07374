package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoCmd = &cobra.Command{
	Use:   "logo",
	Short: "Manage the logo printed on the PDF",
}

var logoSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Embed a PNG or JPEG image as the logo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := newEditor()
		if err != nil {
			return err
		}
		if err := ed.SetLogo(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logo set from %s\n", args[0])
		return nil
	},
}

var logoClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the logo",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := newEditor()
		if err != nil {
			return err
		}
		if err := ed.ClearLogo(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logo removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoCmd)
	logoCmd.AddCommand(logoSetCmd, logoClearCmd)
}
