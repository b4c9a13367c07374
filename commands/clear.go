package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all entries, templates and settings",
	Long: `Resets the state to its defaults and removes the state file. Take a backup first if
you may need the data again.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false,
		"Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Fprint(cmd.OutOrStdout(), "This deletes all entries, templates and settings. Continue? [y/N] ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	ed, err := newEditor()
	if err != nil {
		return err
	}
	if err := ed.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
	return nil
}
