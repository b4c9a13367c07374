package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"templates"},
	Short:   "Save, load and delete entry templates",
	Long: `A template is a named snapshot of all entries. Loading one merges its entries over the
current ones, so dates the template does not cover are kept.`,
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current entries as a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := newEditor()
		if err != nil {
			return err
		}
		id, err := ed.SaveTemplate(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved template %q as %s\n", args[0], id)
		return nil
	},
}

var templateLoadCmd = &cobra.Command{
	Use:   "load <id>",
	Short: "Merge a template's entries over the current entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := newEditor()
		if err != nil {
			return err
		}
		if err := ed.LoadTemplate(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded template %s\n", args[0])
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := newEditor()
		if err != nil {
			return err
		}
		if err := ed.DeleteTemplate(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", args[0])
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates in creation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := newEditor()
		if err != nil {
			return err
		}

		list := ed.Templates()
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No templates")
			return nil
		}
		for _, t := range list {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d entries)\n", t.ID, t.Name, t.Entries)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateSaveCmd, templateLoadCmd, templateDeleteCmd, templateListCmd)
}
