package commands

import (
	"fmt"
	"io"

	"github.com/penwyp/go-timesheet/internal/application/editor"
	"github.com/penwyp/go-timesheet/internal/core/holiday"
	"github.com/penwyp/go-timesheet/internal/core/model"
	"github.com/penwyp/go-timesheet/internal/i18n"
	"github.com/spf13/cobra"
)

var (
	settingsClient       string
	settingsPerson       string
	settingsDefaultProj  string
	settingsDefaultHours string
	settingsLang         string
	settingsRegion       string
	settingsRef          string
	settingsYear         int
	settingsMonth        int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the document settings",
	Long: `Without flags, prints the current settings. With flags, saves the given fields in one
write and leaves the others untouched.

--year and --month select the month that show, apply-defaults, copy-previous and export
work on.`,
	Example: `  go-timesheet settings --client "ACME Corp" --person "Jan Kowalski"
  go-timesheet settings --lang EN --region DE
  go-timesheet settings --year 2025 --month 3`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.Flags().StringVar(&settingsClient, "client", "", "Client name")
	settingsCmd.Flags().StringVar(&settingsPerson, "person", "", "Contractor name")
	settingsCmd.Flags().StringVar(&settingsDefaultProj, "default-project", "",
		"Project used by apply-defaults")
	settingsCmd.Flags().StringVar(&settingsDefaultHours, "default-hours", "",
		"Hours used by apply-defaults")
	settingsCmd.Flags().StringVar(&settingsLang, "lang", "", "Document language (PL, EN)")
	settingsCmd.Flags().StringVar(&settingsRegion, "region", "",
		"Holiday region (e.g. PL, DE, GB, US)")
	settingsCmd.Flags().StringVar(&settingsRef, "ref", "",
		"Document reference printed on the PDF (empty: generated)")
	settingsCmd.Flags().IntVar(&settingsYear, "year", 0, "Selected year")
	settingsCmd.Flags().IntVar(&settingsMonth, "month", 0, "Selected month (1-12)")
}

func runSettings(cmd *cobra.Command, args []string) error {
	ed, err := newEditor()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	var s editor.Settings
	changedString := func(name string, value *string) *string {
		if flags.Changed(name) {
			return value
		}
		return nil
	}
	changedInt := func(name string, value *int) *int {
		if flags.Changed(name) {
			return value
		}
		return nil
	}

	s.Client = changedString("client", &settingsClient)
	s.Person = changedString("person", &settingsPerson)
	s.DefaultProj = changedString("default-project", &settingsDefaultProj)
	s.DefaultHours = changedString("default-hours", &settingsDefaultHours)
	s.Lang = changedString("lang", &settingsLang)
	s.Region = changedString("region", &settingsRegion)
	s.CustomRef = changedString("ref", &settingsRef)
	s.Year = changedInt("year", &settingsYear)
	s.Month = changedInt("month", &settingsMonth)

	if err := ed.UpdateSettings(s); err != nil {
		return err
	}

	printSettings(cmd.OutOrStdout(), ed.State())
	return nil
}

func printSettings(w io.Writer, state model.PersistedData) {
	logo := "none"
	if state.LogoData() != "" {
		logo = "set"
	}
	ref := state.CustomRef
	if ref == "" {
		ref = "(generated)"
	}

	fmt.Fprintf(w, "%-16s %s\n", "Client:", orDash(state.Client))
	fmt.Fprintf(w, "%-16s %s\n", "Person:", orDash(state.Person))
	fmt.Fprintf(w, "%-16s %s\n", "Period:", i18n.MonthYear(state.Lang, state.Year, state.Month))
	fmt.Fprintf(w, "%-16s %s\n", "Default project:", orDash(state.DefaultProj))
	fmt.Fprintf(w, "%-16s %s\n", "Default hours:", orDash(state.DefaultHours))
	fmt.Fprintf(w, "%-16s %s\n", "Language:", state.Lang)
	fmt.Fprintf(w, "%-16s %s (%s)\n", "Region:", state.HolidayBank, holiday.RegionName(state.HolidayBank))
	fmt.Fprintf(w, "%-16s %s\n", "Reference:", ref)
	fmt.Fprintf(w, "%-16s %s\n", "Logo:", logo)
}
