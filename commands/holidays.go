package commands

import (
	"fmt"
	"sort"

	"github.com/penwyp/go-timesheet/internal/core/holiday"
	"github.com/spf13/cobra"
)

var (
	holidaysYear       int
	holidaysRegion     string
	holidaysRefresh    bool
	holidaysClearCache bool
)

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "List public holidays",
	Long: `Lists the public holidays of a year and region. Holidays are cached for 30 days;
when the source is unreachable an expired cache entry is used instead.

Supported regions: PL, DE, GB, US, FR, ES, IT, NL, BE.`,
	Example: `  go-timesheet holidays
  go-timesheet holidays --year 2026 --region DE
  go-timesheet holidays --refresh
  go-timesheet holidays --clear-cache`,
	Args: cobra.NoArgs,
	RunE: runHolidays,
}

func init() {
	rootCmd.AddCommand(holidaysCmd)

	holidaysCmd.Flags().IntVar(&holidaysYear, "year", 0,
		"Year (default: selected year)")
	holidaysCmd.Flags().StringVar(&holidaysRegion, "region", "",
		"Region code (default: selected region)")
	holidaysCmd.Flags().BoolVar(&holidaysRefresh, "refresh", false,
		"Fetch from the source even if cached")
	holidaysCmd.Flags().BoolVar(&holidaysClearCache, "clear-cache", false,
		"Remove all cached holidays")
}

func runHolidays(cmd *cobra.Command, args []string) error {
	ed, err := newEditor()
	if err != nil {
		return err
	}

	if holidaysClearCache {
		if err := ed.ClearHolidayCache(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Holiday cache cleared")
		if !holidaysRefresh && !cmd.Flags().Changed("year") && !cmd.Flags().Changed("region") {
			return nil
		}
	}

	state := ed.State()
	year := state.Year
	if holidaysYear != 0 {
		year = holidaysYear
	}
	region := state.HolidayBank
	if holidaysRegion != "" {
		code, ok := holiday.NormalizeRegion(holidaysRegion)
		if !ok {
			return fmt.Errorf("unsupported region %q", holidaysRegion)
		}
		region = code
	}

	var days map[string]string
	if holidaysRefresh {
		days, err = ed.RefreshHolidays(cmd.Context(), year, region)
		if err != nil {
			return err
		}
	} else {
		days = ed.Holidays(cmd.Context(), year, region)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d: %d holidays\n", holiday.RegionName(region), year, len(days))

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		fmt.Fprintf(out, "  %s  %s\n", date, days[date])
	}
	return nil
}
