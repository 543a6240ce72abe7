package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/internal/config"
	"github.com/warp/rolling-engine/rolling"
)

func newRollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roll [date...]",
		Short: "Roll dates to business days",
		Long: "Roll each date (YYYY-MM-DD) with the given convention and print\n" +
			"\"date<TAB>rolled\" per line. Without arguments dates are read from stdin.",
		Example: "rolling roll --convention modified_following --calendar us 2024-06-30",
		RunE:    runRoll,
	}
	cmd.Flags().String("convention", "following", "rolling convention (code, label or abbreviation)")
	cmd.Flags().String("calendar", calendar.IDWeekends, `calendar ID; join with "+" for joint calendars`)
	return cmd
}

func runRoll(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	convName, _ := cmd.Flags().GetString("convention")
	conv, err := rolling.ParseConvention(convName)
	if err != nil {
		return err
	}

	registry := calendar.NewRegistry()
	for _, def := range cfg.Calendars {
		if _, err := registry.Register(def); err != nil {
			return err
		}
	}
	calID, _ := cmd.Flags().GetString("calendar")
	cal, err := registry.Get(calID)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args, err = readDates(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}
	dates := make([]rolling.Date, len(args))
	for i, s := range args {
		if dates[i], err = rolling.ParseDate(strings.TrimSpace(s)); err != nil {
			return err
		}
	}

	roller := rolling.NewRoller(cal,
		rolling.WithScanLimit(cfg.ScanLimit),
		rolling.WithConcurrency(cfg.BatchConcurrency))
	rolled, err := roller.RollAllContext(cmd.Context(), dates, conv)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, d := range dates {
		fmt.Fprintf(out, "%s\t%s\n", d, rolled[i])
	}
	return nil
}

func readDates(r io.Reader) ([]string, error) {
	var dates []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			dates = append(dates, line)
		}
	}
	return dates, sc.Err()
}

func newConventionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conventions",
		Short: "List the supported rolling conventions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tLABEL")
			for _, c := range rolling.Conventions() {
				label := c.String()
				if c == rolling.DefaultConvention() {
					label += " (default)"
				}
				fmt.Fprintf(tw, "%s\t%s\n", c.Code(), label)
			}
			return tw.Flush()
		},
	}
}
