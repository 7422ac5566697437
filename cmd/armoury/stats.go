package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"armoury/internal/stats"

	"github.com/spf13/cobra"
)

var (
	statsHistory bool
	statsJSON    bool
)

func init() {
	cmdStats.Flags().BoolVar(&statsHistory, "history", false, "Show saved sessions instead of the running one")
	cmdStats.Flags().BoolVar(&statsJSON, "json", false, "Print JSON")
	rootCmd.AddCommand(cmdStats)
}

var cmdStats = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics collected by the daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if statsHistory {
			history, err := ctrl.StatsHistory()
			if err != nil {
				return err
			}
			if statsJSON {
				return writeJSON(out, history)
			}
			if len(history) == 0 {
				fmt.Fprintln(out, "No saved sessions")
				return nil
			}
			for i, s := range history {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printSummary(out, s)
			}
			return nil
		}
		timeout, err := daemonTimeout()
		if err != nil {
			return err
		}
		sum, err := ctrl.SessionSummary(cmd.Context(), timeout)
		if err != nil {
			return err
		}
		if statsJSON {
			return writeJSON(out, sum)
		}
		printSummary(out, sum)
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(w io.Writer, s stats.Summary) {
	title := "Session " + s.Start
	if s.Filename != "" {
		title += " (" + s.Filename + ")"
	}
	header(w, title)
	row(w, "Duration", s.Duration)
	row(w, "Samples", s.TotalSamples)
	printTemps(w, "CPU", s.CPU)
	printTemps(w, "GPU", s.GPU)
	if s.Battery.Initial != nil {
		row(w, "Battery start", fmt.Sprintf("%d%%", *s.Battery.Initial))
	}
	if s.Battery.Drain != nil {
		row(w, "Battery drain", fmt.Sprintf("%d%%", *s.Battery.Drain))
	}
	row(w, "On battery", fmt.Sprintf("%.1f min", s.Battery.TimeOnBatteryMin))
	row(w, "On AC", fmt.Sprintf("%.1f min", s.Battery.TimeOnACMin))
	names := make([]string, 0, len(s.Profiles))
	for name := range s.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		row(w, "Profile "+name, fmt.Sprintf("%d samples", s.Profiles[name]))
	}
}

func printTemps(w io.Writer, label string, t stats.TempSummary) {
	if t.Max == nil || t.Avg == nil {
		row(w, label+" temperature", "n/a")
		return
	}
	row(w, label+" temperature", fmt.Sprintf("max %.1f°C, avg %.1f°C", *t.Max, *t.Avg))
}
