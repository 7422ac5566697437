package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmdDisplay.AddCommand(cmdDisplayRates)
	rootCmd.AddCommand(cmdDisplay)
}

func joinRates(rates []int) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = strconv.Itoa(r) + " Hz"
	}
	return strings.Join(parts, ", ")
}

var cmdDisplay = &cobra.Command{
	Use:   "display",
	Short: "Show the primary display mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		info := ctrl.DisplayInfo(cmd.Context())
		out := cmd.OutOrStdout()
		header(out, "Display")
		row(out, "Session", string(info.Backend))
		row(out, "Tool", valueOr(info.Tool, "none"))
		row(out, "Output", valueOr(info.Output, "unknown"))
		row(out, "Resolution", info.Resolution())
		if info.Rate > 0 {
			row(out, "Refresh rate", fmt.Sprintf("%d Hz", info.Rate))
		} else {
			row(out, "Refresh rate", "n/a")
		}
		if len(info.Rates) > 0 {
			row(out, "Available", joinRates(info.Rates))
		}
		return nil
	},
}

var cmdDisplayRates = &cobra.Command{
	Use:   "rates",
	Short: "List the refresh rates at the current resolution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		rates := ctrl.SupportedRefreshRates(cmd.Context())
		out := cmd.OutOrStdout()
		if len(rates) == 0 {
			fmt.Fprintln(out, "No refresh rates reported")
			return nil
		}
		for _, r := range rates {
			fmt.Fprintf(out, "%d Hz\n", r)
		}
		return nil
	},
}
