package main

import (
	"fmt"
	"strconv"

	"armoury/internal/app"

	"github.com/spf13/cobra"
)

func init() {
	cmdBattery.AddCommand(cmdBatteryLimit)
	rootCmd.AddCommand(cmdBattery)
}

var cmdBattery = &cobra.Command{
	Use:   "battery",
	Short: "Show battery state and charge limit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		info := ctrl.BatteryInfo()
		out := cmd.OutOrStdout()
		header(out, "Battery")
		row(out, "Status", valueOr(info.Status, "unknown"))
		row(out, "Capacity", fmt.Sprintf("%d%%", info.Capacity))
		if info.Supported {
			row(out, "Charge limit", fmt.Sprintf("%d%%", info.ChargeLimit))
		} else {
			row(out, "Charge limit", "not supported")
		}
		if info.Health > 0 {
			row(out, "Health", fmt.Sprintf("%.1f%%", info.Health))
		}
		if info.VoltageNow > 0 {
			row(out, "Voltage", fmt.Sprintf("%.2f V", float64(info.VoltageNow)/1e6))
		}
		return nil
	},
}

var cmdBatteryLimit = &cobra.Command{
	Use:       "limit <60|80|100>",
	Short:     "Set the battery charge limit",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"60", "80", "100"},
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid charge limit %q", args[0])
		}
		timeout, err := daemonTimeout()
		if err != nil {
			return err
		}
		ctrl, err := controller()
		if err != nil {
			return err
		}
		res, err := ctrl.SetChargeLimit(cmd.Context(), app.ChargeLimitParams{Limit: limit, Timeout: timeout})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(res.Message))
		return nil
	},
}
