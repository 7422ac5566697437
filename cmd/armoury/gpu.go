package main

import (
	"fmt"
	"strconv"
	"strings"

	"armoury/internal/gpu"
	"armoury/internal/overclock"

	"github.com/spf13/cobra"
)

func init() {
	cmdGPU.AddCommand(cmdGPUInfo, cmdGPUPerf, cmdGPUMode, cmdGPUStats, cmdGPUPowerProfile, cmdGPUResetClocks)
	rootCmd.AddCommand(cmdGPU)
}

var cmdGPU = &cobra.Command{
	Use:   "gpu",
	Short: "GPU switching, tuning and statistics",
}

var cmdGPUInfo = &cobra.Command{
	Use:   "info",
	Short: "Show detected GPUs and AMD GPU tuning state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		header(out, "GPUs")
		devs := ctrl.GPUDevices(cmd.Context())
		if len(devs) == 0 {
			fmt.Fprintln(out, "  No GPUs detected")
		}
		for _, d := range devs {
			fmt.Fprintf(out, "  [%d] %s (%s, %s)\n", d.Index, d.Name, d.Vendor, d.Type)
		}
		info, err := ctrl.AMDGPUInfo()
		if err != nil {
			return nil
		}
		fmt.Fprintln(out)
		header(out, "AMD GPU")
		row(out, "Device", info.Device)
		row(out, "Name", valueOr(info.Name, "unknown"))
		if info.VRAMMB > 0 {
			row(out, "VRAM", fmt.Sprintf("%d MB", info.VRAMMB))
		}
		row(out, "Core clock", valueOr(info.CoreClock, "n/a"))
		row(out, "Memory clock", valueOr(info.MemClock, "n/a"))
		if info.HasTemp {
			row(out, "Temperature", fmt.Sprintf("%.1f°C", info.TempC))
		}
		row(out, "Performance level", valueOr(info.PerfLevel, "n/a"))
		if info.PowerProfile != "" {
			row(out, "Power profile", info.PowerProfile)
		}
		return nil
	},
}

var cmdGPUPerf = &cobra.Command{
	Use:       "perf <level>",
	Short:     "Set the AMD GPU performance level",
	Long:      "Levels: " + strings.Join(overclock.PerformanceLevels, ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: overclock.PerformanceLevels,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.SetGPUPerformance(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var cmdGPUMode = &cobra.Command{
	Use:   "mode [mode]",
	Short: "Show or switch the GPU mode (supergfxctl or MUX)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			var msg string
			err := withSpinner("Switching GPU mode...", func() error {
				msg, err = ctrl.SetGPUMode(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, msg)
			return nil
		}
		st := ctrl.GPUSwitching(cmd.Context())
		header(out, "GPU Switching")
		if !st.Available {
			fmt.Fprintln(out, "  GPU switching is not available")
			return nil
		}
		row(out, "Current mode", st.Current)
		row(out, "Supported", joinModes(st.Supported))
		if st.Vendor != "" {
			row(out, "dGPU vendor", st.Vendor)
		}
		if st.Power != "" {
			row(out, "dGPU power", st.Power)
		}
		if st.PendingAction != "" {
			row(out, "Pending", fmt.Sprintf("%s (%s)", st.PendingAction, st.PendingMode))
		}
		switch {
		case st.RequiresReboot:
			fmt.Fprintln(out, warnStyle.Render("  A reboot is required to finish switching."))
		case st.RequiresLogout:
			fmt.Fprintln(out, warnStyle.Render("  Log out to finish switching."))
		}
		return nil
	},
}

func joinModes(modes []gpu.Mode) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

var cmdGPUStats = &cobra.Command{
	Use:   "stats",
	Short: "Show live GPU clocks, usage and power",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		s := ctrl.GPUStats(cmd.Context())
		out := cmd.OutOrStdout()
		header(out, "GPU Statistics")
		row(out, "GPU", fmt.Sprintf("%s (%s, %s)", s.Name, s.Vendor, s.Driver))
		row(out, "Usage", fmt.Sprintf("%d%%", s.UsagePercent))
		row(out, "Core clock", fmt.Sprintf("%d / %d MHz", s.ClockMHz, s.ClockMaxMHz))
		row(out, "Memory clock", fmt.Sprintf("%d / %d MHz", s.MemClockMHz, s.MemClockMaxMHz))
		if s.VRAMTotalMB > 0 {
			row(out, "VRAM", fmt.Sprintf("%d / %d MB", s.VRAMUsedMB, s.VRAMTotalMB))
		}
		if s.TempC > 0 {
			row(out, "Temperature", fmt.Sprintf("%d°C", s.TempC))
		}
		if s.PowerDrawW > 0 {
			row(out, "Power", fmt.Sprintf("%.1f / %.1f W", s.PowerDrawW, s.PowerLimitW))
		}
		if s.FanRPM > 0 {
			row(out, "Fan", fmt.Sprintf("%d RPM", s.FanRPM))
		}
		row(out, "Performance level", s.PerfLevel)
		return nil
	},
}

var cmdGPUPowerProfile = &cobra.Command{
	Use:   "power-profile [index]",
	Short: "List or select the AMD GPU power profile",
	Long:  "The driver only honours a selected profile under the manual performance level.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid profile index %q", args[0])
			}
			msg, err := ctrl.SetGPUPowerProfile(cmd.Context(), index)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, msg)
			return nil
		}
		profiles, err := ctrl.GPUPowerProfiles()
		if err != nil {
			return err
		}
		header(out, "GPU Power Profiles")
		for _, p := range profiles {
			line := fmt.Sprintf("  %d  %s", p.Index, p.Name)
			if p.Active {
				line = okStyle.Render(line + " (active)")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var cmdGPUResetClocks = &cobra.Command{
	Use:   "reset-clocks",
	Short: "Restore the default AMD GPU clock table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.ResetGPUClocks(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}
