package main

import (
	"fmt"
	"io"
	"strings"

	"armoury/internal/fan"
	"armoury/internal/hardware"
	"armoury/internal/sysinfo"

	"github.com/spf13/cobra"
)

var detectRescan bool

func init() {
	cmdCapabilities.Flags().BoolVar(&detectRescan, "rescan", false, "Ignore cached detection results")
	cmdFan.AddCommand(cmdFanPreset)
	rootCmd.AddCommand(cmdDetect, cmdCapabilities, cmdFan, cmdPanelOD)
}

var cmdDetect = &cobra.Command{
	Use:   "detect",
	Short: "Identify the laptop model and installed tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		header(out, "Hardware Detection")
		model, ok := ctrl.Model()
		if !ok {
			row(out, "Model", "unknown")
		} else {
			row(out, "Vendor", model.Vendor)
			row(out, "Model", model.Name())
			if fam, ok := hardware.MatchModel(model.Name()); ok {
				row(out, "Family", fam.Name)
				row(out, "TDP range", fmt.Sprintf("%d-%dW", fam.MinTDP, fam.MaxTDP))
			} else {
				fmt.Fprintln(out, warnStyle.Render("  This model is not a supported ASUS gaming laptop."))
			}
		}
		fmt.Fprintln(out)
		printSystemInfo(out, ctrl.SystemInfo(cmd.Context()))
		fmt.Fprintln(out)
		header(out, "Tools")
		for _, t := range ctrl.Tools() {
			row(out, t.Name, yesNo(t.Available))
		}
		return nil
	},
}

func printSystemInfo(w io.Writer, info sysinfo.Info) {
	header(w, "System")
	row(w, "CPU", fmt.Sprintf("%s (%d cores, %d threads)", valueOr(info.CPU.Model, "unknown"), info.CPU.Cores, info.CPU.Threads))
	for _, g := range info.GPUs {
		row(w, "GPU", fmt.Sprintf("%s [%s]", g.Name, g.Type))
	}
	if info.Memory.Total > 0 {
		row(w, "Memory", fmt.Sprintf("%.1f / %.1f GiB (%.0f%%)",
			float64(info.Memory.Used)/(1<<30), float64(info.Memory.Total)/(1<<30), info.Memory.UsedPercent))
	}
	row(w, "OS", strings.TrimSpace(info.OS.Name+" "+info.OS.Version))
	row(w, "Kernel", info.OS.Kernel)
	if info.OS.Desktop != "" {
		row(w, "Desktop", info.OS.Desktop)
	}
}

var cmdCapabilities = &cobra.Command{
	Use:   "capabilities",
	Short: "List which hardware controls are available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		caps := ctrl.Detect(cmd.Context(), detectRescan)
		out := cmd.OutOrStdout()
		header(out, "Hardware Capabilities")
		row(out, "ASUS laptop", yesNo(caps.IsASUS))
		if caps.Model != "" {
			row(out, "Model", caps.Model)
		}
		if caps.KernelVersion != "" {
			row(out, "Kernel", caps.KernelVersion)
		}
		fmt.Fprintln(out)
		for _, f := range caps.FeatureStatus() {
			row(out, f.Name, yesNo(f.Available))
		}
		if len(caps.PlatformProfiles) > 0 {
			fmt.Fprintln(out)
			row(out, "Platform profiles", strings.Join(caps.PlatformProfiles, ", "))
		}
		return nil
	},
}

var cmdFan = &cobra.Command{
	Use:   "fan",
	Short: "Show fan speeds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		fans, temps := ctrl.FanSpeeds(cmd.Context())
		out := cmd.OutOrStdout()
		header(out, "Fans")
		if len(fans) == 0 {
			fmt.Fprintln(out, "  No readable fans found")
		}
		for _, f := range fans {
			row(out, f.Name, fmt.Sprintf("%d RPM", f.RPM))
		}
		th := thresholds(ctrl)
		for _, key := range []string{"cpu", "gpu"} {
			if t, ok := temps[key]; ok {
				row(out, strings.ToUpper(key)+" temperature", formatTemp(&t, th))
			}
		}
		return nil
	},
}

var cmdFanPreset = &cobra.Command{
	Use:       "preset <name>",
	Short:     "Apply a fan curve preset",
	Args:      cobra.ExactArgs(1),
	ValidArgs: fan.PresetNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.ApplyFanPreset(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var cmdPanelOD = &cobra.Command{
	Use:       "panel-od [on|off]",
	Short:     "Show or toggle panel overdrive",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			on, err := ctrl.PanelOverdrive(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Panel overdrive is %s\n", onOff(on))
			return nil
		}
		enable, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		msg, err := ctrl.SetPanelOverdrive(cmd.Context(), enable)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		return nil
	},
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true", "enable", "enabled":
		return true, nil
	case "off", "0", "false", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
