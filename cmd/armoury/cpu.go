package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"armoury/internal/app"
	"armoury/internal/overclock"

	"github.com/spf13/cobra"
)

var (
	tdpCustom  tdpFlag
	cpuFreqMin int
	cpuFreqMax int
)

func init() {
	cmdTDPSet.Flags().Var(&tdpCustom, "tdp-custom", "Limits in watts as stapm,fast,slow")
	cmdCPUFreq.Flags().IntVar(&cpuFreqMin, "min", 0, "Minimum frequency in MHz (0 keeps the current bound)")
	cmdCPUFreq.Flags().IntVar(&cpuFreqMax, "max", 0, "Maximum frequency in MHz (0 keeps the current bound)")
	cmdCPU.AddCommand(cmdCPUInfo, cmdCPUGovernor, cmdCPUTurbo, cmdCPUEPP, cmdCPUFreq)
	cmdTDP.AddCommand(cmdTDPPreset, cmdTDPSet, cmdTDPTempLimit)
	rootCmd.AddCommand(cmdCPU, cmdTDP)
}

var cmdCPU = &cobra.Command{
	Use:   "cpu",
	Short: "CPU frequency scaling controls",
}

var cmdCPUInfo = &cobra.Command{
	Use:   "info",
	Short: "Show CPU frequency and governor state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		info := ctrl.CPUInfo()
		out := cmd.OutOrStdout()
		header(out, "CPU")
		row(out, "Model", valueOr(info.Model, "unknown"))
		row(out, "Cores / threads", fmt.Sprintf("%d / %d", info.Cores, info.Threads))
		row(out, "Frequency", fmt.Sprintf("%.0f MHz (%.0f-%.0f)", info.CurFreqMHz, info.MinFreqMHz, info.MaxFreqMHz))
		row(out, "Governor", valueOr(info.Governor, "unknown"))
		if len(info.Governors) > 0 {
			row(out, "Governors", strings.Join(info.Governors, ", "))
		}
		row(out, "Turbo", onOff(info.Turbo))
		if info.EPP != "" {
			row(out, "Energy preference", info.EPP)
		}
		return nil
	},
}

var cmdCPUGovernor = &cobra.Command{
	Use:   "governor <name>",
	Short: "Set the scaling governor on every core",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.SetGovernor(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var cmdCPUTurbo = &cobra.Command{
	Use:       "turbo <on|off>",
	Short:     "Enable or disable CPU boost",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		enable, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.SetTurbo(cmd.Context(), enable)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var cmdCPUEPP = &cobra.Command{
	Use:   "epp <preference>",
	Short: "Set the energy performance preference on every core",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.SetEPP(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var cmdCPUFreq = &cobra.Command{
	Use:   "freq --min MHz --max MHz",
	Short: "Bound CPU frequency scaling",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cpuFreqMin == 0 && cpuFreqMax == 0 {
			return errors.New("--min or --max is required")
		}
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.SetCPUFrequency(cmd.Context(), cpuFreqMin, cpuFreqMax)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var cmdTDP = &cobra.Command{
	Use:   "tdp",
	Short: "Show or set ryzenadj power limits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		values, err := ctrl.RyzenAdjInfo(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		header(out, "Power Limits")
		for _, v := range values {
			row(out, v.Name, v.Value)
		}
		return nil
	},
}

var cmdTDPPreset = &cobra.Command{
	Use:       "preset <name>",
	Short:     "Apply a TDP preset",
	Long:      "Presets: " + strings.Join(overclock.TDPPresetNames(), ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: overclock.TDPPresetNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTDP(cmd, app.TDPParams{Preset: args[0]})
	},
}

var cmdTDPSet = &cobra.Command{
	Use:   "set --tdp-custom stapm,fast,slow",
	Short: "Apply custom power limits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tdpCustom.raw == "" {
			return errors.New("--tdp-custom is required")
		}
		return setTDP(cmd, app.TDPParams{Custom: tdpCustom.raw})
	},
}

func setTDP(cmd *cobra.Command, params app.TDPParams) error {
	ctrl, err := controller()
	if err != nil {
		return err
	}
	msg, err := ctrl.SetTDP(cmd.Context(), params)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

var cmdTDPTempLimit = &cobra.Command{
	Use:   "temp-limit <celsius>",
	Short: "Set the Tctl temperature limit (60-105)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		celsius, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid temperature %q", args[0])
		}
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.SetTempLimit(cmd.Context(), celsius)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}
