package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"armoury/internal/app"
	"armoury/internal/sensors"

	"github.com/spf13/cobra"
)

var (
	statusLocal     bool
	monitorInterval time.Duration
	monitorCount    int
)

func init() {
	cmdStatus.Flags().BoolVar(&statusLocal, "local", false, "Sample in-process instead of asking the daemon")
	cmdMonitor.Flags().DurationVarP(&monitorInterval, "interval", "i", 0, "Polling interval (defaults to the configured monitor interval)")
	cmdMonitor.Flags().IntVarP(&monitorCount, "count", "n", 0, "Stop after n readings (0 runs until interrupted)")

	rootCmd.AddCommand(cmdStatus, cmdTemp, cmdMonitor)
}

func thresholds(ctrl controllerAPI) sensors.Thresholds {
	cfg := ctrl.Config()
	return sensors.Thresholds{Warning: cfg.TempWarning, Critical: cfg.TempCritical}
}

func printStatus(w io.Writer, st app.SystemStatus, th sensors.Thresholds) {
	source := "in-process"
	if st.FromDaemon {
		source = "daemon"
	}
	header(w, "System Status")
	row(w, "Power profile", valueOr(st.Profile, "unknown"))
	refresh := "n/a"
	if st.RefreshRate != nil {
		refresh = fmt.Sprintf("%d Hz", *st.RefreshRate)
	}
	row(w, "Refresh rate", refresh)
	row(w, "CPU temperature", formatTemp(st.CPUTemp, th))
	row(w, "GPU temperature", formatTemp(st.GPUTemp, th))
	row(w, "Battery", formatPercent(st.Battery))
	row(w, "On AC power", yesNo(st.OnAC))
	row(w, "CPU load", fmt.Sprintf("%.1f%%", st.CPULoad))
	row(w, "Gaming detected", yesNo(st.Gaming))
	row(w, "Source", source)
}

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Show the current power, thermal and battery state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, err := daemonTimeout()
		if err != nil {
			return err
		}
		ctrl, err := controller()
		if err != nil {
			return err
		}
		st, err := ctrl.SystemStatus(cmd.Context(), app.StatusParams{Timeout: timeout, Local: statusLocal})
		if err != nil {
			return err
		}
		printStatus(cmd.OutOrStdout(), st, thresholds(ctrl))
		return nil
	},
}

var cmdTemp = &cobra.Command{
	Use:   "temp",
	Short: "Show CPU and GPU temperatures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		st := ctrl.Temperatures(cmd.Context())
		th := thresholds(ctrl)
		out := cmd.OutOrStdout()
		header(out, "Temperatures")
		row(out, "CPU", formatTemp(ptrIf(st.CPUTemp, st.HasCPUTemp), th))
		row(out, "GPU", formatTemp(ptrIf(st.GPUTemp, st.HasGPUTemp), th))
		if st.HasTDP {
			row(out, "Package power", fmt.Sprintf("%dW", st.TDP))
		}
		return nil
	},
}

var cmdMonitor = &cobra.Command{
	Use:   "monitor",
	Short: "Print the system status periodically until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		interval := monitorInterval
		if interval <= 0 {
			interval = ctrl.Config().MonitorInterval
		}
		timeout, err := daemonTimeout()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runMonitor(ctx, cmd.OutOrStdout(), ctrl, interval, timeout, monitorCount)
	},
}

func runMonitor(ctx context.Context, w io.Writer, ctrl controllerAPI, interval, timeout time.Duration, count int) error {
	th := thresholds(ctrl)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		st, err := ctrl.SystemStatus(ctx, app.StatusParams{Timeout: timeout})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fmt.Fprintf(w, "[%s] %-12s cpu %-10s gpu %-10s bat %-5s ac %-3s load %5.1f%%\n",
			time.Now().Format(time.TimeOnly),
			valueOr(st.Profile, "unknown"),
			formatTemp(st.CPUTemp, th),
			formatTemp(st.GPUTemp, th),
			formatPercent(st.Battery),
			yesNo(st.OnAC),
			st.CPULoad)
		if count > 0 && n >= count {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
