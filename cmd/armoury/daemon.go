package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"armoury/internal/daemon"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	cmdDaemon.AddCommand(cmdDaemonStop, cmdDaemonStatus)
	rootCmd.AddCommand(cmdDaemon)
}

var daemonForceRestart bool

func init() {
	cmdDaemon.Flags().BoolVarP(&daemonForceRestart, "force", "f", false, "Restart the daemon if it is already running")
}

var cmdDaemon = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background service",
	Long: `The daemon samples sensors, records session statistics, switches power profiles
on AC changes when enabled and serves the control socket. If it is already running, nothing happens.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if daemon.IsRunning() {
			if !daemonForceRestart {
				pid, err := daemon.RunningPID()
				message := "Daemon is already running. Stop it manually or re-run with --force."
				switch {
				case err != nil:
					message = fmt.Sprintf("Error checking if daemon is running: %v", err)
				case pid != 0:
					message = fmt.Sprintf("Daemon is already running (pid %d). Stop it manually or re-run with --force.", pid)
				}
				fmt.Fprintln(out, message)
				return nil
			}
			fmt.Fprintln(out, "Stopping existing daemon process...")
			if err := daemon.StopRunningDaemon(true); err != nil {
				return err
			}
		}

		ctrl, err := controller()
		if err != nil {
			return err
		}
		h, err := ctrl.StartDaemon()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Daemon started, listening on %s\n", daemon.SocketPath())

		sigc := make(chan os.Signal, 2)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			runSpin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(os.Stdout))
			runSpin.Suffix = " Running..."
			runSpin.Start()
			<-sigc
			runSpin.Stop()
		} else {
			<-sigc
		}
		return h.Close()
	},
}

var daemonStopForce bool

func init() {
	cmdDaemonStop.Flags().BoolVarP(&daemonStopForce, "force", "f", false, "Send SIGKILL if the daemon does not exit")
}

var cmdDaemonStop = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		if err := ctrl.StopDaemon(daemonStopForce); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped")
		return nil
	},
}

var cmdDaemonStatus = &cobra.Command{
	Use:   "status",
	Short: "Report whether the daemon is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		st, err := ctrl.Status()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch {
		case st.Running && st.PID > 0:
			fmt.Fprintf(out, "Daemon running (pid %d)\n", st.PID)
		case st.Running:
			fmt.Fprintln(out, "Daemon running")
		default:
			fmt.Fprintln(out, "Daemon is not running")
		}
		return nil
	},
}
