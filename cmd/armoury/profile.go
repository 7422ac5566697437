package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"armoury/internal/app"
	"armoury/internal/power"

	"github.com/spf13/cobra"
)

var daemonTimeoutSeconds int

func init() {
	rootCmd.PersistentFlags().IntVar(&daemonTimeoutSeconds, "daemon-timeout", 5, "Timeout in seconds for requests routed through the daemon")

	cmdProfile.AddCommand(cmdProfileApply, cmdProfileList)
	rootCmd.AddCommand(cmdProfile, cmdRefresh)
}

func daemonTimeout() (time.Duration, error) {
	if daemonTimeoutSeconds <= 0 {
		return 0, errors.New("timeout must be greater than 0 seconds")
	}
	return time.Duration(daemonTimeoutSeconds) * time.Second, nil
}

var cmdProfile = &cobra.Command{
	Use:   "profile",
	Short: "Show or switch power profiles",
}

var cmdProfileApply = &cobra.Command{
	Use:       "apply <profile>",
	Short:     "Apply a power profile (TDP and refresh rate)",
	Long:      `Switches the platform power profile and sets the matching refresh rate. The request goes through the daemon when it is running.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: power.PresetNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, err := daemonTimeout()
		if err != nil {
			return err
		}
		ctrl, err := controller()
		if err != nil {
			return err
		}
		var res app.PowerProfileResult
		err = withSpinner("Applying "+args[0]+"...", func() error {
			res, err = ctrl.ApplyPowerProfile(cmd.Context(), app.PowerProfileParams{Name: args[0], Timeout: timeout})
			return err
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, okStyle.Render(res.Message))
		if res.RefreshError != "" {
			fmt.Fprintln(out, warnStyle.Render("Refresh rate not changed: "+res.RefreshError))
		}
		return nil
	},
}

var cmdProfileList = &cobra.Command{
	Use:   "list",
	Short: "List power presets and the backend's profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		info := ctrl.PowerProfiles(cmd.Context())
		out := cmd.OutOrStdout()
		header(out, "Power Profiles")
		for _, p := range info.Presets {
			fmt.Fprintf(out, "  %-12s %3dW @ %3dHz  %s\n", p.Name, p.TDP, p.Refresh, p.Description)
		}
		fmt.Fprintln(out)
		row(out, "Backend", info.Backend)
		if info.HasCurrent {
			row(out, "Current", info.Current)
		}
		row(out, "Available", info.Available)
		return nil
	},
}

var cmdRefresh = &cobra.Command{
	Use:   "refresh <hz>",
	Short: "Set the display refresh rate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hz, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid refresh rate %q", args[0])
		}
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.SetRefreshRate(cmd.Context(), hz)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}
