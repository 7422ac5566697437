package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

func init() {
	cmdSettings.AddCommand(cmdSettingsGet, cmdSettingsSet, cmdSettingsReset, cmdSettingsExport, cmdSettingsImport)
	rootCmd.AddCommand(cmdSettings)
}

var cmdSettings = &cobra.Command{
	Use:   "settings",
	Short: "Read and change persisted user preferences",
	Long: `Preferences live in $XDG_CONFIG_HOME/linux-armoury/settings.json.
auto_profile_switching and monitoring_interval (ms) override the config file
and are themselves overridden by ARMOURY_* environment variables. A running
daemon picks them up on restart.`,
}

var cmdSettingsGet = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one preference or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			v, err := ctrl.Setting(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, v)
			return nil
		}
		values, err := ctrl.SettingValues()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		header(out, "Settings")
		for _, k := range keys {
			row(out, k, fmt.Sprint(values[k]))
		}
		return nil
	},
}

var cmdSettingsSet = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store one preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.SetSetting(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var cmdSettingsReset = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		if err := ctrl.ResetSettings(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings reset to defaults")
		return nil
	},
}

var cmdSettingsExport = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the preferences to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		if err := ctrl.ExportSettings(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings exported to %s\n", args[0])
		return nil
	},
}

var cmdSettingsImport = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge the known keys of a JSON file into the preferences",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		if err := ctrl.ImportSettings(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings imported from %s\n", args[0])
		return nil
	},
}
