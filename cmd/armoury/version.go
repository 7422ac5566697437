package main

import (
	"fmt"
	"time"

	"armoury/internal/power"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdVersion)
}

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", power.AppName, power.Version)
		ctrl, err := controller()
		if err != nil {
			return nil
		}
		if v, err := ctrl.DaemonVersion(cmd.Context(), time.Second); err == nil {
			fmt.Fprintf(out, "daemon %s\n", v)
		}
		return nil
	},
}
