package main

import (
	"fmt"

	"armoury/internal/tui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdTUI)
}

var cmdTUI = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		if err := tui.Run(ctrl, ctrl.Config().MonitorInterval); err != nil {
			return fmt.Errorf("tui exited with error: %w", err)
		}
		return nil
	},
}
