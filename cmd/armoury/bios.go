package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmdBios.AddCommand(cmdBiosBootSound)
	rootCmd.AddCommand(cmdBios)
}

var cmdBios = &cobra.Command{
	Use:   "bios",
	Short: "Firmware toggles exposed by asusctl",
}

var cmdBiosBootSound = &cobra.Command{
	Use:       "boot-sound [on|off]",
	Short:     "Show or toggle the POST sound",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var enable bool
		if len(args) == 1 {
			var err error
			if enable, err = parseOnOff(args[0]); err != nil {
				return err
			}
		}
		ctrl, err := controller()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			on, err := ctrl.BootSound(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Boot sound is %s\n", onOff(on))
			return nil
		}
		msg, err := ctrl.SetBootSound(cmd.Context(), enable)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		return nil
	},
}
