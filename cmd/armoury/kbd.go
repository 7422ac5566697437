package main

import (
	"fmt"
	"strconv"
	"strings"

	"armoury/internal/app"
	"armoury/internal/keyboard"

	"github.com/spf13/cobra"
)

var (
	kbdEffectColor  colorFlag
	kbdEffectColor2 colorFlag
)

func init() {
	cmdKbdEffect.Flags().Var(&kbdEffectColor, "color", "Colour for effects that take one ("+strings.Join(keyboard.PresetNames(), ", ")+" or #rrggbb)")
	cmdKbdEffect.Flags().Var(&kbdEffectColor2, "color2", "Second colour for breathe and stars")
	cmdKbd.AddCommand(cmdKbdBrightness, cmdKbdColor, cmdKbdEffect, cmdKbdCycle)
	rootCmd.AddCommand(cmdKbd)
}

func effectNames() []string {
	names := make([]string, len(keyboard.Effects))
	for i, e := range keyboard.Effects {
		names[i] = string(e)
	}
	return names
}

func setKeyboard(cmd *cobra.Command, params app.KeyboardParams) error {
	ctrl, err := controller()
	if err != nil {
		return err
	}
	msgs, err := ctrl.SetKeyboard(cmd.Context(), params)
	for _, m := range msgs {
		fmt.Fprintln(cmd.OutOrStdout(), m)
	}
	return err
}

var cmdKbd = &cobra.Command{
	Use:   "kbd",
	Short: "Show or change keyboard lighting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		info := ctrl.KeyboardInfo()
		out := cmd.OutOrStdout()
		header(out, "Keyboard")
		if !info.Supported {
			fmt.Fprintln(out, "  Keyboard backlight not found")
			return nil
		}
		row(out, "Brightness", fmt.Sprintf("%d/%d", info.Brightness, info.MaxBrightness))
		row(out, "RGB", yesNo(info.HasRGB))
		if info.Color != "" {
			row(out, "Color", info.Color)
		}
		return nil
	},
}

var cmdKbdBrightness = &cobra.Command{
	Use:   "brightness <0-3>",
	Short: "Set the keyboard backlight level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil || level < 0 {
			return fmt.Errorf("invalid brightness %q", args[0])
		}
		return setKeyboard(cmd, app.KeyboardParams{Brightness: level})
	},
}

var cmdKbdColor = &cobra.Command{
	Use:   "color <name|#rrggbb>",
	Short: "Set a static keyboard colour",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var c colorFlag
		if err := c.Set(args[0]); err != nil {
			return err
		}
		return setKeyboard(cmd, app.KeyboardParams{Brightness: -1, Color: c.rgb.Hex()})
	},
}

var cmdKbdEffect = &cobra.Command{
	Use:   "effect <effect>",
	Short: "Switch the Aura lighting effect",
	Long:  "Available effects: " + strings.Join(effectNames(), ", "),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := app.KeyboardParams{Brightness: -1, Effect: args[0]}
		if kbdEffectColor.raw != "" {
			params.Color = kbdEffectColor.rgb.Hex()
		}
		if kbdEffectColor2.raw != "" {
			params.Color2 = kbdEffectColor2.rgb.Hex()
		}
		return setKeyboard(cmd, params)
	},
}

var cmdKbdCycle = &cobra.Command{
	Use:   "cycle",
	Short: "Step the backlight to the next level, wrapping to off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller()
		if err != nil {
			return err
		}
		msg, err := ctrl.CycleKeyboard(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}
