package keyboard

import (
	"context"
	"fmt"
	"strings"
)

// Effect is an Aura lighting mode.
type Effect string

const (
	Static      Effect = "Static"
	Breathe     Effect = "Breathe"
	ColorCycle  Effect = "ColorCycle"
	Rainbow     Effect = "Rainbow"
	Star        Effect = "Star"
	Rain        Effect = "Rain"
	Highlight   Effect = "Highlight"
	Laser       Effect = "Laser"
	Ripple      Effect = "Ripple"
	Strobe      Effect = "Strobe"
	Comet       Effect = "Comet"
	Flash       Effect = "Flash"
	MultiStatic Effect = "MultiStatic"
	Pulse       Effect = "Pulse"
)

type auraMode struct {
	subcmd  string
	colour  bool
	colour2 bool
	speed   bool
}

// asusctl aura effect subcommands.
var auraModes = map[Effect]auraMode{
	Static:      {subcmd: "static", colour: true},
	Breathe:     {subcmd: "breathe", colour: true, colour2: true, speed: true},
	ColorCycle:  {subcmd: "rainbow-cycle", speed: true},
	Rainbow:     {subcmd: "rainbow-wave", speed: true},
	Star:        {subcmd: "stars", colour: true, colour2: true, speed: true},
	Rain:        {subcmd: "rain", speed: true},
	Highlight:   {subcmd: "highlight", colour: true, speed: true},
	Laser:       {subcmd: "laser", colour: true, speed: true},
	Ripple:      {subcmd: "ripple", colour: true, speed: true},
	Strobe:      {subcmd: "pulse", colour: true},
	Comet:       {subcmd: "comet", colour: true},
	Flash:       {subcmd: "flash", colour: true},
	MultiStatic: {subcmd: "static", colour: true},
	Pulse:       {subcmd: "pulse", colour: true},
}

// Effects lists the supported effects in menu order.
var Effects = []Effect{
	Static, Breathe, ColorCycle, Rainbow, Star, Rain, Highlight,
	Laser, Ripple, Strobe, Comet, Flash, MultiStatic, Pulse,
}

// ParseEffect matches name against Effects, ignoring case, spaces and dashes.
func ParseEffect(name string) (Effect, bool) {
	norm := func(s string) string {
		return strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s))
	}
	want := norm(name)
	for _, e := range Effects {
		if norm(string(e)) == want {
			return e, true
		}
	}
	return "", false
}

// TakesSecondColor reports whether effect blends between two colours.
func TakesSecondColor(effect Effect) bool {
	return auraModes[effect].colour2
}

// SetEffect switches the Aura mode through asusctl. color and color2 are
// used by the effects that take them and ignored otherwise; a nil color2
// leaves asusctl's default.
func (c *Controller) SetEffect(ctx context.Context, effect Effect, color, color2 *RGB) (string, error) {
	mode, ok := auraModes[effect]
	if !ok {
		return "", fmt.Errorf("unknown effect: %s", effect)
	}
	args := []string{"aura", "effect", mode.subcmd}
	if mode.colour && color != nil {
		args = append(args, "--colour", strings.TrimPrefix(color.Hex(), "#"))
	}
	if mode.colour2 && color2 != nil {
		args = append(args, "--colour2", strings.TrimPrefix(color2.Hex(), "#"))
	}
	if mode.speed {
		args = append(args, "--speed", "med")
	}
	if mode.subcmd == "rainbow-wave" {
		args = append(args, "--direction", "right")
	}
	if _, err := c.runner.Run(ctx, "asusctl", args...); err != nil {
		return "", fmt.Errorf("set effect %s: %w", effect, err)
	}
	return fmt.Sprintf("Effect set to %s", effect), nil
}
