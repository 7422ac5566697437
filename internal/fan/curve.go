package fan

import (
	"errors"
	"fmt"
	"strings"
)

// Point is one temperature/speed pair of a fan curve.
type Point struct {
	Temp  int // °C
	Speed int // percent
}

// Curve is an ordered list of points.
type Curve []Point

// Validate checks that temperatures strictly increase and speeds are
// within 0..100 and never decrease.
func (c Curve) Validate() error {
	if len(c) == 0 {
		return errors.New("fan curve is empty")
	}
	for i, p := range c {
		if p.Speed < 0 || p.Speed > 100 {
			return fmt.Errorf("point %d: speed %d out of range 0..100", i, p.Speed)
		}
		if i == 0 {
			continue
		}
		if p.Temp <= c[i-1].Temp {
			return fmt.Errorf("point %d: temperature %d must be above %d", i, p.Temp, c[i-1].Temp)
		}
		if p.Speed < c[i-1].Speed {
			return fmt.Errorf("point %d: speed %d is below previous %d", i, p.Speed, c[i-1].Speed)
		}
	}
	return nil
}

// String renders the curve in asusctl --data form: 30c:0%,40c:10%,...
func (c Curve) String() string {
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = fmt.Sprintf("%dc:%d%%", p.Temp, p.Speed)
	}
	return strings.Join(parts, ",")
}

func curveOf(speeds ...int) Curve {
	c := make(Curve, len(speeds))
	for i, s := range speeds {
		c[i] = Point{Temp: 30 + 10*i, Speed: s}
	}
	return c
}

// Preset names.
const (
	Quiet       = "quiet"
	Balanced    = "balanced"
	Performance = "performance"
	FullSpeed   = "full_speed"
)

// Presets holds the built-in curves.
var Presets = map[string]Curve{
	Quiet:       curveOf(0, 10, 25, 35, 50, 65, 80, 100),
	Balanced:    curveOf(0, 20, 35, 50, 65, 80, 95, 100),
	Performance: curveOf(20, 35, 50, 65, 80, 90, 100, 100),
	FullSpeed:   curveOf(100, 100, 100, 100, 100, 100, 100, 100),
}

// PresetNames in ascending order of noise.
var PresetNames = []string{Quiet, Balanced, Performance, FullSpeed}

// PresetFor maps a profile-style fan name (Silent, Quiet, Balanced,
// Performance, Full Speed) to a preset key.
func PresetFor(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent", "quiet":
		return Quiet, true
	case "balanced":
		return Balanced, true
	case "performance":
		return Performance, true
	case "full speed", "full_speed", "full-speed", "fullspeed":
		return FullSpeed, true
	}
	return "", false
}

// asusctlProfile is the platform profile a preset curve is stored under.
func asusctlProfile(preset string) string {
	switch preset {
	case Quiet:
		return "Quiet"
	case Balanced:
		return "Balanced"
	default:
		return "Performance"
	}
}
