package keyboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RGB is a keyboard colour.
type RGB struct {
	R, G, B int
}

func clampByte(v int) int {
	return max(0, min(255, v))
}

// NewRGB returns a colour with each channel clamped to 0..255.
func NewRGB(r, g, b int) RGB {
	return RGB{R: clampByte(r), G: clampByte(g), B: clampByte(b)}
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string { return c.Hex() }

// PresetColors are the named colours accepted by ParseColor.
var PresetColors = map[string]RGB{
	"red":     {255, 0, 0},
	"green":   {0, 255, 0},
	"blue":    {0, 0, 255},
	"white":   {255, 255, 255},
	"yellow":  {255, 255, 0},
	"cyan":    {0, 255, 255},
	"magenta": {255, 0, 255},
	"orange":  {255, 165, 0},
	"purple":  {128, 0, 128},
	"pink":    {255, 192, 203},
}

// PresetNames returns the preset colour names sorted.
func PresetNames() []string {
	names := make([]string, 0, len(PresetColors))
	for n := range PresetColors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseColor accepts a preset name or a hex value (#rrggbb or rrggbb).
func ParseColor(s string) (RGB, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := PresetColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("unknown color: %s", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("unknown color: %s", s)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
