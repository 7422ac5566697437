package overclock

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"armoury/internal/execx"
	"armoury/internal/power"
)

// TDP is an APU power limit triple in watts.
type TDP struct {
	STAPM int
	Fast  int
	Slow  int
}

func (t TDP) String() string {
	return fmt.Sprintf("%d/%d/%d W", t.STAPM, t.Fast, t.Slow)
}

// Validate checks every limit against the supported range.
func (t TDP) Validate() error {
	for _, v := range []int{t.STAPM, t.Fast, t.Slow} {
		if !power.ValidTDP(v) {
			return fmt.Errorf("tdp %dW out of range %d-%d", v, power.MinTDP, power.MaxTDP)
		}
	}
	return nil
}

// TDPPresets are the named ryzenadj limit sets.
var TDPPresets = map[string]TDP{
	"silent":      {STAPM: 10, Fast: 12, Slow: 10},
	"balanced":    {STAPM: 25, Fast: 35, Slow: 25},
	"performance": {STAPM: 35, Fast: 45, Slow: 35},
	"turbo":       {STAPM: 45, Fast: 65, Slow: 45},
}

// TDPPresetNames returns the preset names sorted by STAPM limit.
func TDPPresetNames() []string {
	names := make([]string, 0, len(TDPPresets))
	for n := range TDPPresets {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return TDPPresets[names[i]].STAPM < TDPPresets[names[j]].STAPM
	})
	return names
}

// ParseTDPTriple parses "stapm,fast,slow" in watts. A single value is used
// for all three limits.
func ParseTDPTriple(s string) (TDP, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 1 && len(parts) != 3 {
		return TDP{}, fmt.Errorf("tdp %q: want one value or stapm,fast,slow", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return TDP{}, fmt.Errorf("tdp %q: %w", s, err)
		}
		vals[i] = v
	}
	if len(parts) == 1 {
		vals[1], vals[2] = vals[0], vals[0]
	}
	t := TDP{STAPM: vals[0], Fast: vals[1], Slow: vals[2]}
	return t, t.Validate()
}

// RyzenAdjValue is one row of the `ryzenadj -i` table.
type RyzenAdjValue struct {
	Name  string
	Value string
}

// Float parses the value as a number.
func (v RyzenAdjValue) Float() (float64, bool) {
	f, err := strconv.ParseFloat(v.Value, 64)
	return f, err == nil
}

// RyzenAdjAvailable reports whether ryzenadj is installed.
func (c *Controller) RyzenAdjAvailable() bool {
	return c.runner.LookPath("ryzenadj")
}

// RyzenAdjInfo reads the current APU limits and values.
func (c *Controller) RyzenAdjInfo(ctx context.Context) ([]RyzenAdjValue, error) {
	if !c.RyzenAdjAvailable() {
		return nil, fmt.Errorf("ryzenadj: %w", execx.ErrNotFound)
	}
	out, err := execx.Privileged(ctx, c.runner, "ryzenadj", "-i")
	if err != nil {
		return nil, err
	}
	return parseRyzenAdj(out), nil
}

func parseRyzenAdj(out string) []RyzenAdjValue {
	var vals []RyzenAdjValue
	for _, line := range strings.Split(out, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "|")
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		name := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if name == "" || name == "Name" || strings.HasPrefix(name, "-") {
			continue
		}
		vals = append(vals, RyzenAdjValue{Name: name, Value: value})
	}
	return vals
}

// SetTDP applies the three limits through ryzenadj.
func (c *Controller) SetTDP(ctx context.Context, t TDP) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if !c.RyzenAdjAvailable() {
		return "", fmt.Errorf("ryzenadj: %w", execx.ErrNotFound)
	}
	_, err := execx.Privileged(ctx, c.runner, "ryzenadj",
		"--stapm-limit", strconv.Itoa(t.STAPM*1000),
		"--fast-limit", strconv.Itoa(t.Fast*1000),
		"--slow-limit", strconv.Itoa(t.Slow*1000),
	)
	if err != nil {
		return "", err
	}
	return "TDP set to " + t.String(), nil
}

// SetTempLimit sets the Tctl temperature limit in Celsius.
func (c *Controller) SetTempLimit(ctx context.Context, celsius int) error {
	if celsius < 60 || celsius > 105 {
		return fmt.Errorf("temperature limit %d out of range 60-105", celsius)
	}
	if !c.RyzenAdjAvailable() {
		return fmt.Errorf("ryzenadj: %w", execx.ErrNotFound)
	}
	_, err := execx.Privileged(ctx, c.runner, "ryzenadj", "--tctl-temp", strconv.Itoa(celsius))
	return err
}
