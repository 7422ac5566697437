package main

import (
	"armoury/internal/keyboard"
	"armoury/internal/overclock"

	"github.com/spf13/pflag"
)

// colorFlag accepts a preset colour name or a hex value.
type colorFlag struct {
	raw string
	rgb keyboard.RGB
}

var _ pflag.Value = (*colorFlag)(nil)

func (f *colorFlag) String() string { return f.raw }

func (f *colorFlag) Set(s string) error {
	c, err := keyboard.ParseColor(s)
	if err != nil {
		return err
	}
	f.raw, f.rgb = s, c
	return nil
}

func (f *colorFlag) Type() string { return "color" }

// tdpFlag accepts "stapm,fast,slow" in watts, or one value for all three.
type tdpFlag struct {
	raw string
	tdp overclock.TDP
}

var _ pflag.Value = (*tdpFlag)(nil)

func (f *tdpFlag) String() string { return f.raw }

func (f *tdpFlag) Set(s string) error {
	t, err := overclock.ParseTDPTriple(s)
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	f.raw, f.tdp = s, t
	return nil
}

func (f *tdpFlag) Type() string { return "stapm,fast,slow" }
