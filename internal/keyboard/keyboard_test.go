package keyboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"armoury/internal/execx"
	"armoury/internal/sysfs"
)

func writeFixture(t *testing.T, root, p, content string) {
	t.Helper()
	full := filepath.Join(root, p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newKeyboard(t *testing.T, rgb bool) (*Controller, *sysfs.FS) {
	t.Helper()
	root := t.TempDir()
	writeFixture(t, root, BacklightPath+"/brightness", "1\n")
	writeFixture(t, root, BacklightPath+"/max_brightness", "3\n")
	if rgb {
		writeFixture(t, root, BacklightPath+"/multi_intensity", "255 0 102\n")
	}
	fs := sysfs.New(root)
	return New(fs, execx.NewFake()), fs
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"red", RGB{255, 0, 0}, true},
		{" Orange ", RGB{255, 165, 0}, true},
		{"#ff0066", RGB{255, 0, 102}, true},
		{"00FF7f", RGB{0, 255, 127}, true},
		{"#fff", RGB{}, false},
		{"chartreuse", RGB{}, false},
		{"#gg0000", RGB{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v", tt.in, got, err)
		}
	}
	if c := NewRGB(300, -5, 128); c != (RGB{255, 0, 128}) || c.Hex() != "#ff0080" {
		t.Errorf("NewRGB clamp = %v", c)
	}
	if len(PresetNames()) != 10 {
		t.Errorf("expected 10 presets")
	}
}

func TestBrightness(t *testing.T) {
	ctx := context.Background()
	c, fs := newKeyboard(t, false)

	msg, err := c.SetBrightness(ctx, 7)
	if err != nil || msg != "Brightness set to 3" {
		t.Fatalf("SetBrightness = %q, %v", msg, err)
	}
	if _, err := c.Cycle(ctx); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if got := fs.ReadString(BacklightPath + "/brightness"); got != "0" {
		t.Fatalf("brightness after cycle = %q", got)
	}
	if msg, _ := c.SetBrightnessPercent(ctx, 50); msg != "Brightness set to 2" {
		t.Fatalf("SetBrightnessPercent(50) = %q", msg)
	}
	if msg, _ := c.SetBrightnessPercent(ctx, 0); msg != "Brightness set to 0" {
		t.Fatalf("SetBrightnessPercent(0) = %q", msg)
	}
}

func TestColor(t *testing.T) {
	ctx := context.Background()
	c, _ := newKeyboard(t, true)

	col, err := c.Color()
	if err != nil || col.Hex() != "#ff0066" {
		t.Fatalf("Color = %v, %v", col, err)
	}
	msg, err := c.SetColor(ctx, PresetColors["cyan"])
	if err != nil || msg != "Color set to #00ffff" {
		t.Fatalf("SetColor = %q, %v", msg, err)
	}
	if info := c.Info(); !info.HasRGB || info.Color != "#00ffff" || info.Brightness != 1 {
		t.Fatalf("Info = %+v", info)
	}

	plain, _ := newKeyboard(t, false)
	if _, err := plain.SetColor(ctx, RGB{}); !errors.Is(err, ErrRGBNotSupported) {
		t.Fatalf("expected ErrRGBNotSupported, got %v", err)
	}
}

func TestUnsupported(t *testing.T) {
	c := New(sysfs.New(t.TempDir()), execx.NewFake())
	if _, err := c.SetBrightness(context.Background(), 1); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
	if c.MaxBrightness() != 3 {
		t.Fatalf("default max brightness")
	}
}

func TestSetEffect(t *testing.T) {
	fake := execx.NewFake().
		Set("asusctl aura effect static --colour ff0000", "").
		Set("asusctl aura effect rainbow-wave --speed med --direction right", "").
		Set("asusctl aura effect breathe --colour ff0000 --colour2 00ffff --speed med", "").
		Set("asusctl aura effect stars --colour ff0000 --speed med", "")
	c := New(sysfs.New(t.TempDir()), fake)
	red := PresetColors["red"]
	cyan := PresetColors["cyan"]

	if _, err := c.SetEffect(context.Background(), Static, &red, &cyan); err != nil {
		t.Fatalf("static: %v", err)
	}
	if _, err := c.SetEffect(context.Background(), Rainbow, &red, nil); err != nil {
		t.Fatalf("rainbow: %v", err)
	}
	if _, err := c.SetEffect(context.Background(), Breathe, &red, &cyan); err != nil {
		t.Fatalf("breathe: %v", err)
	}
	if _, err := c.SetEffect(context.Background(), Star, &red, nil); err != nil {
		t.Fatalf("stars: %v", err)
	}
	if !TakesSecondColor(Breathe) || TakesSecondColor(Static) {
		t.Fatal("TakesSecondColor mismatch")
	}
	if e, ok := ParseEffect("color-cycle"); !ok || e != ColorCycle {
		t.Fatalf("ParseEffect = %v, %v", e, ok)
	}
	if _, ok := ParseEffect("disco"); ok {
		t.Fatalf("unexpected effect")
	}
}
