package sysfs

import (
	"path"
	"strings"
)

const (
	PowerSupplyDir = "/sys/class/power_supply"
	HwmonDir       = "/sys/class/hwmon"
	DRMDir         = "/sys/class/drm"
)

// PCI vendor ids as exposed in device/vendor.
const (
	VendorAMD    = "0x1002"
	VendorIntel  = "0x8086"
	VendorNVIDIA = "0x10de"
)

// FindBattery returns the first battery supply directory.
func (f *FS) FindBattery() (string, bool) {
	for _, name := range []string{"BAT0", "BAT1", "BATT"} {
		p := path.Join(PowerSupplyDir, name)
		if f.Exists(p) {
			return p, true
		}
	}
	if matches := f.Glob(path.Join(PowerSupplyDir, "BAT*")); len(matches) > 0 {
		return matches[0], true
	}
	return "", false
}

// FindAC returns the mains adapter supply directory.
func (f *FS) FindAC() (string, bool) {
	for _, name := range []string{"AC", "AC0", "ADP0", "ADP1", "ACAD"} {
		p := path.Join(PowerSupplyDir, name)
		if f.Exists(p) {
			return p, true
		}
	}
	names, err := f.List(PowerSupplyDir)
	if err != nil {
		return "", false
	}
	for _, name := range names {
		p := path.Join(PowerSupplyDir, name)
		if f.ReadString(path.Join(p, "type")) == "Mains" {
			return p, true
		}
	}
	return "", false
}

// FindHwmon returns the first hwmon directory whose name is in names.
func (f *FS) FindHwmon(names ...string) (string, bool) {
	entries, err := f.List(HwmonDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		dir := path.Join(HwmonDir, entry)
		name := f.ReadString(path.Join(dir, "name"))
		for _, want := range names {
			if name == want {
				return dir, true
			}
		}
	}
	return "", false
}

// IsCardDevice returns true for card0, card1, ... but not connectors
// (card0-DP-1) or render nodes.
func IsCardDevice(name string) bool {
	suffix, ok := strings.CutPrefix(name, "card")
	if !ok || suffix == "" {
		return false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// DRMDevices returns device directories of DRM cards from vendor.
func (f *FS) DRMDevices(vendor string) []string {
	names, err := f.List(DRMDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, name := range names {
		if !IsCardDevice(name) {
			continue
		}
		dev := path.Join(DRMDir, name, "device")
		if f.ReadString(path.Join(dev, "vendor")) == vendor {
			out = append(out, dev)
		}
	}
	return out
}

// HwmonValue reads file from the first hwmon child of dev that has it.
func (f *FS) HwmonValue(dev, file string) (string, bool) {
	base := path.Join(dev, "hwmon")
	entries, err := f.List(base)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if v, err := f.Read(path.Join(base, e, file)); err == nil && v != "" {
			return v, true
		}
	}
	return "", false
}
