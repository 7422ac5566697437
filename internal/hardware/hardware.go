// Package hardware identifies the laptop and detects which ASUS features
// the running kernel and userspace expose.
package hardware

import (
	"strings"

	"armoury/internal/sysfs"
)

const dmiDir = "/sys/class/dmi/id"

// Model is the DMI identity of the machine.
type Model struct {
	Vendor  string
	Product string
	Version string
	Board   string
}

// Name returns the product name, or the board name when it is missing.
func (m Model) Name() string {
	if m.Product != "" {
		return m.Product
	}
	return m.Board
}

// ReadModel reads the DMI identity. ok is false when nothing is exposed.
func ReadModel(fs *sysfs.FS) (Model, bool) {
	m := Model{
		Vendor:  fs.ReadString(dmiDir + "/sys_vendor"),
		Product: fs.ReadString(dmiDir + "/product_name"),
		Version: fs.ReadString(dmiDir + "/product_version"),
		Board:   fs.ReadString(dmiDir + "/board_name"),
	}
	return m, m != Model{}
}

// IsASUS reports whether the DMI vendor is ASUS.
func (m Model) IsASUS() bool {
	return strings.Contains(strings.ToLower(m.Vendor), "asus")
}

// Family describes one supported laptop line.
type Family struct {
	ID     string
	Name   string
	MinTDP int
	MaxTDP int
	match  []string
}

// SupportedModels are checked in order; the last entry matches any ROG or
// TUF product.
var SupportedModels = []Family{
	{ID: "ROG_FLOW_Z13", Name: "ROG Flow Z13", MinTDP: 10, MaxTDP: 90, match: []string{"flow z13", "gz301", "gz302"}},
	{ID: "ROG_ZEPHYRUS", Name: "ROG Zephyrus", MinTDP: 15, MaxTDP: 80, match: []string{"zephyrus", "ga40", "ga50", "gu60"}},
	{ID: "ROG_STRIX", Name: "ROG Strix", MinTDP: 15, MaxTDP: 90, match: []string{"strix", "g513", "g713", "g814"}},
	{ID: "ASUS_TUF", Name: "ASUS TUF Gaming", MinTDP: 15, MaxTDP: 80, match: []string{"tuf", "fa50", "fx50"}},
	{ID: "OTHER_ASUS_GAMING", Name: "ASUS Gaming", MinTDP: 10, MaxTDP: 90, match: []string{"rog", "republic of gamers"}},
}

// SupportedModelIDs lists the family identifiers.
func SupportedModelIDs() []string {
	ids := make([]string, 0, len(SupportedModels))
	for _, f := range SupportedModels {
		ids = append(ids, f.ID)
	}
	return ids
}

// MatchModel returns the family a DMI product name belongs to.
func MatchModel(product string) (Family, bool) {
	p := strings.ToLower(product)
	if p == "" {
		return Family{}, false
	}
	for _, f := range SupportedModels {
		for _, m := range f.match {
			if strings.Contains(p, m) {
				return f, true
			}
		}
	}
	return Family{}, false
}
