package day

// Mode is one of the mutually exclusive activity categories. At most one
// mode is active at any instant.
type Mode string

const (
	ModeDrive Mode = "drive"
	ModeMow   Mode = "mow"
	ModeBreak Mode = "break"
	ModeGas   Mode = "gas"
	ModeEquip Mode = "equip"
	ModeOther Mode = "other"
)

// PrimaryMode is the mode whose explicit (re)starts are counted as stops.
const PrimaryMode = ModeMow

// Modes lists every recognized mode in display and export column order.
var Modes = []Mode{ModeDrive, ModeMow, ModeBreak, ModeGas, ModeEquip, ModeOther}

// Valid reports whether m is one of the recognized modes.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}
