package prayer

import "strings"

// The five daily prayers, in the order they are performed.
const (
	Fajr    = "fajr"
	Dhuhr   = "dhuhr"
	Asr     = "asr"
	Maghrib = "maghrib"
	Isha    = "isha"
)

// Names is the canonical ordered prayer set.
var Names = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

// Valid reports whether name is one of the five prayers.
func Valid(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Title returns the display form of a prayer name, e.g. "Fajr".
func Title(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
