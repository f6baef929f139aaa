package model

import "github.com/Nixie-Tech-LLC/namaz/internal/prayer"

// PrayerTimes holds the five daily times as HH:MM strings.
type PrayerTimes struct {
	Fajr    string `json:"fajr"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// Get returns the time for a prayer name, or "" for unknown names.
func (p PrayerTimes) Get(name string) string {
	switch name {
	case prayer.Fajr:
		return p.Fajr
	case prayer.Dhuhr:
		return p.Dhuhr
	case prayer.Asr:
		return p.Asr
	case prayer.Maghrib:
		return p.Maghrib
	case prayer.Isha:
		return p.Isha
	}
	return ""
}
