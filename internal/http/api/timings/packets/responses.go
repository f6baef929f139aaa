package packets

import "github.com/Nixie-Tech-LLC/namaz/internal/notify"

type PrayerTime struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Time  string `json:"time"`
}

// returned by GET /api/prayer-times, with placeholder times on failure
type PrayerTimesResponse struct {
	City    string         `json:"city"`
	Country string         `json:"country"`
	Date    string         `json:"date"`
	Times   []PrayerTime   `json:"times"`
	Notice  *notify.Notice `json:"notice,omitempty"`
}
