package timings

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/model"
)

// Placeholder is shown for a time that could not be determined.
const Placeholder = "--:--"

var ErrMalformed = errors.New("invalid API response structure")

// Result is what the dashboard shows in its prayer-times panel.
type Result struct {
	City      string            `json:"city"`
	Country   string            `json:"country"`
	Times     model.PrayerTimes `json:"times"`
	DateLabel string            `json:"date_label"`
	Timezone  string            `json:"timezone,omitempty"`
	// Day is the location's YYYY-MM-DD the times were cached for.
	Day string `json:"day,omitempty"`
}

// Lookuper resolves today's prayer times for a city.
type Lookuper interface {
	Lookup(ctx context.Context, city, country string) (Result, error)
}

var _ Lookuper = (*Client)(nil)

// Unavailable is the result reported when a lookup fails.
func Unavailable(city, country string) Result {
	return Result{
		City:    city,
		Country: country,
		Times: model.PrayerTimes{
			Fajr:    Placeholder,
			Dhuhr:   Placeholder,
			Asr:     Placeholder,
			Maghrib: Placeholder,
			Isha:    Placeholder,
		},
	}
}

// Lookup performs one request. Any failure yields Unavailable and a non-nil
// error so the caller can notify the user.
func (c *Client) Lookup(ctx context.Context, city, country string) (Result, error) {
	resp, err := c.FetchByCity(ctx, city, country)
	if err != nil {
		log.Error().Err(err).Str("city", city).Str("country", country).Msg("prayer times lookup failed")
		return Unavailable(city, country), err
	}

	t := resp.Data.Timings
	times := model.PrayerTimes{
		Fajr:    trimTime(t.Fajr),
		Dhuhr:   trimTime(t.Dhuhr),
		Asr:     trimTime(t.Asr),
		Maghrib: trimTime(t.Maghrib),
		Isha:    trimTime(t.Isha),
	}
	if times.Fajr == "" || times.Dhuhr == "" || times.Asr == "" || times.Maghrib == "" || times.Isha == "" {
		log.Error().Str("city", city).Str("country", country).Msg("prayer times response missing timings")
		return Unavailable(city, country), ErrMalformed
	}

	return Result{
		City:      city,
		Country:   country,
		Times:     times,
		DateLabel: resp.Data.Date.Readable,
		Timezone:  resp.Data.Meta.Timezone,
	}, nil
}

// trimTime drops a timezone suffix and seconds: "05:12:30 (PKT)" -> "05:12".
func trimTime(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	hm := fields[0]
	if parts := strings.Split(hm, ":"); len(parts) == 3 {
		hm = parts[0] + ":" + parts[1]
	}
	return hm
}
