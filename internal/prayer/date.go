package prayer

import (
	"fmt"
	"time"
)

const (
	dateIDLayout  = "2006-01-02"
	displayLayout = "Monday, January 2, 2006"
)

// ToDateID renders the UTC calendar day of t as YYYY-MM-DD.
// It is the only key joining day records between the dashboard, the history
// view and the store.
func ToDateID(t time.Time) string {
	return t.UTC().Format(dateIDLayout)
}

// ParseDateID parses a YYYY-MM-DD identifier into a UTC midnight.
func ParseDateID(id string) (time.Time, error) {
	t, err := time.ParseInLocation(dateIDLayout, id, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date id %q: %w", id, err)
	}
	return t, nil
}

// FormatDisplayDate renders the UTC calendar day of t in long form,
// e.g. "Monday, January 1, 2024".
func FormatDisplayDate(t time.Time) string {
	return t.UTC().Format(displayLayout)
}

// Window returns the UTC midnights of the last days calendar days ending with
// today's, newest first.
func Window(today time.Time, days int) []time.Time {
	if days <= 0 {
		return nil
	}
	u := today.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, start.AddDate(0, 0, -i))
	}
	return out
}
