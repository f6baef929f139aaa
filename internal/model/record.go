package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Nixie-Tech-LLC/namaz/internal/prayer"
)

// PrayerStatus maps a prayer name to its "performed" flag. A missing key
// means not performed.
type PrayerStatus map[string]bool

// Done reports the flag for name, defaulting to false.
func (s PrayerStatus) Done(name string) bool {
	return s[name]
}

// Complete returns a copy holding all five prayers, absent ones as false.
func (s PrayerStatus) Complete() PrayerStatus {
	out := make(PrayerStatus, len(prayer.Names))
	for _, n := range prayer.Names {
		out[n] = s[n]
	}
	return out
}

// Value stores the status as a JSONB document.
func (s PrayerStatus) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSONB document; unknown keys are kept, non-bool values rejected.
func (s *PrayerStatus) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = PrayerStatus{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported status type %T", src)
	}
	out := PrayerStatus{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	*s = out
	return nil
}

// DayRecord is one user's prayer statuses for one UTC calendar day.
type DayRecord struct {
	UserID    int          `db:"user_id"    json:"-"`
	DateID    string       `db:"date_id"    json:"date_id"`
	Status    PrayerStatus `db:"status"     json:"status"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// EmptyRecord is what a day without a stored record reads as.
func EmptyRecord(userID int, dateID string) DayRecord {
	return DayRecord{UserID: userID, DateID: dateID, Status: PrayerStatus{}}
}
