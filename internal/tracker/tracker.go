// Package tracker holds the dashboard and history logic over per-day prayer
// records. Every operation takes the caller's session explicitly.
package tracker

import (
	"context"
	"errors"

	"github.com/Nixie-Tech-LLC/namaz/internal/events"
	"github.com/Nixie-Tech-LLC/namaz/internal/model"
	"github.com/Nixie-Tech-LLC/namaz/internal/prayer"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnknownPrayer    = errors.New("unknown prayer")
	ErrInvalidDays      = errors.New("invalid number of days")
	ErrInvalidDate      = errors.New("invalid date")
)

// Identifier is anything that can say who is signed in; *session.State is one.
type Identifier interface {
	Identity() (*session.Identity, bool)
}

// RecordStore is the per-user document store the views read and write.
type RecordStore interface {
	GetRecord(ctx context.Context, userID int, dateID string) (model.DayRecord, bool, error)
	MergeRecord(ctx context.Context, userID int, dateID string, status model.PrayerStatus) (model.DayRecord, error)
	ToggleRecord(ctx context.Context, userID int, dateID, prayerName string) (model.DayRecord, error)
	ListRecentRecords(ctx context.Context, userID int, limit int) ([]model.DayRecord, error)
}

// Publisher announces written records to the user's other clients.
type Publisher interface {
	Publish(e events.Event)
}

const (
	StatusDone   = "done"
	StatusMissed = "missed"
)

// PrayerState is one toggle control.
type PrayerState struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Done   bool   `json:"done"`
	Status string `json:"status"`
}

func stateOf(name string, done bool) PrayerState {
	s := PrayerState{Name: name, Title: prayer.Title(name), Done: done, Status: StatusMissed}
	if done {
		s.Status = StatusDone
	}
	return s
}

// statesOf renders all five prayers in order, absent flags as missed.
func statesOf(status model.PrayerStatus) []PrayerState {
	out := make([]PrayerState, 0, len(prayer.Names))
	for _, name := range prayer.Names {
		out = append(out, stateOf(name, status.Done(name)))
	}
	return out
}

func publishRecord(pub Publisher, r model.DayRecord) {
	if pub == nil {
		return
	}
	rec := r
	pub.Publish(events.Event{Kind: events.KindRecord, UserID: r.UserID, Record: &rec})
}
