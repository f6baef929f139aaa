package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/model"
	"github.com/Nixie-Tech-LLC/namaz/internal/notify"
	"github.com/Nixie-Tech-LLC/namaz/internal/prayer"
)

const (
	DefaultDays = 7
	MaxDays     = 365
)

// History reconstructs a rolling window of days from sparse records.
type History struct {
	store     RecordStore
	publisher Publisher
}

func NewHistory(store RecordStore, publisher Publisher) *History {
	return &History{store: store, publisher: publisher}
}

// Card is one day of the history list.
type Card struct {
	DateID  string        `json:"date_id"`
	Date    string        `json:"date"`
	Stored  bool          `json:"stored"`
	Prayers []PrayerState `json:"prayers"`
}

type HistoryView struct {
	Days   int           `json:"days"`
	Cards  []Card        `json:"cards"`
	Empty  bool          `json:"empty"`
	Notice notify.Notice `json:"notice"`
}

// ToggleResult mirrors MarkResult for a history control.
type ToggleResult struct {
	DateID string        `json:"date_id"`
	Prayer PrayerState   `json:"prayer"`
	Synced bool          `json:"synced"`
	Notice notify.Notice `json:"notice"`
}

// Load builds days cards, newest first, ending with today.
func (h *History) Load(ctx context.Context, sess Identifier, days int, now time.Time) (HistoryView, error) {
	id, ok := sess.Identity()
	if !ok {
		return HistoryView{Notice: notify.Error("Please log in to view history.")}, ErrNotAuthenticated
	}
	if days < 1 || days > MaxDays {
		return HistoryView{Notice: notify.Error(fmt.Sprintf("Days must be between 1 and %d.", MaxDays))}, ErrInvalidDays
	}

	// Over-fetch: updated_at order does not line up one-to-one with days.
	records, err := h.store.ListRecentRecords(ctx, id.UserID, 2*days)
	if err != nil {
		return HistoryView{Days: days, Notice: notify.Error(fmt.Sprintf("Error loading history: %v", err))},
			fmt.Errorf("load history: %w", err)
	}
	byID := make(map[string]model.DayRecord, len(records))
	for _, r := range records {
		byID[r.DateID] = r
	}

	view := HistoryView{Days: days, Cards: make([]Card, 0, days), Empty: true}
	for _, day := range prayer.Window(now, days) {
		dateID := prayer.ToDateID(day)
		r, stored := byID[dateID]
		if stored {
			view.Empty = false
		}
		view.Cards = append(view.Cards, Card{
			DateID:  dateID,
			Date:    prayer.FormatDisplayDate(day),
			Stored:  stored,
			Prayers: statesOf(r.Status),
		})
	}

	if view.Empty {
		view.Notice = notify.Info("No prayer records found for the selected period.")
	} else {
		view.Notice = notify.Success(fmt.Sprintf("History for last %d days loaded.", days))
	}
	return view, nil
}

// Toggle flips one flag on a day inside the longest history window ending
// with now's day. Future days and days older than MaxDays are rejected so they
// cannot crowd real records out of the Load over-fetch.
func (h *History) Toggle(ctx context.Context, sess Identifier, dateID, prayerName string, now time.Time) (ToggleResult, error) {
	id, ok := sess.Identity()
	if !ok {
		return ToggleResult{Notice: notify.Error("Please log in to update records.")}, ErrNotAuthenticated
	}
	if !prayer.Valid(prayerName) {
		return ToggleResult{Notice: notify.Error(fmt.Sprintf("Unknown prayer %q.", prayerName))}, ErrUnknownPrayer
	}
	day, err := prayer.ParseDateID(dateID)
	if err != nil {
		return ToggleResult{Notice: notify.Error(fmt.Sprintf("Invalid date %q.", dateID))}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if !withinHistory(day, now) {
		return ToggleResult{Notice: notify.Error(fmt.Sprintf("Date %s is outside the last %d days.", dateID, MaxDays))},
			fmt.Errorf("%w: %s out of range", ErrInvalidDate, dateID)
	}

	result := ToggleResult{DateID: dateID}
	current, _, err := h.store.GetRecord(ctx, id.UserID, dateID)
	if err != nil {
		result.Prayer = stateOf(prayerName, false)
		result.Notice = notify.Error(fmt.Sprintf("Error updating history prayer: %v", err))
		return result, fmt.Errorf("read record: %w", err)
	}
	before := current.Status.Done(prayerName)

	written, err := h.store.ToggleRecord(ctx, id.UserID, dateID, prayerName)
	if err != nil {
		log.Error().Err(err).Int("user_id", id.UserID).Str("date_id", dateID).Str("prayer", prayerName).Msg("history toggle failed")
		result.Prayer = stateOf(prayerName, before)
		result.Notice = notify.Error(fmt.Sprintf("Error updating history prayer: %v", err))
		return result, fmt.Errorf("write record: %w", err)
	}

	publishRecord(h.publisher, written)
	result.Prayer = stateOf(prayerName, written.Status.Done(prayerName))
	result.Synced = true
	result.Notice = notify.Success(fmt.Sprintf("%s for %s updated!", prayer.Title(prayerName), dateID))
	return result, nil
}

func withinHistory(day, now time.Time) bool {
	window := prayer.Window(now, MaxDays)
	newest, oldest := window[0], window[len(window)-1]
	return !day.After(newest) && !day.Before(oldest)
}
