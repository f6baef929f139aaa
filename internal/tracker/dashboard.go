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

// Dashboard shows and marks today's prayers.
type Dashboard struct {
	store     RecordStore
	publisher Publisher
}

func NewDashboard(store RecordStore, publisher Publisher) *Dashboard {
	return &Dashboard{store: store, publisher: publisher}
}

type DashboardView struct {
	Date        string        `json:"date"`
	DateID      string        `json:"date_id"`
	DisplayName string        `json:"display_name"`
	Prayers     []PrayerState `json:"prayers"`
	Notice      notify.Notice `json:"notice"`
}

// MarkResult is the authoritative state of the clicked control. When the
// write fails Synced is false and Prayer holds the value before the click.
type MarkResult struct {
	DateID string        `json:"date_id"`
	Prayer PrayerState   `json:"prayer"`
	Synced bool          `json:"synced"`
	Notice notify.Notice `json:"notice"`
}

// Load reads today's record; a day without one shows every prayer missed.
func (d *Dashboard) Load(ctx context.Context, sess Identifier, now time.Time) (DashboardView, error) {
	id, ok := sess.Identity()
	if !ok {
		return DashboardView{Notice: notify.Error("Please log in to track prayers.")}, ErrNotAuthenticated
	}

	dateID := prayer.ToDateID(now)
	view := DashboardView{
		Date:        prayer.FormatDisplayDate(now),
		DateID:      dateID,
		DisplayName: id.DisplayName,
	}

	record, _, err := d.store.GetRecord(ctx, id.UserID, dateID)
	if err != nil {
		view.Prayers = statesOf(nil)
		view.Notice = notify.Error(fmt.Sprintf("Error loading dashboard: %v", err))
		return view, fmt.Errorf("load dashboard: %w", err)
	}

	view.Prayers = statesOf(record.Status)
	view.Notice = notify.Info("Dashboard loaded successfully.")
	return view, nil
}

// MarkDone sets today's flag for prayerName to true whatever it was before.
// There is no way back to false from the dashboard.
func (d *Dashboard) MarkDone(ctx context.Context, sess Identifier, prayerName string, now time.Time) (MarkResult, error) {
	id, ok := sess.Identity()
	if !ok {
		return MarkResult{Notice: notify.Error("Please log in to track prayers.")}, ErrNotAuthenticated
	}
	if !prayer.Valid(prayerName) {
		return MarkResult{Notice: notify.Error(fmt.Sprintf("Unknown prayer %q.", prayerName))}, ErrUnknownPrayer
	}

	dateID := prayer.ToDateID(now)
	result := MarkResult{DateID: dateID}

	current, _, err := d.store.GetRecord(ctx, id.UserID, dateID)
	if err != nil {
		result.Prayer = stateOf(prayerName, false)
		result.Notice = notify.Error(fmt.Sprintf("Error updating prayer: %v", err))
		return result, fmt.Errorf("read record: %w", err)
	}

	written, err := d.store.MergeRecord(ctx, id.UserID, dateID, model.PrayerStatus{prayerName: true})
	if err != nil {
		log.Error().Err(err).Int("user_id", id.UserID).Str("prayer", prayerName).Msg("mark done failed")
		result.Prayer = stateOf(prayerName, current.Status.Done(prayerName))
		result.Notice = notify.Error(fmt.Sprintf("Error updating prayer: %v", err))
		return result, fmt.Errorf("write record: %w", err)
	}

	publishRecord(d.publisher, written)
	result.Prayer = stateOf(prayerName, written.Status.Done(prayerName))
	result.Synced = true
	result.Notice = notify.Success(fmt.Sprintf("%s prayer status updated!", prayer.Title(prayerName)))
	return result, nil
}
