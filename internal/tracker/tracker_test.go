package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/namaz/internal/db"
	"github.com/Nixie-Tech-LLC/namaz/internal/events"
	"github.com/Nixie-Tech-LLC/namaz/internal/model"
	"github.com/Nixie-Tech-LLC/namaz/internal/notify"
	"github.com/Nixie-Tech-LLC/namaz/internal/prayer"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

var errWrite = errors.New("permission denied")

// failingStore delegates reads and fails every write.
type failingStore struct {
	RecordStore
	writes int
}

func (f *failingStore) MergeRecord(context.Context, int, string, model.PrayerStatus) (model.DayRecord, error) {
	f.writes++
	return model.DayRecord{}, errWrite
}

func (f *failingStore) ToggleRecord(context.Context, int, string, string) (model.DayRecord, error) {
	f.writes++
	return model.DayRecord{}, errWrite
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

var now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func signedIn() *session.State {
	return session.WithIdentity(session.PageDashboard, &session.Identity{UserID: 7, Email: "a@b.co", DisplayName: "Amina"})
}

func doneMap(states []PrayerState) map[string]bool {
	out := map[string]bool{}
	for _, s := range states {
		out[s.Name] = s.Done
	}
	return out
}

func TestDashboard_LoadWithoutRecordShowsAllMissed(t *testing.T) {
	d := NewDashboard(db.NewMemoryStore(), nil)

	view, err := d.Load(context.Background(), signedIn(), now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", view.DateID)
	assert.Equal(t, "Friday, March 15, 2024", view.Date)
	assert.Equal(t, "Amina", view.DisplayName)
	require.Len(t, view.Prayers, 5)
	for i, s := range view.Prayers {
		assert.Equal(t, prayer.Names[i], s.Name)
		assert.False(t, s.Done)
		assert.Equal(t, StatusMissed, s.Status)
	}
	assert.Equal(t, notify.SeverityInfo, view.Notice.Severity)
}

func TestDashboard_MarkDoneIsOneWay(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	pub := &recordingPublisher{}
	d := NewDashboard(store, pub)

	res, err := d.MarkDone(ctx, signedIn(), prayer.Fajr, now)
	require.NoError(t, err)
	assert.True(t, res.Synced)
	assert.True(t, res.Prayer.Done)
	assert.Equal(t, "Fajr prayer status updated!", res.Notice.Message)

	// Clicking a completed prayer keeps it completed.
	res, err = d.MarkDone(ctx, signedIn(), prayer.Fajr, now)
	require.NoError(t, err)
	assert.True(t, res.Prayer.Done)

	r, found, err := store.GetRecord(ctx, 7, "2024-03-15")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.PrayerStatus{prayer.Fajr: true}, r.Status)
	assert.Len(t, pub.events, 2)
	assert.Equal(t, events.KindRecord, pub.events[0].Kind)
}

func TestDashboard_MarkDoneKeepsOtherFlags(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := store.MergeRecord(ctx, 7, "2024-03-15", model.PrayerStatus{prayer.Asr: true})
	require.NoError(t, err)

	_, err = NewDashboard(store, nil).MarkDone(ctx, signedIn(), prayer.Isha, now)
	require.NoError(t, err)

	r, _, err := store.GetRecord(ctx, 7, "2024-03-15")
	require.NoError(t, err)
	assert.True(t, r.Status.Done(prayer.Asr))
	assert.True(t, r.Status.Done(prayer.Isha))
	assert.False(t, r.Status.Done(prayer.Fajr))
}

func TestDashboard_WriteFailureRollsBack(t *testing.T) {
	store := &failingStore{RecordStore: db.NewMemoryStore()}
	res, err := NewDashboard(store, nil).MarkDone(context.Background(), signedIn(), prayer.Dhuhr, now)

	assert.ErrorIs(t, err, errWrite)
	assert.False(t, res.Synced)
	assert.False(t, res.Prayer.Done)
	assert.Equal(t, notify.SeverityError, res.Notice.Severity)
	assert.Contains(t, res.Notice.Message, "Error updating prayer")
}

func TestDashboard_RequiresIdentity(t *testing.T) {
	store := &failingStore{RecordStore: db.NewMemoryStore()}
	d := NewDashboard(store, nil)

	_, err := d.Load(context.Background(), session.NewState(session.PageDashboard), now)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = d.MarkDone(context.Background(), session.NewState(session.PageDashboard), prayer.Fajr, now)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, store.writes)
}

// limitSpy records the limit passed to ListRecentRecords.
type limitSpy struct {
	RecordStore
	limits []int
}

func (s *limitSpy) ListRecentRecords(ctx context.Context, userID, limit int) ([]model.DayRecord, error) {
	s.limits = append(s.limits, limit)
	return s.RecordStore.ListRecentRecords(ctx, userID, limit)
}

func TestHistory_OverFetchesTwiceTheWindow(t *testing.T) {
	for _, days := range []int{7, 14, 30} {
		spy := &limitSpy{RecordStore: db.NewMemoryStore()}
		view, err := NewHistory(spy, nil).Load(context.Background(), signedIn(), days, now)
		require.NoError(t, err)
		assert.Len(t, view.Cards, days)
		assert.Equal(t, []int{2 * days}, spy.limits, "days=%d", days)
	}
}

func TestHistory_ToggleRejectsDaysOutsideWindow(t *testing.T) {
	store := &failingStore{RecordStore: db.NewMemoryStore()}
	h := NewHistory(store, nil)

	for _, dateID := range []string{"2024-03-16", "2999-01-01", "2023-03-16", "2020-01-01"} {
		res, err := h.Toggle(context.Background(), signedIn(), dateID, prayer.Fajr, now)
		assert.ErrorIs(t, err, ErrInvalidDate, dateID)
		assert.False(t, res.Synced)
		assert.Equal(t, notify.SeverityError, res.Notice.Severity)
	}
	assert.Zero(t, store.writes)
}

func TestHistory_ToggleAcceptsWindowEdges(t *testing.T) {
	h := NewHistory(db.NewMemoryStore(), nil)

	for _, dateID := range []string{"2024-03-15", "2023-03-17"} {
		res, err := h.Toggle(context.Background(), signedIn(), dateID, prayer.Fajr, now)
		require.NoError(t, err, dateID)
		assert.True(t, res.Synced)
	}
}

func TestHistory_FutureTogglesCannotHideToday(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := NewDashboard(store, nil).MarkDone(ctx, signedIn(), prayer.Fajr, now)
	require.NoError(t, err)

	h := NewHistory(store, nil)
	future := now.AddDate(1, 0, 0)
	for i := 0; i < 2*DefaultDays; i++ {
		_, err := h.Toggle(ctx, signedIn(), prayer.ToDateID(future.AddDate(0, 0, i)), prayer.Isha, now)
		require.ErrorIs(t, err, ErrInvalidDate)
	}

	view, err := h.Load(ctx, signedIn(), DefaultDays, now)
	require.NoError(t, err)
	assert.True(t, view.Cards[0].Stored)
	assert.True(t, doneMap(view.Cards[0].Prayers)[prayer.Fajr])
	assert.Equal(t, "History for last 7 days loaded.", view.Notice.Message)
}

func TestDashboard_UnknownPrayer(t *testing.T) {
	_, err := NewDashboard(db.NewMemoryStore(), nil).MarkDone(context.Background(), signedIn(), "tahajjud", now)
	assert.ErrorIs(t, err, ErrUnknownPrayer)
}

func TestHistory_WindowOfSevenDays(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := store.MergeRecord(ctx, 7, "2024-03-13", model.PrayerStatus{prayer.Maghrib: true})
	require.NoError(t, err)

	view, err := NewHistory(store, nil).Load(ctx, signedIn(), DefaultDays, now)
	require.NoError(t, err)
	require.Len(t, view.Cards, 7)

	ids := make([]string, 0, 7)
	for _, c := range view.Cards {
		ids = append(ids, c.DateID)
	}
	assert.Equal(t, []string{
		"2024-03-15", "2024-03-14", "2024-03-13", "2024-03-12",
		"2024-03-11", "2024-03-10", "2024-03-09",
	}, ids)

	assert.True(t, view.Cards[2].Stored)
	assert.True(t, doneMap(view.Cards[2].Prayers)[prayer.Maghrib])
	assert.False(t, view.Cards[0].Stored)
	assert.False(t, view.Empty)
	assert.Equal(t, "History for last 7 days loaded.", view.Notice.Message)
}

func TestHistory_NoRecords(t *testing.T) {
	view, err := NewHistory(db.NewMemoryStore(), nil).Load(context.Background(), signedIn(), DefaultDays, now)
	require.NoError(t, err)
	assert.True(t, view.Empty)
	require.Len(t, view.Cards, 7)
	for _, c := range view.Cards {
		for _, s := range c.Prayers {
			assert.False(t, s.Done)
		}
	}
	assert.Equal(t, notify.SeverityInfo, view.Notice.Severity)
	assert.Equal(t, "No prayer records found for the selected period.", view.Notice.Message)
}

func TestHistory_InvalidDays(t *testing.T) {
	h := NewHistory(db.NewMemoryStore(), nil)
	for _, days := range []int{0, -1, MaxDays + 1} {
		_, err := h.Load(context.Background(), signedIn(), days, now)
		assert.ErrorIs(t, err, ErrInvalidDays, "days=%d", days)
	}
}

func TestHistory_ToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	pub := &recordingPublisher{}
	h := NewHistory(store, pub)

	res, err := h.Toggle(ctx, signedIn(), "2024-03-10", prayer.Asr, now)
	require.NoError(t, err)
	assert.True(t, res.Synced)
	assert.True(t, res.Prayer.Done)
	assert.Equal(t, "Asr for 2024-03-10 updated!", res.Notice.Message)

	res, err = h.Toggle(ctx, signedIn(), "2024-03-10", prayer.Asr, now)
	require.NoError(t, err)
	assert.False(t, res.Prayer.Done)

	r, found, err := store.GetRecord(ctx, 7, "2024-03-10")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, r.Status.Done(prayer.Asr))
	assert.Len(t, pub.events, 2)
}

func TestHistory_ToggleLeavesOtherFlags(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := store.MergeRecord(ctx, 7, "2024-03-10", model.PrayerStatus{prayer.Fajr: true, prayer.Isha: true})
	require.NoError(t, err)

	_, err = NewHistory(store, nil).Toggle(ctx, signedIn(), "2024-03-10", prayer.Fajr, now)
	require.NoError(t, err)

	r, _, err := store.GetRecord(ctx, 7, "2024-03-10")
	require.NoError(t, err)
	assert.False(t, r.Status.Done(prayer.Fajr))
	assert.True(t, r.Status.Done(prayer.Isha))
}

func TestHistory_ToggleFailureKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()
	mem := db.NewMemoryStore()
	_, err := mem.MergeRecord(ctx, 7, "2024-03-10", model.PrayerStatus{prayer.Fajr: true})
	require.NoError(t, err)

	res, err := NewHistory(&failingStore{RecordStore: mem}, nil).Toggle(ctx, signedIn(), "2024-03-10", prayer.Fajr, now)
	assert.ErrorIs(t, err, errWrite)
	assert.False(t, res.Synced)
	assert.True(t, res.Prayer.Done)
	assert.Equal(t, notify.SeverityError, res.Notice.Severity)
}

func TestHistory_ToggleValidation(t *testing.T) {
	store := &failingStore{RecordStore: db.NewMemoryStore()}
	h := NewHistory(store, nil)

	_, err := h.Toggle(context.Background(), session.NewState(session.PageHistory), "2024-03-10", prayer.Fajr, now)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = h.Toggle(context.Background(), signedIn(), "2024-03-10", "witr", now)
	assert.ErrorIs(t, err, ErrUnknownPrayer)

	_, err = h.Toggle(context.Background(), signedIn(), "10/03/2024", prayer.Fajr, now)
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.Zero(t, store.writes)
}
