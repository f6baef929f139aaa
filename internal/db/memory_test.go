package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/namaz/internal/model"
)

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.CreateUser(ctx, "test@example.com", "hash", nil)
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	_, err = store.CreateUser(ctx, "TEST@example.com", "hash", nil)
	assert.ErrorIs(t, err, ErrDuplicate)

	u, err := store.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = store.GetUserByID(ctx, id+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_MissingRecordReadsAllFalse(t *testing.T) {
	store := NewMemoryStore()

	r, found, err := store.GetRecord(context.Background(), 1, "2024-01-01")
	require.NoError(t, err)
	assert.False(t, found)
	for _, done := range r.Status.Complete() {
		assert.False(t, done)
	}
}

func TestMemoryStore_MergeKeepsOtherFlags(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.MergeRecord(ctx, 1, "2024-01-01", model.PrayerStatus{"dhuhr": true, "isha": true})
	require.NoError(t, err)
	_, err = store.MergeRecord(ctx, 1, "2024-01-01", model.PrayerStatus{"fajr": true})
	require.NoError(t, err)

	r, found, err := store.GetRecord(ctx, 1, "2024-01-01")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.PrayerStatus{"fajr": true, "dhuhr": true, "isha": true}, r.Status)
}

func TestMemoryStore_ToggleIsInvolution(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	r, err := store.ToggleRecord(ctx, 1, "2024-01-01", "asr")
	require.NoError(t, err)
	assert.True(t, r.Status["asr"])

	r, err = store.ToggleRecord(ctx, 1, "2024-01-01", "asr")
	require.NoError(t, err)
	assert.False(t, r.Status["asr"])
}

func TestMemoryStore_ConcurrentTogglesDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.ToggleRecord(ctx, 1, "2024-01-01", "fajr")
		}()
	}
	wg.Wait()

	r, _, err := store.GetRecord(ctx, 1, "2024-01-01")
	require.NoError(t, err)
	assert.False(t, r.Status["fajr"], "an even number of toggles restores the flag")
}

func TestMemoryStore_ListRecentOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	for _, id := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		_, err := store.MergeRecord(ctx, 1, id, model.PrayerStatus{"fajr": true})
		require.NoError(t, err)
	}
	_, err := store.MergeRecord(ctx, 2, "2024-01-05", model.PrayerStatus{"fajr": true})
	require.NoError(t, err)

	got, err := store.ListRecentRecords(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-02", got[0].DateID)
	assert.Equal(t, "2024-01-01", got[1].DateID)
}
