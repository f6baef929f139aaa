package timings

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/prayer"
)

// Cache stores successful lookups.
type Cache interface {
	GetTimings(ctx context.Context, key string) (Result, bool, error)
	SetTimings(ctx context.Context, key string, r Result, ttl time.Duration) error
}

// CachedLookup serves a day's times from Cache and falls through to next on
// a miss. An entry only counts as a hit while it is still the same calendar
// day at the location, so a city ahead of UTC gets new times at its own
// midnight. Failed lookups are never cached.
type CachedLookup struct {
	next   Lookuper
	cache  Cache
	method int
	ttl    time.Duration
	now    func() time.Time
}

func NewCachedLookup(next Lookuper, cache Cache, method int) *CachedLookup {
	return &CachedLookup{next: next, cache: cache, method: method, ttl: 24 * time.Hour, now: time.Now}
}

// cacheKey is deterministic per location and method.
func (c *CachedLookup) cacheKey(city, country string) string {
	return fmt.Sprintf("timings:%s:%s:%d",
		strings.ToLower(strings.TrimSpace(city)),
		strings.ToLower(strings.TrimSpace(country)),
		c.method,
	)
}

// localDay is t's calendar day in tz, or its UTC day when tz is unknown.
func localDay(tz string, t time.Time) string {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return t.In(loc).Format("2006-01-02")
		}
	}
	return prayer.ToDateID(t)
}

func (c *CachedLookup) Lookup(ctx context.Context, city, country string) (Result, error) {
	key := c.cacheKey(city, country)
	now := c.now()

	if r, ok, err := c.cache.GetTimings(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("timings cache read failed")
	} else if ok && r.Day == localDay(r.Timezone, now) {
		return r, nil
	}

	r, err := c.next.Lookup(ctx, city, country)
	if err != nil {
		return r, err
	}
	r.Day = localDay(r.Timezone, now)
	if err := c.cache.SetTimings(ctx, key, r, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("timings cache write failed")
	}
	return r, nil
}
