package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/auth"
	"github.com/Nixie-Tech-LLC/namaz/internal/config"
	"github.com/Nixie-Tech-LLC/namaz/internal/db"
	"github.com/Nixie-Tech-LLC/namaz/internal/events"
	"github.com/Nixie-Tech-LLC/namaz/internal/redis"
	"github.com/Nixie-Tech-LLC/namaz/internal/timings"
)

// Services are the backends selected from configuration.
type Services struct {
	Store    db.Store
	Revoker  auth.Revoker
	Hub      *events.Hub
	Provider *auth.Provider
	Timings  timings.Lookuper

	closers []func()
}

func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// InitServices connects to Postgres, Redis and MQTT when configured and
// falls back to in-process implementations otherwise.
func InitServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	s := &Services{}

	if cfg.UseMemoryStore() {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		s.Store = db.NewMemoryStore()
	} else {
		if err := db.Init(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("db init: %w", err)
		}
		s.closers = append(s.closers, func() { db.DB.Close() })
		if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
			s.Close()
			return nil, fmt.Errorf("db migrate: %w", err)
		}
		s.Store = db.NewStore(db.DB)
	}

	lookup := timings.Lookuper(timings.NewClient(cfg.TimingsBaseURL, cfg.TimingsMethod))
	if cfg.RedisAddress != "" {
		rc := redis.New(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info().Str("address", cfg.RedisAddress).Msg("connected to redis")
		s.closers = append(s.closers, func() { rc.Close() })
		s.Revoker = rc
		lookup = timings.NewCachedLookup(lookup, rc, cfg.TimingsMethod)
	} else {
		log.Warn().Msg("REDIS_ADDRESS not set, revoked tokens are kept in memory")
		s.Revoker = auth.NewMemoryRevoker()
	}
	s.Timings = lookup

	var publisher events.Publisher
	if cfg.MQTTBrokerURL != "" {
		host, _ := os.Hostname()
		mp, err := events.NewMQTTPublisher(cfg.MQTTBrokerURL, fmt.Sprintf("namaz-%s-%d", host, os.Getpid()))
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, mp.Close)
		publisher = mp
	}
	s.Hub = events.NewHub(publisher)
	s.closers = append(s.closers, s.Hub.Close)
	s.Provider = auth.NewProvider(s.Store, cfg.JWTSecret, s.Revoker, s.Hub)

	return s, nil
}
