package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/model"
)

const recordColumns = `user_id, date_id, status, updated_at`

func (s *pgStore) GetRecord(ctx context.Context, userID int, dateID string) (model.DayRecord, bool, error) {
	var r model.DayRecord
	err := s.db.GetContext(ctx, &r, `
		SELECT `+recordColumns+`
		FROM namaz_records
		WHERE user_id = $1 AND date_id = $2;
		`, userID, dateID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EmptyRecord(userID, dateID), false, nil
	}
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Str("date_id", dateID).Msg("GetRecord failed")
		return model.DayRecord{}, false, err
	}
	return r, true, nil
}

// MergeRecord upserts the given flags, keeping every flag it does not name.
func (s *pgStore) MergeRecord(ctx context.Context, userID int, dateID string, status model.PrayerStatus) (model.DayRecord, error) {
	var r model.DayRecord
	err := s.db.GetContext(ctx, &r, `
	INSERT INTO namaz_records (user_id, date_id, status, updated_at)
	VALUES ($1, $2, $3::jsonb, now())
	ON CONFLICT (user_id, date_id) DO UPDATE
	SET status = namaz_records.status || EXCLUDED.status,
	    updated_at = now()
	RETURNING `+recordColumns+`;
	`, userID, dateID, status)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Str("date_id", dateID).Msg("MergeRecord failed")
		return model.DayRecord{}, err
	}
	return r, nil
}

// ToggleRecord negates one flag in a single statement, so concurrent toggles
// on the same record cannot lose an update.
func (s *pgStore) ToggleRecord(ctx context.Context, userID int, dateID, prayerName string) (model.DayRecord, error) {
	var r model.DayRecord
	err := s.db.GetContext(ctx, &r, `
	INSERT INTO namaz_records (user_id, date_id, status, updated_at)
	VALUES ($1, $2, jsonb_build_object($3::text, true), now())
	ON CONFLICT (user_id, date_id) DO UPDATE
	SET status = namaz_records.status || jsonb_build_object(
	        $3::text,
	        NOT COALESCE((namaz_records.status ->> $3::text)::boolean, false)),
	    updated_at = now()
	RETURNING `+recordColumns+`;
	`, userID, dateID, prayerName)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Str("date_id", dateID).Str("prayer", prayerName).Msg("ToggleRecord failed")
		return model.DayRecord{}, err
	}
	return r, nil
}

// ListRecentRecords returns a user's records, most recently written first.
func (s *pgStore) ListRecentRecords(ctx context.Context, userID int, limit int) ([]model.DayRecord, error) {
	var out []model.DayRecord
	err := s.db.SelectContext(ctx, &out, `
	SELECT `+recordColumns+`
	  FROM namaz_records
	 WHERE user_id = $1
	 ORDER BY updated_at DESC
	 LIMIT $2;`, userID, limit)
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("ListRecentRecords failed")
		return nil, err
	}
	return out, nil
}
