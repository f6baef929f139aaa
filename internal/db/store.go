// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/namaz/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type Store interface {
	// user functions
	CreateUser(ctx context.Context, email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)

	// day record functions, addressed by (userID, dateID)
	GetRecord(ctx context.Context, userID int, dateID string) (model.DayRecord, bool, error)
	MergeRecord(ctx context.Context, userID int, dateID string, status model.PrayerStatus) (model.DayRecord, error)
	ToggleRecord(ctx context.Context, userID int, dateID, prayerName string) (model.DayRecord, error)
	ListRecentRecords(ctx context.Context, userID int, limit int) ([]model.DayRecord, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
