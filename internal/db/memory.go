package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/namaz/internal/model"
)

type recordKey struct {
	userID int
	dateID string
}

// MemoryStore is a Store kept in process memory. It backs local runs without
// DATABASE_URL and the package tests.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[int]*model.User
	byEmail map[string]int
	records map[recordKey]*model.DayRecord
	nextID  int
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[int]*model.User),
		byEmail: make(map[string]int),
		records: make(map[recordKey]*model.DayRecord),
		now:     time.Now,
	}
}

// SetClock overrides the timestamp source for updated_at.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) CreateUser(_ context.Context, email, hashedPassword string, name *string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := s.byEmail[key]; exists {
		return 0, ErrDuplicate
	}
	s.nextID++
	now := s.now()
	s.users[s.nextID] = &model.User{
		ID:             s.nextID,
		Email:          email,
		HashedPassword: hashedPassword,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.byEmail[key] = s.nextID
	return s.nextID, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetRecord(_ context.Context, userID int, dateID string) (model.DayRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[recordKey{userID, dateID}]
	if !ok {
		return model.EmptyRecord(userID, dateID), false, nil
	}
	return copyRecord(r), true, nil
}

func (s *MemoryStore) MergeRecord(_ context.Context, userID int, dateID string, status model.PrayerStatus) (model.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.upsert(userID, dateID)
	for k, v := range status {
		r.Status[k] = v
	}
	return copyRecord(r), nil
}

func (s *MemoryStore) ToggleRecord(_ context.Context, userID int, dateID, prayerName string) (model.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.upsert(userID, dateID)
	r.Status[prayerName] = !r.Status[prayerName]
	return copyRecord(r), nil
}

func (s *MemoryStore) ListRecentRecords(_ context.Context, userID int, limit int) ([]model.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.DayRecord
	for k, r := range s.records {
		if k.userID == userID {
			out = append(out, copyRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].DateID > out[j].DateID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// upsert returns the stored record, creating it on first write. Caller holds mu.
func (s *MemoryStore) upsert(userID int, dateID string) *model.DayRecord {
	key := recordKey{userID, dateID}
	r, ok := s.records[key]
	if !ok {
		rec := model.EmptyRecord(userID, dateID)
		r = &rec
		s.records[key] = r
	}
	r.UpdatedAt = s.now()
	return r
}

func copyRecord(r *model.DayRecord) model.DayRecord {
	cp := *r
	cp.Status = make(model.PrayerStatus, len(r.Status))
	for k, v := range r.Status {
		cp.Status[k] = v
	}
	return cp
}
