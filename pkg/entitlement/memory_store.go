package entitlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory storage. Intended for tests and
// local development; production uses PostgresStore.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
}

// NewMemoryStore creates an empty in-memory subscription store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]*Record),
	}
}

// Get retrieves a record by user ID.
func (m *MemoryStore) Get(ctx context.Context, userID uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.records[userID]
	if !exists {
		return nil, ErrRecordNotFound
	}

	recCopy := *rec
	return &recCopy, nil
}

// Save creates or updates a record keyed by its UserID.
func (m *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil || rec.UserID == uuid.Nil {
		return ErrInvalidRecord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	recCopy := *rec
	now := time.Now().UTC()
	if recCopy.CreatedAt.IsZero() {
		recCopy.CreatedAt = now
	}
	recCopy.UpdatedAt = now

	m.records[rec.UserID] = &recCopy
	return nil
}

// MarkFeatureUsed sets one usage flag, creating an implicit free-tier record
// when none exists. Repeated calls leave the record unchanged.
func (m *MemoryStore) MarkFeatureUsed(ctx context.Context, userID uuid.UUID, feature Feature) error {
	if !feature.Valid() {
		return ErrInvalidFeature
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.records[userID]
	if !exists {
		now := time.Now().UTC()
		rec = &Record{
			UserID:    userID,
			PlanName:  PlanFree,
			CreatedAt: now,
			UpdatedAt: now,
		}
		m.records[userID] = rec
	}

	switch feature {
	case FeatureMealPlanner:
		rec.UsedMealPlanner = true
	case FeatureAnalyzeFood:
		rec.UsedAnalyzeFood = true
	case FeatureGetRecipe:
		rec.UsedGetRecipe = true
	}
	rec.UpdatedAt = time.Now().UTC()

	return nil
}
