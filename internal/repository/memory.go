package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/model"
)

// MemoryRepo keeps the catalog in process memory. It satisfies the
// same contract as PostgresRepo and backs tests and credential-free
// dev runs (STORE_DRIVER=memory).
type MemoryRepo struct {
	mu   sync.RWMutex
	cars []model.CarRecord
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) InsertMany(_ context.Context, records []model.CarRecord) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(records))
	now := time.Now().UTC()
	for _, rec := range records {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
		rec.Attributes = copyAttributes(rec.Attributes)
		r.cars = append(r.cars, rec)
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*model.CarRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.cars {
		if rec.ID == id {
			out := rec
			out.Attributes = copyAttributes(rec.Attributes)
			return &out, nil
		}
	}
	return nil, apperr.NotFound("car %q not found", id)
}

func (r *MemoryRepo) Query(_ context.Context, filter model.FilterQuery) ([]model.CarRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []model.CarRecord{}
	for _, rec := range r.cars {
		if !matches(rec, filter) {
			continue
		}
		copied := rec
		copied.Attributes = copyAttributes(rec.Attributes)
		out = append(out, copied)
	}
	return out, nil
}

// Ping mirrors the pool's health probe so the health handler can treat
// both stores alike.
func (r *MemoryRepo) Ping(context.Context) error {
	return nil
}

func matches(rec model.CarRecord, filter model.FilterQuery) bool {
	if filter.Brand != "" && !strings.EqualFold(rec.Brand, filter.Brand) {
		return false
	}
	if filter.YearMin != nil && rec.Year < *filter.YearMin {
		return false
	}
	if filter.YearMax != nil && rec.Year > *filter.YearMax {
		return false
	}
	for key, want := range filter.Attributes {
		value := rec.Attr(key)
		if value == nil || !strings.EqualFold(fmt.Sprint(value), want) {
			return false
		}
	}
	return true
}

func copyAttributes(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
