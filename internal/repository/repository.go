package repository

import (
	"context"

	"car-expert-api/internal/model"
)

// CarRepository is the catalog store contract. Writes only append;
// reads never mutate. Partial-insert semantics on failure are whatever
// the backing store provides.
type CarRepository interface {
	// InsertMany persists the records and returns the assigned
	// identifiers, in input order.
	InsertMany(ctx context.Context, records []model.CarRecord) ([]string, error)

	// GetByID returns the record or a not-found error.
	GetByID(ctx context.Context, id string) (*model.CarRecord, error)

	// Query returns records matching every predicate in the filter,
	// in insertion order.
	Query(ctx context.Context, filter model.FilterQuery) ([]model.CarRecord, error)
}

// Ensure both stores implement CarRepository
var _ CarRepository = (*PostgresRepo)(nil)
var _ CarRepository = (*MemoryRepo)(nil)
