package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/model"
)

func seedCars() []model.CarRecord {
	return []model.CarRecord{
		{Brand: "Toyota", Model: "Supra", Year: 1998, Attributes: map[string]any{"drivetrain": "RWD", "origin": "Japan", "cost": 45000.0}},
		{Brand: "Nissan", Model: "Skyline GT-R", Year: 2001, Attributes: map[string]any{"drivetrain": "AWD", "origin": "Japan", "cost": 60000.0}},
		{Brand: "BMW", Model: "M3", Year: 2006, Attributes: map[string]any{"drivetrain": "RWD", "origin": "Germany", "cost": 32000.0}},
	}
}

func TestInsertManyRoundTrip(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	inserted := seedCars()
	ids, err := repo.InsertMany(ctx, inserted)
	require.NoError(t, err)
	require.Len(t, ids, len(inserted))

	for i, id := range ids {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, id, got.ID)
		assert.Equal(t, inserted[i].Brand, got.Brand)
		assert.Equal(t, inserted[i].Model, got.Model)
		assert.Equal(t, inserted[i].Year, got.Year)
		assert.Equal(t, inserted[i].Attributes, got.Attributes)
		assert.False(t, got.CreatedAt.IsZero())
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewMemoryRepo()

	_, err := repo.GetByID(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestQueryNoPredicatesReturnsEverythingInOrder(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	ids, err := repo.InsertMany(ctx, seedCars())
	require.NoError(t, err)

	got, err := repo.Query(ctx, model.FilterQuery{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, rec := range got {
		assert.Equal(t, ids[i], rec.ID, "insertion order must be preserved")
	}
}

func TestQueryBrandExactMatch(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_, err := repo.InsertMany(ctx, seedCars())
	require.NoError(t, err)

	got, err := repo.Query(ctx, model.FilterQuery{Brand: "toyota"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Supra", got[0].Model)

	// Not a substring match: "Toy" must not match "Toyota".
	got, err = repo.Query(ctx, model.FilterQuery{Brand: "Toy"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryYearRange(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_, err := repo.InsertMany(ctx, seedCars())
	require.NoError(t, err)

	yearMin, yearMax := 2000, 2006
	got, err := repo.Query(ctx, model.FilterQuery{YearMin: &yearMin, YearMax: &yearMax})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Nissan", got[0].Brand)
	assert.Equal(t, "BMW", got[1].Brand)
}

func TestQueryAttributePredicate(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	_, err := repo.InsertMany(ctx, seedCars())
	require.NoError(t, err)

	got, err := repo.Query(ctx, model.FilterQuery{Attributes: map[string]string{"drivetrain": "rwd"}})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = repo.Query(ctx, model.FilterQuery{
		Brand:      "BMW",
		Attributes: map[string]string{"origin": "Germany"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "M3", got[0].Model)
}

func TestInsertDoesNotAliasCallerAttributes(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	attrs := map[string]any{"origin": "Japan"}
	ids, err := repo.InsertMany(ctx, []model.CarRecord{{Brand: "Honda", Model: "NSX", Year: 1995, Attributes: attrs}})
	require.NoError(t, err)

	attrs["origin"] = "mutated"

	got, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Japan", got.Attr("origin"))
}
