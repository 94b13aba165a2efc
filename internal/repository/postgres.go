package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/model"
)

// PostgresRepo stores car records in a single cars table, required
// fields as columns and the open attribute set as JSONB.
type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) InsertMany(ctx context.Context, records []model.CarRecord) ([]string, error) {
	if len(records) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		attrs, err := json.Marshal(rec.Attributes)
		if err != nil {
			return nil, apperr.StorageFailure("encode attributes", err)
		}

		var id string
		err = r.db.QueryRow(ctx, `
			INSERT INTO cars (brand, model, year, attributes)
			VALUES ($1, $2, $3, $4)
			RETURNING id::text
		`, rec.Brand, rec.Model, rec.Year, attrs).Scan(&id)
		if err != nil {
			return nil, apperr.StorageFailure("insert car", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*model.CarRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound("car %q not found", id)
	}

	row := r.db.QueryRow(ctx, `
		SELECT id::text, brand, model, year, attributes, created_at
		FROM cars
		WHERE id = $1
	`, id)

	rec, err := scanCar(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("car %q not found", id)
	}
	if err != nil {
		return nil, apperr.StorageFailure("get car", err)
	}
	return rec, nil
}

func (r *PostgresRepo) Query(ctx context.Context, filter model.FilterQuery) ([]model.CarRecord, error) {
	query, args := buildCarQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.StorageFailure("query cars", err)
	}
	defer rows.Close()

	cars := []model.CarRecord{}
	for rows.Next() {
		rec, err := scanCar(rows)
		if err != nil {
			return nil, apperr.StorageFailure("scan car", err)
		}
		cars = append(cars, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StorageFailure("query cars", err)
	}

	return cars, nil
}

// buildCarQuery renders the filter as SQL. Brand matching is exact but
// case-insensitive; attribute predicates compare the JSONB field as text.
func buildCarQuery(filter model.FilterQuery) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(brand) = LOWER(%s)", arg(filter.Brand)))
	}
	if filter.YearMin != nil {
		conditions = append(conditions, fmt.Sprintf("year >= %s", arg(*filter.YearMin)))
	}
	if filter.YearMax != nil {
		conditions = append(conditions, fmt.Sprintf("year <= %s", arg(*filter.YearMax)))
	}
	for key, value := range filter.Attributes {
		conditions = append(conditions,
			fmt.Sprintf("LOWER(attributes->>%s) = LOWER(%s)", arg(key), arg(value)))
	}

	query := `SELECT id::text, brand, model, year, attributes, created_at FROM cars`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY seq"

	return query, args
}

func scanCar(row pgx.Row) (*model.CarRecord, error) {
	var (
		rec   model.CarRecord
		attrs []byte
	)
	if err := row.Scan(&rec.ID, &rec.Brand, &rec.Model, &rec.Year, &attrs, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &rec.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes: %w", err)
		}
	}
	return &rec, nil
}
