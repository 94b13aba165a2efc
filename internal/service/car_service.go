package service

import (
	"context"
	"log/slog"

	"car-expert-api/internal/client"
	"car-expert-api/internal/generator"
	"car-expert-api/internal/model"
	"car-expert-api/internal/repository"
)

// CarService runs the generation pipeline and answers catalog reads.
// Each call is one synchronous pass; there is no retry or compensation
// on partial failure.
type CarService struct {
	generator *generator.Generator
	repo      repository.CarRepository
	llm       client.TextCompleter
	logger    *slog.Logger
}

func NewCarService(gen *generator.Generator, repo repository.CarRepository, llm client.TextCompleter, logger *slog.Logger) *CarService {
	return &CarService{
		generator: gen,
		repo:      repo,
		llm:       llm,
		logger:    logger,
	}
}

// GenerateAndStore validates the request, generates the batch and
// persists it, returning the stored records with their assigned ids.
// Validation failures happen before any provider call.
func (s *CarService) GenerateAndStore(ctx context.Context, req model.GenerationRequest) ([]model.CarRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	records, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	ids, err := s.repo.InsertMany(ctx, records)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].ID = ids[i]
	}

	s.logger.Info("stored generated cars", "count", len(records))
	return records, nil
}

// List returns catalog records matching the filter, insertion order.
func (s *CarService) List(ctx context.Context, filter model.FilterQuery) ([]model.CarRecord, error) {
	return s.repo.Query(ctx, filter)
}

// Get returns one record by its store-assigned identifier.
func (s *CarService) Get(ctx context.Context, id string) (*model.CarRecord, error) {
	return s.repo.GetByID(ctx, id)
}
