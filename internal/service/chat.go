package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/model"
)

const chatSystemPrompt = `You are a car expert assistant. Analyze the available cars and the user's query.
Respond with ONLY a JSON object in this exact format, no prose, no markdown fences:
{"query_interpretation": "what you understood from the query", "suggested_filters": {"brands": [], "year_min": null, "year_max": null, "max_cost": null}, "explanation": "why these cars match"}`

// chatReply is the shape the model is asked to produce.
type chatReply struct {
	QueryInterpretation string            `json:"query_interpretation"`
	SuggestedFilters    model.ChatFilters `json:"suggested_filters"`
	Explanation         string            `json:"explanation"`
}

// Chat answers a free-text question about the catalog: the model reads
// the current inventory and suggests filters, which are then applied
// against the store, with cost statistics over the matches.
func (s *CarService) Chat(ctx context.Context, question string) (*model.ChatResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperr.InvalidRequest("question must not be empty")
	}

	inventory, err := s.repo.Query(ctx, model.FilterQuery{})
	if err != nil {
		return nil, err
	}

	catalogJSON, err := json.Marshal(inventory)
	if err != nil {
		return nil, apperr.GenerationFailed("encode catalog", err)
	}

	userPrompt := fmt.Sprintf("Available cars:\n%s\n\nUser query: %s", catalogJSON, question)

	raw, err := s.llm.Complete(ctx, chatSystemPrompt, userPrompt)
	if err != nil {
		return nil, apperr.GenerationFailed("LLM call failed", err)
	}

	reply, err := parseChatReply(raw)
	if err != nil {
		return nil, apperr.GenerationFailed("chat response is not valid", err)
	}

	matching, err := s.applySuggestedFilters(ctx, reply.SuggestedFilters)
	if err != nil {
		return nil, err
	}

	response := &model.ChatResponse{
		Interpretation:   reply.QueryInterpretation,
		Explanation:      reply.Explanation,
		SuggestedFilters: reply.SuggestedFilters,
		MatchingCars:     matching,
		Statistics:       costStatistics(matching),
	}

	s.logger.Info("answered chat query", "matches", len(matching))
	return response, nil
}

// applySuggestedFilters runs the model's filters against the store.
// Each suggested brand is an exact-match query of its own; results
// keep insertion order and are deduplicated by id.
func (s *CarService) applySuggestedFilters(ctx context.Context, filters model.ChatFilters) ([]model.CarRecord, error) {
	base := model.FilterQuery{YearMin: filters.YearMin, YearMax: filters.YearMax}

	var matching []model.CarRecord
	if len(filters.Brands) == 0 {
		var err error
		matching, err = s.repo.Query(ctx, base)
		if err != nil {
			return nil, err
		}
	} else {
		seen := map[string]bool{}
		for _, brand := range filters.Brands {
			query := base
			query.Brand = brand
			records, err := s.repo.Query(ctx, query)
			if err != nil {
				return nil, err
			}
			for _, rec := range records {
				if !seen[rec.ID] {
					seen[rec.ID] = true
					matching = append(matching, rec)
				}
			}
		}
	}

	if filters.MaxCost == nil {
		return matching, nil
	}

	filtered := matching[:0]
	for _, rec := range matching {
		cost, ok := attrFloat(rec, "cost")
		if !ok || cost <= *filters.MaxCost {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

func parseChatReply(raw string) (*chatReply, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var reply chatReply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		return nil, fmt.Errorf("unmarshal chat reply: %w", err)
	}
	return &reply, nil
}

// costStatistics summarizes the cost attribute over matches that carry
// one; nil when nothing matched or no car has a cost.
func costStatistics(records []model.CarRecord) *model.CostStatistics {
	var (
		sum, lowest, highest float64
		count                int
	)
	for _, rec := range records {
		cost, ok := attrFloat(rec, "cost")
		if !ok {
			continue
		}
		if count == 0 || cost < lowest {
			lowest = cost
		}
		if count == 0 || cost > highest {
			highest = cost
		}
		sum += cost
		count++
	}

	if count == 0 {
		return nil
	}
	return &model.CostStatistics{
		AverageCost:  sum / float64(count),
		LowestCost:   lowest,
		HighestCost:  highest,
		TotalMatches: len(records),
	}
}

func attrFloat(rec model.CarRecord, name string) (float64, bool) {
	switch v := rec.Attr(name).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
