// Package generator turns a generation request into a validated batch
// of car records via one call to an external language model.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/client"
	"car-expert-api/internal/model"
)

type Generator struct {
	llm    client.TextCompleter
	logger *slog.Logger
}

func New(llm client.TextCompleter, logger *slog.Logger) *Generator {
	return &Generator{llm: llm, logger: logger}
}

// Generate makes exactly one provider call and returns req.Count
// validated records, or fails the whole batch. The model's response is
// untrusted text; anything that does not parse into the declared
// schema rejects the call. No retries happen here.
func (g *Generator) Generate(ctx context.Context, req model.GenerationRequest) ([]model.CarRecord, error) {
	raw, err := g.llm.Complete(ctx, generationSystemPrompt, buildPrompt(req))
	if err != nil {
		return nil, apperr.GenerationFailed("LLM call failed", err)
	}

	records, err := parseRecords(raw)
	if err != nil {
		g.logger.Warn("generation response failed to parse", "error", err)
		return nil, apperr.GenerationFailed("response is not valid car data", err)
	}

	if len(records) != req.Count {
		return nil, apperr.GenerationFailed(
			fmt.Sprintf("requested %d cars, model returned %d", req.Count, len(records)), nil)
	}

	for i, rec := range records {
		if err := validateRecord(rec, req); err != nil {
			return nil, apperr.GenerationFailed(fmt.Sprintf("record %d rejected", i), err)
		}
	}

	g.logger.Info("generated car batch",
		"count", len(records),
		"year_start", req.YearStart,
		"year_end", req.YearEnd,
	)

	return records, nil
}

// parseRecords extracts the JSON array from the model reply and maps
// each element to a CarRecord, tolerating prose or markdown fences
// around the array.
func parseRecords(raw string) ([]model.CarRecord, error) {
	payload, err := extractJSONArray(raw)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("unmarshal car array: %w", err)
	}

	records := make([]model.CarRecord, 0, len(items))
	for _, item := range items {
		rec := model.CarRecord{}

		if brand, ok := item["brand"].(string); ok {
			rec.Brand = strings.TrimSpace(brand)
		}
		if mdl, ok := item["model"].(string); ok {
			rec.Model = strings.TrimSpace(mdl)
		}
		if year, ok := item["year"].(float64); ok {
			rec.Year = int(year)
		}

		// Everything else is an open attribute. Nulls are dropped so
		// they can never corrupt filtering.
		for key, value := range item {
			if key == "brand" || key == "model" || key == "year" || value == nil {
				continue
			}
			if rec.Attributes == nil {
				rec.Attributes = map[string]any{}
			}
			rec.Attributes[key] = value
		}

		records = append(records, rec)
	}
	return records, nil
}

// extractJSONArray returns the outermost JSON array in the text.
func extractJSONArray(raw string) (string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON array in response")
	}
	return raw[start : end+1], nil
}

func validateRecord(rec model.CarRecord, req model.GenerationRequest) error {
	if rec.Brand == "" {
		return fmt.Errorf("empty brand")
	}
	if rec.Model == "" {
		return fmt.Errorf("empty model")
	}

	minYear, maxYear := model.MinYear, model.MaxYear()
	if req.YearStart != 0 {
		minYear = req.YearStart
	}
	if req.YearEnd != 0 {
		maxYear = req.YearEnd
	}
	if rec.Year < minYear || rec.Year > maxYear {
		return fmt.Errorf("year %d outside [%d, %d]", rec.Year, minYear, maxYear)
	}
	return nil
}
