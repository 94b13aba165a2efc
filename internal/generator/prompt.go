package generator

import (
	"fmt"
	"strings"

	"car-expert-api/internal/model"
)

const generationSystemPrompt = `You are a dataset generator for a car catalog. Reply with ONLY a JSON array, no prose, no markdown fences. Each element must follow this format exactly:
{"brand": "string", "model": "string", "year": number, "mileage": number, "cost": number, "category": "string", "origin": "string", "drivetrain": "string", "transmission": "string", "engine_type": "string", "body_style": "string", "horsepower": number}
Requirements:
- Use realistic brands, models, trim levels and special editions
- Accurate drivetrain configurations for each model
- Realistic mileage for the car's age and market-appropriate costs
- Realistic engine types and horsepower figures
- No duplicate model/year combinations
- Valid JSON: double quotes, no trailing commas, no comments`

// buildPrompt renders one generation request as the user prompt.
func buildPrompt(req model.GenerationRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate exactly %d car entries as a JSON array.\n", req.Count)

	switch {
	case req.YearStart != 0 && req.YearEnd != 0:
		fmt.Fprintf(&sb, "Years between %d and %d.\n", req.YearStart, req.YearEnd)
	case req.YearStart != 0:
		fmt.Fprintf(&sb, "Years %d or later.\n", req.YearStart)
	case req.YearEnd != 0:
		fmt.Fprintf(&sb, "Years %d or earlier.\n", req.YearEnd)
	}

	if req.Origin != "" {
		fmt.Fprintf(&sb, "All cars originate from: %s.\n", req.Origin)
	}
	if req.Drivetrain != "" {
		fmt.Fprintf(&sb, "All cars have %s drivetrain.\n", req.Drivetrain)
	}
	if req.BodyStyle != "" {
		fmt.Fprintf(&sb, "Body style: %s.\n", req.BodyStyle)
	}
	if req.Transmission != "" {
		fmt.Fprintf(&sb, "Transmission: %s.\n", req.Transmission)
	}
	if len(req.Modifiers) > 0 {
		fmt.Fprintf(&sb, "Style / character: %s.\n", strings.Join(req.Modifiers, ", "))
	}

	return sb.String()
}
