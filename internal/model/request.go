package model

import "car-expert-api/internal/apperr"

// GenerationRequest describes one batch of cars to generate. It is
// constructed from user input, consumed once by the generator and
// discarded.
type GenerationRequest struct {
	Count        int      `json:"count"`
	YearStart    int      `json:"year_start,omitempty"` // 0 = unbounded
	YearEnd      int      `json:"year_end,omitempty"`   // 0 = unbounded
	Drivetrain   string   `json:"drivetrain,omitempty"`
	Origin       string   `json:"origin,omitempty"`
	BodyStyle    string   `json:"body_style,omitempty"`
	Transmission string   `json:"transmission,omitempty"`
	Modifiers    []string `json:"modifiers,omitempty"`
}

// Validate checks the request before any provider call is made.
func (r GenerationRequest) Validate() error {
	if r.Count <= 0 {
		return apperr.InvalidRequest("count must be positive, got %d", r.Count)
	}
	if r.YearStart != 0 && (r.YearStart < MinYear || r.YearStart > MaxYear()) {
		return apperr.InvalidRequest("year_start %d outside plausible range [%d, %d]", r.YearStart, MinYear, MaxYear())
	}
	if r.YearEnd != 0 && (r.YearEnd < MinYear || r.YearEnd > MaxYear()) {
		return apperr.InvalidRequest("year_end %d outside plausible range [%d, %d]", r.YearEnd, MinYear, MaxYear())
	}
	if r.YearStart != 0 && r.YearEnd != 0 && r.YearStart > r.YearEnd {
		return apperr.InvalidRequest("year_start %d is after year_end %d", r.YearStart, r.YearEnd)
	}
	return nil
}

// FilterQuery describes a read over the catalog. Zero values mean
// "no predicate".
type FilterQuery struct {
	Brand      string            `json:"brand,omitempty"`
	YearMin    *int              `json:"year_min,omitempty"`
	YearMax    *int              `json:"year_max,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// IsEmpty reports whether the query has no predicates at all.
func (f FilterQuery) IsEmpty() bool {
	return f.Brand == "" && f.YearMin == nil && f.YearMax == nil && len(f.Attributes) == 0
}
