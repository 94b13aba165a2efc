package model

import "time"

// GenerateCarsRequest is the body of POST /generate_cars.
type GenerateCarsRequest struct {
	NumCars     int    `json:"num_cars"`
	YearStart   int    `json:"year_start,omitempty"`
	YearEnd     int    `json:"year_end,omitempty"`
	Drivetrain  string `json:"drivetrain,omitempty"`
	Origin      string `json:"origin,omitempty"`
	BodyStyle   string `json:"body_style,omitempty"`
	Description string `json:"description,omitempty"`
}

// GenerateCarsResponse lists the records created by one generation call.
type GenerateCarsResponse struct {
	Message string      `json:"message"`
	Cars    []CarRecord `json:"cars"`
}

// CarsResponse is the payload for catalog reads.
type CarsResponse struct {
	Cars  []CarRecord `json:"cars"`
	Total int         `json:"total"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatFilters are the filters the model suggests for a chat question.
type ChatFilters struct {
	Brands  []string `json:"brands"`
	YearMin *int     `json:"year_min"`
	YearMax *int     `json:"year_max"`
	MaxCost *float64 `json:"max_cost"`
}

// CostStatistics summarizes the cost attribute over matching cars.
type CostStatistics struct {
	AverageCost  float64 `json:"average_cost"`
	LowestCost   float64 `json:"lowest_cost"`
	HighestCost  float64 `json:"highest_cost"`
	TotalMatches int     `json:"total_matches"`
}

// ChatResponse is the analysis returned for a free-text catalog question.
type ChatResponse struct {
	Interpretation   string          `json:"query_interpretation"`
	Explanation      string          `json:"explanation"`
	SuggestedFilters ChatFilters     `json:"suggested_filters"`
	MatchingCars     []CarRecord     `json:"matching_cars"`
	Statistics       *CostStatistics `json:"statistics,omitempty"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the error payload for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
