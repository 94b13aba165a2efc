package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/model"
	"car-expert-api/internal/service"
)

// attributeParams are the query parameters forwarded as open-attribute
// equality predicates on GET /cars.
var attributeParams = []string{"origin", "drivetrain", "body_style", "transmission", "category"}

type CarHandler struct {
	svc *service.CarService
}

func NewCarHandler(svc *service.CarService) *CarHandler {
	return &CarHandler{svc: svc}
}

// Generate runs the full pipeline for POST /generate_cars.
func (h *CarHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body model.GenerateCarsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperr.InvalidRequest("invalid JSON body"))
		return
	}

	req := model.GenerationRequest{
		Count:      body.NumCars,
		YearStart:  body.YearStart,
		YearEnd:    body.YearEnd,
		Drivetrain: body.Drivetrain,
		Origin:     body.Origin,
		BodyStyle:  body.BodyStyle,
	}
	if desc := strings.TrimSpace(body.Description); desc != "" {
		req.Modifiers = append(req.Modifiers, desc)
	}

	cars, err := h.svc.GenerateAndStore(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateCarsResponse{
		Message: fmt.Sprintf("%d cars added to database successfully", len(cars)),
		Cars:    cars,
	})
}

// List serves GET /cars with optional filter predicates.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cars, err := h.svc.List(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CarsResponse{Cars: cars, Total: len(cars)})
}

// Get serves GET /car/{id}.
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	car, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, car)
}

func parseFilter(r *http.Request) (model.FilterQuery, error) {
	params := r.URL.Query()
	filter := model.FilterQuery{Brand: params.Get("brand")}

	yearMin, err := intParam(params.Get("year_min"), "year_min")
	if err != nil {
		return model.FilterQuery{}, err
	}
	filter.YearMin = yearMin

	yearMax, err := intParam(params.Get("year_max"), "year_max")
	if err != nil {
		return model.FilterQuery{}, err
	}
	filter.YearMax = yearMax

	for _, name := range attributeParams {
		if value := params.Get(name); value != "" {
			if filter.Attributes == nil {
				filter.Attributes = map[string]string{}
			}
			filter.Attributes[name] = value
		}
	}

	return filter, nil
}

func intParam(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.InvalidRequest("%s must be an integer, got %q", name, raw)
	}
	return &value, nil
}
