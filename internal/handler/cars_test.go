package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-expert-api/internal/generator"
	"car-expert-api/internal/model"
	"car-expert-api/internal/repository"
	"car-expert-api/internal/service"
)

type stubCompleter struct {
	reply string
	calls int
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	s.calls++
	return s.reply, nil
}

const threeCars = `[
  {"brand": "Toyota", "model": "Supra", "year": 2005, "cost": 45000, "origin": "Japan"},
  {"brand": "Nissan", "model": "350Z", "year": 2007, "cost": 22000, "origin": "Japan"},
  {"brand": "BMW", "model": "Z4", "year": 2010, "cost": 30000, "origin": "Germany"}
]`

func newTestRouter(stub *stubCompleter) (*chi.Mux, *repository.MemoryRepo) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewMemoryRepo()
	svc := service.NewCarService(generator.New(stub, logger), repo, stub, logger)

	carHandler := NewCarHandler(svc)
	chatHandler := NewChatHandler(svc)
	healthHandler := NewHealthHandler(repo)

	r := chi.NewRouter()
	r.Get("/health", healthHandler.Check)
	r.Post("/generate_cars", carHandler.Generate)
	r.Get("/cars", carHandler.List)
	r.Get("/car/{id}", carHandler.Get)
	r.Post("/chat", chatHandler.Ask)
	return r, repo
}

func doRequest(t *testing.T, router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateCarsEndToEnd(t *testing.T) {
	stub := &stubCompleter{reply: threeCars}
	router, _ := newTestRouter(stub)

	rec := doRequest(t, router, http.MethodPost, "/generate_cars",
		`{"num_cars": 3, "year_start": 2005, "year_end": 2010}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.GenerateCarsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Cars, 3)
	assert.Contains(t, resp.Message, "3 cars")

	for _, car := range resp.Cars {
		assert.NotEmpty(t, car.ID)
		assert.GreaterOrEqual(t, car.Year, 2005)
		assert.LessOrEqual(t, car.Year, 2010)
	}

	// The generated batch is queryable through the read path.
	rec = doRequest(t, router, http.MethodGet, "/cars?year_min=2005&year_max=2010", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list model.CarsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Total)
}

func TestGenerateCarsZeroCount(t *testing.T) {
	stub := &stubCompleter{reply: threeCars}
	router, repo := newTestRouter(stub)

	rec := doRequest(t, router, http.MethodPost, "/generate_cars", `{"num_cars": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.calls, "no provider call on invalid request")

	stored, err := repo.Query(context.Background(), model.FilterQuery{})
	require.NoError(t, err)
	assert.Empty(t, stored)

	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "invalid_request", errResp.Error)
}

func TestGenerateCarsInvalidJSON(t *testing.T) {
	router, _ := newTestRouter(&stubCompleter{})

	rec := doRequest(t, router, http.MethodPost, "/generate_cars", `{"num_cars": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateCarsBadModelOutput(t *testing.T) {
	stub := &stubCompleter{reply: "no json here"}
	router, _ := newTestRouter(stub)

	rec := doRequest(t, router, http.MethodPost, "/generate_cars", `{"num_cars": 2}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "generation_failed", errResp.Error)
}

func TestListCarsFilters(t *testing.T) {
	stub := &stubCompleter{reply: threeCars}
	router, _ := newTestRouter(stub)

	rec := doRequest(t, router, http.MethodPost, "/generate_cars", `{"num_cars": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cases := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?brand=nissan", 1},
		{"?brand=nis", 0}, // exact match, not substring
		{"?year_min=2006", 2},
		{"?year_min=2006&year_max=2008", 1},
		{"?origin=Japan", 2},
		{"?origin=Japan&brand=Toyota", 1},
	}
	for _, tc := range cases {
		rec := doRequest(t, router, http.MethodGet, "/cars"+tc.query, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var list model.CarsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Equal(t, tc.want, list.Total, "query %q", tc.query)
	}
}

func TestListCarsBadYearParam(t *testing.T) {
	router, _ := newTestRouter(&stubCompleter{})

	rec := doRequest(t, router, http.MethodGet, "/cars?year_min=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCarByID(t *testing.T) {
	stub := &stubCompleter{reply: `[{"brand": "Honda", "model": "NSX", "year": 1995}]`}
	router, _ := newTestRouter(stub)

	rec := doRequest(t, router, http.MethodPost, "/generate_cars", `{"num_cars": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.GenerateCarsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	id := resp.Cars[0].ID

	rec = doRequest(t, router, http.MethodGet, "/car/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var car model.CarRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &car))
	assert.Equal(t, "Honda", car.Brand)
	assert.Equal(t, "NSX", car.Model)
}

func TestGetCarUnknownIDIsNotFound(t *testing.T) {
	router, _ := newTestRouter(&stubCompleter{})

	rec := doRequest(t, router, http.MethodGet, "/car/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, rec.Code, "unknown id is a 404, not a server error")

	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "not_found", errResp.Error)
}

func TestChatEndpoint(t *testing.T) {
	stub := &stubCompleter{reply: threeCars}
	router, _ := newTestRouter(stub)

	rec := doRequest(t, router, http.MethodPost, "/generate_cars", `{"num_cars": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	stub.reply = `{"query_interpretation": "japanese cars", "suggested_filters": {"brands": ["Toyota", "Nissan"], "year_min": null, "year_max": null, "max_cost": null}, "explanation": "Both are Japanese."}`

	rec = doRequest(t, router, http.MethodPost, "/chat", `{"question": "what japanese cars do you have?"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "japanese cars", resp.Interpretation)
	assert.Len(t, resp.MatchingCars, 2)
	require.NotNil(t, resp.Statistics)
	assert.Equal(t, 2, resp.Statistics.TotalMatches)
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(&stubCompleter{})

	rec := doRequest(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"status":"ok"`))
}
