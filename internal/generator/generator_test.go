package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/model"
)

// stubCompleter returns canned text without any network dependency.
type stubCompleter struct {
	reply string
	err   error
	calls int

	lastSystem string
	lastUser   string
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	return s.reply, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const twoCars = `[
  {"brand": "Nissan", "model": "Silvia S15", "year": 2006, "mileage": 82000, "cost": 21000, "drivetrain": "RWD", "origin": "Japan", "horsepower": 247},
  {"brand": "Mazda", "model": "RX-8", "year": 2008, "mileage": 60000, "cost": 14000, "drivetrain": "RWD", "origin": "Japan", "horsepower": 232}
]`

func TestGenerateHappyPath(t *testing.T) {
	stub := &stubCompleter{reply: twoCars}
	g := New(stub, testLogger())

	req := model.GenerationRequest{Count: 2, YearStart: 2005, YearEnd: 2010, Drivetrain: "RWD"}
	records, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, stub.calls)
	assert.Contains(t, stub.lastUser, "exactly 2 car entries")
	assert.Contains(t, stub.lastUser, "2005 and 2010")

	first := records[0]
	assert.Equal(t, "Nissan", first.Brand)
	assert.Equal(t, "Silvia S15", first.Model)
	assert.Equal(t, 2006, first.Year)
	assert.Equal(t, "RWD", first.Attr("drivetrain"))
	assert.Equal(t, float64(247), first.Attr("horsepower"))
	assert.Empty(t, first.ID, "identifiers are store-assigned")
}

func TestGenerateToleratesFencesAndProse(t *testing.T) {
	stub := &stubCompleter{reply: "Here you go!\n```json\n" + twoCars + "\n```\nEnjoy."}
	g := New(stub, testLogger())

	records, err := g.Generate(context.Background(), model.GenerationRequest{Count: 2})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestGenerateCountMismatch(t *testing.T) {
	stub := &stubCompleter{reply: twoCars}
	g := New(stub, testLogger())

	_, err := g.Generate(context.Background(), model.GenerationRequest{Count: 3})
	require.Error(t, err)
	assert.Equal(t, apperr.KindGenerationFailed, apperr.KindOf(err))
}

func TestGenerateRejectsYearOutOfBounds(t *testing.T) {
	stub := &stubCompleter{reply: twoCars}
	g := New(stub, testLogger())

	_, err := g.Generate(context.Background(), model.GenerationRequest{Count: 2, YearStart: 2007, YearEnd: 2010})
	require.Error(t, err)
	assert.Equal(t, apperr.KindGenerationFailed, apperr.KindOf(err))
}

func TestGenerateRejectsEmptyBrand(t *testing.T) {
	stub := &stubCompleter{reply: `[{"brand": "", "model": "Unknown", "year": 2007}]`}
	g := New(stub, testLogger())

	_, err := g.Generate(context.Background(), model.GenerationRequest{Count: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.KindGenerationFailed, apperr.KindOf(err))
}

func TestGenerateDropsNullAttributes(t *testing.T) {
	stub := &stubCompleter{reply: `[{"brand": "Honda", "model": "NSX", "year": 1995, "cost": null, "origin": "Japan"}]`}
	g := New(stub, testLogger())

	records, err := g.Generate(context.Background(), model.GenerationRequest{Count: 1})
	require.NoError(t, err)

	_, present := records[0].Attributes["cost"]
	assert.False(t, present, "null attributes must be absent, not null placeholders")
	assert.Equal(t, "Japan", records[0].Attr("origin"))
}

func TestGenerateProviderFailurePropagates(t *testing.T) {
	cause := errors.New("connection reset")
	stub := &stubCompleter{err: cause}
	g := New(stub, testLogger())

	_, err := g.Generate(context.Background(), model.GenerationRequest{Count: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.KindGenerationFailed, apperr.KindOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestGenerateGarbageResponse(t *testing.T) {
	stub := &stubCompleter{reply: "I'm sorry, I can't help with that."}
	g := New(stub, testLogger())

	_, err := g.Generate(context.Background(), model.GenerationRequest{Count: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.KindGenerationFailed, apperr.KindOf(err))
}
