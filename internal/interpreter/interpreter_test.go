package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-expert-api/internal/apperr"
	"car-expert-api/internal/model"
)

func TestInterpretFullRequest(t *testing.T) {
	req, err := Interpret("generate 10 JDM sports cars from 2005-2010 with RWD and manual transmission")
	require.NoError(t, err)

	assert.Equal(t, 10, req.Count)
	assert.Equal(t, 2005, req.YearStart)
	assert.Equal(t, 2010, req.YearEnd)
	assert.Equal(t, "RWD", req.Drivetrain)
	assert.Equal(t, "Japan", req.Origin)
	assert.Equal(t, "manual", req.Transmission)
	assert.Contains(t, req.Modifiers, "sports")
}

func TestInterpretDefaults(t *testing.T) {
	req, err := Interpret("make a german luxury sedan")
	require.NoError(t, err)

	assert.Equal(t, 1, req.Count)
	assert.Zero(t, req.YearStart)
	assert.Zero(t, req.YearEnd)
	assert.Equal(t, "Germany", req.Origin)
	assert.Equal(t, "sedan", req.BodyStyle)
	assert.Contains(t, req.Modifiers, "luxury")
}

func TestInterpretDecade(t *testing.T) {
	req, err := Interpret("make some 90s japanese drift cars with turbo engines")
	require.NoError(t, err)

	assert.Equal(t, 1990, req.YearStart)
	assert.Equal(t, 1999, req.YearEnd)
	assert.Equal(t, "Japan", req.Origin)
	assert.Contains(t, req.Modifiers, "drift")
	assert.Contains(t, req.Modifiers, "turbo")
}

func TestInterpretOpenEndedYears(t *testing.T) {
	req, err := Interpret("create 3 american muscle cars from 1965")
	require.NoError(t, err)

	assert.Equal(t, 3, req.Count)
	assert.Equal(t, 1965, req.YearStart)
	assert.Zero(t, req.YearEnd)

	req, err = Interpret("5 italian coupes before 1980")
	require.NoError(t, err)
	assert.Equal(t, 5, req.Count)
	assert.Zero(t, req.YearStart)
	assert.Equal(t, 1980, req.YearEnd)
}

func TestInterpretZeroCount(t *testing.T) {
	_, err := Interpret("generate 0 cars")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
}

func TestInterpretInvertedRange(t *testing.T) {
	_, err := Interpret("5 cars from 2015 to 2010")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
}

func TestInterpretConflictingYearsFirstWins(t *testing.T) {
	req, err := Interpret("cars from 2005-2010 or maybe 2015-2020")
	require.NoError(t, err)

	assert.Equal(t, 2005, req.YearStart)
	assert.Equal(t, 2010, req.YearEnd)
}

func TestInterpretYearNotMistakenForCount(t *testing.T) {
	req, err := Interpret("cars from 2005 to 2010")
	require.NoError(t, err)
	assert.Equal(t, 1, req.Count)
}

func TestValidateStructured(t *testing.T) {
	err := model.GenerationRequest{Count: 5, YearStart: 2020, YearEnd: 2005}.Validate()
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))

	err = model.GenerationRequest{Count: -2}.Validate()
	require.Error(t, err)

	err = model.GenerationRequest{Count: 5, YearStart: 1500}.Validate()
	require.Error(t, err)

	require.NoError(t, model.GenerationRequest{Count: 5, YearStart: 2005, YearEnd: 2010}.Validate())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "citroen c4 10 cars", Normalize("  Citroën   C4  10 cars "))
}
