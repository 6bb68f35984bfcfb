package service

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestTermServiceResolveFallsBackToDefault(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)

	assert.Equal(t, testTerm, f.terms.Resolve(""))
	assert.Equal(t, testTerm, f.terms.Resolve("garbage"))
	assert.Equal(t, testTerm, f.terms.Resolve("2031-2032-1"))
	assert.Equal(t, models.Term{StartYear: 2023, EndYear: 2024, Number: 2}, f.terms.Resolve("2023-2024-2"))
}

func TestTermServiceInfo(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)

	info, err := f.terms.Info(testTerm)
	require.NoError(t, err)
	assert.Equal(t, 20, info.Weeks)
	assert.True(t, info.Start.Equal(time.Date(2023, 9, 4, 0, 0, 0, 0, testZone)))

	_, err = f.terms.Info(models.Term{StartYear: 2031, EndYear: 2032, Number: 1})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTerm))
}

func TestTermServiceOptions(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)

	options := f.terms.Options(testTerm)
	require.Len(t, options, 2)
	assert.True(t, options[0].Selected)
	assert.False(t, options[1].Selected)
	assert.Equal(t, "2023-2024-2", options[1].Term.String())
}

func TestNewTermServiceRejectsBadCatalogs(t *testing.T) {
	cases := map[string]*config.TermCatalogFile{
		"bad id":          {Terms: []config.TermEntry{{ID: "2023", StartDate: "2023-09-04"}}},
		"bad date":        {Terms: []config.TermEntry{{ID: "2023-2024-1", StartDate: "04/09/2023"}}},
		"duplicate":       {Terms: []config.TermEntry{{ID: "2023-2024-1", StartDate: "2023-09-04"}, {ID: "2023-2024-1", StartDate: "2023-09-04"}}},
		"unknown default": {Default: "2020-2021-1", Terms: []config.TermEntry{{ID: "2023-2024-1", StartDate: "2023-09-04"}}},
	}
	for name, catalog := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTermService(catalog, time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestTermServiceRegisterValidation(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)
	v := validator.New()
	require.NoError(t, f.terms.RegisterValidation(v))

	type request struct {
		Semester string `validate:"omitempty,term"`
	}
	assert.NoError(t, v.Struct(request{Semester: "2023-2024-2"}))
	assert.NoError(t, v.Struct(request{}))
	assert.Error(t, v.Struct(request{Semester: "2031-2032-1"}))
	assert.Error(t, v.Struct(request{Semester: "nope"}))
}
