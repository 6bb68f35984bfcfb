package handler

import (
	"bytes"
	"context"
	"io"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
)

var (
	fallTerm   = models.Term{StartYear: 2023, EndYear: 2024, Number: 1}
	springTerm = models.Term{StartYear: 2023, EndYear: 2024, Number: 2}
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
}

type fakeTerms struct{}

func (fakeTerms) Default() models.Term { return springTerm }

func (fakeTerms) Resolve(raw string) models.Term {
	if raw == fallTerm.String() {
		return fallTerm
	}
	return springTerm
}

func (fakeTerms) Options(selected models.Term) []models.TermOption {
	return []models.TermOption{
		{Term: fallTerm, Selected: selected == fallTerm},
		{Term: springTerm, Selected: selected == springTerm},
	}
}

type fakeQuery struct {
	result    *models.QueryResult
	err       error
	lastToken string
	lastTerm  models.Term
}

func (f *fakeQuery) Resolve(_ context.Context, token string, term models.Term) (*models.QueryResult, error) {
	f.lastToken = token
	f.lastTerm = term
	return f.result, f.err
}

func (f *fakeQuery) AnalyzeFreeSlots(*models.Timetable) models.FreeSlotFacts {
	return models.FreeSlotFacts{WeekendFree: true}
}

func timetableResult(code, name string) *models.QueryResult {
	return &models.QueryResult{
		Kind: models.QueryKindTimetable,
		Schedule: &models.StudentTimetable{
			Term:    springTerm,
			Student: models.Student{Code: code, Name: name},
			Timetable: models.NewTimetable([]models.SectionDetail{
				{ID: "(2023-2024-2)-MATH101-01", Name: "高等数学", Weekday: 1, Period: 1, Duration: 2, Weeks: "1-16", Location: "A101"},
			}),
		},
	}
}

func ambiguousResult() *models.QueryResult {
	return &models.QueryResult{
		Kind: models.QueryKindDisambiguation,
		Candidates: []models.StudentWithAffiliation{
			{Student: models.Student{Code: "2023150101", Name: "张三"}},
			{Student: models.Student{Code: "2022110203", Name: "张三"}},
		},
	}
}

type fakeCalendar struct {
	doc      *models.CalendarDocument
	err      error
	body     string
	openErr  error
	lastCode string
	lastTerm models.Term
	lastKey  string
}

func (f *fakeCalendar) Export(_ context.Context, code, name string, _ *models.Timetable, term models.Term) (*models.CalendarDocument, error) {
	f.lastCode = code
	f.lastTerm = term
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func (f *fakeCalendar) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f.lastKey = key
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewBufferString(f.body)), nil
}

type fakeRenderer struct {
	file       *service.ExportedFile
	err        error
	lastFormat string
}

func (f *fakeRenderer) Render(_ *models.StudentTimetable, format string) (*service.ExportedFile, error) {
	f.lastFormat = format
	return f.file, f.err
}

type fakeClassmates struct {
	result   *models.Classmates
	err      error
	lastID   string
	lastTerm models.Term
}

func (f *fakeClassmates) ListClassmates(_ context.Context, sectionID string, term models.Term) (*models.Classmates, error) {
	f.lastID = sectionID
	f.lastTerm = term
	return f.result, f.err
}
