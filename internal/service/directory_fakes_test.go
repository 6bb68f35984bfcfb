package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
	"github.com/noah-isme/sma-timetable-api/pkg/storage"
)

var (
	testTerm = models.Term{StartYear: 2023, EndYear: 2024, Number: 1}
	testZone = mustLoadLocation("Asia/Shanghai")
)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type fakeStudentDirectory struct {
	mu       sync.Mutex
	students map[models.Term]map[string]models.StudentRecord
	err      error
	calls    int
}

func newFakeStudentDirectory() *fakeStudentDirectory {
	return &fakeStudentDirectory{students: map[models.Term]map[string]models.StudentRecord{}}
}

func (f *fakeStudentDirectory) add(term models.Term, code, name string, sections ...string) {
	if f.students[term] == nil {
		f.students[term] = map[string]models.StudentRecord{}
	}
	f.students[term][code] = models.StudentRecord{Student: models.Student{Code: code, Name: name}, SectionIDs: sections}
}

func (f *fakeStudentDirectory) FindByName(ctx context.Context, term models.Term, name string) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Student
	for _, rec := range f.students[term] {
		if rec.Name == name {
			out = append(out, rec.Student)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeStudentDirectory) GetRecord(ctx context.Context, term models.Term, code string) (*models.StudentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.students[term][code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rec, nil
}

func (f *fakeStudentDirectory) ListByCodes(ctx context.Context, term models.Term, codes []string) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Student
	for _, code := range codes {
		if rec, ok := f.students[term][code]; ok {
			out = append(out, rec.Student)
		}
	}
	return out, nil
}

type fakeSection struct {
	detail models.SectionDetail
	roster []string
}

type fakeSectionDirectory struct {
	mu       sync.Mutex
	sections map[models.Term]map[string]fakeSection
	err      error
}

func newFakeSectionDirectory() *fakeSectionDirectory {
	return &fakeSectionDirectory{sections: map[models.Term]map[string]fakeSection{}}
}

func (f *fakeSectionDirectory) add(term models.Term, detail models.SectionDetail, roster ...string) {
	if f.sections[term] == nil {
		f.sections[term] = map[string]fakeSection{}
	}
	if roster == nil {
		roster = []string{}
	}
	f.sections[term][detail.ID] = fakeSection{detail: detail, roster: roster}
}

func (f *fakeSectionDirectory) GetDetail(ctx context.Context, term models.Term, id string) (*models.SectionDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sec, ok := f.sections[term][id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	detail := sec.detail
	return &detail, nil
}

func (f *fakeSectionDirectory) GetRoster(ctx context.Context, term models.Term, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sec, ok := f.sections[term][id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return append([]string{}, sec.roster...), nil
}

type fakePrefixRepo struct {
	mu      sync.Mutex
	entries map[string]models.PrefixEntry
	calls   int
	err     error
}

func (f *fakePrefixRepo) Lookup(ctx context.Context, prefix string) (*models.PrefixEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	entry, ok := f.entries[prefix]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &entry, nil
}

type memoryStore struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves int
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: map[string][]byte{}}
}

func (m *memoryStore) Save(ctx context.Context, name string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.docs[name] = append([]byte(nil), data...)
	return nil
}

func (m *memoryStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[name]
	if !ok {
		return nil, storage.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fixture struct {
	students    *fakeStudentDirectory
	sections    *fakeSectionDirectory
	prefixes    *fakePrefixRepo
	store       *memoryStore
	terms       *TermService
	affiliation *AffiliationService
	identifier  *IdentifierService
	schedule    *ScheduleService
	query       *QueryService
	calendar    *CalendarService
}

func newFixture(t *testing.T, layout timetable.Layout) *fixture {
	t.Helper()
	return newFixtureIn(t, layout, testZone)
}

func newFixtureIn(t *testing.T, layout timetable.Layout, loc *time.Location) *fixture {
	t.Helper()
	catalog := &config.TermCatalogFile{
		Default: "2023-2024-1",
		Terms: []config.TermEntry{
			{ID: "2023-2024-1", StartDate: "2023-09-04", Weeks: 20},
			{ID: "2023-2024-2", StartDate: "2024-02-28", Weeks: 18},
		},
	}
	terms, err := NewTermService(catalog, loc)
	require.NoError(t, err)
	clock, err := timetable.NewClock(terms.Lessons())
	require.NoError(t, err)

	f := &fixture{
		students: newFakeStudentDirectory(),
		sections: newFakeSectionDirectory(),
		prefixes: &fakePrefixRepo{entries: map[string]models.PrefixEntry{
			"2023": {Prefix: "2023", Faculty: "信息学院", Major: "计算机科学与技术"},
		}},
		store: newMemoryStore(),
		terms: terms,
	}
	metrics := NewMetricsService()
	f.affiliation = NewAffiliationService(f.prefixes, nil, time.Hour, metrics, nil)
	f.identifier = NewIdentifierService(f.students, f.affiliation, metrics, nil)
	f.schedule = NewScheduleService(f.students, f.sections, f.affiliation, layout, 4, metrics, nil)
	f.query = NewQueryService(f.identifier, f.schedule)
	f.calendar = NewCalendarService(terms, clock, layout, export.NewICSExporter(), f.store,
		CalendarOptions{ProductID: "-//test//timetable//ZH", DownloadBase: "/api/v1/calendars"}, metrics, nil)
	return f
}
