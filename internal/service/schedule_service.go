package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type sectionDirectory interface {
	GetDetail(ctx context.Context, term models.Term, id string) (*models.SectionDetail, error)
	GetRoster(ctx context.Context, term models.Term, id string) ([]string, error)
}

// ScheduleService aggregates timetables and rosters for one term at a time.
type ScheduleService struct {
	students    studentDirectory
	sections    sectionDirectory
	affiliation *AffiliationService
	layout      timetable.Layout
	concurrency int
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewScheduleService constructs the schedule aggregator. concurrency bounds
// parallel section lookups per request; values below one mean sequential.
func NewScheduleService(students studentDirectory, sections sectionDirectory, affiliation *AffiliationService, layout timetable.Layout, concurrency int, metrics *MetricsService, logger *zap.Logger) *ScheduleService {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		students:    students,
		sections:    sections,
		affiliation: affiliation,
		layout:      layout,
		concurrency: concurrency,
		metrics:     metrics,
		logger:      logger,
	}
}

// Layout returns the period layout sections are validated against.
func (s *ScheduleService) Layout() timetable.Layout {
	return s.layout
}

// ByStudent builds the timetable of the student with code in term.
func (s *ScheduleService) ByStudent(ctx context.Context, code string, term models.Term) (*models.StudentTimetable, error) {
	start := time.Now()
	record, err := s.students.GetRecord(ctx, term, code)
	s.metrics.ObserveDirectoryQuery("get_student_record", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoStudent, fmt.Sprintf("student %s not found in %s", code, term))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	details, err := s.fetchSections(ctx, term, record.SectionIDs)
	if err != nil {
		return nil, err
	}

	valid := make([]models.SectionDetail, 0, len(details))
	for _, detail := range details {
		if detail == nil {
			continue
		}
		if err := s.layout.ValidateSlot(detail.Weekday, detail.Period); err != nil {
			s.logger.Warn("skipping section with invalid slot",
				zap.String("term", term.String()),
				zap.String("section_id", detail.ID),
				zap.Error(err))
			continue
		}
		valid = append(valid, *detail)
	}

	tt := models.NewTimetable(valid)
	s.logger.Debug("aggregated timetable",
		zap.String("term", term.String()),
		zap.String("code", record.Code),
		zap.Int("sections", tt.Len()))

	return &models.StudentTimetable{Term: term, Student: record.Student, Timetable: tt}, nil
}

// fetchSections loads every section id in parallel. The result keeps the
// order of ids; ids missing from the directory leave a nil entry.
func (s *ScheduleService) fetchSections(ctx context.Context, term models.Term, ids []string) ([]*models.SectionDetail, error) {
	details := make([]*models.SectionDetail, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			start := time.Now()
			detail, err := s.sections.GetDetail(gctx, term, id)
			s.metrics.ObserveDirectoryQuery("get_section_detail", time.Since(start))
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					s.logger.Warn("enrolled section missing from directory",
						zap.String("term", term.String()),
						zap.String("section_id", id))
					return nil
				}
				return fmt.Errorf("section %s: %w", id, err)
			}
			details[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	return details, nil
}

// ListClassmates returns the section metadata and roster of sectionID in term.
// An unknown section fails with NO_CLASS; a section nobody is enrolled in
// fails with NO_STUDENT.
func (s *ScheduleService) ListClassmates(ctx context.Context, sectionID string, term models.Term) (*models.Classmates, error) {
	if sectionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class_id is required")
	}

	start := time.Now()
	detail, err := s.sections.GetDetail(ctx, term, sectionID)
	s.metrics.ObserveDirectoryQuery("get_section_detail", time.Since(start))
	if err != nil {
		return nil, s.sectionError(err, sectionID, term)
	}

	start = time.Now()
	roster, err := s.sections.GetRoster(ctx, term, sectionID)
	s.metrics.ObserveDirectoryQuery("get_section_roster", time.Since(start))
	if err != nil {
		return nil, s.sectionError(err, sectionID, term)
	}
	if len(roster) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoStudent, fmt.Sprintf("section %s has no students", sectionID))
	}

	start = time.Now()
	known, err := s.students.ListByCodes(ctx, term, roster)
	s.metrics.ObserveDirectoryQuery("list_students_by_codes", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	names := make(map[string]string, len(known))
	for _, student := range known {
		names[student.Code] = student.Name
	}

	members := make([]models.Student, 0, len(roster))
	for _, code := range roster {
		name, ok := names[code]
		if !ok {
			s.logger.Warn("roster member missing from directory",
				zap.String("term", term.String()),
				zap.String("section_id", sectionID),
				zap.String("code", code))
		}
		members = append(members, models.Student{Code: code, Name: name})
	}

	return &models.Classmates{
		Term: term,
		Section: models.SectionMeta{
			ID:        detail.ID,
			Name:      detail.Name,
			Weekday:   detail.Weekday,
			Period:    detail.Period,
			Teacher:   detail.Teacher,
			DayLabel:  timetable.DayLabel(detail.Weekday),
			TimeLabel: timetable.PeriodLabel(s.layout, detail.Period, detail.Duration),
		},
		Students: s.affiliation.Annotate(ctx, members),
	}, nil
}

func (s *ScheduleService) sectionError(err error, sectionID string, term models.Term) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNoClass, fmt.Sprintf("section %s not found in %s", sectionID, term))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
}
