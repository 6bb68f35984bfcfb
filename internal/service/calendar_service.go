package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
	"github.com/noah-isme/sma-timetable-api/pkg/storage"
)

// CalendarContentType is the media type of stored calendar documents.
const CalendarContentType = "text/calendar; charset=utf-8"

var (
	calendarNamespace  = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sma-timetable/calendar-event"))
	calendarKeyPattern = regexp.MustCompile(`^(.+)-(\d{2}-\d{2}-[1-3])\.ics$`)
)

// DocumentStore persists rendered calendar documents by key.
type DocumentStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type calendarRenderer interface {
	Render(data export.Calendar) ([]byte, error)
}

// CalendarOptions configures calendar document metadata and addressing.
type CalendarOptions struct {
	ProductID string
	// DownloadBase prefixes document keys to form download URLs.
	DownloadBase string
}

// CalendarService exports timetables as recurring calendar documents.
type CalendarService struct {
	terms    *TermService
	clock    *timetable.Clock
	layout   timetable.Layout
	renderer calendarRenderer
	store    DocumentStore
	opts     CalendarOptions
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewCalendarService constructs the calendar exporter.
func NewCalendarService(terms *TermService, clock *timetable.Clock, layout timetable.Layout, renderer calendarRenderer, store DocumentStore, opts CalendarOptions, metrics *MetricsService, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.DownloadBase = strings.TrimRight(opts.DownloadBase, "/")
	return &CalendarService{
		terms:    terms,
		clock:    clock,
		layout:   layout,
		renderer: renderer,
		store:    store,
		opts:     opts,
		metrics:  metrics,
		logger:   logger,
	}
}

// CalendarKey is the storage key of a student's calendar for term.
func CalendarKey(code string, term models.Term) string {
	return fmt.Sprintf("%s-%s.ics", code, term.Compact())
}

// ParseCalendarKey splits a key produced by CalendarKey.
func ParseCalendarKey(key string) (code, compactTerm string, ok bool) {
	m := calendarKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Build computes the calendar events of tt without rendering or storing them.
// Every section becomes one weekly event starting on its first meeting in the
// term and repeating exactly on the weeks its descriptor names.
func (s *CalendarService) Build(code, name string, tt *models.Timetable, term models.Term) (*models.CalendarDocument, error) {
	info, err := s.terms.Info(term)
	if err != nil {
		return nil, err
	}

	doc := &models.CalendarDocument{
		Key:         CalendarKey(code, term),
		StudentCode: code,
		StudentName: name,
		Term:        term,
		Events:      []models.CalendarEvent{},
	}
	for _, key := range tt.Keys() {
		for _, section := range tt.Sections(key) {
			event, ok := s.buildEvent(code, term, info, section)
			if ok {
				doc.Events = append(doc.Events, event)
			}
		}
	}
	return doc, nil
}

func (s *CalendarService) buildEvent(code string, term models.Term, info TermInfo, section models.SectionDetail) (models.CalendarEvent, bool) {
	log := s.logger.With(zap.String("term", term.String()), zap.String("section_id", section.ID))

	weeks, err := timetable.ParseWeeks(section.Weeks, info.Weeks)
	if err != nil {
		log.Warn("unparseable week descriptor, using whole term", zap.String("weeks", section.Weeks), zap.Error(err))
		weeks = make([]int, 0, info.Weeks)
		for w := 1; w <= info.Weeks; w++ {
			weeks = append(weeks, w)
		}
	}

	meetings, beyond := timetable.WithinTerm(weeks, info.Weeks)
	if len(beyond) > 0 {
		log.Warn("week descriptor runs past the end of term",
			zap.String("weeks", section.Weeks),
			zap.Int("term_weeks", info.Weeks),
			zap.Ints("dropped", beyond))
	}
	if len(meetings) == 0 {
		log.Warn("section never meets within the term", zap.String("weeks", section.Weeks))
		return models.CalendarEvent{}, false
	}

	plan := timetable.PlanRecurrence(meetings)
	startOffset, endOffset := s.clock.Span(s.layout, section.Period, section.Duration)
	firstDay := meetingDate(info, plan.FirstWeek, section.Weekday)
	start := firstDay.Add(startOffset)

	rule := rrule.ROption{Freq: rrule.WEEKLY, Dtstart: start, Interval: plan.Interval, Count: plan.Count}
	if _, err := rrule.NewRRule(rule); err != nil {
		log.Warn("invalid recurrence", zap.Error(err))
		return models.CalendarEvent{}, false
	}

	exDates := make([]time.Time, 0, len(plan.Excluded))
	for _, w := range plan.Excluded {
		exDates = append(exDates, meetingDate(info, w, section.Weekday).Add(startOffset))
	}

	uidSeed := fmt.Sprintf("%s|%s|%s|%d|%d", code, term, section.ID, section.Weekday, section.Period)
	return models.CalendarEvent{
		UID:       uuid.NewSHA1(calendarNamespace, []byte(uidSeed)).String(),
		SectionID: section.ID,
		Summary:   strings.TrimSpace(section.Name + " " + section.Teacher),
		Location:  section.Location,
		Description: fmt.Sprintf("%s %s\n%s",
			timetable.DayLabel(section.Weekday),
			timetable.PeriodLabel(s.layout, section.Period, section.Duration),
			section.Weeks),
		Start:   start,
		End:     firstDay.Add(endOffset),
		RRule:   rule.RRuleString(),
		ExDates: exDates,
		Weeks:   meetings,
	}, true
}

// meetingDate returns midnight of the given weekday in teaching week week.
// A weekday's week 1 meeting is its first date on or after the term start.
func meetingDate(info TermInfo, week, weekday int) time.Time {
	start := info.Start
	isoWeekday := int(start.Weekday())
	if isoWeekday == 0 {
		isoWeekday = 7
	}
	days := (weekday-isoWeekday+7)%7 + (week-1)*7
	return time.Date(start.Year(), start.Month(), start.Day()+days, 0, 0, 0, 0, start.Location())
}

// Render serializes doc in iCalendar format.
func (s *CalendarService) Render(doc *models.CalendarDocument) ([]byte, error) {
	info, err := s.terms.Info(doc.Term)
	if err != nil {
		return nil, err
	}
	cal := export.Calendar{
		ProductID: s.opts.ProductID,
		Name:      strings.TrimSpace(fmt.Sprintf("%s %s", doc.StudentName, doc.Term)),
		Timezone:  s.terms.Location().String(),
		Stamp:     info.Start,
		Events:    make([]export.Event, 0, len(doc.Events)),
	}
	for _, ev := range doc.Events {
		cal.Events = append(cal.Events, export.Event{
			UID:         ev.UID,
			Summary:     ev.Summary,
			Location:    ev.Location,
			Description: ev.Description,
			Start:       ev.Start,
			End:         ev.End,
			RRule:       ev.RRule,
			ExDates:     ev.ExDates,
		})
	}
	body, err := s.renderer.Render(cal)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
	}
	return body, nil
}

// Export builds, renders and stores the calendar of a student for term,
// replacing any earlier document under the same key.
func (s *CalendarService) Export(ctx context.Context, code, name string, tt *models.Timetable, term models.Term) (*models.CalendarDocument, error) {
	doc, err := s.Build(code, name, tt, term)
	if err != nil {
		s.metrics.RecordCalendarExport(false)
		return nil, err
	}
	body, err := s.Render(doc)
	if err != nil {
		s.metrics.RecordCalendarExport(false)
		return nil, err
	}
	if err := s.store.Save(ctx, doc.Key, body, CalendarContentType); err != nil {
		s.metrics.RecordCalendarExport(false)
		s.logger.Error("store calendar failed", zap.String("key", doc.Key), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store calendar")
	}
	s.metrics.RecordCalendarExport(true)

	doc.Body = body
	doc.URL = s.opts.DownloadBase + "/" + doc.Key
	s.logger.Debug("calendar exported",
		zap.String("key", doc.Key),
		zap.Int("events", len(doc.Events)),
		zap.Int("bytes", len(body)))
	return doc, nil
}

// Open returns the stored document under key.
func (s *CalendarService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if _, _, ok := ParseCalendarKey(key); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar not found")
	}
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open calendar")
	}
	return rc, nil
}
