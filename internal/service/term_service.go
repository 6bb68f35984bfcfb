package service

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// TermInfo is the calendar metadata of a known term.
type TermInfo struct {
	Term  models.Term
	Start time.Time
	Weeks int
}

// TermService owns the catalog of selectable terms. It is read-only after construction.
type TermService struct {
	ordered  []TermInfo
	byTerm   map[models.Term]TermInfo
	fallback models.Term
	lessons  []config.LessonTime
	location *time.Location
}

// NewTermService validates the catalog and resolves term start dates in loc.
func NewTermService(catalog *config.TermCatalogFile, loc *time.Location) (*TermService, error) {
	if catalog == nil {
		catalog = config.DefaultTermCatalog()
	}
	if loc == nil {
		loc = time.UTC
	}
	catalog.Normalize()

	svc := &TermService{
		byTerm:   make(map[models.Term]TermInfo, len(catalog.Terms)),
		lessons:  catalog.Lessons,
		location: loc,
	}
	for _, entry := range catalog.Terms {
		term, err := models.ParseTerm(entry.ID)
		if err != nil {
			return nil, fmt.Errorf("term catalog: %w", err)
		}
		if _, dup := svc.byTerm[term]; dup {
			return nil, fmt.Errorf("term catalog: duplicate term %s", term)
		}
		start, err := time.ParseInLocation("2006-01-02", entry.StartDate, loc)
		if err != nil {
			return nil, fmt.Errorf("term catalog: start date of %s: %w", term, err)
		}
		info := TermInfo{Term: term, Start: start, Weeks: entry.Weeks}
		svc.ordered = append(svc.ordered, info)
		svc.byTerm[term] = info
	}
	if len(svc.ordered) == 0 {
		return nil, fmt.Errorf("term catalog declares no terms")
	}

	fallback, err := models.ParseTerm(catalog.Default)
	if err != nil {
		return nil, fmt.Errorf("term catalog default: %w", err)
	}
	if _, ok := svc.byTerm[fallback]; !ok {
		return nil, fmt.Errorf("term catalog default %s is not a listed term", fallback)
	}
	svc.fallback = fallback
	return svc, nil
}

// Default returns the term used when a caller does not choose one.
func (s *TermService) Default() models.Term {
	return s.fallback
}

// Location returns the time zone term dates are expressed in.
func (s *TermService) Location() *time.Location {
	return s.location
}

// Lessons returns the lesson clock table of the catalog.
func (s *TermService) Lessons() []config.LessonTime {
	out := make([]config.LessonTime, len(s.lessons))
	copy(out, s.lessons)
	return out
}

// Known reports whether term is in the catalog.
func (s *TermService) Known(term models.Term) bool {
	_, ok := s.byTerm[term]
	return ok
}

// Resolve parses raw and returns the matching known term. Empty, malformed or
// unknown input falls back to the default term.
func (s *TermService) Resolve(raw string) models.Term {
	if raw == "" {
		return s.fallback
	}
	term, err := models.ParseTerm(raw)
	if err != nil || !s.Known(term) {
		return s.fallback
	}
	return term
}

// Info returns the metadata of a known term.
func (s *TermService) Info(term models.Term) (TermInfo, error) {
	info, ok := s.byTerm[term]
	if !ok {
		return TermInfo{}, appErrors.Clone(appErrors.ErrInvalidTerm, fmt.Sprintf("term %s is not available", term))
	}
	return info, nil
}

// Options lists every known term in catalog order, flagging selected.
func (s *TermService) Options(selected models.Term) []models.TermOption {
	options := make([]models.TermOption, 0, len(s.ordered))
	for _, info := range s.ordered {
		options = append(options, models.TermOption{Term: info.Term, Selected: info.Term == selected})
	}
	return options
}

// RegisterValidation adds the "term" tag, accepting the display form of a known term.
func (s *TermService) RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation("term", func(fl validator.FieldLevel) bool {
		term, err := models.ParseTerm(fl.Field().String())
		return err == nil && s.Known(term)
	})
}
