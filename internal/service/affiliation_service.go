package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var digitGroup = regexp.MustCompile(`\d{4}`)

type prefixRepository interface {
	Lookup(ctx context.Context, prefix string) (*models.PrefixEntry, error)
}

// AffiliationService derives faculty, major and class section from a student code.
// It never fails: anything it cannot derive is reported as models.UnknownAffiliation.
type AffiliationService struct {
	prefixes prefixRepository
	cache    *CacheService
	ttl      time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewAffiliationService constructs the affiliation service. cache may be nil.
func NewAffiliationService(prefixes prefixRepository, cache *CacheService, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *AffiliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AffiliationService{prefixes: prefixes, cache: cache, ttl: ttl, metrics: metrics, logger: logger}
}

// Derive returns the affiliation encoded in code.
func (s *AffiliationService) Derive(ctx context.Context, code string) models.Affiliation {
	affiliation := models.Affiliation{
		Faculty:      models.UnknownAffiliation,
		Major:        models.UnknownAffiliation,
		ClassSection: ClassSectionOf(code),
	}
	groups := digitGroup.FindAllString(code, 2)
	if len(groups) == 0 {
		return affiliation
	}
	if entry, ok := s.lookupPrefix(ctx, groups[0]); ok {
		affiliation.Faculty = orUnknown(entry.Faculty)
		affiliation.Major = orUnknown(entry.Major)
	}
	return affiliation
}

// Annotate attaches affiliations to students, keeping their order.
func (s *AffiliationService) Annotate(ctx context.Context, students []models.Student) []models.StudentWithAffiliation {
	out := make([]models.StudentWithAffiliation, 0, len(students))
	for _, student := range students {
		out = append(out, models.StudentWithAffiliation{Student: student, Affiliation: s.Derive(ctx, student.Code)})
	}
	return out
}

// ClassSectionOf returns the second four-digit group of code when its leading
// two digits read as a year strictly between 10 and 20, otherwise models.UnknownAffiliation.
// Student codes follow this layout by convention only, so anything else is tolerated.
func ClassSectionOf(code string) string {
	groups := digitGroup.FindAllString(code, 2)
	if len(groups) < 2 {
		return models.UnknownAffiliation
	}
	year, err := strconv.Atoi(groups[1][:2])
	if err != nil || year <= 10 || year >= 20 {
		return models.UnknownAffiliation
	}
	return groups[1]
}

func (s *AffiliationService) lookupPrefix(ctx context.Context, prefix string) (models.PrefixEntry, bool) {
	cacheKey := "prefix:" + prefix
	var cached models.PrefixEntry
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, cached.Prefix != ""
	}
	if s.prefixes == nil {
		return models.PrefixEntry{}, false
	}

	start := time.Now()
	entry, err := s.prefixes.Lookup(ctx, prefix)
	s.metrics.ObserveDirectoryQuery("prefix_lookup", time.Since(start))
	switch {
	case err == nil:
		s.cache.Set(ctx, cacheKey, entry, s.ttl)
		return *entry, true
	case errors.Is(err, sql.ErrNoRows):
		// Absence is cached as an empty entry.
		s.cache.Set(ctx, cacheKey, models.PrefixEntry{}, s.ttl)
		return models.PrefixEntry{}, false
	default:
		s.logger.Warn("prefix lookup failed", zap.String("prefix", prefix), zap.Error(err))
		return models.PrefixEntry{}, false
	}
}

func orUnknown(v string) string {
	if v == "" {
		return models.UnknownAffiliation
	}
	return v
}
