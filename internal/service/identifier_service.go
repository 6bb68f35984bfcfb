package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// Resolution outcomes reported to metrics.
const (
	resolutionCode      = "code"
	resolutionName      = "name"
	resolutionAmbiguous = "ambiguous"
	resolutionNotFound  = "not_found"
)

type studentDirectory interface {
	FindByName(ctx context.Context, term models.Term, name string) ([]models.Student, error)
	GetRecord(ctx context.Context, term models.Term, code string) (*models.StudentRecord, error)
	ListByCodes(ctx context.Context, term models.Term, codes []string) ([]models.Student, error)
}

// IdentifierService turns a user supplied token into a student code.
type IdentifierService struct {
	students    studentDirectory
	affiliation *AffiliationService
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewIdentifierService constructs the identifier resolver.
func NewIdentifierService(students studentDirectory, affiliation *AffiliationService, metrics *MetricsService, logger *zap.Logger) *IdentifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentifierService{students: students, affiliation: affiliation, metrics: metrics, logger: logger}
}

// IsNameToken reports whether token starts and ends with an ideographic character.
func IsNameToken(token string) bool {
	first, _ := utf8.DecodeRuneInString(token)
	last, _ := utf8.DecodeLastRuneInString(token)
	return unicode.Is(unicode.Han, first) && unicode.Is(unicode.Han, last)
}

// Resolve maps token to a student code in term. Name tokens are looked up in
// the directory: no match fails with NOT_FOUND, one match yields its code and
// several matches yield the candidates instead of a code. Any other token is
// taken as a literal code without a lookup.
func (s *IdentifierService) Resolve(ctx context.Context, token string, term models.Term) (models.Resolution, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Resolution{}, appErrors.Clone(appErrors.ErrValidation, "student code or name is required")
	}
	if !IsNameToken(token) {
		s.metrics.RecordResolution(resolutionCode)
		return models.Resolution{Code: token}, nil
	}

	start := time.Now()
	matches, err := s.students.FindByName(ctx, term, token)
	s.metrics.ObserveDirectoryQuery("find_students_by_name", time.Since(start))
	if err != nil {
		return models.Resolution{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up student name")
	}

	switch len(matches) {
	case 0:
		s.metrics.RecordResolution(resolutionNotFound)
		return models.Resolution{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no student named %s in %s", token, term))
	case 1:
		s.metrics.RecordResolution(resolutionName)
		s.logger.Debug("resolved student name", zap.String("term", term.String()), zap.String("code", matches[0].Code))
		return models.Resolution{Code: matches[0].Code}, nil
	default:
		s.metrics.RecordResolution(resolutionAmbiguous)
		s.logger.Debug("ambiguous student name", zap.String("term", term.String()), zap.Int("candidates", len(matches)))
		return models.Resolution{Candidates: s.affiliation.Annotate(ctx, matches)}, nil
	}
}
