package service

import (
	"context"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
)

// QueryService answers timetable queries by raw identifier token.
type QueryService struct {
	identifier *IdentifierService
	schedule   *ScheduleService
}

// NewQueryService constructs the query service.
func NewQueryService(identifier *IdentifierService, schedule *ScheduleService) *QueryService {
	return &QueryService{identifier: identifier, schedule: schedule}
}

// Resolve resolves token in term and returns either the student's timetable
// or, when a name matches several students, the candidates to choose from.
func (s *QueryService) Resolve(ctx context.Context, token string, term models.Term) (*models.QueryResult, error) {
	resolution, err := s.identifier.Resolve(ctx, token, term)
	if err != nil {
		return nil, err
	}
	if resolution.Ambiguous() {
		return &models.QueryResult{Kind: models.QueryKindDisambiguation, Candidates: resolution.Candidates}, nil
	}

	schedule, err := s.schedule.ByStudent(ctx, resolution.Code, term)
	if err != nil {
		return nil, err
	}
	return &models.QueryResult{Kind: models.QueryKindTimetable, Schedule: schedule}, nil
}

// AnalyzeFreeSlots derives free-slot facts under the configured period layout.
func (s *QueryService) AnalyzeFreeSlots(tt *models.Timetable) models.FreeSlotFacts {
	return timetable.AnalyzeFreeSlots(tt, s.schedule.Layout())
}
