package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// SectionRepository reads class sections and rosters from the term-partitioned directory.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// GetDetail fetches one section. Absence yields sql.ErrNoRows.
func (r *SectionRepository) GetDetail(ctx context.Context, term models.Term, id string) (*models.SectionDetail, error) {
	const query = `SELECT id, name, weekday, period, teacher, duration, weeks, location FROM directory_sections WHERE term_key = $1 AND id = $2`
	var section models.SectionDetail
	if err := r.db.GetContext(ctx, &section, query, term.PartitionKey(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get section detail: %w", err)
	}
	return &section, nil
}

// GetRoster returns the student codes enrolled in the section. An existing
// section with nobody enrolled yields an empty, non-nil slice; a missing
// section yields sql.ErrNoRows.
func (r *SectionRepository) GetRoster(ctx context.Context, term models.Term, id string) ([]string, error) {
	const query = `SELECT roster FROM directory_sections WHERE term_key = $1 AND id = $2`
	var roster pq.StringArray
	if err := r.db.QueryRowxContext(ctx, query, term.PartitionKey(), id).Scan(&roster); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get section roster: %w", err)
	}
	if roster == nil {
		return []string{}, nil
	}
	return []string(roster), nil
}
