package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// PrefixRepository reads the static student-code prefix table.
type PrefixRepository struct {
	db *sqlx.DB
}

// NewPrefixRepository constructs a PrefixRepository.
func NewPrefixRepository(db *sqlx.DB) *PrefixRepository {
	return &PrefixRepository{db: db}
}

// Lookup returns the faculty and major registered for prefix. Absence yields sql.ErrNoRows.
func (r *PrefixRepository) Lookup(ctx context.Context, prefix string) (*models.PrefixEntry, error) {
	const query = `SELECT prefix, faculty, major FROM student_code_prefixes WHERE prefix = $1`
	var entry models.PrefixEntry
	if err := r.db.GetContext(ctx, &entry, query, prefix); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup prefix: %w", err)
	}
	return &entry, nil
}
