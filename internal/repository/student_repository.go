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

// StudentRepository reads students from the term-partitioned directory.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

type studentRecordRow struct {
	Code       string         `db:"code"`
	Name       string         `db:"name"`
	SectionIDs pq.StringArray `db:"section_ids"`
}

// FindByName returns every student in the term whose display name matches exactly, ordered by code.
func (r *StudentRepository) FindByName(ctx context.Context, term models.Term, name string) ([]models.Student, error) {
	const query = `SELECT code, name FROM directory_students WHERE term_key = $1 AND name = $2 ORDER BY code`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, term.PartitionKey(), name); err != nil {
		return nil, fmt.Errorf("find students by name: %w", err)
	}
	return students, nil
}

// GetRecord returns the student and enrolled section ids. Absence yields sql.ErrNoRows.
func (r *StudentRepository) GetRecord(ctx context.Context, term models.Term, code string) (*models.StudentRecord, error) {
	const query = `SELECT code, name, section_ids FROM directory_students WHERE term_key = $1 AND code = $2`
	var row studentRecordRow
	if err := r.db.GetContext(ctx, &row, query, term.PartitionKey(), code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get student record: %w", err)
	}
	return &models.StudentRecord{
		Student:    models.Student{Code: row.Code, Name: row.Name},
		SectionIDs: []string(row.SectionIDs),
	}, nil
}

// ListByCodes returns the students of the term whose codes are listed, ordered by code.
// Codes without a record are omitted.
func (r *StudentRepository) ListByCodes(ctx context.Context, term models.Term, codes []string) ([]models.Student, error) {
	if len(codes) == 0 {
		return []models.Student{}, nil
	}
	const query = `SELECT code, name FROM directory_students WHERE term_key = $1 AND code = ANY($2) ORDER BY code`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, term.PartitionKey(), pq.Array(codes)); err != nil {
		return nil, fmt.Errorf("list students by codes: %w", err)
	}
	return students, nil
}
