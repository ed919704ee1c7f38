package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/escala-acolitos/escala-api/internal/models"
)

// QualificationRepository provides database access for the qualification registry.
type QualificationRepository struct {
	db *sqlx.DB
}

// NewQualificationRepository creates a new instance of QualificationRepository.
func NewQualificationRepository(db *sqlx.DB) *QualificationRepository {
	return &QualificationRepository{db: db}
}

// List returns all qualifications ordered by name.
func (r *QualificationRepository) List(ctx context.Context) ([]models.Qualification, error) {
	const query = `SELECT id, name FROM qualifications ORDER BY name ASC`
	var qualifications []models.Qualification
	if err := r.db.SelectContext(ctx, &qualifications, query); err != nil {
		return nil, fmt.Errorf("list qualifications: %w", err)
	}
	return qualifications, nil
}

// EnsureSeeded creates each named qualification if absent. Existing names are
// left untouched, so repeated calls and duplicate names are no-ops.
func (r *QualificationRepository) EnsureSeeded(ctx context.Context, names []string) error {
	const query = `INSERT INTO qualifications (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), name); err != nil {
			return fmt.Errorf("seed qualification %q: %w", name, err)
		}
	}
	return nil
}
