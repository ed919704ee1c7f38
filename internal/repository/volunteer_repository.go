package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/escala-acolitos/escala-api/internal/models"
)

// ErrDuplicateEmail reports a unique-constraint violation on volunteers.email.
// Raced inserts hit the constraint even after a uniqueness pre-check.
var ErrDuplicateEmail = errors.New("email already registered")

// VolunteerRepository provides database access for the volunteer directory.
type VolunteerRepository struct {
	db *sqlx.DB
}

// NewVolunteerRepository creates a new instance of VolunteerRepository.
func NewVolunteerRepository(db *sqlx.DB) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

// FindByEmail returns a volunteer by email address.
func (r *VolunteerRepository) FindByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	const query = `SELECT id, email, password_hash, name, is_admin, created_at, updated_at FROM volunteers WHERE email = $1 LIMIT 1`
	var volunteer models.Volunteer
	if err := r.db.GetContext(ctx, &volunteer, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find volunteer by email: %w", err)
	}
	return &volunteer, nil
}

// FindByID returns a volunteer by identifier.
func (r *VolunteerRepository) FindByID(ctx context.Context, id string) (*models.Volunteer, error) {
	const query = `SELECT id, email, password_hash, name, is_admin, created_at, updated_at FROM volunteers WHERE id = $1 LIMIT 1`
	var volunteer models.Volunteer
	if err := r.db.GetContext(ctx, &volunteer, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find volunteer by id: %w", err)
	}
	return &volunteer, nil
}

// List returns all volunteers ordered by display name.
func (r *VolunteerRepository) List(ctx context.Context) ([]models.Volunteer, error) {
	const query = `SELECT id, email, password_hash, name, is_admin, created_at, updated_at FROM volunteers ORDER BY name ASC`
	var volunteers []models.Volunteer
	if err := r.db.SelectContext(ctx, &volunteers, query); err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	return volunteers, nil
}

// Create inserts a new volunteer.
func (r *VolunteerRepository) Create(ctx context.Context, volunteer *models.Volunteer) error {
	if volunteer.ID == "" {
		volunteer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if volunteer.CreatedAt.IsZero() {
		volunteer.CreatedAt = now
	}
	volunteer.UpdatedAt = now

	const query = `INSERT INTO volunteers (id, email, password_hash, name, is_admin, created_at, updated_at) VALUES (:id, :email, :password_hash, :name, :is_admin, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, volunteer); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create volunteer: %w", err)
	}
	return nil
}

// FindQualifiedNonAdmin returns non-administrator volunteers holding the named
// qualification, ordered by name. Feeds candidate lists and broadcasts.
func (r *VolunteerRepository) FindQualifiedNonAdmin(ctx context.Context, qualificationName string) ([]models.VolunteerRef, error) {
	const query = `
		SELECT v.id, v.email, v.name
		FROM volunteers v
		JOIN volunteer_qualifications vq ON vq.volunteer_id = v.id
		JOIN qualifications q ON q.id = vq.qualification_id
		WHERE q.name = $1 AND v.is_admin = FALSE
		ORDER BY v.name ASC`
	var refs []models.VolunteerRef
	if err := r.db.SelectContext(ctx, &refs, query, qualificationName); err != nil {
		return nil, fmt.Errorf("find qualified volunteers: %w", err)
	}
	return refs, nil
}

// ListAllExcept returns every volunteer other than the given id, optionally
// excluding administrators.
func (r *VolunteerRepository) ListAllExcept(ctx context.Context, volunteerID string, excludeAdmins bool) ([]models.VolunteerRef, error) {
	query := `SELECT id, email, name FROM volunteers WHERE id <> $1`
	if excludeAdmins {
		query += ` AND is_admin = FALSE`
	}
	query += ` ORDER BY name ASC`

	var refs []models.VolunteerRef
	if err := r.db.SelectContext(ctx, &refs, query, volunteerID); err != nil {
		return nil, fmt.Errorf("list volunteers except %s: %w", volunteerID, err)
	}
	return refs, nil
}

// ListQualifications returns the qualifications held by a volunteer, ordered
// by name.
func (r *VolunteerRepository) ListQualifications(ctx context.Context, volunteerID string) ([]models.Qualification, error) {
	const query = `
		SELECT q.id, q.name
		FROM qualifications q
		JOIN volunteer_qualifications vq ON vq.qualification_id = q.id
		WHERE vq.volunteer_id = $1
		ORDER BY q.name ASC`
	var qualifications []models.Qualification
	if err := r.db.SelectContext(ctx, &qualifications, query, volunteerID); err != nil {
		return nil, fmt.Errorf("list volunteer qualifications: %w", err)
	}
	return qualifications, nil
}

// ReplaceQualifications swaps a volunteer's qualification set wholesale inside
// one transaction: clear, then re-add.
func (r *VolunteerRepository) ReplaceQualifications(ctx context.Context, volunteerID string, qualificationIDs []string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace qualifications: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM volunteer_qualifications WHERE volunteer_id = $1`, volunteerID); err != nil {
		return fmt.Errorf("clear volunteer qualifications: %w", err)
	}

	const insert = `INSERT INTO volunteer_qualifications (volunteer_id, qualification_id) VALUES ($1, $2)`
	for _, qualificationID := range qualificationIDs {
		if _, err = tx.ExecContext(ctx, insert, volunteerID, qualificationID); err != nil {
			return fmt.Errorf("add volunteer qualification: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace qualifications: %w", err)
	}
	return nil
}
