package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/escala-acolitos/escala-api/internal/models"
)

// ServiceRepository provides database access for services and their slots.
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository creates a new instance of ServiceRepository.
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create inserts a service together with one slot per role name inside a
// single transaction. Either everything lands or nothing does.
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service, roles []string) (err error) {
	if service.ID == "" {
		service.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if service.CreatedAt.IsZero() {
		service.CreatedAt = now
	}
	service.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create service: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertService = `INSERT INTO services (id, service_date, service_time, archived, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, insertService, service.ID, service.Date, service.Time, service.Archived, service.CreatedAt, service.UpdatedAt); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}

	const insertSlot = `INSERT INTO slots (id, service_id, role, position) VALUES ($1, $2, $3, $4)`
	service.Slots = service.Slots[:0]
	for i, role := range roles {
		slot := models.Slot{
			ID:        uuid.NewString(),
			ServiceID: service.ID,
			Role:      role,
			Position:  i,
		}
		if _, err = tx.ExecContext(ctx, insertSlot, slot.ID, slot.ServiceID, slot.Role, slot.Position); err != nil {
			return fmt.Errorf("insert slot %q: %w", role, err)
		}
		service.Slots = append(service.Slots, slot)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create service: %w", err)
	}
	return nil
}

// FindByID returns a service without its slots.
func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*models.Service, error) {
	const query = `SELECT id, service_date, service_time, archived, created_at, updated_at FROM services WHERE id = $1 LIMIT 1`
	var service models.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find service by id: %w", err)
	}
	return &service, nil
}

// Update persists date and time changes for an existing service.
func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	service.UpdatedAt = time.Now().UTC()
	const query = `UPDATE services SET service_date = $2, service_time = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, service.ID, service.Date, service.Time, service.UpdatedAt); err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// Delete removes a service. Slots go with it via ON DELETE CASCADE.
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM services WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete service rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListActive returns non-archived services with slots eagerly attached.
// Order is controlled by the caller-facing services: newest date first for the
// administrator view, soonest first for the volunteer API.
func (r *ServiceRepository) ListActive(ctx context.Context, dateAscending bool) ([]models.Service, error) {
	dateOrder := "DESC"
	if dateAscending {
		dateOrder = "ASC"
	}

	query := fmt.Sprintf(`SELECT id, service_date, service_time, archived, created_at, updated_at FROM services WHERE archived = FALSE ORDER BY service_date %s, service_time ASC`, dateOrder)
	var services []models.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("list active services: %w", err)
	}
	if len(services) == 0 {
		return services, nil
	}

	const slotQuery = `
		SELECT s.id, s.service_id, s.role, s.position, s.volunteer_id, v.name AS occupant_name
		FROM slots s
		JOIN services sv ON sv.id = s.service_id
		LEFT JOIN volunteers v ON v.id = s.volunteer_id
		WHERE sv.archived = FALSE
		ORDER BY s.position ASC`
	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, slotQuery); err != nil {
		return nil, fmt.Errorf("list active slots: %w", err)
	}

	byService := make(map[string][]models.Slot, len(services))
	for _, slot := range slots {
		byService[slot.ServiceID] = append(byService[slot.ServiceID], slot)
	}
	for i := range services {
		services[i].Slots = byService[services[i].ID]
	}
	return services, nil
}

// FindSlot returns a slot with its occupant's display name joined in.
func (r *ServiceRepository) FindSlot(ctx context.Context, slotID string) (*models.Slot, error) {
	const query = `
		SELECT s.id, s.service_id, s.role, s.position, s.volunteer_id, v.name AS occupant_name
		FROM slots s
		LEFT JOIN volunteers v ON v.id = s.volunteer_id
		WHERE s.id = $1
		LIMIT 1`
	var slot models.Slot
	if err := r.db.GetContext(ctx, &slot, query, slotID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find slot by id: %w", err)
	}
	return &slot, nil
}

// SetSlotOccupant assigns or clears (nil) a slot's occupant.
func (r *ServiceRepository) SetSlotOccupant(ctx context.Context, slotID string, volunteerID *string) error {
	const query = `UPDATE slots SET volunteer_id = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, slotID, volunteerID)
	if err != nil {
		return fmt.Errorf("set slot occupant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set slot occupant rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ArchivePast flips archived on every non-archived service dated before the
// cutoff. The predicate deduplicates effect, so concurrent sweeps are safe.
func (r *ServiceRepository) ArchivePast(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `UPDATE services SET archived = TRUE, updated_at = $2 WHERE service_date < $1 AND archived = FALSE`
	result, err := r.db.ExecContext(ctx, query, cutoff, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("archive past services: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("archive past services rows affected: %w", err)
	}
	return affected, nil
}
