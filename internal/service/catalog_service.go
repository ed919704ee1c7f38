package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/models"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

const (
	civilDateLayout = "2006-01-02"
	civilTimeLayout = "15:04"
)

type catalogRepository interface {
	Create(ctx context.Context, service *models.Service, roles []string) error
	FindByID(ctx context.Context, id string) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context, dateAscending bool) ([]models.Service, error)
}

type candidateFinder interface {
	FindQualifiedNonAdmin(ctx context.Context, qualificationName string) ([]models.VolunteerRef, error)
}

// CreateServiceRequest represents payload for creating a service.
type CreateServiceRequest struct {
	Date  string   `json:"date" validate:"required"`
	Time  string   `json:"time" validate:"required"`
	Roles []string `json:"roles" validate:"required,min=1"`
}

// EditServiceRequest updates date and time only.
type EditServiceRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

// CatalogService manages services and their slots.
type CatalogService struct {
	repo       catalogRepository
	candidates candidateFinder
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCatalogService creates an instance of CatalogService.
func NewCatalogService(repo catalogRepository, candidates candidateFinder, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CatalogService{repo: repo, candidates: candidates, validator: validate, logger: logger}
}

// Create persists a service and one slot per non-blank role name, preserving
// input order. The whole write is atomic.
func (s *CatalogService) Create(ctx context.Context, req CreateServiceRequest) (*models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create service payload")
	}

	date, timeOfDay, err := parseCivilDateTime(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(req.Roles))
	for _, role := range req.Roles {
		if trimmed := strings.TrimSpace(role); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}

	service := &models.Service{Date: date, Time: timeOfDay}
	if err := s.repo.Create(ctx, service, roles); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create service")
	}
	return service, nil
}

// Edit updates date and time of an existing service.
func (s *CatalogService) Edit(ctx context.Context, id string, req EditServiceRequest) (*models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid edit service payload")
	}

	date, timeOfDay, err := parseCivilDateTime(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	service, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}

	service.Date = date
	service.Time = timeOfDay
	if err := s.repo.Update(ctx, service); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update service")
	}
	return service, nil
}

// Delete removes a service and, by cascade, its slots.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete service")
	}
	return nil
}

// ListActive returns the administrator view: non-archived services, newest
// date first, each slot annotated with its advisory candidate list.
func (s *CatalogService) ListActive(ctx context.Context) ([]models.AdminServiceView, error) {
	services, err := s.repo.ListActive(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list services")
	}

	// Candidate lists repeat across slots with the same role; resolve each
	// role name once per listing.
	candidateCache := make(map[string][]models.VolunteerRef)

	views := make([]models.AdminServiceView, 0, len(services))
	for _, svc := range services {
		view := models.AdminServiceView{Service: svc}
		view.SlotViews = make([]models.AdminSlotView, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			candidates, ok := candidateCache[slot.Role]
			if !ok {
				candidates, err = s.candidates.FindQualifiedNonAdmin(ctx, slot.Role)
				if err != nil {
					return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve slot candidates")
				}
				candidateCache[slot.Role] = candidates
			}
			view.SlotViews = append(view.SlotViews, models.AdminSlotView{Slot: slot, Candidates: candidates})
		}
		views = append(views, view)
	}
	return views, nil
}

// ListActiveForAPI returns the volunteer view: non-archived services soonest
// first, slots marked with whether the acting volunteer occupies them.
func (s *CatalogService) ListActiveForAPI(ctx context.Context, actingVolunteerID string) ([]models.APIService, error) {
	services, err := s.repo.ListActive(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list services")
	}

	payload := make([]models.APIService, 0, len(services))
	for _, svc := range services {
		entry := models.APIService{
			ID:          svc.ID,
			Date:        svc.Date.Format(civilDateLayout),
			WeekdayName: models.WeekdayName(svc.Date),
			Time:        svc.Time,
			Slots:       make([]models.APISlot, 0, len(svc.Slots)),
		}
		for _, slot := range svc.Slots {
			entry.Slots = append(entry.Slots, models.APISlot{
				SlotID:       slot.ID,
				Role:         slot.Role,
				OccupantName: slot.OccupantName,
				IsMine:       slot.VolunteerID != nil && *slot.VolunteerID == actingVolunteerID,
			})
		}
		payload = append(payload, entry)
	}
	return payload, nil
}

func parseCivilDateTime(rawDate, rawTime string) (time.Time, string, error) {
	date, err := time.Parse(civilDateLayout, rawDate)
	if err != nil {
		return time.Time{}, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date, expected YYYY-MM-DD")
	}
	parsedTime, err := time.Parse(civilTimeLayout, rawTime)
	if err != nil {
		return time.Time{}, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time, expected HH:MM")
	}
	return date, parsedTime.Format(civilTimeLayout), nil
}
