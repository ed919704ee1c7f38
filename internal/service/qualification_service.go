package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/models"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

type qualificationRepository interface {
	List(ctx context.Context) ([]models.Qualification, error)
	EnsureSeeded(ctx context.Context, names []string) error
}

type qualificationVolunteerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Volunteer, error)
	ReplaceQualifications(ctx context.Context, volunteerID string, qualificationIDs []string) error
}

// BindQualificationsRequest replaces a volunteer's qualification set.
type BindQualificationsRequest struct {
	QualificationIDs []string `json:"qualification_ids" validate:"required"`
}

// QualificationService handles the qualification registry.
type QualificationService struct {
	repo       qualificationRepository
	volunteers qualificationVolunteerRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewQualificationService creates an instance of QualificationService.
func NewQualificationService(repo qualificationRepository, volunteers qualificationVolunteerRepository, validate *validator.Validate, logger *zap.Logger) *QualificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &QualificationService{repo: repo, volunteers: volunteers, validator: validate, logger: logger}
}

// List returns all qualifications ordered by name.
func (s *QualificationService) List(ctx context.Context) ([]models.Qualification, error) {
	qualifications, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list qualifications")
	}
	return qualifications, nil
}

// EnsureSeeded creates any missing qualifications from the canonical list.
// Safe to call repeatedly and with duplicate names.
func (s *QualificationService) EnsureSeeded(ctx context.Context, names []string) error {
	if err := s.repo.EnsureSeeded(ctx, names); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed qualifications")
	}
	return nil
}

// Bind replaces a volunteer's qualification set wholesale. Administrators'
// qualifications are not editable through this path.
func (s *QualificationService) Bind(ctx context.Context, volunteerID string, req BindQualificationsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bind payload")
	}

	volunteer, err := s.volunteers.FindByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "volunteer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load volunteer")
	}

	if volunteer.IsAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "administrator qualifications are not editable")
	}

	if err := s.volunteers.ReplaceQualifications(ctx, volunteerID, req.QualificationIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace qualifications")
	}
	return nil
}
