package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/escala-acolitos/escala-api/internal/models"
	"github.com/escala-acolitos/escala-api/internal/repository"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

type volunteerRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Volunteer, error)
	FindByID(ctx context.Context, id string) (*models.Volunteer, error)
	List(ctx context.Context) ([]models.Volunteer, error)
	Create(ctx context.Context, volunteer *models.Volunteer) error
	FindQualifiedNonAdmin(ctx context.Context, qualificationName string) ([]models.VolunteerRef, error)
	ListAllExcept(ctx context.Context, volunteerID string, excludeAdmins bool) ([]models.VolunteerRef, error)
	ListQualifications(ctx context.Context, volunteerID string) ([]models.Qualification, error)
}

// RegisterRequest represents payload for registering a volunteer.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	IsAdmin  bool   `json:"is_admin"`
}

// VolunteerService handles directory workflows.
type VolunteerService struct {
	repo      volunteerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVolunteerService creates an instance of VolunteerService.
func NewVolunteerService(repo volunteerRepository, validate *validator.Validate, logger *zap.Logger) *VolunteerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &VolunteerService{repo: repo, validator: validate, logger: logger}
}

// Register adds a new volunteer. Duplicate emails are rejected with a conflict.
func (s *VolunteerService) Register(ctx context.Context, req RegisterRequest) (*models.Volunteer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	volunteer := &models.Volunteer{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         req.Name,
		IsAdmin:      req.IsAdmin,
		PasswordHash: string(passwordHash),
	}

	if err := s.repo.Create(ctx, volunteer); err != nil {
		// The uniqueness pre-check can lose a race; the constraint is the
		// authority.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create volunteer")
	}

	return volunteer, nil
}

// Get returns a volunteer by ID.
func (s *VolunteerService) Get(ctx context.Context, id string) (*models.Volunteer, error) {
	volunteer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "volunteer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load volunteer")
	}
	return volunteer, nil
}

// List returns all volunteers ordered by name.
func (s *VolunteerService) List(ctx context.Context) ([]models.Volunteer, error) {
	volunteers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list volunteers")
	}
	return volunteers, nil
}

// FindQualifiedNonAdmin returns candidate volunteers for a role name.
func (s *VolunteerService) FindQualifiedNonAdmin(ctx context.Context, qualificationName string) ([]models.VolunteerRef, error) {
	refs, err := s.repo.FindQualifiedNonAdmin(ctx, qualificationName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to find qualified volunteers")
	}
	return refs, nil
}

// ListAllExcept returns broadcast recipients: everyone but the given volunteer,
// administrators excluded when requested.
func (s *VolunteerService) ListAllExcept(ctx context.Context, volunteerID string, excludeAdmins bool) ([]models.VolunteerRef, error) {
	refs, err := s.repo.ListAllExcept(ctx, volunteerID, excludeAdmins)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list volunteers")
	}
	return refs, nil
}

// Qualifications returns the qualifications held by a volunteer.
func (s *VolunteerService) Qualifications(ctx context.Context, volunteerID string) ([]models.Qualification, error) {
	if _, err := s.Get(ctx, volunteerID); err != nil {
		return nil, err
	}
	qualifications, err := s.repo.ListQualifications(ctx, volunteerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list qualifications")
	}
	return qualifications, nil
}
