package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/models"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

type assignmentRepository interface {
	FindSlot(ctx context.Context, slotID string) (*models.Slot, error)
	SetSlotOccupant(ctx context.Context, slotID string, volunteerID *string) error
	FindByID(ctx context.Context, id string) (*models.Service, error)
}

type assignmentVolunteerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Volunteer, error)
}

// ReleaseResult carries what the substitution workflow needs after a
// successful self-release.
type ReleaseResult struct {
	ReleaserName string
	Service      *models.Service
	Role         string
}

// AssignmentService binds volunteers to slots and clears them.
type AssignmentService struct {
	repo       assignmentRepository
	volunteers assignmentVolunteerRepository
	logger     *zap.Logger
}

// NewAssignmentService creates an instance of AssignmentService.
func NewAssignmentService(repo assignmentRepository, volunteers assignmentVolunteerRepository, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, volunteers: volunteers, logger: logger}
}

// Assign sets the slot's occupant. The volunteer need not hold the matching
// qualification; candidate filtering is advisory only.
func (s *AssignmentService) Assign(ctx context.Context, slotID, volunteerID string) (*models.Slot, error) {
	if strings.TrimSpace(volunteerID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a volunteer must be selected")
	}

	if _, err := s.repo.FindSlot(ctx, slotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	volunteer, err := s.volunteers.FindByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "volunteer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load volunteer")
	}

	if err := s.repo.SetSlotOccupant(ctx, slotID, &volunteer.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign slot")
	}

	slot, err := s.repo.FindSlot(ctx, slotID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload slot")
	}
	return slot, nil
}

// Unassign clears the slot's occupant. Clearing an already-vacant slot
// succeeds silently.
func (s *AssignmentService) Unassign(ctx context.Context, slotID string) error {
	if err := s.repo.SetSlotOccupant(ctx, slotID, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unassign slot")
	}
	return nil
}

// SelfRelease vacates a slot on behalf of its current occupant. Only the
// occupant may release; this is the one assignment mutation gated by actor
// identity instead of the administrator capability.
func (s *AssignmentService) SelfRelease(ctx context.Context, slotID, actingVolunteerID string) (*ReleaseResult, error) {
	slot, err := s.repo.FindSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	if slot.VolunteerID == nil || *slot.VolunteerID != actingVolunteerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the current occupant can release this slot")
	}

	releaserName := ""
	if slot.OccupantName != nil {
		releaserName = *slot.OccupantName
	}

	service, err := s.repo.FindByID(ctx, slot.ServiceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owning service")
	}

	if err := s.repo.SetSlotOccupant(ctx, slotID, nil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to release slot")
	}

	s.logger.Info("slot released",
		zap.String("slot_id", slotID),
		zap.String("role", slot.Role),
		zap.String("volunteer_id", actingVolunteerID),
	)

	return &ReleaseResult{
		ReleaserName: releaserName,
		Service:      service,
		Role:         slot.Role,
	}, nil
}
