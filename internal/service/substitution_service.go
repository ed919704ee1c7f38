package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/models"
	"github.com/escala-acolitos/escala-api/pkg/mailer"
)

type broadcastDirectory interface {
	ListAllExcept(ctx context.Context, volunteerID string, excludeAdmins bool) ([]models.VolunteerRef, error)
}

type slotReleaser interface {
	SelfRelease(ctx context.Context, slotID, actingVolunteerID string) (*ReleaseResult, error)
}

// ReleaseOutcome reports a committed release plus the best-effort broadcast
// result. Warning is non-empty when delivery partially or fully failed; the
// release itself stands regardless.
type ReleaseOutcome struct {
	Role        string `json:"role"`
	ServiceDate string `json:"service_date"`
	ServiceTime string `json:"service_time"`
	Notified    int    `json:"notified"`
	Warning     string `json:"warning,omitempty"`
}

// SubstitutionService composes a self-release with a notification fan-out to
// other volunteers.
type SubstitutionService struct {
	assignments slotReleaser
	directory   broadcastDirectory
	mail        mailer.Mailer
	logger      *zap.Logger
}

// NewSubstitutionService creates an instance of SubstitutionService.
func NewSubstitutionService(assignments slotReleaser, directory broadcastDirectory, mail mailer.Mailer, logger *zap.Logger) *SubstitutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mail == nil {
		mail = mailer.Noop{}
	}
	return &SubstitutionService{assignments: assignments, directory: directory, mail: mail, logger: logger}
}

// Release vacates the acting volunteer's slot, then notifies every other
// non-administrator volunteer. The broadcast goes to the whole directory, not
// just role-matched volunteers. A volunteer must always be able to drop a
// commitment, so notification failures never undo the release; they come back
// as a warning.
func (s *SubstitutionService) Release(ctx context.Context, slotID, actingVolunteerID string) (*ReleaseOutcome, error) {
	result, err := s.assignments.SelfRelease(ctx, slotID, actingVolunteerID)
	if err != nil {
		return nil, err
	}

	outcome := &ReleaseOutcome{
		Role:        result.Role,
		ServiceDate: result.Service.Date.Format("2006-01-02"),
		ServiceTime: result.Service.Time,
	}

	recipients, err := s.directory.ListAllExcept(ctx, actingVolunteerID, true)
	if err != nil {
		s.logger.Warn("release committed but recipient lookup failed", zap.Error(err))
		outcome.Warning = "vaga liberada, mas os avisos não puderam ser enviados"
		return outcome, nil
	}

	subject := fmt.Sprintf("Vaga aberta: %s em %s", result.Role, outcome.ServiceDate)
	body := fmt.Sprintf(
		"%s liberou a função %s na missa de %s (%s) às %s. A vaga está aberta para quem puder assumir.",
		result.ReleaserName,
		result.Role,
		outcome.ServiceDate,
		models.WeekdayName(result.Service.Date),
		outcome.ServiceTime,
	)

	failed := 0
	for _, recipient := range recipients {
		if err := s.mail.Send(recipient.Email, subject, body); err != nil {
			failed++
			s.logger.Warn("substitution notification failed",
				zap.String("recipient", recipient.Email),
				zap.Error(err),
			)
			continue
		}
		outcome.Notified++
	}

	if failed > 0 {
		outcome.Warning = fmt.Sprintf("vaga liberada, mas %d aviso(s) não puderam ser enviados", failed)
	}
	return outcome, nil
}
