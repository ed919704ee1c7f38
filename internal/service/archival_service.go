package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

type archivalRepository interface {
	ArchivePast(ctx context.Context, cutoff time.Time) (int64, error)
}

// ArchivalService sweeps services past the retention window into archived
// state. Archival is one-way and never deletes rows.
type ArchivalService struct {
	repo          archivalRepository
	retentionDays int
	logger        *zap.Logger
}

// NewArchivalService creates an instance of ArchivalService.
func NewArchivalService(repo archivalRepository, retentionDays int, logger *zap.Logger) *ArchivalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retentionDays <= 0 {
		retentionDays = 15
	}
	return &ArchivalService{repo: repo, retentionDays: retentionDays, logger: logger}
}

// RetentionDays exposes the configured window for reporting.
func (s *ArchivalService) RetentionDays() int {
	return s.retentionDays
}

// Sweep archives every non-archived service dated before
// referenceDate - retentionDays, as one bulk conditional update. Running it
// twice in a row with no new qualifying services archives zero the second
// time.
func (s *ArchivalService) Sweep(ctx context.Context, referenceDate time.Time) (int64, error) {
	// service_date is a pure civil date; drop the reference's time of day so
	// the strictly-earlier-than comparison is date against date. Otherwise an
	// afternoon sweep would archive a service dated exactly retentionDays ago.
	year, month, day := referenceDate.Date()
	cutoff := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -s.retentionDays)
	count, err := s.repo.ArchivePast(ctx, cutoff)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "archival sweep failed")
	}
	if count > 0 {
		s.logger.Info("archived past services",
			zap.Int64("count", count),
			zap.String("cutoff", cutoff.Format("2006-01-02")),
		)
	}
	return count, nil
}

// SweepNow runs a sweep against today's date.
func (s *ArchivalService) SweepNow(ctx context.Context) (int64, error) {
	return s.Sweep(ctx, time.Now().UTC())
}
