package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/models"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

type registrar interface {
	Register(ctx context.Context, req RegisterRequest) (*models.Volunteer, error)
}

type seeder interface {
	EnsureSeeded(ctx context.Context, names []string) error
}

// SetupConfig parameterizes the guarded one-time bootstrap.
type SetupConfig struct {
	Secret         string
	AdminName      string
	AdminEmail     string
	AdminPassword  string
	Qualifications []string
}

// SetupService performs one-time bootstrap: seed the canonical qualification
// list and create the initial administrator. Gated by a shared secret and
// intended to be disabled after first use.
type SetupService struct {
	registrar registrar
	seeder    seeder
	config    SetupConfig
	logger    *zap.Logger
}

// NewSetupService creates an instance of SetupService.
func NewSetupService(reg registrar, seed seeder, config SetupConfig, logger *zap.Logger) *SetupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SetupService{registrar: reg, seeder: seed, config: config, logger: logger}
}

// Run seeds qualifications and creates the initial administrator. Safe to
// re-run: seeding is idempotent and an already-registered admin email is
// treated as done.
func (s *SetupService) Run(ctx context.Context, secret string) error {
	if s.config.Secret == "" {
		return appErrors.Clone(appErrors.ErrForbidden, "setup is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.config.Secret)) != 1 {
		return appErrors.Clone(appErrors.ErrForbidden, "invalid setup secret")
	}

	if err := s.seeder.EnsureSeeded(ctx, s.config.Qualifications); err != nil {
		return err
	}

	if s.config.AdminEmail == "" || s.config.AdminPassword == "" {
		s.logger.Warn("setup ran without initial admin credentials configured")
		return nil
	}

	_, err := s.registrar.Register(ctx, RegisterRequest{
		Name:     s.config.AdminName,
		Email:    s.config.AdminEmail,
		Password: s.config.AdminPassword,
		IsAdmin:  true,
	})
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrConflict.Code {
			s.logger.Info("initial admin already registered", zap.String("email", s.config.AdminEmail))
			return nil
		}
		return err
	}

	s.logger.Info("initial admin created", zap.String("email", s.config.AdminEmail))
	return nil
}
