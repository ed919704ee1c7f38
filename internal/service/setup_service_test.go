package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/models"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

type mockRegistrar struct {
	requests []RegisterRequest
	err      error
}

func (m *mockRegistrar) Register(ctx context.Context, req RegisterRequest) (*models.Volunteer, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &models.Volunteer{ID: "adm", Email: req.Email, Name: req.Name, IsAdmin: req.IsAdmin}, nil
}

type mockSeeder struct {
	seeded [][]string
}

func (m *mockSeeder) EnsureSeeded(ctx context.Context, names []string) error {
	m.seeded = append(m.seeded, names)
	return nil
}

func setupFixtureConfig() SetupConfig {
	return SetupConfig{
		Secret:         "bootstrap-secret",
		AdminName:      "Coordenador",
		AdminEmail:     "coordenador@paroquia.org",
		AdminPassword:  "inicial123",
		Qualifications: []string{"Librífero", "Cruciferário"},
	}
}

func TestSetupServiceRunSeedsAndCreatesAdmin(t *testing.T) {
	reg := &mockRegistrar{}
	seed := &mockSeeder{}
	svc := NewSetupService(reg, seed, setupFixtureConfig(), zap.NewNop())

	require.NoError(t, svc.Run(context.Background(), "bootstrap-secret"))

	require.Len(t, seed.seeded, 1)
	assert.Equal(t, []string{"Librífero", "Cruciferário"}, seed.seeded[0])
	require.Len(t, reg.requests, 1)
	assert.Equal(t, "coordenador@paroquia.org", reg.requests[0].Email)
	assert.True(t, reg.requests[0].IsAdmin)
}

func TestSetupServiceRunRejectsWrongSecret(t *testing.T) {
	reg := &mockRegistrar{}
	seed := &mockSeeder{}
	svc := NewSetupService(reg, seed, setupFixtureConfig(), zap.NewNop())

	err := svc.Run(context.Background(), "guessed")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, seed.seeded)
	assert.Empty(t, reg.requests)
}

func TestSetupServiceRunDisabledWithoutSecret(t *testing.T) {
	cfg := setupFixtureConfig()
	cfg.Secret = ""
	svc := NewSetupService(&mockRegistrar{}, &mockSeeder{}, cfg, zap.NewNop())

	err := svc.Run(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSetupServiceRunToleratesExistingAdmin(t *testing.T) {
	reg := &mockRegistrar{err: appErrors.Clone(appErrors.ErrConflict, "email already registered")}
	svc := NewSetupService(reg, &mockSeeder{}, setupFixtureConfig(), zap.NewNop())

	require.NoError(t, svc.Run(context.Background(), "bootstrap-secret"))
	assert.Len(t, reg.requests, 1)
}
