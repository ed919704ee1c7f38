package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/escala-acolitos/escala-api/internal/models"
	"github.com/escala-acolitos/escala-api/internal/repository"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

type mockVolunteerRepo struct {
	volunteers     map[string]*models.Volunteer
	qualified      map[string][]models.VolunteerRef
	qualifications map[string][]models.Qualification
	createErr      error
}

func newMockVolunteerRepo() *mockVolunteerRepo {
	return &mockVolunteerRepo{
		volunteers:     make(map[string]*models.Volunteer),
		qualified:      make(map[string][]models.VolunteerRef),
		qualifications: make(map[string][]models.Qualification),
	}
}

func (m *mockVolunteerRepo) FindByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	for _, v := range m.volunteers {
		if v.Email == email {
			copy := *v
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockVolunteerRepo) FindByID(ctx context.Context, id string) (*models.Volunteer, error) {
	if v, ok := m.volunteers[id]; ok {
		copy := *v
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockVolunteerRepo) List(ctx context.Context) ([]models.Volunteer, error) {
	var volunteers []models.Volunteer
	for _, v := range m.volunteers {
		volunteers = append(volunteers, *v)
	}
	return volunteers, nil
}

func (m *mockVolunteerRepo) Create(ctx context.Context, volunteer *models.Volunteer) error {
	if m.createErr != nil {
		return m.createErr
	}
	copy := *volunteer
	m.volunteers[volunteer.ID] = &copy
	return nil
}

func (m *mockVolunteerRepo) FindQualifiedNonAdmin(ctx context.Context, qualificationName string) ([]models.VolunteerRef, error) {
	return m.qualified[qualificationName], nil
}

func (m *mockVolunteerRepo) ListAllExcept(ctx context.Context, volunteerID string, excludeAdmins bool) ([]models.VolunteerRef, error) {
	var refs []models.VolunteerRef
	for _, v := range m.volunteers {
		if v.ID == volunteerID {
			continue
		}
		if excludeAdmins && v.IsAdmin {
			continue
		}
		refs = append(refs, models.VolunteerRef{ID: v.ID, Email: v.Email, Name: v.Name})
	}
	return refs, nil
}

func (m *mockVolunteerRepo) ListQualifications(ctx context.Context, volunteerID string) ([]models.Qualification, error) {
	return m.qualifications[volunteerID], nil
}

func TestVolunteerServiceRegisterHashesAndLowercases(t *testing.T) {
	repo := newMockVolunteerRepo()
	svc := NewVolunteerService(repo, validator.New(), zap.NewNop())

	volunteer, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ana",
		Email:    "ANA@Example.COM",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", volunteer.Email)
	assert.False(t, volunteer.IsAdmin)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(volunteer.PasswordHash), []byte("secret1")))
}

func TestVolunteerServiceRegisterDuplicateEmail(t *testing.T) {
	repo := newMockVolunteerRepo()
	svc := NewVolunteerService(repo, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Name: "Other", Email: "ana@example.com", Password: "secret2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.volunteers, 1)
}

func TestVolunteerServiceRegisterRacedDuplicateInsert(t *testing.T) {
	// Two registrations can pass the uniqueness pre-check concurrently; the
	// one losing the insert race must still surface a conflict.
	repo := newMockVolunteerRepo()
	repo.createErr = repository.ErrDuplicateEmail
	svc := NewVolunteerService(repo, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestVolunteerServiceGetUnknown(t *testing.T) {
	svc := NewVolunteerService(newMockVolunteerRepo(), validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestVolunteerServiceListAllExceptFiltersAdmins(t *testing.T) {
	repo := newMockVolunteerRepo()
	repo.volunteers["v1"] = &models.Volunteer{ID: "v1", Name: "Ana", Email: "ana@example.com"}
	repo.volunteers["v2"] = &models.Volunteer{ID: "v2", Name: "Bento", Email: "bento@example.com"}
	repo.volunteers["adm"] = &models.Volunteer{ID: "adm", Name: "Coord", Email: "coord@example.com", IsAdmin: true}
	svc := NewVolunteerService(repo, validator.New(), zap.NewNop())

	refs, err := svc.ListAllExcept(context.Background(), "v1", true)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "v2", refs[0].ID)
}
