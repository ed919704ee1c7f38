package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/models"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

type mockQualificationRepo struct {
	qualifications []models.Qualification
	seeded         [][]string
}

func (m *mockQualificationRepo) List(ctx context.Context) ([]models.Qualification, error) {
	return m.qualifications, nil
}

func (m *mockQualificationRepo) EnsureSeeded(ctx context.Context, names []string) error {
	m.seeded = append(m.seeded, names)
	for _, name := range names {
		exists := false
		for _, q := range m.qualifications {
			if q.Name == name {
				exists = true
				break
			}
		}
		if !exists {
			m.qualifications = append(m.qualifications, models.Qualification{ID: name, Name: name})
		}
	}
	return nil
}

type mockBindVolunteerRepo struct {
	volunteers map[string]*models.Volunteer
	replaced   map[string][]string
}

func (m *mockBindVolunteerRepo) FindByID(ctx context.Context, id string) (*models.Volunteer, error) {
	if v, ok := m.volunteers[id]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBindVolunteerRepo) ReplaceQualifications(ctx context.Context, volunteerID string, qualificationIDs []string) error {
	if m.replaced == nil {
		m.replaced = make(map[string][]string)
	}
	m.replaced[volunteerID] = qualificationIDs
	return nil
}

func TestQualificationServiceEnsureSeededIdempotent(t *testing.T) {
	repo := &mockQualificationRepo{}
	svc := NewQualificationService(repo, &mockBindVolunteerRepo{}, validator.New(), zap.NewNop())

	require.NoError(t, svc.EnsureSeeded(context.Background(), []string{"A", "B", "A"}))
	require.NoError(t, svc.EnsureSeeded(context.Background(), []string{"A", "B", "A"}))

	assert.Len(t, repo.qualifications, 2)
}

func TestQualificationServiceBindReplacesSet(t *testing.T) {
	volunteers := &mockBindVolunteerRepo{volunteers: map[string]*models.Volunteer{
		"v1": {ID: "v1", Name: "Ana"},
	}}
	svc := NewQualificationService(&mockQualificationRepo{}, volunteers, validator.New(), zap.NewNop())

	err := svc.Bind(context.Background(), "v1", BindQualificationsRequest{QualificationIDs: []string{"q1", "q2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, volunteers.replaced["v1"])
}

func TestQualificationServiceBindRejectsAdmin(t *testing.T) {
	volunteers := &mockBindVolunteerRepo{volunteers: map[string]*models.Volunteer{
		"adm": {ID: "adm", Name: "Coord", IsAdmin: true},
	}}
	svc := NewQualificationService(&mockQualificationRepo{}, volunteers, validator.New(), zap.NewNop())

	err := svc.Bind(context.Background(), "adm", BindQualificationsRequest{QualificationIDs: []string{"q1"}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, volunteers.replaced)
}

func TestQualificationServiceBindUnknownVolunteer(t *testing.T) {
	svc := NewQualificationService(&mockQualificationRepo{}, &mockBindVolunteerRepo{}, validator.New(), zap.NewNop())

	err := svc.Bind(context.Background(), "missing", BindQualificationsRequest{QualificationIDs: []string{"q1"}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
