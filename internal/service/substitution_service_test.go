package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escala-acolitos/escala-api/internal/models"
	appErrors "github.com/escala-acolitos/escala-api/pkg/errors"
)

type mockReleaser struct {
	result *ReleaseResult
	err    error
	calls  int
}

func (m *mockReleaser) SelfRelease(ctx context.Context, slotID, actingVolunteerID string) (*ReleaseResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockBroadcastDirectory struct {
	refs []models.VolunteerRef
	err  error
}

func (m *mockBroadcastDirectory) ListAllExcept(ctx context.Context, volunteerID string, excludeAdmins bool) ([]models.VolunteerRef, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.refs, nil
}

type recordingMailer struct {
	sent    []string
	bodies  []string
	failFor map[string]bool
}

func (m *recordingMailer) Send(to, subject, body string) error {
	if m.failFor[to] {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	m.bodies = append(m.bodies, body)
	return nil
}

func releaseFixture() *ReleaseResult {
	return &ReleaseResult{
		ReleaserName: "Ana",
		Role:         "Crucifer",
		Service: &models.Service{
			ID:   "svc-1",
			Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Time: "09:00",
		},
	}
}

func TestSubstitutionReleaseNotifiesOtherVolunteers(t *testing.T) {
	directory := &mockBroadcastDirectory{refs: []models.VolunteerRef{
		{ID: "v2", Email: "bento@example.com", Name: "Bento"},
		{ID: "v3", Email: "carla@example.com", Name: "Carla"},
	}}
	mail := &recordingMailer{}
	svc := NewSubstitutionService(&mockReleaser{result: releaseFixture()}, directory, mail, zap.NewNop())

	outcome, err := svc.Release(context.Background(), "slot-1", "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Notified)
	assert.Empty(t, outcome.Warning)
	assert.Equal(t, "Crucifer", outcome.Role)
	assert.Equal(t, "2024-01-10", outcome.ServiceDate)
	assert.Equal(t, []string{"bento@example.com", "carla@example.com"}, mail.sent)
	for _, body := range mail.bodies {
		assert.True(t, strings.Contains(body, "Ana"))
		assert.True(t, strings.Contains(body, "Crucifer"))
		assert.True(t, strings.Contains(body, "2024-01-10"))
	}
}

func TestSubstitutionReleaseStandsWhenDeliveryFails(t *testing.T) {
	directory := &mockBroadcastDirectory{refs: []models.VolunteerRef{
		{ID: "v2", Email: "bento@example.com"},
		{ID: "v3", Email: "carla@example.com"},
	}}
	mail := &recordingMailer{failFor: map[string]bool{"bento@example.com": true}}
	svc := NewSubstitutionService(&mockReleaser{result: releaseFixture()}, directory, mail, zap.NewNop())

	outcome, err := svc.Release(context.Background(), "slot-1", "v1")
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Notified)
	assert.NotEmpty(t, outcome.Warning)
}

func TestSubstitutionReleaseStandsWhenRecipientLookupFails(t *testing.T) {
	directory := &mockBroadcastDirectory{err: errors.New("db down")}
	svc := NewSubstitutionService(&mockReleaser{result: releaseFixture()}, directory, &recordingMailer{}, zap.NewNop())

	outcome, err := svc.Release(context.Background(), "slot-1", "v1")
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Notified)
	assert.NotEmpty(t, outcome.Warning)
}

func TestSubstitutionReleasePropagatesForbidden(t *testing.T) {
	releaser := &mockReleaser{err: appErrors.Clone(appErrors.ErrForbidden, "only the current occupant can release this slot")}
	mail := &recordingMailer{}
	svc := NewSubstitutionService(releaser, &mockBroadcastDirectory{}, mail, zap.NewNop())

	_, err := svc.Release(context.Background(), "slot-1", "v2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, mail.sent)
}
