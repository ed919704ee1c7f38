package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/escala-acolitos/escala-api/internal/models"
)

func TestVolunteerRepositoryCreateAndFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewVolunteerRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO volunteers")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	volunteer := &models.Volunteer{
		Email:        "ana@paroquia.org",
		PasswordHash: "hashed",
		Name:         "Ana",
	}
	require.NoError(t, repo.Create(context.Background(), volunteer))
	require.NotEmpty(t, volunteer.ID)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "is_admin", "created_at", "updated_at"}).
		AddRow(volunteer.ID, volunteer.Email, volunteer.PasswordHash, volunteer.Name, false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, name, is_admin")).
		WithArgs("ana@paroquia.org").
		WillReturnRows(rows)

	found, err := repo.FindByEmail(context.Background(), "ana@paroquia.org")
	require.NoError(t, err)
	require.Equal(t, volunteer.ID, found.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVolunteerRepositoryCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewVolunteerRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO volunteers")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "volunteers_email_key"})

	err := repo.Create(context.Background(), &models.Volunteer{
		Email:        "ana@paroquia.org",
		PasswordHash: "hashed",
		Name:         "Ana",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVolunteerRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewVolunteerRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, name, is_admin")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVolunteerRepositoryFindQualifiedNonAdmin(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewVolunteerRepository(db)
	rows := sqlmock.NewRows([]string{"id", "email", "name"}).
		AddRow("v1", "ana@paroquia.org", "Ana").
		AddRow("v2", "bento@paroquia.org", "Bento")
	mock.ExpectQuery(regexp.QuoteMeta("JOIN volunteer_qualifications")).
		WithArgs("Librífero").
		WillReturnRows(rows)

	refs, err := repo.FindQualifiedNonAdmin(context.Background(), "Librífero")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, "Ana", refs[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVolunteerRepositoryReplaceQualificationsClearsThenInserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewVolunteerRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM volunteer_qualifications")).
		WithArgs("v1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO volunteer_qualifications")).
		WithArgs("v1", "q1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO volunteer_qualifications")).
		WithArgs("v1", "q2").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceQualifications(context.Background(), "v1", []string{"q1", "q2"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVolunteerRepositoryReplaceQualificationsRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewVolunteerRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM volunteer_qualifications")).
		WithArgs("v1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO volunteer_qualifications")).
		WithArgs("v1", "q1").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.ReplaceQualifications(context.Background(), "v1", []string{"q1"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVolunteerRepositoryListAllExceptExcludesAdmins(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewVolunteerRepository(db)
	rows := sqlmock.NewRows([]string{"id", "email", "name"}).
		AddRow("v2", "bento@paroquia.org", "Bento")
	mock.ExpectQuery(regexp.QuoteMeta("AND is_admin = FALSE")).
		WithArgs("v1").
		WillReturnRows(rows)

	refs, err := repo.ListAllExcept(context.Background(), "v1", true)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "v2", refs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
