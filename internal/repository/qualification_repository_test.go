package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestQualificationRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewQualificationRepository(db)
	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow("q1", "Cruciferário").
		AddRow("q2", "Librífero")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM qualifications")).
		WillReturnRows(rows)

	qualifications, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, qualifications, 2)
	require.Equal(t, "Cruciferário", qualifications[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQualificationRepositoryEnsureSeededSkipsBlanks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewQualificationRepository(db)
	// one insert per non-blank name; conflicts are swallowed by the statement
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO qualifications")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO qualifications")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.EnsureSeeded(context.Background(), []string{"Librífero", "", "Turiferário"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
