package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
)

func TestClassSubjectRepositoryFindByClassAndSubject(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassSubjectRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "class_id", "subject_id", "teacher_id", "periods_per_week", "created_at", "updated_at"}).
		AddRow("cs1", "c1", "s1", "t1", 4, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_subjects WHERE class_id = $1 AND subject_id = $2")).
		WithArgs("c1", "s1").
		WillReturnRows(rows)

	assignment, err := repo.FindByClassAndSubject(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "t1", assignment.TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassSubjectRepositoryFindByClassAndSubjectMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_subjects WHERE class_id = $1 AND subject_id = $2")).
		WithArgs("c1", "s9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByClassAndSubject(context.Background(), "c1", "s9")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClassSubjectRepositoryCreateAndReassignTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_subjects")).
		WithArgs(sqlmock.AnyArg(), "c1", "s1", "t1", 4, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_subjects SET teacher_id = $2")).
		WithArgs(sqlmock.AnyArg(), "t2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	assignment := &models.ClassSubject{ClassID: "c1", SubjectID: "s1", TeacherID: "t1", PeriodsPerWeek: 4}
	require.NoError(t, repo.CreateTx(context.Background(), tx, assignment))
	require.NotEmpty(t, assignment.ID)
	require.NoError(t, repo.UpdateTeacherTx(context.Background(), tx, assignment.ID, "t2"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
