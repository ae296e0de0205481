package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func periodRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "start_time", "end_time", "sort_order", "is_break", "is_active", "created_at", "updated_at"}).
		AddRow("p1", "Period 1", "08:00", "08:40", 1, false, true, now, now).
		AddRow("break", "Break", "08:40", "09:00", 2, true, true, now, now)
}

func TestPeriodRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM periods WHERE is_active = TRUE ORDER BY sort_order ASC")).
		WillReturnRows(periodRows())

	periods, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, "Period 1", periods[0].Name)
	assert.True(t, periods[1].IsBreak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryExistsByOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM periods WHERE sort_order = $1 AND is_active = TRUE AND id <> $2")).
		WithArgs(3, "p9").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.ExistsByOrder(context.Background(), 3, "p9")
	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO periods")).
		WithArgs(sqlmock.AnyArg(), "Period 5", "13:00", "13:40", 7, false, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	period := &models.Period{Name: "Period 5", StartTime: "13:00", EndTime: "13:40", Order: 7, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), period))
	assert.NotEmpty(t, period.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeriodRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPeriodRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE periods SET is_active = FALSE")).
		WithArgs("p1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
