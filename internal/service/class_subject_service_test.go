package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
	appErrors "github.com/mensah-labs/shs-timetable-api/pkg/errors"
)

type mockClassSubjectRepo struct {
	byClass map[string][]models.ClassSubjectDetail
	byID    map[string]*models.ClassSubject
	updated []string
}

func (m *mockClassSubjectRepo) ListDetailByClass(ctx context.Context, classID string) ([]models.ClassSubjectDetail, error) {
	return m.byClass[classID], nil
}

func (m *mockClassSubjectRepo) FindByID(ctx context.Context, id string) (*models.ClassSubject, error) {
	if a, ok := m.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassSubjectRepo) UpdateTeacher(ctx context.Context, id, teacherID string) error {
	m.updated = append(m.updated, id+"->"+teacherID)
	if a, ok := m.byID[id]; ok {
		a.TeacherID = teacherID
	}
	return nil
}

func TestClassSubjectServiceListByClassTalliesPeriods(t *testing.T) {
	entries := newMockTimetableRepo()
	entries.add(models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{ID: "e1", ClassSubjectID: "c1|math|t1", PeriodID: "p1", Weekday: models.Monday, IsDouble: true},
		ClassID:        "c1", SubjectID: "math", TeacherID: "t1",
	})
	entries.add(models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{ID: "e2", ClassSubjectID: "c1|math|t1", PeriodID: "p3", Weekday: models.Tuesday},
		ClassID:        "c1", SubjectID: "math", TeacherID: "t1",
	})
	repo := &mockClassSubjectRepo{byClass: map[string][]models.ClassSubjectDetail{
		"c1": {
			{ClassSubject: models.ClassSubject{ID: "cs1", ClassID: "c1", SubjectID: "math", TeacherID: "t1"}, SubjectName: "Mathematics"},
			{ClassSubject: models.ClassSubject{ID: "cs2", ClassID: "c1", SubjectID: "bio", TeacherID: "t2"}, SubjectName: "Biology"},
		},
	}}
	service := NewClassSubjectService(repo, entries, nil, validator.New(), zap.NewNop())

	assignments, err := service.ListByClass(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, 3, assignments[0].ScheduledPeriods)
	assert.Equal(t, 0, assignments[1].ScheduledPeriods)
}

func TestClassSubjectServiceReassignTeacher(t *testing.T) {
	entries := newMockTimetableRepo()
	entries.add(models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{ID: "e1", ClassSubjectID: "cs1", PeriodID: "p1", Weekday: models.Monday},
		ClassID:        "c1", SubjectID: "math", TeacherID: "t1",
	})
	entries.add(models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{ID: "e2", ClassSubjectID: "cs1", PeriodID: "p2", Weekday: models.Thursday},
		ClassID:        "c1", SubjectID: "math", TeacherID: "t1",
	})
	repo := &mockClassSubjectRepo{byID: map[string]*models.ClassSubject{
		"cs1": {ID: "cs1", ClassID: "c1", SubjectID: "math", TeacherID: "t1"},
	}}
	service := NewClassSubjectService(repo, entries, nil, validator.New(), zap.NewNop())

	result, err := service.ReassignTeacher(context.Background(), "cs1", ReassignTeacherRequest{TeacherID: "t2"})
	require.NoError(t, err)
	assert.Equal(t, "t2", result.Assignment.TeacherID)
	assert.Len(t, result.AffectedEntries, 2)
	assert.Equal(t, []string{"cs1->t2"}, repo.updated)
}

func TestClassSubjectServiceReassignTeacherNoop(t *testing.T) {
	repo := &mockClassSubjectRepo{byID: map[string]*models.ClassSubject{
		"cs1": {ID: "cs1", ClassID: "c1", SubjectID: "math", TeacherID: "t1"},
	}}
	service := NewClassSubjectService(repo, newMockTimetableRepo(), nil, validator.New(), zap.NewNop())

	result, err := service.ReassignTeacher(context.Background(), "cs1", ReassignTeacherRequest{TeacherID: "t1"})
	require.NoError(t, err)
	assert.Empty(t, repo.updated)
	assert.Equal(t, "t1", result.Assignment.TeacherID)
}

func TestClassSubjectServiceReassignTeacherMissing(t *testing.T) {
	repo := &mockClassSubjectRepo{}
	service := NewClassSubjectService(repo, newMockTimetableRepo(), nil, validator.New(), zap.NewNop())

	_, err := service.ReassignTeacher(context.Background(), "nope", ReassignTeacherRequest{TeacherID: "t2"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
