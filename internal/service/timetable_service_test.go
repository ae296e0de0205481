package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
	"github.com/mensah-labs/shs-timetable-api/internal/timetable"
	appErrors "github.com/mensah-labs/shs-timetable-api/pkg/errors"
)

type mockPeriodLister struct {
	periods []models.Period
}

func (m *mockPeriodLister) ListActive(ctx context.Context) ([]models.Period, error) {
	return m.periods, nil
}

func servicePeriods() []models.Period {
	return []models.Period{
		{ID: "p1", Name: "Period 1", Order: 1, IsActive: true},
		{ID: "p2", Name: "Period 2", Order: 2, IsActive: true},
		{ID: "br", Name: "Lunch", Order: 3, IsBreak: true, IsActive: true},
		{ID: "p3", Name: "Period 3", Order: 4, IsActive: true},
		{ID: "p4", Name: "Period 4", Order: 5, IsActive: true},
	}
}

type mockTimetableRepo struct {
	details   map[string]*models.TimetableEntryDetail
	nextID    int
	lockKeys  [][]int64
	deleteErr error
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{details: make(map[string]*models.TimetableEntryDetail)}
}

func (m *mockTimetableRepo) add(d models.TimetableEntryDetail) {
	cp := d
	m.details[d.ID] = &cp
}

func (m *mockTimetableRepo) filter(keep func(*models.TimetableEntryDetail) bool) []models.TimetableEntryDetail {
	var out []models.TimetableEntryDetail
	for _, d := range m.details {
		if keep(d) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockTimetableRepo) ListDetailByClass(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error) {
	return m.filter(func(d *models.TimetableEntryDetail) bool { return d.ClassID == classID }), nil
}

func (m *mockTimetableRepo) ListDetailByClassWeekday(ctx context.Context, classID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return m.filter(func(d *models.TimetableEntryDetail) bool {
		return d.ClassID == classID && d.Weekday == weekday
	}), nil
}

func (m *mockTimetableRepo) ListDetailByClassWeekdayTx(ctx context.Context, tx *sqlx.Tx, classID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return m.ListDetailByClassWeekday(ctx, classID, weekday)
}

func (m *mockTimetableRepo) ListDetailByTeacherWeekday(ctx context.Context, teacherID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return m.filter(func(d *models.TimetableEntryDetail) bool {
		return d.TeacherID == teacherID && d.Weekday == weekday
	}), nil
}

func (m *mockTimetableRepo) ListDetailByTeacherWeekdayTx(ctx context.Context, tx *sqlx.Tx, teacherID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return m.ListDetailByTeacherWeekday(ctx, teacherID, weekday)
}

func (m *mockTimetableRepo) ListDetailByRoomWeekday(ctx context.Context, classroomID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return m.filter(func(d *models.TimetableEntryDetail) bool {
		return d.ClassroomID != nil && *d.ClassroomID == classroomID && d.Weekday == weekday
	}), nil
}

func (m *mockTimetableRepo) ListDetailByRoomWeekdayTx(ctx context.Context, tx *sqlx.Tx, classroomID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return m.ListDetailByRoomWeekday(ctx, classroomID, weekday)
}

func (m *mockTimetableRepo) ListDetailByAssignment(ctx context.Context, classSubjectID string) ([]models.TimetableEntryDetail, error) {
	return m.filter(func(d *models.TimetableEntryDetail) bool { return d.ClassSubjectID == classSubjectID }), nil
}

func (m *mockTimetableRepo) FindDetailByID(ctx context.Context, id string) (*models.TimetableEntryDetail, error) {
	if d, ok := m.details[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error {
	m.nextID++
	entry.ID = fmt.Sprintf("e%d", m.nextID)
	m.add(detailFromEntry(*entry))
	return nil
}

func (m *mockTimetableRepo) UpdateTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error {
	if _, ok := m.details[entry.ID]; !ok {
		return sql.ErrNoRows
	}
	m.add(detailFromEntry(*entry))
	return nil
}

func (m *mockTimetableRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.details[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.details, id)
	return nil
}

func (m *mockTimetableRepo) WithPlacementLocks(ctx context.Context, keys []int64, fn func(tx *sqlx.Tx) error) error {
	m.lockKeys = append(m.lockKeys, keys)
	return fn(nil)
}

// detailFromEntry derives the joined read model the way the database view
// would, with names mirroring IDs. The assignment id encodes class, subject
// and teacher as class|subject|teacher.
func detailFromEntry(entry models.TimetableEntry) models.TimetableEntryDetail {
	parts := strings.SplitN(entry.ClassSubjectID, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, entry.ClassSubjectID)
	}
	return models.TimetableEntryDetail{
		TimetableEntry: entry,
		ClassID:        parts[0],
		ClassName:      parts[0],
		SubjectID:      parts[1],
		SubjectName:    parts[1],
		TeacherID:      parts[2],
		TeacherName:    parts[2],
		PeriodName:     entry.PeriodID,
	}
}

type mockAssignmentRepo struct {
	assignments map[string]*models.ClassSubject
	reassigned  []string
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*models.ClassSubject)}
}

func (m *mockAssignmentRepo) seed(classID, subjectID, teacherID string) *models.ClassSubject {
	a := &models.ClassSubject{
		ID:        classID + "|" + subjectID + "|" + teacherID,
		ClassID:   classID,
		SubjectID: subjectID,
		TeacherID: teacherID,
	}
	m.assignments[classID+"/"+subjectID] = a
	return a
}

func (m *mockAssignmentRepo) FindByClassAndSubject(ctx context.Context, classID, subjectID string) (*models.ClassSubject, error) {
	if a, ok := m.assignments[classID+"/"+subjectID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentRepo) FindByClassAndSubjectTx(ctx context.Context, tx *sqlx.Tx, classID, subjectID string) (*models.ClassSubject, error) {
	return m.FindByClassAndSubject(ctx, classID, subjectID)
}

func (m *mockAssignmentRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, assignment *models.ClassSubject) error {
	assignment.ID = assignment.ClassID + "|" + assignment.SubjectID + "|" + assignment.TeacherID
	cp := *assignment
	m.assignments[assignment.ClassID+"/"+assignment.SubjectID] = &cp
	return nil
}

func (m *mockAssignmentRepo) UpdateTeacherTx(ctx context.Context, tx *sqlx.Tx, id, teacherID string) error {
	m.reassigned = append(m.reassigned, id+"->"+teacherID)
	for _, a := range m.assignments {
		if a.ID == id {
			a.TeacherID = teacherID
		}
	}
	return nil
}

func newTestTimetableService(entries *mockTimetableRepo, assignments *mockAssignmentRepo) *TimetableService {
	return NewTimetableService(entries, assignments, &mockPeriodLister{periods: servicePeriods()}, nil, nil, validator.New(), zap.NewNop(), 0)
}

func placement(classID, subjectID, teacherID, periodID string) PlacementRequest {
	return PlacementRequest{
		ClassID:   classID,
		SubjectID: subjectID,
		TeacherID: teacherID,
		PeriodID:  periodID,
		Weekday:   int(models.Monday),
	}
}

func TestTimetableServiceValidatePlacementAdmits(t *testing.T) {
	entries := newMockTimetableRepo()
	service := newTestTimetableService(entries, newMockAssignmentRepo())

	result, err := service.ValidatePlacement(context.Background(), placement("c1", "math", "t1", "p1"))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Nil(t, result.Conflict)
	assert.Empty(t, entries.details)
}

func TestTimetableServiceValidatePlacementTeacherConflict(t *testing.T) {
	entries := newMockTimetableRepo()
	entries.add(models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{ID: "e1", ClassSubjectID: "2B|bio|t1", PeriodID: "p1", Weekday: models.Monday},
		ClassID:        "2B", ClassName: "2B",
		SubjectID: "bio", SubjectName: "bio",
		TeacherID: "t1", TeacherName: "t1",
		PeriodName: "Period 1",
	})
	service := newTestTimetableService(entries, newMockAssignmentRepo())

	result, err := service.ValidatePlacement(context.Background(), placement("c1", "math", "t1", "p1"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.NotNil(t, result.Conflict)
	assert.Equal(t, timetable.ReasonTeacherConflict, result.Conflict.Reason)
	assert.Equal(t, "2B", result.Conflict.OtherClass)
}

func TestTimetableServiceValidatePlacementRejectsBreakPeriod(t *testing.T) {
	service := newTestTimetableService(newMockTimetableRepo(), newMockAssignmentRepo())

	_, err := service.ValidatePlacement(context.Background(), placement("c1", "math", "t1", "br"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceCreateEntry(t *testing.T) {
	entries := newMockTimetableRepo()
	assignments := newMockAssignmentRepo()
	service := newTestTimetableService(entries, assignments)

	detail, err := service.CreateEntry(context.Background(), placement("c1", "math", "t1", "p1"))
	require.NoError(t, err)
	assert.Equal(t, "c1", detail.ClassID)
	assert.Equal(t, "p1", detail.PeriodID)
	assert.Len(t, assignments.assignments, 1)

	require.Len(t, entries.lockKeys, 1)
	keys := entries.lockKeys[0]
	require.Len(t, keys, 1)
	assert.True(t, sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i] < keys[j] }))
}

func TestTimetableServiceCreateDoubleLocksBothSlots(t *testing.T) {
	entries := newMockTimetableRepo()
	service := newTestTimetableService(entries, newMockAssignmentRepo())

	req := placement("c1", "math", "t1", "p1")
	req.IsDouble = true
	req.ClassroomID = "lab"
	_, err := service.CreateEntry(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, entries.lockKeys, 1)
	keys := entries.lockKeys[0]
	assert.Len(t, keys, 4)
	assert.True(t, sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i] < keys[j] }))
}

func TestTimetableServiceCreateEntryConflictUnderLock(t *testing.T) {
	entries := newMockTimetableRepo()
	entries.add(models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{ID: "e1", ClassSubjectID: "2B|bio|t1", PeriodID: "p1", Weekday: models.Monday},
		ClassID:        "2B", ClassName: "2B",
		SubjectID: "bio", SubjectName: "bio",
		TeacherID: "t1", TeacherName: "t1",
		PeriodName: "Period 1",
	})
	service := newTestTimetableService(entries, newMockAssignmentRepo())

	_, err := service.CreateEntry(context.Background(), placement("c1", "math", "t1", "p1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	var conflict *timetable.Conflict
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, timetable.ReasonTeacherConflict, conflict.Reason)
	assert.Len(t, entries.details, 1)
}

func TestTimetableServiceCreateEntryOverwritesAssignmentTeacher(t *testing.T) {
	entries := newMockTimetableRepo()
	assignments := newMockAssignmentRepo()
	assignments.seed("c1", "math", "t1")
	service := newTestTimetableService(entries, assignments)

	_, err := service.CreateEntry(context.Background(), placement("c1", "math", "t2", "p1"))
	require.NoError(t, err)
	require.Len(t, assignments.reassigned, 1)
	assert.Equal(t, "t2", assignments.assignments["c1/math"].TeacherID)
}

func TestTimetableServiceUpdateEntryMovesInPlace(t *testing.T) {
	entries := newMockTimetableRepo()
	assignments := newMockAssignmentRepo()
	service := newTestTimetableService(entries, assignments)

	created, err := service.CreateEntry(context.Background(), placement("c1", "math", "t1", "p1"))
	require.NoError(t, err)

	updated, err := service.UpdateEntry(context.Background(), created.ID, placement("c1", "math", "t1", "p2"))
	require.NoError(t, err)
	assert.Equal(t, "p2", updated.PeriodID)
	assert.Len(t, entries.details, 1)
}

func TestTimetableServiceDeleteEntryMissing(t *testing.T) {
	service := newTestTimetableService(newMockTimetableRepo(), newMockAssignmentRepo())

	err := service.DeleteEntry(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceClassGrid(t *testing.T) {
	entries := newMockTimetableRepo()
	assignments := newMockAssignmentRepo()
	service := newTestTimetableService(entries, assignments)

	_, err := service.CreateEntry(context.Background(), placement("c1", "math", "t1", "p1"))
	require.NoError(t, err)

	grid, err := service.ClassGrid(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", grid.ClassID)
	assert.Len(t, grid.Periods, 5)
	require.Len(t, grid.Grid.Cells[models.Monday]["p1"], 1)
	assert.Equal(t, "math", grid.Grid.Cells[models.Monday]["p1"][0].SubjectID)
}

func TestTimetableServiceBulkCreatePartialOnError(t *testing.T) {
	entries := newMockTimetableRepo()
	service := newTestTimetableService(entries, newMockAssignmentRepo())

	result, err := service.BulkCreateEntries(context.Background(), BulkPlacementRequest{
		Items: []PlacementRequest{
			placement("c1", "math", "t1", "p1"),
			placement("c1", "bio", "t1", "p2"),
			placement("c1", "math", "t2", "p1"),
		},
		PartialOnError: true,
	})
	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, timetable.ReasonSubjectAlreadyScheduled, result.Conflicts[0].Reason)
}

func TestTimetableServiceBulkCreateRejectedBatchWritesNothing(t *testing.T) {
	entries := newMockTimetableRepo()
	service := newTestTimetableService(entries, newMockAssignmentRepo())

	result, err := service.BulkCreateEntries(context.Background(), BulkPlacementRequest{
		Items: []PlacementRequest{
			placement("c1", "math", "t1", "p1"),
			placement("c1", "math", "t2", "p1"),
		},
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	var conflict *timetable.Conflict
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, timetable.ReasonSubjectAlreadyScheduled, conflict.Reason)
	assert.Empty(t, entries.details)
}

func TestTimetableServiceCopyTimetableSkipsConflicts(t *testing.T) {
	entries := newMockTimetableRepo()
	assignments := newMockAssignmentRepo()
	service := newTestTimetableService(entries, assignments)

	_, err := service.CreateEntry(context.Background(), placement("c1", "math", "t1", "p1"))
	require.NoError(t, err)
	_, err = service.CreateEntry(context.Background(), placement("c1", "bio", "t2", "p2"))
	require.NoError(t, err)

	// The target class has its own maths teacher; biology falls back to the
	// source teacher, who is busy with the source class at that slot.
	assignments.seed("c2", "math", "t9")

	result, err := service.CopyTimetable(context.Background(), "c1", "c2")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, timetable.ReasonTeacherConflict, result.Conflicts[0].Reason)
}

func TestTimetableServiceCopyTimetableSameClass(t *testing.T) {
	service := newTestTimetableService(newMockTimetableRepo(), newMockAssignmentRepo())

	_, err := service.CopyTimetable(context.Background(), "c1", "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceTeacherDayScheduleInvalidWeekday(t *testing.T) {
	service := newTestTimetableService(newMockTimetableRepo(), newMockAssignmentRepo())

	_, err := service.TeacherDaySchedule(context.Background(), "t1", models.Weekday(9))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
