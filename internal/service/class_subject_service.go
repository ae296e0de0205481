package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
	"github.com/mensah-labs/shs-timetable-api/internal/timetable"
	appErrors "github.com/mensah-labs/shs-timetable-api/pkg/errors"
)

type classSubjectRepository interface {
	ListDetailByClass(ctx context.Context, classID string) ([]models.ClassSubjectDetail, error)
	FindByID(ctx context.Context, id string) (*models.ClassSubject, error)
	UpdateTeacher(ctx context.Context, id, teacherID string) error
}

type assignmentEntryLister interface {
	ListDetailByClass(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error)
	ListDetailByAssignment(ctx context.Context, classSubjectID string) ([]models.TimetableEntryDetail, error)
}

// ReassignTeacherRequest swaps the teacher of record for an assignment.
type ReassignTeacherRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
}

// ReassignTeacherResult reports the new pairing and the entries the change
// touched.
type ReassignTeacherResult struct {
	Assignment      *models.ClassSubject          `json:"assignment"`
	AffectedEntries []models.TimetableEntryDetail `json:"affected_entries"`
}

// ClassSubjectService manages the class-subject-teacher pairings that
// timetable entries hang off.
type ClassSubjectService struct {
	repo      classSubjectRepository
	entries   assignmentEntryLister
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassSubjectService instantiates ClassSubjectService.
func NewClassSubjectService(repo classSubjectRepository, entries assignmentEntryLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ClassSubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassSubjectService{repo: repo, entries: entries, cache: cache, validator: validate, logger: logger}
}

// ListByClass returns a class's assignments with how many periods each
// subject currently occupies on the grid. Doubles count as two.
func (s *ClassSubjectService) ListByClass(ctx context.Context, classID string) ([]models.ClassSubjectDetail, error) {
	assignments, err := s.repo.ListDetailByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class subjects")
	}

	entries, err := s.entries.ListDetailByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to tally scheduled periods")
	}

	tallies := timetable.ScheduledPeriods(entries)
	for i := range assignments {
		assignments[i].ScheduledPeriods = tallies[assignments[i].SubjectID]
	}
	return assignments, nil
}

// ReassignTeacher overwrites the teacher of record for an assignment.
// Every committed entry referencing the assignment follows immediately,
// past placements included.
func (s *ClassSubjectService) ReassignTeacher(ctx context.Context, id string, req ReassignTeacherRequest) (*ReassignTeacherResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reassign payload")
	}

	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class subject")
	}

	if assignment.TeacherID != req.TeacherID {
		if err := s.repo.UpdateTeacher(ctx, id, req.TeacherID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign teacher")
		}
		assignment.TeacherID = req.TeacherID
	}

	affected, err := s.entries.ListDetailByAssignment(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list affected entries")
	}

	if s.cache.Enabled() {
		if err := s.cache.Invalidate(ctx, gridCacheKey(assignment.ClassID)+"*"); err != nil {
			s.logger.Warn("failed to invalidate grid cache", zap.String("class_id", assignment.ClassID), zap.Error(err))
		}
	}

	return &ReassignTeacherResult{Assignment: assignment, AffectedEntries: affected}, nil
}
