package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
	appErrors "github.com/mensah-labs/shs-timetable-api/pkg/errors"
)

type classLister interface {
	ListActive(ctx context.Context) ([]models.Class, error)
}

type subjectLister interface {
	ListActive(ctx context.Context) ([]models.Subject, error)
}

type teacherLister interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type classroomLister interface {
	ListActive(ctx context.Context) ([]models.Classroom, error)
}

// DirectoryService serves the reference lists the timetable editor needs:
// classes, subjects, teachers and classrooms.
type DirectoryService struct {
	classes    classLister
	subjects   subjectLister
	teachers   teacherLister
	classrooms classroomLister
	logger     *zap.Logger
}

// NewDirectoryService instantiates DirectoryService.
func NewDirectoryService(classes classLister, subjects subjectLister, teachers teacherLister, classrooms classroomLister, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{classes: classes, subjects: subjects, teachers: teachers, classrooms: classrooms, logger: logger}
}

// Classes returns active classes.
func (s *DirectoryService) Classes(ctx context.Context) ([]models.Class, error) {
	classes, err := s.classes.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Subjects returns active subjects.
func (s *DirectoryService) Subjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjects.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// Teachers returns active teachers.
func (s *DirectoryService) Teachers(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// Classrooms returns active classrooms.
func (s *DirectoryService) Classrooms(ctx context.Context) ([]models.Classroom, error) {
	classrooms, err := s.classrooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	return classrooms, nil
}
