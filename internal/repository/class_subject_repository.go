package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
)

// ClassSubjectRepository manages the (class, subject) teaching assignments
// that timetable entries reference.
type ClassSubjectRepository struct {
	db *sqlx.DB
}

// NewClassSubjectRepository creates a new repository.
func NewClassSubjectRepository(db *sqlx.DB) *ClassSubjectRepository {
	return &ClassSubjectRepository{db: db}
}

const classSubjectColumns = `cs.id, cs.class_id, cs.subject_id, cs.teacher_id, cs.periods_per_week, cs.created_at, cs.updated_at`

// ListDetailByClass returns the class's assignments with subject and
// teacher names, ordered by subject.
func (r *ClassSubjectRepository) ListDetailByClass(ctx context.Context, classID string) ([]models.ClassSubjectDetail, error) {
	query := fmt.Sprintf(`
SELECT %s,
       s.name AS subject_name, s.short_name AS subject_short_name,
       t.full_name AS teacher_name
FROM class_subjects cs
JOIN subjects s ON s.id = cs.subject_id
JOIN teachers t ON t.id = cs.teacher_id
WHERE cs.class_id = $1
ORDER BY s.name ASC`, classSubjectColumns)
	var assignments []models.ClassSubjectDetail
	if err := r.db.SelectContext(ctx, &assignments, query, classID); err != nil {
		return nil, fmt.Errorf("list class subjects: %w", err)
	}
	return assignments, nil
}

// FindByClassAndSubject loads the unique assignment for a (class, subject)
// pair using the database handle.
func (r *ClassSubjectRepository) FindByClassAndSubject(ctx context.Context, classID, subjectID string) (*models.ClassSubject, error) {
	return r.findByClassAndSubject(ctx, r.db, classID, subjectID)
}

// FindByClassAndSubjectTx is FindByClassAndSubject inside an existing
// transaction.
func (r *ClassSubjectRepository) FindByClassAndSubjectTx(ctx context.Context, tx *sqlx.Tx, classID, subjectID string) (*models.ClassSubject, error) {
	return r.findByClassAndSubject(ctx, tx, classID, subjectID)
}

func (r *ClassSubjectRepository) findByClassAndSubject(ctx context.Context, q sqlx.QueryerContext, classID, subjectID string) (*models.ClassSubject, error) {
	const query = `SELECT id, class_id, subject_id, teacher_id, periods_per_week, created_at, updated_at FROM class_subjects WHERE class_id = $1 AND subject_id = $2`
	var assignment models.ClassSubject
	if err := sqlx.GetContext(ctx, q, &assignment, query, classID, subjectID); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByID loads an assignment by id.
func (r *ClassSubjectRepository) FindByID(ctx context.Context, id string) (*models.ClassSubject, error) {
	const query = `SELECT id, class_id, subject_id, teacher_id, periods_per_week, created_at, updated_at FROM class_subjects WHERE id = $1`
	var assignment models.ClassSubject
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateTx inserts a new assignment inside an existing transaction.
func (r *ClassSubjectRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, assignment *models.ClassSubject) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	const query = `INSERT INTO class_subjects (id, class_id, subject_id, teacher_id, periods_per_week, created_at, updated_at) VALUES (:id, :class_id, :subject_id, :teacher_id, :periods_per_week, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create class subject: %w", err)
	}
	return nil
}

// UpdateTeacherTx overwrites the teacher of record inside an existing
// transaction. Every timetable entry referencing the assignment follows.
func (r *ClassSubjectRepository) UpdateTeacherTx(ctx context.Context, tx *sqlx.Tx, id, teacherID string) error {
	if _, err := tx.ExecContext(ctx, `UPDATE class_subjects SET teacher_id = $2, updated_at = $3 WHERE id = $1`, id, teacherID, time.Now().UTC()); err != nil {
		return fmt.Errorf("update class subject teacher: %w", err)
	}
	return nil
}

// UpdateTeacher overwrites the teacher of record outside a transaction.
func (r *ClassSubjectRepository) UpdateTeacher(ctx context.Context, id, teacherID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE class_subjects SET teacher_id = $2, updated_at = $3 WHERE id = $1`, id, teacherID, time.Now().UTC()); err != nil {
		return fmt.Errorf("update class subject teacher: %w", err)
	}
	return nil
}
