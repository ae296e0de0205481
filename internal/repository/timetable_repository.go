package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
)

// TimetableRepository provides persistence for timetable entries. All detail
// queries join the class-subject pairing so the engine sees the current
// teacher of record, never a stale copy.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

const entryDetailSelect = `
SELECT te.id, te.class_subject_id, te.period_id, te.weekday, te.is_double, te.classroom_id, te.created_at, te.updated_at,
       cs.class_id, c.name AS class_name,
       cs.subject_id, s.name AS subject_name,
       cs.teacher_id, t.full_name AS teacher_name,
       p.name AS period_name, p.sort_order AS period_order,
       r.name AS classroom_name
FROM timetable_entries te
JOIN class_subjects cs ON cs.id = te.class_subject_id
JOIN classes c ON c.id = cs.class_id
JOIN subjects s ON s.id = cs.subject_id
JOIN teachers t ON t.id = cs.teacher_id
JOIN periods p ON p.id = te.period_id
LEFT JOIN classrooms r ON r.id = te.classroom_id`

func (r *TimetableRepository) listDetail(ctx context.Context, q sqlx.QueryerContext, where string, args ...interface{}) ([]models.TimetableEntryDetail, error) {
	query := fmt.Sprintf("%s\nWHERE %s\nORDER BY te.weekday ASC, p.sort_order ASC", entryDetailSelect, where)
	var entries []models.TimetableEntryDetail
	if err := sqlx.SelectContext(ctx, q, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}

// ListDetailByClass returns every entry of a class across the week.
func (r *TimetableRepository) ListDetailByClass(ctx context.Context, classID string) ([]models.TimetableEntryDetail, error) {
	return r.listDetail(ctx, r.db, "cs.class_id = $1", classID)
}

// ListDetailByClassWeekday returns a class's entries for one weekday.
func (r *TimetableRepository) ListDetailByClassWeekday(ctx context.Context, classID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return r.listDetail(ctx, r.db, "cs.class_id = $1 AND te.weekday = $2", classID, weekday)
}

// ListDetailByClassWeekdayTx is ListDetailByClassWeekday inside an existing
// transaction.
func (r *TimetableRepository) ListDetailByClassWeekdayTx(ctx context.Context, tx *sqlx.Tx, classID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return r.listDetail(ctx, tx, "cs.class_id = $1 AND te.weekday = $2", classID, weekday)
}

// ListDetailByTeacherWeekday returns a teacher's entries for one weekday
// across all classes.
func (r *TimetableRepository) ListDetailByTeacherWeekday(ctx context.Context, teacherID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return r.listDetail(ctx, r.db, "cs.teacher_id = $1 AND te.weekday = $2", teacherID, weekday)
}

// ListDetailByTeacherWeekdayTx is ListDetailByTeacherWeekday inside an
// existing transaction.
func (r *TimetableRepository) ListDetailByTeacherWeekdayTx(ctx context.Context, tx *sqlx.Tx, teacherID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return r.listDetail(ctx, tx, "cs.teacher_id = $1 AND te.weekday = $2", teacherID, weekday)
}

// ListDetailByRoomWeekday returns a classroom's entries for one weekday
// across all classes.
func (r *TimetableRepository) ListDetailByRoomWeekday(ctx context.Context, classroomID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return r.listDetail(ctx, r.db, "te.classroom_id = $1 AND te.weekday = $2", classroomID, weekday)
}

// ListDetailByRoomWeekdayTx is ListDetailByRoomWeekday inside an existing
// transaction.
func (r *TimetableRepository) ListDetailByRoomWeekdayTx(ctx context.Context, tx *sqlx.Tx, classroomID string, weekday models.Weekday) ([]models.TimetableEntryDetail, error) {
	return r.listDetail(ctx, tx, "te.classroom_id = $1 AND te.weekday = $2", classroomID, weekday)
}

// ListDetailByAssignment returns every entry referencing a class-subject
// assignment. Used to surface which lessons a teacher reassignment touches.
func (r *TimetableRepository) ListDetailByAssignment(ctx context.Context, classSubjectID string) ([]models.TimetableEntryDetail, error) {
	return r.listDetail(ctx, r.db, "te.class_subject_id = $1", classSubjectID)
}

// FindDetailByID loads one entry with its joined names.
func (r *TimetableRepository) FindDetailByID(ctx context.Context, id string) (*models.TimetableEntryDetail, error) {
	query := fmt.Sprintf("%s\nWHERE te.id = $1", entryDetailSelect)
	var entry models.TimetableEntryDetail
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateTx inserts an entry inside an existing transaction.
func (r *TimetableRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO timetable_entries (id, class_subject_id, period_id, weekday, is_double, classroom_id, created_at, updated_at) VALUES (:id, :class_subject_id, :period_id, :weekday, :is_double, :classroom_id, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// UpdateTx modifies an entry inside an existing transaction.
func (r *TimetableRepository) UpdateTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetable_entries SET class_subject_id = :class_subject_id, period_id = :period_id, weekday = :weekday, is_double = :is_double, classroom_id = :classroom_id, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update timetable entry: %w", err)
	}
	return nil
}

// Delete removes an entry by id. Removal is unconditional: no other entry
// is re-validated.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timetable_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// WithPlacementLocks runs fn inside a transaction holding the given
// advisory locks. Locks are taken in the caller-provided order; callers
// sort their keys so two competing placements always lock in the same
// sequence. The locks release on commit or rollback.
func (r *TimetableRepository) WithPlacementLocks(ctx context.Context, keys []int64, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin placement: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, key := range keys {
		if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, key); err != nil {
			return fmt.Errorf("acquire placement lock: %w", err)
		}
	}

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit placement: %w", err)
	}
	return nil
}
