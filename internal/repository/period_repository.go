package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
)

// PeriodRepository provides persistence for the period catalog.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository creates a new period repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

const periodColumns = `id, name, start_time, end_time, sort_order, is_break, is_active, created_at, updated_at`

// ListActive returns the active periods ordered by daily position.
func (r *PeriodRepository) ListActive(ctx context.Context) ([]models.Period, error) {
	query := fmt.Sprintf(`SELECT %s FROM periods WHERE is_active = TRUE ORDER BY sort_order ASC`, periodColumns)
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list active periods: %w", err)
	}
	return periods, nil
}

// ListAll returns every period, active or not, ordered by position.
func (r *PeriodRepository) ListAll(ctx context.Context) ([]models.Period, error) {
	query := fmt.Sprintf(`SELECT %s FROM periods ORDER BY sort_order ASC`, periodColumns)
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}

// FindByID loads a period by id.
func (r *PeriodRepository) FindByID(ctx context.Context, id string) (*models.Period, error) {
	query := fmt.Sprintf(`SELECT %s FROM periods WHERE id = $1`, periodColumns)
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}

// ExistsByOrder reports whether another active period already claims the
// given daily position.
func (r *PeriodRepository) ExistsByOrder(ctx context.Context, order int, excludeID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM periods WHERE sort_order = $1 AND is_active = TRUE AND id <> $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, order, excludeID); err != nil {
		return false, fmt.Errorf("check period order: %w", err)
	}
	return count > 0, nil
}

// Create stores a new period.
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
	}
	period.UpdatedAt = now

	const query = `INSERT INTO periods (id, name, start_time, end_time, sort_order, is_break, is_active, created_at, updated_at) VALUES (:id, :name, :start_time, :end_time, :sort_order, :is_break, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create period: %w", err)
	}
	return nil
}

// Update modifies a period record.
func (r *PeriodRepository) Update(ctx context.Context, period *models.Period) error {
	period.UpdatedAt = time.Now().UTC()
	const query = `UPDATE periods SET name = :name, start_time = :start_time, end_time = :end_time, sort_order = :sort_order, is_break = :is_break, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("update period: %w", err)
	}
	return nil
}

// Deactivate retires a period without deleting historical entries that
// reference it.
func (r *PeriodRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE periods SET is_active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate period: %w", err)
	}
	return nil
}
