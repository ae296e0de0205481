package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
	appErrors "github.com/mensah-labs/shs-timetable-api/pkg/errors"
)

type periodRepository interface {
	ListActive(ctx context.Context) ([]models.Period, error)
	ListAll(ctx context.Context) ([]models.Period, error)
	FindByID(ctx context.Context, id string) (*models.Period, error)
	ExistsByOrder(ctx context.Context, order int, excludeID string) (bool, error)
	Create(ctx context.Context, period *models.Period) error
	Update(ctx context.Context, period *models.Period) error
	Deactivate(ctx context.Context, id string) error
}

// CreatePeriodRequest describes payload for creating a period.
type CreatePeriodRequest struct {
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Order     int    `json:"order" validate:"required,min=1"`
	IsBreak   bool   `json:"is_break"`
}

// UpdatePeriodRequest updates an existing period.
type UpdatePeriodRequest struct {
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Order     int    `json:"order" validate:"required,min=1"`
	IsBreak   bool   `json:"is_break"`
}

// PeriodService manages the daily period sequence. Positions in the
// sequence must be unique; gaps are allowed.
type PeriodService struct {
	repo      periodRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService instantiates PeriodService.
func NewPeriodService(repo periodRepository, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{repo: repo, validator: validate, logger: logger}
}

// ListActive returns active periods in sequence order.
func (s *PeriodService) ListActive(ctx context.Context) ([]models.Period, error) {
	periods, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, nil
}

// ListAll returns every period including retired ones.
func (s *PeriodService) ListAll(ctx context.Context) ([]models.Period, error) {
	periods, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, nil
}

// Create inserts a new period after checking its position is free.
func (s *PeriodService) Create(ctx context.Context, req CreatePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}

	taken, err := s.repo.ExistsByOrder(ctx, req.Order, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check period order")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "another period already holds this position")
	}

	period := models.Period{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Order:     req.Order,
		IsBreak:   req.IsBreak,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, &period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}
	return &period, nil
}

// Update modifies an existing period.
func (s *PeriodService) Update(ctx context.Context, id string, req UpdatePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}

	taken, err := s.repo.ExistsByOrder(ctx, req.Order, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check period order")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "another period already holds this position")
	}

	updated := models.Period{
		ID:        existing.ID,
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Order:     req.Order,
		IsBreak:   req.IsBreak,
		IsActive:  existing.IsActive,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update period")
	}
	return &updated, nil
}

// Deactivate retires a period from the sequence. Committed entries keep
// their reference; the period simply stops appearing in the catalog.
func (s *PeriodService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate period")
	}
	return nil
}
