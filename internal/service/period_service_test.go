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

type mockPeriodRepo struct {
	items       map[string]*models.Period
	orders      map[int]string
	deactivated []string
}

func newMockPeriodRepo() *mockPeriodRepo {
	return &mockPeriodRepo{items: make(map[string]*models.Period), orders: make(map[int]string)}
}

func (m *mockPeriodRepo) ListActive(ctx context.Context) ([]models.Period, error) {
	var out []models.Period
	for _, p := range m.items {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPeriodRepo) ListAll(ctx context.Context) ([]models.Period, error) {
	var out []models.Period
	for _, p := range m.items {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPeriodRepo) FindByID(ctx context.Context, id string) (*models.Period, error) {
	if p, ok := m.items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPeriodRepo) ExistsByOrder(ctx context.Context, order int, excludeID string) (bool, error) {
	if owner, ok := m.orders[order]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPeriodRepo) Create(ctx context.Context, period *models.Period) error {
	if period.ID == "" {
		period.ID = "generated"
	}
	cp := *period
	m.items[period.ID] = &cp
	m.orders[period.Order] = period.ID
	return nil
}

func (m *mockPeriodRepo) Update(ctx context.Context, period *models.Period) error {
	cp := *period
	m.items[period.ID] = &cp
	m.orders[period.Order] = period.ID
	return nil
}

func (m *mockPeriodRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	if p, ok := m.items[id]; ok {
		p.IsActive = false
	}
	return nil
}

func TestPeriodServiceCreate(t *testing.T) {
	repo := newMockPeriodRepo()
	service := NewPeriodService(repo, validator.New(), zap.NewNop())

	period, err := service.Create(context.Background(), CreatePeriodRequest{
		Name:      "Period 1",
		StartTime: "08:00",
		EndTime:   "08:40",
		Order:     1,
	})
	require.NoError(t, err)
	assert.True(t, period.IsActive)
	assert.Len(t, repo.items, 1)
}

func TestPeriodServiceCreateDuplicateOrder(t *testing.T) {
	repo := newMockPeriodRepo()
	repo.orders[1] = "other"
	service := NewPeriodService(repo, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreatePeriodRequest{
		Name:      "Period 1",
		StartTime: "08:00",
		EndTime:   "08:40",
		Order:     1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestPeriodServiceUpdateKeepsOwnOrder(t *testing.T) {
	repo := newMockPeriodRepo()
	repo.items["p1"] = &models.Period{ID: "p1", Name: "Period 1", Order: 1, IsActive: true}
	repo.orders[1] = "p1"
	service := NewPeriodService(repo, validator.New(), zap.NewNop())

	updated, err := service.Update(context.Background(), "p1", UpdatePeriodRequest{
		Name:      "First Period",
		StartTime: "08:00",
		EndTime:   "08:45",
		Order:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, "First Period", updated.Name)
}

func TestPeriodServiceUpdateMissing(t *testing.T) {
	service := NewPeriodService(newMockPeriodRepo(), validator.New(), zap.NewNop())

	_, err := service.Update(context.Background(), "nope", UpdatePeriodRequest{
		Name:      "First Period",
		StartTime: "08:00",
		EndTime:   "08:45",
		Order:     1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPeriodServiceDeactivate(t *testing.T) {
	repo := newMockPeriodRepo()
	repo.items["p1"] = &models.Period{ID: "p1", Name: "Period 1", Order: 1, IsActive: true}
	service := NewPeriodService(repo, validator.New(), zap.NewNop())

	require.NoError(t, service.Deactivate(context.Background(), "p1"))
	assert.Equal(t, []string{"p1"}, repo.deactivated)
	assert.False(t, repo.items["p1"].IsActive)
}
