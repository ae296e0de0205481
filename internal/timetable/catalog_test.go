package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
)

func testPeriods() []models.Period {
	return []models.Period{
		{ID: "p3", Name: "Period 3", Order: 4, IsActive: true},
		{ID: "p1", Name: "Period 1", Order: 1, IsActive: true},
		{ID: "p2", Name: "Period 2", Order: 2, IsActive: true},
		{ID: "break", Name: "Break", Order: 3, IsBreak: true, IsActive: true},
		{ID: "p4", Name: "Period 4", Order: 5, IsActive: true},
		{ID: "old", Name: "Retired", Order: 6, IsActive: false},
	}
}

func TestCatalogOrderedFiltersAndSorts(t *testing.T) {
	catalog := NewCatalog(testPeriods())

	ordered := catalog.Ordered()
	require.Len(t, ordered, 5)

	ids := make([]string, len(ordered))
	for i, p := range ordered {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"p1", "p2", "break", "p3", "p4"}, ids)
}

func TestCatalogNext(t *testing.T) {
	catalog := NewCatalog(testPeriods())

	next, ok := catalog.Next("p1")
	require.True(t, ok)
	assert.Equal(t, "p2", next.ID)

	// breaks are not skipped
	next, ok = catalog.Next("p2")
	require.True(t, ok)
	assert.Equal(t, "break", next.ID)
	assert.True(t, next.IsBreak)

	_, ok = catalog.Next("p4")
	assert.False(t, ok)

	_, ok = catalog.Next("missing")
	assert.False(t, ok)

	_, ok = catalog.Next("old")
	assert.False(t, ok)
}

func TestCatalogRef(t *testing.T) {
	catalog := NewCatalog(testPeriods())

	assert.Equal(t, PeriodRef{ID: "p1", Name: "Period 1"}, catalog.Ref("p1"))
	assert.Equal(t, PeriodRef{ID: "ghost"}, catalog.Ref("ghost"))
}
