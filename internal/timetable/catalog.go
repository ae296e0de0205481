package timetable

import (
	"sort"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
)

// PeriodRef is a small immutable reference to a catalog period, used in
// conflict details and occupancy maps instead of ad hoc period values.
type PeriodRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog is an ordered, immutable-per-request view of a school's active
// periods. Positions are indexed once at construction so neighbor lookups
// are O(1).
type Catalog struct {
	periods []models.Period
	index   map[string]int
}

// NewCatalog builds a catalog from raw period rows. Inactive periods are
// dropped; the rest are ordered by their position in the daily sequence.
// Break periods keep their position, they are not skipped.
func NewCatalog(periods []models.Period) *Catalog {
	active := make([]models.Period, 0, len(periods))
	for _, p := range periods {
		if p.IsActive {
			active = append(active, p)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Order < active[j].Order
	})

	index := make(map[string]int, len(active))
	for i, p := range active {
		index[p.ID] = i
	}
	return &Catalog{periods: active, index: index}
}

// Ordered returns the active periods in catalog order, breaks included.
func (c *Catalog) Ordered() []models.Period {
	out := make([]models.Period, len(c.periods))
	copy(out, c.periods)
	return out
}

// Len reports how many active periods the catalog holds.
func (c *Catalog) Len() int {
	return len(c.periods)
}

// Get returns the period with the given id.
func (c *Catalog) Get(id string) (models.Period, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Period{}, false
	}
	return c.periods[i], true
}

// Next returns the active period directly after the given one in catalog
// order, or false if the period is last or unknown. The result may be a
// break period; callers decide what that means for them.
func (c *Catalog) Next(id string) (models.Period, bool) {
	i, ok := c.index[id]
	if !ok || i+1 >= len(c.periods) {
		return models.Period{}, false
	}
	return c.periods[i+1], true
}

// Ref returns a PeriodRef for the given id. Unknown ids yield a ref with
// only the id set, so messages never lose the coordinate they refer to.
func (c *Catalog) Ref(id string) PeriodRef {
	if p, ok := c.Get(id); ok {
		return PeriodRef{ID: p.ID, Name: p.Name}
	}
	return PeriodRef{ID: id}
}
