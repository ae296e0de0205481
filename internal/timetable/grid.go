package timetable

import "github.com/mensah-labs/shs-timetable-api/internal/models"

// Grid projects a class's committed entries onto weekday/period cells for
// display. Cells may hold several entries when combined lessons share a
// slot.
type Grid struct {
	// Cells maps weekday -> period id -> entries starting in that slot.
	Cells map[models.Weekday]map[string][]models.TimetableEntryDetail `json:"cells"`
	// DoubleOccupancy maps weekday -> period id -> the double-period
	// entries whose second half consumes that slot. Rendering-only: the
	// conflict checker derives the same occupancy independently.
	DoubleOccupancy map[models.Weekday]map[string][]models.TimetableEntryDetail `json:"double_occupancy"`
}

// BuildGrid is a pure function of the committed entry set: the same entries
// always produce the same grid. A double period marks the following catalog
// period as consumed unless that period is a break.
func BuildGrid(catalog *Catalog, entries []models.TimetableEntryDetail) Grid {
	grid := Grid{
		Cells:           make(map[models.Weekday]map[string][]models.TimetableEntryDetail),
		DoubleOccupancy: make(map[models.Weekday]map[string][]models.TimetableEntryDetail),
	}

	for _, entry := range entries {
		if _, ok := grid.Cells[entry.Weekday]; !ok {
			grid.Cells[entry.Weekday] = make(map[string][]models.TimetableEntryDetail)
			grid.DoubleOccupancy[entry.Weekday] = make(map[string][]models.TimetableEntryDetail)
		}
		grid.Cells[entry.Weekday][entry.PeriodID] = append(grid.Cells[entry.Weekday][entry.PeriodID], entry)

		if !entry.IsDouble {
			continue
		}
		next, ok := catalog.Next(entry.PeriodID)
		if !ok || next.IsBreak {
			continue
		}
		grid.DoubleOccupancy[entry.Weekday][next.ID] = append(grid.DoubleOccupancy[entry.Weekday][next.ID], entry)
	}

	return grid
}

// ScheduledPeriods tallies how many periods each subject currently occupies
// on the timetable. Double periods count as two.
func ScheduledPeriods(entries []models.TimetableEntryDetail) map[string]int {
	tally := make(map[string]int)
	for _, entry := range entries {
		periods := 1
		if entry.IsDouble {
			periods = 2
		}
		tally[entry.SubjectID] += periods
	}
	return tally
}
