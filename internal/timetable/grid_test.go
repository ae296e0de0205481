package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
)

func TestBuildGridPlacesEntriesAndContinuations(t *testing.T) {
	catalog := NewCatalog(testPeriods())
	entries := []models.TimetableEntryDetail{
		makeEntry(entrySpec{id: "e1", classID: "1a", className: "1A", subjectID: "math", subject: "Mathematics", teacherID: "t1", periodID: "p1"}),
		makeEntry(entrySpec{id: "e2", classID: "1a", className: "1A", subjectID: "eng", subject: "English", teacherID: "t2", periodID: "p3", isDouble: true}),
	}

	grid := BuildGrid(catalog, entries)

	require.Contains(t, grid.Cells, models.Monday)
	assert.Len(t, grid.Cells[models.Monday]["p1"], 1)
	assert.Equal(t, "e1", grid.Cells[models.Monday]["p1"][0].ID)

	// the double at p3 consumes p4
	require.Len(t, grid.DoubleOccupancy[models.Monday]["p4"], 1)
	assert.Equal(t, "e2", grid.DoubleOccupancy[models.Monday]["p4"][0].ID)
}

func TestBuildGridDoubleIntoBreakLeavesNoContinuation(t *testing.T) {
	catalog := NewCatalog(testPeriods())
	entries := []models.TimetableEntryDetail{
		// p2 is followed by the break; tolerated for display, no marker
		makeEntry(entrySpec{id: "e1", classID: "1a", className: "1A", subjectID: "eng", subject: "English", teacherID: "t1", periodID: "p2", isDouble: true}),
	}

	grid := BuildGrid(catalog, entries)

	assert.Len(t, grid.Cells[models.Monday]["p2"], 1)
	assert.Empty(t, grid.DoubleOccupancy[models.Monday]["break"])
}

func TestBuildGridSupportsCombinedLessons(t *testing.T) {
	catalog := NewCatalog(testPeriods())
	entries := []models.TimetableEntryDetail{
		makeEntry(entrySpec{id: "e1", classID: "1a", className: "1A", subjectID: "gov", subject: "Government", teacherID: "ty", periodID: "p3"}),
		makeEntry(entrySpec{id: "e2", classID: "1a", className: "1A", subjectID: "hist", subject: "History", teacherID: "tz", periodID: "p3"}),
	}

	grid := BuildGrid(catalog, entries)
	assert.Len(t, grid.Cells[models.Monday]["p3"], 2)
}

func TestBuildGridIsDeterministic(t *testing.T) {
	catalog := NewCatalog(testPeriods())
	entries := []models.TimetableEntryDetail{
		makeEntry(entrySpec{id: "e1", classID: "1a", className: "1A", subjectID: "math", subject: "Mathematics", teacherID: "t1", periodID: "p1"}),
		makeEntry(entrySpec{id: "e2", classID: "1a", className: "1A", subjectID: "eng", subject: "English", teacherID: "t2", periodID: "p3", isDouble: true}),
	}

	first := BuildGrid(catalog, entries)
	second := BuildGrid(catalog, entries)
	assert.Equal(t, first, second)
}

func TestScheduledPeriodsCountsDoublesTwice(t *testing.T) {
	entries := []models.TimetableEntryDetail{
		makeEntry(entrySpec{id: "e1", subjectID: "math", periodID: "p1"}),
		makeEntry(entrySpec{id: "e2", subjectID: "math", periodID: "p3"}),
		makeEntry(entrySpec{id: "e3", subjectID: "eng", periodID: "p1", isDouble: true}),
	}

	tally := ScheduledPeriods(entries)
	assert.Equal(t, 2, tally["math"])
	assert.Equal(t, 2, tally["eng"])
}
