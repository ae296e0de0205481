package timetable

import "github.com/mensah-labs/shs-timetable-api/internal/models"

// SlotIndex is a per-validation snapshot of the committed entries a
// candidate placement can collide with: the class's day, the teacher's day
// and, when a room is requested, the room's day. It is assembled once per
// call and never cached across calls.
type SlotIndex struct {
	// ClassDay holds the candidate class's entries for the candidate weekday.
	ClassDay []models.TimetableEntryDetail
	// TeacherDay holds the candidate teacher's entries for the weekday,
	// across all classes.
	TeacherDay []models.TimetableEntryDetail
	// RoomDay holds the requested classroom's entries for the weekday,
	// across all classes. Empty when the candidate names no room.
	RoomDay []models.TimetableEntryDetail
}

// PrimarySlotEntries returns the class's entries sitting exactly at the
// candidate's start period, excluding the entry being edited. A non-empty
// result marks the slot as a combined-lesson slot.
func (idx *SlotIndex) PrimarySlotEntries(periodID, excludeEntryID string) []models.TimetableEntryDetail {
	var out []models.TimetableEntryDetail
	for _, e := range idx.ClassDay {
		if e.ID == excludeEntryID {
			continue
		}
		if e.PeriodID == periodID {
			out = append(out, e)
		}
	}
	return out
}
