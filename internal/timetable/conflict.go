package timetable

import (
	"fmt"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
)

// Reason classifies why a placement was rejected. Every reason is a
// user-correctable validation outcome, not a system fault.
type Reason string

const (
	ReasonMissingClassContext            Reason = "MISSING_CLASS_CONTEXT"
	ReasonNoNextPeriodForDouble          Reason = "NO_NEXT_PERIOD_FOR_DOUBLE"
	ReasonSubjectAlreadyScheduled        Reason = "SUBJECT_ALREADY_SCHEDULED"
	ReasonPeriodOccupiedByDoublePeriod   Reason = "PERIOD_OCCUPIED_BY_DOUBLE_PERIOD"
	ReasonTeacherConflict                Reason = "TEACHER_CONFLICT"
	ReasonRoomConflict                   Reason = "ROOM_CONFLICT"
	ReasonCombinedLessonTeacherConflict  Reason = "COMBINED_LESSON_TEACHER_CONFLICT"
	ReasonCombinedLessonDurationMismatch Reason = "COMBINED_LESSON_DURATION_MISMATCH"
)

// Conflict describes the first constraint a candidate placement violates.
// It is returned as a value and carries enough context for a human-readable
// message.
type Conflict struct {
	Reason     Reason    `json:"reason"`
	Message    string    `json:"message"`
	Period     PeriodRef `json:"period"`
	OtherClass string    `json:"other_class,omitempty"`
}

// Error implements the error interface.
func (c *Conflict) Error() string {
	if c == nil {
		return "<nil>"
	}
	return c.Message
}

// Candidate is a proposed placement awaiting admission into the timetable.
type Candidate struct {
	ClassID     string
	SubjectID   string
	TeacherID   string
	PeriodID    string
	Weekday     models.Weekday
	IsDouble    bool
	ClassroomID string
	// ExcludeEntryID names the entry being edited, so it never conflicts
	// with itself. Empty for new placements.
	ExcludeEntryID string
}

// Checker decides whether a candidate placement may enter the timetable.
// It is pure: all state arrives through the catalog and the slot index.
type Checker struct {
	catalog *Catalog
}

// NewChecker builds a checker over the given period catalog.
func NewChecker(catalog *Catalog) *Checker {
	return &Checker{catalog: catalog}
}

// Validate runs the admission checks in a fixed, first-match-wins order and
// returns the first conflict found, or nil when the placement is admissible.
func (ch *Checker) Validate(cand Candidate, idx *SlotIndex) *Conflict {
	if cand.ClassID == "" {
		return &Conflict{
			Reason:  ReasonMissingClassContext,
			Message: "placement carries no class context",
		}
	}

	periods := []string{cand.PeriodID}
	if cand.IsDouble {
		next, ok := ch.catalog.Next(cand.PeriodID)
		if !ok || next.IsBreak {
			return &Conflict{
				Reason:  ReasonNoNextPeriodForDouble,
				Message: "no teaching period follows the selected period, a double period cannot start here",
				Period:  ch.catalog.Ref(cand.PeriodID),
			}
		}
		periods = append(periods, next.ID)
	}

	primaryOccupied := len(idx.PrimarySlotEntries(cand.PeriodID, cand.ExcludeEntryID)) > 0

	for _, pk := range periods {
		if c := ch.checkSubjectDuplication(cand, idx, pk); c != nil {
			return c
		}
		// A slot already shared by combined lessons may receive another
		// combined entry even when a double period elsewhere claims it.
		if !primaryOccupied {
			if c := ch.checkDoubleContinuation(cand, idx, pk); c != nil {
				return c
			}
		}
		if c := ch.checkTeacherBusy(cand, idx, pk); c != nil {
			return c
		}
		if c := ch.checkRoomBusy(cand, idx, pk); c != nil {
			return c
		}
	}

	return ch.checkCombinedCompatibility(cand, idx)
}

func (ch *Checker) checkSubjectDuplication(cand Candidate, idx *SlotIndex, periodID string) *Conflict {
	for _, e := range idx.ClassDay {
		if e.ID == cand.ExcludeEntryID {
			continue
		}
		if e.SubjectID == cand.SubjectID && e.PeriodID == periodID {
			return &Conflict{
				Reason:  ReasonSubjectAlreadyScheduled,
				Message: fmt.Sprintf("%s is already scheduled at %s on %s", e.SubjectName, e.PeriodName, cand.Weekday),
				Period:  ch.catalog.Ref(periodID),
			}
		}
	}
	return nil
}

func (ch *Checker) checkDoubleContinuation(cand Candidate, idx *SlotIndex, periodID string) *Conflict {
	for _, e := range idx.ClassDay {
		if e.ID == cand.ExcludeEntryID || !e.IsDouble {
			continue
		}
		next, ok := ch.catalog.Next(e.PeriodID)
		if !ok || next.ID != periodID {
			continue
		}
		return &Conflict{
			Reason:  ReasonPeriodOccupiedByDoublePeriod,
			Message: fmt.Sprintf("%s is consumed by the %s double period starting at %s", next.Name, e.SubjectName, e.PeriodName),
			Period:  PeriodRef{ID: next.ID, Name: next.Name},
		}
	}
	return nil
}

func (ch *Checker) checkTeacherBusy(cand Candidate, idx *SlotIndex, periodID string) *Conflict {
	for _, e := range idx.TeacherDay {
		if e.ID == cand.ExcludeEntryID {
			continue
		}
		if e.PeriodID == periodID && e.ClassID != cand.ClassID {
			return &Conflict{
				Reason:     ReasonTeacherConflict,
				Message:    fmt.Sprintf("teacher already teaches %s at %s on %s", e.ClassName, e.PeriodName, cand.Weekday),
				Period:     ch.catalog.Ref(periodID),
				OtherClass: e.ClassName,
			}
		}
	}
	return nil
}

func (ch *Checker) checkRoomBusy(cand Candidate, idx *SlotIndex, periodID string) *Conflict {
	if cand.ClassroomID == "" {
		return nil
	}
	for _, e := range idx.RoomDay {
		if e.ID == cand.ExcludeEntryID {
			continue
		}
		if e.PeriodID == periodID && e.ClassID != cand.ClassID {
			return &Conflict{
				Reason:     ReasonRoomConflict,
				Message:    fmt.Sprintf("room is taken by %s at %s on %s", e.ClassName, e.PeriodName, cand.Weekday),
				Period:     ch.catalog.Ref(periodID),
				OtherClass: e.ClassName,
			}
		}
	}
	return nil
}

// checkCombinedCompatibility vets the candidate against lessons already
// sharing its start slot: concurrent groups must have pairwise-distinct
// teachers and identical durations.
func (ch *Checker) checkCombinedCompatibility(cand Candidate, idx *SlotIndex) *Conflict {
	shared := idx.PrimarySlotEntries(cand.PeriodID, cand.ExcludeEntryID)
	for _, e := range shared {
		if e.TeacherID == cand.TeacherID {
			return &Conflict{
				Reason:  ReasonCombinedLessonTeacherConflict,
				Message: fmt.Sprintf("teacher already runs %s in this slot, combined lessons need distinct teachers", e.SubjectName),
				Period:  ch.catalog.Ref(cand.PeriodID),
			}
		}
	}
	for _, e := range shared {
		if e.IsDouble != cand.IsDouble {
			return &Conflict{
				Reason:  ReasonCombinedLessonDurationMismatch,
				Message: "all lessons sharing a slot must have the same duration",
				Period:  ch.catalog.Ref(cand.PeriodID),
			}
		}
	}
	return nil
}
