package models

import "time"

// ClassSubject pairs a class with a subject and the single teacher of
// record. Timetable entries reference this mapping rather than storing a
// teacher themselves, so changing the teacher here relabels every existing
// entry for the pair.
type ClassSubject struct {
	ID             string    `db:"id" json:"id"`
	ClassID        string    `db:"class_id" json:"class_id"`
	SubjectID      string    `db:"subject_id" json:"subject_id"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	PeriodsPerWeek int       `db:"periods_per_week" json:"periods_per_week"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ClassSubjectDetail extends ClassSubject with display names and the number
// of periods currently placed on the timetable (doubles count as two).
type ClassSubjectDetail struct {
	ClassSubject
	SubjectName      string `db:"subject_name" json:"subject_name"`
	SubjectShortName string `db:"subject_short_name" json:"subject_short_name"`
	TeacherName      string `db:"teacher_name" json:"teacher_name"`
	ScheduledPeriods int    `db:"-" json:"scheduled_periods"`
}
