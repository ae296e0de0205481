package models

import "time"

// TimetableEntry is a committed placement: a class-subject pairing taught at
// a weekday/period, optionally in a specific room. A double entry also
// occupies the next period in catalog order; that second slot is derived,
// never stored.
type TimetableEntry struct {
	ID             string    `db:"id" json:"id"`
	ClassSubjectID string    `db:"class_subject_id" json:"class_subject_id"`
	PeriodID       string    `db:"period_id" json:"period_id"`
	Weekday        Weekday   `db:"weekday" json:"weekday"`
	IsDouble       bool      `db:"is_double" json:"is_double"`
	ClassroomID    *string   `db:"classroom_id" json:"classroom_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableEntryDetail is the read model the engine validates against: an
// entry joined with its class-subject pairing, period and room.
type TimetableEntryDetail struct {
	TimetableEntry
	ClassID       string  `db:"class_id" json:"class_id"`
	ClassName     string  `db:"class_name" json:"class_name"`
	SubjectID     string  `db:"subject_id" json:"subject_id"`
	SubjectName   string  `db:"subject_name" json:"subject_name"`
	TeacherID     string  `db:"teacher_id" json:"teacher_id"`
	TeacherName   string  `db:"teacher_name" json:"teacher_name"`
	PeriodName    string  `db:"period_name" json:"period_name"`
	PeriodOrder   int     `db:"period_order" json:"period_order"`
	ClassroomName *string `db:"classroom_name" json:"classroom_name,omitempty"`
}
