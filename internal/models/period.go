package models

import "time"

// Period is one ordered slot in the daily teaching schedule. Break periods
// (assembly, lunch) occupy a position in the sequence but carry no lessons.
type Period struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Order     int       `db:"sort_order" json:"order"`
	IsBreak   bool      `db:"is_break" json:"is_break"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
