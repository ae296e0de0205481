package models

// Weekday identifies a teaching day. The timetable covers Monday through
// Friday only.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
}

// Weekdays lists all teaching days in order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// Valid reports whether the value is a teaching day.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Friday
}

// String returns the English day name, or "Unknown" for out-of-range values.
func (w Weekday) String() string {
	if name, ok := weekdayNames[w]; ok {
		return name
	}
	return "Unknown"
}
