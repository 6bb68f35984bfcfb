package models

import "time"

// CalendarEvent is one recurring event of an exported calendar.
type CalendarEvent struct {
	UID         string      `json:"uid"`
	SectionID   string      `json:"section_id"`
	Summary     string      `json:"summary"`
	Location    string      `json:"location"`
	Description string      `json:"description"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	RRule       string      `json:"rrule"`
	ExDates     []time.Time `json:"exdates,omitempty"`
	Weeks       []int       `json:"weeks"`
}

// CalendarDocument is an exported calendar persisted under Key.
type CalendarDocument struct {
	Key         string          `json:"key"`
	StudentCode string          `json:"student_code"`
	StudentName string          `json:"student_name"`
	Term        Term            `json:"term"`
	Events      []CalendarEvent `json:"events"`
	URL         string          `json:"url,omitempty"`
	Body        []byte          `json:"-"`
}
