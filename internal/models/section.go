package models

// SectionDetail is a class section as stored in the directory.
type SectionDetail struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Weekday  int    `db:"weekday" json:"weekday"`
	Period   int    `db:"period" json:"period"`
	Teacher  string `db:"teacher" json:"teacher"`
	Duration int    `db:"duration" json:"duration"`
	Weeks    string `db:"weeks" json:"weeks"`
	Location string `db:"location" json:"location"`
}

// Key returns the timetable slot the section occupies.
func (s SectionDetail) Key() SlotKey {
	return SlotKey{Weekday: s.Weekday, Period: s.Period}
}

// SectionMeta describes a section on the classmates page.
type SectionMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Weekday   int    `json:"weekday"`
	Period    int    `json:"period"`
	Teacher   string `json:"teacher"`
	DayLabel  string `json:"day_label"`
	TimeLabel string `json:"time_label"`
}

// Classmates is the roster view of one section.
type Classmates struct {
	Term     Term                     `json:"term"`
	Section  SectionMeta              `json:"section"`
	Students []StudentWithAffiliation `json:"students"`
}
