package dto

import (
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// QueryResponse answers a timetable query. Kind selects which fields are set:
// "timetable" fills Student, Timetable and FreeSlots; "disambiguation" fills Candidates.
type QueryResponse struct {
	Kind       models.QueryKind                `json:"kind"`
	Term       models.Term                     `json:"term"`
	Terms      []models.TermOption             `json:"terms"`
	Student    *models.Student                 `json:"student,omitempty"`
	Timetable  *models.Timetable               `json:"timetable,omitempty"`
	FreeSlots  *models.FreeSlotFacts           `json:"free_slots,omitempty"`
	Candidates []models.StudentWithAffiliation `json:"candidates,omitempty"`
}

// ClassmatesResponse lists the roster of a section.
type ClassmatesResponse struct {
	Term         models.Term                     `json:"term"`
	Section      models.SectionMeta              `json:"section"`
	StudentCount int                             `json:"student_count"`
	Students     []models.StudentWithAffiliation `json:"students"`
}

// CalendarExportRequest asks for a student's calendar document.
type CalendarExportRequest struct {
	ID       string `json:"id" form:"id" validate:"required,max=64"`
	Semester string `json:"semester" form:"semester" validate:"omitempty,term"`
}

// CalendarExportResponse describes a stored calendar document, or the
// candidates to choose from when a name is ambiguous.
type CalendarExportResponse struct {
	Kind       models.QueryKind                `json:"kind"`
	Term       models.Term                     `json:"term"`
	Key        string                          `json:"key,omitempty"`
	URL        string                          `json:"url,omitempty"`
	Student    *models.Student                 `json:"student,omitempty"`
	EventCount int                             `json:"event_count"`
	Events     []models.CalendarEvent          `json:"events,omitempty"`
	Candidates []models.StudentWithAffiliation `json:"candidates,omitempty"`
}

// TermsResponse is the term selector.
type TermsResponse struct {
	Current models.Term         `json:"current"`
	Terms   []models.TermOption `json:"terms"`
}
