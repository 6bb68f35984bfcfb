package models

// QueryKind distinguishes the two successful outcomes of a query.
type QueryKind string

const (
	QueryKindTimetable      QueryKind = "timetable"
	QueryKindDisambiguation QueryKind = "disambiguation"
)

// Resolution is the outcome of resolving a raw identifier token.
// Exactly one of Code or Candidates is set.
type Resolution struct {
	Code       string
	Candidates []StudentWithAffiliation
}

// Ambiguous reports whether the caller must pick among candidates.
func (r Resolution) Ambiguous() bool {
	return len(r.Candidates) > 0
}

// StudentTimetable is a resolved student's schedule for one term.
type StudentTimetable struct {
	Term      Term       `json:"term"`
	Student   Student    `json:"student"`
	Timetable *Timetable `json:"timetable"`
}

// QueryResult is either a timetable or a disambiguation set.
type QueryResult struct {
	Kind       QueryKind                `json:"kind"`
	Schedule   *StudentTimetable        `json:"schedule,omitempty"`
	Candidates []StudentWithAffiliation `json:"candidates,omitempty"`
}
