package models

// UnknownAffiliation is returned for any affiliation fact that cannot be derived.
const UnknownAffiliation = "Unknown"

// Student is a learner as recorded in one term partition of the directory.
type Student struct {
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// StudentRecord is a student together with the sections they are enrolled in.
type StudentRecord struct {
	Student
	SectionIDs []string `json:"section_ids"`
}

// Affiliation holds facts derived from the structure of a student code.
type Affiliation struct {
	Faculty      string `json:"faculty"`
	Major        string `json:"major"`
	ClassSection string `json:"class_section"`
}

// StudentWithAffiliation is a roster or disambiguation entry.
type StudentWithAffiliation struct {
	Student
	Affiliation
}

// PrefixEntry maps an enrollment/major code prefix to names.
type PrefixEntry struct {
	Prefix  string `db:"prefix" json:"prefix"`
	Faculty string `db:"faculty" json:"faculty"`
	Major   string `db:"major" json:"major"`
}
