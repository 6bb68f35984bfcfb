package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// TermEntry declares one selectable academic term.
type TermEntry struct {
	// ID uses the display form, e.g. "2023-2024-1".
	ID string `yaml:"id"`
	// StartDate is the first teaching day of week 1 (YYYY-MM-DD).
	StartDate string `yaml:"start_date"`
	// Weeks is the number of teaching weeks; used to expand open-ended
	// odd/even week descriptors.
	Weeks int `yaml:"weeks"`
}

// LessonTime is the wall clock span of a single lesson (HH:MM).
type LessonTime struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// TermCatalogFile is the on-disk term catalog.
type TermCatalogFile struct {
	Default string       `yaml:"default"`
	Terms   []TermEntry  `yaml:"terms"`
	Lessons []LessonTime `yaml:"lessons"`
}

// DefaultTermCatalog returns the built-in catalog used when no file is present.
func DefaultTermCatalog() *TermCatalogFile {
	return &TermCatalogFile{
		Default: "2024-2025-1",
		Terms: []TermEntry{
			{ID: "2023-2024-1", StartDate: "2023-09-04", Weeks: 20},
			{ID: "2023-2024-2", StartDate: "2024-02-26", Weeks: 20},
			{ID: "2023-2024-3", StartDate: "2024-07-08", Weeks: 6},
			{ID: "2024-2025-1", StartDate: "2024-09-02", Weeks: 20},
		},
		Lessons: DefaultLessonTimes(),
	}
}

// DefaultLessonTimes is the standard twelve-lesson day.
func DefaultLessonTimes() []LessonTime {
	return []LessonTime{
		{Start: "08:00", End: "08:45"},
		{Start: "08:50", End: "09:35"},
		{Start: "10:05", End: "10:50"},
		{Start: "10:55", End: "11:40"},
		{Start: "14:00", End: "14:45"},
		{Start: "14:50", End: "15:35"},
		{Start: "16:05", End: "16:50"},
		{Start: "16:55", End: "17:40"},
		{Start: "18:40", End: "19:25"},
		{Start: "19:30", End: "20:15"},
		{Start: "20:20", End: "21:05"},
		{Start: "21:10", End: "21:55"},
	}
}

// Normalize fills missing values from the defaults.
func (c *TermCatalogFile) Normalize() {
	if len(c.Lessons) == 0 {
		c.Lessons = DefaultLessonTimes()
	}
	for i := range c.Terms {
		if c.Terms[i].Weeks <= 0 {
			c.Terms[i].Weeks = 20
		}
	}
	if c.Default == "" && len(c.Terms) > 0 {
		c.Default = c.Terms[len(c.Terms)-1].ID
	}
}

// LoadTermCatalog reads the YAML catalog at path. A missing file yields the
// built-in catalog.
func LoadTermCatalog(path string) (*TermCatalogFile, error) {
	if path == "" {
		return DefaultTermCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultTermCatalog(), nil
		}
		return nil, fmt.Errorf("read term catalog: %w", err)
	}

	var catalog TermCatalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse term catalog: %w", err)
	}
	if len(catalog.Terms) == 0 {
		return nil, errors.New("term catalog declares no terms")
	}
	catalog.Normalize()
	return &catalog, nil
}
