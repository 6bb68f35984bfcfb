package models

import (
	"encoding/json"
	"sort"
)

// SlotKey addresses one cell of the weekly grid.
type SlotKey struct {
	Weekday int `json:"weekday"`
	Period  int `json:"period"`
}

// Less orders keys by weekday, then period.
func (k SlotKey) Less(other SlotKey) bool {
	if k.Weekday != other.Weekday {
		return k.Weekday < other.Weekday
	}
	return k.Period < other.Period
}

// Timetable maps slots to the sections occupying them. It is read-only once
// built; accessors hand out copies.
type Timetable struct {
	slots map[SlotKey][]SectionDetail
	keys  []SlotKey
	count int
}

// NewTimetable files every section under its own (weekday, period) key,
// preserving input order within a slot.
func NewTimetable(sections []SectionDetail) *Timetable {
	tt := &Timetable{slots: make(map[SlotKey][]SectionDetail)}
	for _, section := range sections {
		key := section.Key()
		if _, ok := tt.slots[key]; !ok {
			tt.keys = append(tt.keys, key)
		}
		tt.slots[key] = append(tt.slots[key], section)
		tt.count++
	}
	sort.Slice(tt.keys, func(i, j int) bool { return tt.keys[i].Less(tt.keys[j]) })
	return tt
}

// Keys returns occupied slots in weekday/period order.
func (t *Timetable) Keys() []SlotKey {
	if t == nil {
		return nil
	}
	out := make([]SlotKey, len(t.keys))
	copy(out, t.keys)
	return out
}

// Has reports whether any section occupies the slot.
func (t *Timetable) Has(key SlotKey) bool {
	if t == nil {
		return false
	}
	return len(t.slots[key]) > 0
}

// Sections returns the sections filed under key.
func (t *Timetable) Sections(key SlotKey) []SectionDetail {
	if t == nil {
		return nil
	}
	src := t.slots[key]
	if len(src) == 0 {
		return nil
	}
	out := make([]SectionDetail, len(src))
	copy(out, src)
	return out
}

// Len is the total number of section placements.
func (t *Timetable) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}

// All returns every section in slot order.
func (t *Timetable) All() []SectionDetail {
	if t == nil {
		return nil
	}
	out := make([]SectionDetail, 0, t.count)
	for _, key := range t.keys {
		out = append(out, t.slots[key]...)
	}
	return out
}

// TimetableSlot is the serialized form of one occupied cell.
type TimetableSlot struct {
	SlotKey
	Sections []SectionDetail `json:"sections"`
}

// MarshalJSON renders the timetable as an ordered list of slots.
func (t *Timetable) MarshalJSON() ([]byte, error) {
	slots := make([]TimetableSlot, 0, len(t.Keys()))
	for _, key := range t.Keys() {
		slots = append(slots, TimetableSlot{SlotKey: key, Sections: t.Sections(key)})
	}
	return json.Marshal(slots)
}

// FreeSlotFacts are derived from a timetable on demand.
type FreeSlotFacts struct {
	WeekendFree bool `json:"weekend_free"`
	Period5Free bool `json:"period5_free"`
	Period6Free bool `json:"period6_free"`
}
