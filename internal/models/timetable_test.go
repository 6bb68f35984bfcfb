package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimetableFilesSectionsUnderOwnKey(t *testing.T) {
	sections := []SectionDetail{
		{ID: "c", Name: "Physics", Weekday: 3, Period: 2},
		{ID: "a", Name: "Calculus", Weekday: 1, Period: 1},
		{ID: "b", Name: "Elective", Weekday: 1, Period: 1},
		{ID: "d", Name: "PE", Weekday: 1, Period: 4},
	}
	tt := NewTimetable(sections)

	assert.Equal(t, 4, tt.Len())
	assert.Equal(t, []SlotKey{{1, 1}, {1, 4}, {3, 2}}, tt.Keys())
	for _, key := range tt.Keys() {
		for _, s := range tt.Sections(key) {
			assert.Equal(t, key, SlotKey{Weekday: s.Weekday, Period: s.Period})
		}
	}
	overlap := tt.Sections(SlotKey{1, 1})
	require.Len(t, overlap, 2)
	assert.Equal(t, "a", overlap[0].ID)
	assert.Equal(t, "b", overlap[1].ID)
}

func TestTimetableAccessorsReturnCopies(t *testing.T) {
	tt := NewTimetable([]SectionDetail{{ID: "a", Weekday: 2, Period: 3}})

	got := tt.Sections(SlotKey{2, 3})
	got[0].ID = "mutated"
	keys := tt.Keys()
	keys[0] = SlotKey{7, 6}

	assert.Equal(t, "a", tt.Sections(SlotKey{2, 3})[0].ID)
	assert.True(t, tt.Has(SlotKey{2, 3}))
	assert.False(t, tt.Has(SlotKey{7, 6}))
}

func TestEmptyAndNilTimetable(t *testing.T) {
	var nilTT *Timetable
	assert.Equal(t, 0, nilTT.Len())
	assert.Nil(t, nilTT.Keys())

	empty := NewTimetable(nil)
	assert.Equal(t, 0, empty.Len())
	payload, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(payload))
}

func TestTimetableJSON(t *testing.T) {
	tt := NewTimetable([]SectionDetail{{ID: "a", Name: "Calculus", Weekday: 1, Period: 1, Duration: 2}})
	payload, err := json.Marshal(tt)
	require.NoError(t, err)

	var slots []TimetableSlot
	require.NoError(t, json.Unmarshal(payload, &slots))
	require.Len(t, slots, 1)
	assert.Equal(t, 1, slots[0].Weekday)
	assert.Equal(t, "Calculus", slots[0].Sections[0].Name)
}
