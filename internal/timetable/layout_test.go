package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLessonRange(t *testing.T) {
	cases := []struct {
		layout           Layout
		period, duration int
		first, last      int
	}{
		{LayoutSlots, 1, 2, 1, 2},
		{LayoutSlots, 6, 2, 11, 12},
		{LayoutSlots, 5, 3, 9, 11},
		{LayoutSlots, 3, 0, 5, 6},
		{LayoutSlots, 6, 4, 11, 12},
		{LayoutLessons, 11, 1, 11, 11},
		{LayoutLessons, 3, 2, 3, 4},
		{LayoutLessons, 7, 0, 7, 7},
	}
	for _, tc := range cases {
		first, last := tc.layout.LessonRange(tc.period, tc.duration)
		assert.Equal(t, tc.first, first, "%+v", tc)
		assert.Equal(t, tc.last, last, "%+v", tc)
	}
}

func TestValidateSlot(t *testing.T) {
	assert.NoError(t, LayoutSlots.ValidateSlot(1, 6))
	assert.Error(t, LayoutSlots.ValidateSlot(1, 7))
	assert.NoError(t, LayoutLessons.ValidateSlot(7, 12))
	assert.Error(t, LayoutLessons.ValidateSlot(0, 1))
	assert.Error(t, LayoutLessons.ValidateSlot(8, 1))
}

func TestParseLayout(t *testing.T) {
	assert.Equal(t, LayoutLessons, ParseLayout("lessons"))
	assert.Equal(t, LayoutSlots, ParseLayout("anything"))
	assert.Equal(t, 2, LayoutLessons.Slot(3))
	assert.Equal(t, 6, LayoutLessons.Slot(12))
	assert.Equal(t, 4, LayoutSlots.Slot(4))
}
