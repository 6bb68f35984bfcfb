package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeeks(t *testing.T) {
	cases := map[string][]int{
		"1-4":            {1, 2, 3, 4},
		"1–4":            {1, 2, 3, 4},
		"第1-4周":          {1, 2, 3, 4},
		"1,3,5":          {1, 3, 5},
		"1-3,6,8-9":      {1, 2, 3, 6, 8, 9},
		"1-8(单)":         {1, 3, 5, 7},
		"2-8双周":          {2, 4, 6, 8},
		"odd weeks 1-15": {1, 3, 5, 7, 9, 11, 13, 15},
		"weeks 3 - 5":    {3, 4, 5},
		"5, 1, 3, 1":     {1, 3, 5},
		"1至3":            {1, 2, 3},
	}
	for descriptor, want := range cases {
		got, err := ParseWeeks(descriptor, 20)
		require.NoError(t, err, descriptor)
		assert.Equal(t, want, got, descriptor)
	}
}

func TestParseWeeksOpenEndedParity(t *testing.T) {
	got, err := ParseWeeks("odd weeks", 8)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5, 7}, got)

	got, err = ParseWeeks("双", 6)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, got)

	got, err = ParseWeeks("", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestParseWeeksErrors(t *testing.T) {
	for _, descriptor := range []string{"5-1", "0-3", "1-2-3", "61", "even 1-1"} {
		_, err := ParseWeeks(descriptor, 20)
		assert.Error(t, err, descriptor)
	}
}

func TestWithinTermClampsToTermLength(t *testing.T) {
	weeks, err := ParseWeeks("1-30", 20)
	require.NoError(t, err)

	inside, beyond := WithinTerm(weeks, 20)
	require.Len(t, inside, 20)
	assert.Equal(t, 1, inside[0])
	assert.Equal(t, 20, inside[19])
	assert.Equal(t, []int{21, 22, 23, 24, 25, 26, 27, 28, 29, 30}, beyond)

	inside, beyond = WithinTerm([]int{1, 3, 5}, 18)
	assert.Equal(t, []int{1, 3, 5}, inside)
	assert.Empty(t, beyond)

	inside, beyond = WithinTerm([]int{19, 21}, 18)
	assert.Empty(t, inside)
	assert.Equal(t, []int{19, 21}, beyond)
}

func TestPlanRecurrence(t *testing.T) {
	odd := PlanRecurrence([]int{1, 3, 5, 7, 9, 11, 13, 15})
	assert.Equal(t, Recurrence{FirstWeek: 1, Interval: 2, Count: 8}, odd)

	contiguous := PlanRecurrence([]int{2, 3, 4, 5})
	assert.Equal(t, Recurrence{FirstWeek: 2, Interval: 1, Count: 4}, contiguous)

	single := PlanRecurrence([]int{7})
	assert.Equal(t, Recurrence{FirstWeek: 7, Interval: 1, Count: 1}, single)

	irregular := PlanRecurrence([]int{1, 2, 3, 6, 8, 9})
	assert.Equal(t, 1, irregular.FirstWeek)
	assert.Equal(t, 1, irregular.Interval)
	assert.Equal(t, 9, irregular.Count)
	assert.Equal(t, []int{4, 5, 7}, irregular.Excluded)
	assert.Equal(t, 6, irregular.Count-len(irregular.Excluded))
}
