package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestQueryServiceNameAndCodeAreEquivalent(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)
	seedZhangSan(f)

	byName, err := f.query.Resolve(context.Background(), "张三", testTerm)
	require.NoError(t, err)
	byCode, err := f.query.Resolve(context.Background(), "20231001XX01", testTerm)
	require.NoError(t, err)

	assert.Equal(t, models.QueryKindTimetable, byName.Kind)
	assert.Equal(t, byCode.Schedule.Student, byName.Schedule.Student)
	assert.Equal(t, byCode.Schedule.Timetable.All(), byName.Schedule.Timetable.All())
}

func TestQueryServiceReturnsDisambiguation(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)
	f.students.add(testTerm, "2023150101", "李雷", "CS101")
	f.students.add(testTerm, "2023160102", "李雷")

	result, err := f.query.Resolve(context.Background(), "李雷", testTerm)
	require.NoError(t, err)
	assert.Equal(t, models.QueryKindDisambiguation, result.Kind)
	assert.Nil(t, result.Schedule)
	assert.Len(t, result.Candidates, 2)
}

func TestQueryServiceFailures(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)

	_, err := f.query.Resolve(context.Background(), "无名氏", testTerm)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = f.query.Resolve(context.Background(), "2099000000", testTerm)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoStudent))
}

func TestQueryServiceFreeSlotsUnderLessonLayout(t *testing.T) {
	f := newFixture(t, timetable.LayoutLessons)
	f.students.add(testTerm, "2023150101", "韩梅梅", "LATE")
	f.sections.add(testTerm, models.SectionDetail{ID: "LATE", Name: "夜课", Weekday: 2, Period: 11, Duration: 2})

	result, err := f.query.Resolve(context.Background(), "2023150101", testTerm)
	require.NoError(t, err)
	facts := f.query.AnalyzeFreeSlots(result.Schedule.Timetable)
	assert.False(t, facts.Period6Free)
	assert.True(t, facts.Period5Free)
	assert.True(t, facts.WeekendFree)
}
