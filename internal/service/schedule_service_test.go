package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func models2324Second() models.Term {
	return models.Term{StartYear: 2023, EndYear: 2024, Number: 2}
}

func seedZhangSan(f *fixture) {
	f.students.add(testTerm, "20231001XX01", "张三", "CS101")
	f.sections.add(testTerm, models.SectionDetail{
		ID: "CS101", Name: "数据结构", Weekday: 1, Period: 1, Teacher: "王老师",
		Duration: 2, Weeks: "1-16", Location: "教一101",
	}, "20231001XX01")
}

func TestScheduleServiceByStudentSingleSection(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)
	seedZhangSan(f)

	schedule, err := f.schedule.ByStudent(context.Background(), "20231001XX01", testTerm)
	require.NoError(t, err)
	assert.Equal(t, "张三", schedule.Student.Name)
	assert.Equal(t, testTerm, schedule.Term)
	assert.Equal(t, []models.SlotKey{{Weekday: 1, Period: 1}}, schedule.Timetable.Keys())
	assert.Equal(t, 1, schedule.Timetable.Len())

	facts := f.query.AnalyzeFreeSlots(schedule.Timetable)
	assert.True(t, facts.WeekendFree)
	assert.True(t, facts.Period5Free)
	assert.True(t, facts.Period6Free)
}

func TestScheduleServiceByStudentGroupsBySlot(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)
	f.students.add(testTerm, "2023150101", "韩梅梅", "A", "B", "C", "D", "E")
	f.sections.add(testTerm, models.SectionDetail{ID: "A", Name: "高数", Weekday: 2, Period: 3})
	f.sections.add(testTerm, models.SectionDetail{ID: "B", Name: "选修甲", Weekday: 6, Period: 5})
	f.sections.add(testTerm, models.SectionDetail{ID: "C", Name: "选修乙", Weekday: 6, Period: 5})
	f.sections.add(testTerm, models.SectionDetail{ID: "D", Name: "坏数据", Weekday: 9, Period: 1})

	schedule, err := f.schedule.ByStudent(context.Background(), "2023150101", testTerm)
	require.NoError(t, err)

	tt := schedule.Timetable
	assert.Equal(t, 3, tt.Len())
	for _, key := range tt.Keys() {
		for _, section := range tt.Sections(key) {
			assert.Equal(t, key, section.Key())
		}
	}
	overlap := tt.Sections(models.SlotKey{Weekday: 6, Period: 5})
	require.Len(t, overlap, 2)
	assert.Equal(t, "B", overlap[0].ID)
	assert.Equal(t, "C", overlap[1].ID)

	facts := f.query.AnalyzeFreeSlots(tt)
	assert.False(t, facts.WeekendFree)
	assert.False(t, facts.Period5Free)
	assert.True(t, facts.Period6Free)
}

func TestScheduleServiceByStudentIsTermScoped(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)
	seedZhangSan(f)

	_, err := f.schedule.ByStudent(context.Background(), "20231001XX01", models2324Second())
	assert.True(t, appErrors.Is(err, appErrors.ErrNoStudent))
}

func TestScheduleServiceByStudentDirectoryFailure(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)
	seedZhangSan(f)
	f.sections.err = errors.New("timeout")

	_, err := f.schedule.ByStudent(context.Background(), "20231001XX01", testTerm)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestScheduleServiceListClassmates(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)
	f.students.add(testTerm, "2023160102", "李雷")
	f.students.add(testTerm, "2023150101", "韩梅梅")
	f.sections.add(testTerm, models.SectionDetail{
		ID: "MA201", Name: "线性代数", Weekday: 3, Period: 2, Teacher: "赵老师", Duration: 2,
	}, "2023160102", "2023150101", "2023159999")

	classmates, err := f.schedule.ListClassmates(context.Background(), "MA201", testTerm)
	require.NoError(t, err)
	assert.Equal(t, "线性代数", classmates.Section.Name)
	assert.Equal(t, "星期三", classmates.Section.DayLabel)
	assert.Equal(t, "第3-4节", classmates.Section.TimeLabel)
	require.Len(t, classmates.Students, 3)
	assert.Equal(t, "李雷", classmates.Students[0].Name)
	assert.Equal(t, "1601", classmates.Students[0].ClassSection)
	assert.Equal(t, "韩梅梅", classmates.Students[1].Name)
	assert.Equal(t, "2023159999", classmates.Students[2].Code)
	assert.Empty(t, classmates.Students[2].Name)
}

func TestScheduleServiceListClassmatesEmptyRosterIsNoStudent(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)
	f.sections.add(testTerm, models.SectionDetail{ID: "CS101", Name: "数据结构", Weekday: 1, Period: 1})

	_, err := f.schedule.ListClassmates(context.Background(), "CS101", testTerm)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoStudent))
	assert.False(t, appErrors.Is(err, appErrors.ErrNoClass))
}

func TestScheduleServiceListClassmatesUnknownSectionIsNoClass(t *testing.T) {
	f := newFixture(t, timetable.LayoutSlots)

	_, err := f.schedule.ListClassmates(context.Background(), "CS999", testTerm)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoClass))

	_, err = f.schedule.ListClassmates(context.Background(), "", testTerm)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
