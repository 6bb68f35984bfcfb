package timetable

import "fmt"

var dayLabels = [...]string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日"}

// DayLabel names a weekday (1 = Monday).
func DayLabel(weekday int) string {
	if weekday < 1 || weekday > DaysPerWeek {
		return "未知"
	}
	return dayLabels[weekday-1]
}

// PeriodLabel names the lessons a period covers, e.g. "第1-2节".
func PeriodLabel(layout Layout, period, duration int) string {
	if period < 1 || period > layout.MaxPeriod() {
		return "未知"
	}
	first, last := layout.LessonRange(period, duration)
	if first == last {
		return fmt.Sprintf("第%d节", first)
	}
	return fmt.Sprintf("第%d-%d节", first, last)
}
