package timetable

import "github.com/noah-isme/sma-timetable-api/internal/models"

// AnalyzeFreeSlots derives free-time facts from a timetable. Each fact is an
// independent scan; the timetable is only read.
func AnalyzeFreeSlots(tt *models.Timetable, layout Layout) models.FreeSlotFacts {
	facts := models.FreeSlotFacts{WeekendFree: true, Period5Free: true, Period6Free: true}
	for _, key := range tt.Keys() {
		slot := layout.Slot(key.Period)
		if key.Weekday >= 6 && key.Weekday <= DaysPerWeek && slot >= 1 && slot <= SlotsPerDay {
			facts.WeekendFree = false
		}
		if key.Weekday < 1 || key.Weekday > DaysPerWeek {
			continue
		}
		switch slot {
		case 5:
			facts.Period5Free = false
		case 6:
			facts.Period6Free = false
		}
	}
	return facts
}
