package timetable

import (
	"fmt"
	"time"

	"github.com/noah-isme/sma-timetable-api/pkg/config"
)

// Clock maps lessons to wall clock offsets from midnight.
type Clock struct {
	starts []time.Duration
	ends   []time.Duration
}

// NewClock builds a Clock from configured lesson times. It needs one entry
// per lesson of the day.
func NewClock(lessons []config.LessonTime) (*Clock, error) {
	if len(lessons) < LessonsPerDay {
		return nil, fmt.Errorf("lesson table has %d entries, need %d", len(lessons), LessonsPerDay)
	}
	c := &Clock{
		starts: make([]time.Duration, LessonsPerDay),
		ends:   make([]time.Duration, LessonsPerDay),
	}
	for i := 0; i < LessonsPerDay; i++ {
		start, err := parseClock(lessons[i].Start)
		if err != nil {
			return nil, fmt.Errorf("lesson %d start: %w", i+1, err)
		}
		end, err := parseClock(lessons[i].End)
		if err != nil {
			return nil, fmt.Errorf("lesson %d end: %w", i+1, err)
		}
		if end <= start {
			return nil, fmt.Errorf("lesson %d ends before it starts", i+1)
		}
		c.starts[i], c.ends[i] = start, end
	}
	return c, nil
}

// Span returns the start and end offsets of a section placed at period for
// duration lessons under layout.
func (c *Clock) Span(layout Layout, period, duration int) (time.Duration, time.Duration) {
	first, last := layout.LessonRange(period, duration)
	if first < 1 {
		first = 1
	}
	if first > LessonsPerDay {
		first = LessonsPerDay
	}
	if last < first {
		last = first
	}
	return c.starts[first-1], c.ends[last-1]
}

func parseClock(raw string) (time.Duration, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", raw)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
