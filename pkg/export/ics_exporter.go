package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

const (
	icsTimestampUTC   = "20060102T150405Z"
	icsTimestampLocal = "20060102T150405"
)

// Calendar is the content of one ICS document.
type Calendar struct {
	ProductID string
	Name      string
	// Timezone is an IANA zone name. Event times are written as wall-clock
	// times in this zone so recurrences keep their local time across DST.
	// Empty or "UTC" writes UTC timestamps.
	Timezone string
	// Stamp is written as DTSTAMP on every event.
	Stamp  time.Time
	Events []Event
}

// Event is one VEVENT. RRule holds the rule body without the "RRULE:" prefix.
type Event struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	RRule       string
	ExDates     []time.Time
}

// ICSExporter renders calendars in iCalendar format.
type ICSExporter struct{}

// NewICSExporter builds an ICS exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{}
}

// Render serializes the calendar with CRLF line endings. Output depends only
// on the input, so equal calendars produce identical bytes.
func (e *ICSExporter) Render(data Calendar) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if data.ProductID != "" {
		cal.SetProductId(data.ProductID)
	}
	if data.Name != "" {
		cal.SetXWRCalName(data.Name)
	}

	var loc *time.Location
	if data.Timezone != "" && data.Timezone != "UTC" {
		var err error
		loc, err = time.LoadLocation(data.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", data.Timezone, err)
		}
		cal.SetXWRTimezone(data.Timezone)
		addTimezone(cal, data.Timezone, loc, data.Events)
	} else if data.Timezone != "" {
		cal.SetXWRTimezone(data.Timezone)
	}

	for _, ev := range data.Events {
		if ev.UID == "" {
			return nil, fmt.Errorf("event %q has no uid", ev.Summary)
		}
		if !ev.End.After(ev.Start) {
			return nil, fmt.Errorf("event %s ends before it starts", ev.UID)
		}
		vevent := cal.AddEvent(ev.UID)
		vevent.SetDtStampTime(data.Stamp)
		if loc != nil {
			tzid := ical.WithTZID(data.Timezone)
			vevent.SetProperty(ical.ComponentPropertyDtStart, ev.Start.In(loc).Format(icsTimestampLocal), tzid)
			vevent.SetProperty(ical.ComponentPropertyDtEnd, ev.End.In(loc).Format(icsTimestampLocal), tzid)
		} else {
			vevent.SetStartAt(ev.Start)
			vevent.SetEndAt(ev.End)
		}
		vevent.SetSummary(ev.Summary)
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.RRule != "" {
			vevent.AddProperty(ical.ComponentPropertyRrule, ev.RRule)
		}
		for _, ex := range ev.ExDates {
			if loc != nil {
				vevent.AddProperty(ical.ComponentPropertyExdate, ex.In(loc).Format(icsTimestampLocal), ical.WithTZID(data.Timezone))
				continue
			}
			vevent.AddProperty(ical.ComponentPropertyExdate, ex.UTC().Format(icsTimestampUTC))
		}
	}

	return []byte(cal.Serialize(ical.WithNewLineWindows)), nil
}

// zoneShift is an offset change of a location, or its fixed offset when it
// has none.
type zoneShift struct {
	at         time.Time
	offsetFrom int
	offsetTo   int
	name       string
	dst        bool
}

// addTimezone writes a VTIMEZONE with the observances the location goes
// through from the start of the first event's year to the end of the year
// after the last one.
func addTimezone(cal *ical.Calendar, tzid string, loc *time.Location, events []Event) {
	vtz := cal.AddTimezone(tzid)

	var first, last time.Time
	for i, ev := range events {
		if i == 0 || ev.Start.Before(first) {
			first = ev.Start
		}
		if i == 0 || ev.End.After(last) {
			last = ev.End
		}
	}
	if len(events) == 0 {
		first = time.Date(1970, 1, 1, 0, 0, 0, 0, loc)
		last = first
	}
	from := time.Date(first.In(loc).Year(), 1, 1, 0, 0, 0, 0, loc)
	to := time.Date(last.In(loc).Year()+2, 1, 1, 0, 0, 0, 0, loc)

	shifts := zoneShifts(loc, from, to)
	if len(shifts) == 0 {
		name, offset := from.Zone()
		shifts = []zoneShift{{
			at:         time.Date(1970, 1, 1, 0, 0, 0, 0, time.FixedZone(name, offset)),
			offsetFrom: offset,
			offsetTo:   offset,
			name:       name,
			dst:        from.IsDST(),
		}}
	}

	for _, s := range shifts {
		var observance *ical.ComponentBase
		if s.dst {
			daylight := &ical.Daylight{}
			vtz.Components = append(vtz.Components, daylight)
			observance = &daylight.ComponentBase
		} else {
			observance = &vtz.AddStandard().ComponentBase
		}
		// DTSTART of an observance is the wall time it begins at, read in
		// the offset being replaced.
		onset := s.at.In(time.FixedZone("", s.offsetFrom)).Format(icsTimestampLocal)
		observance.AddProperty(ical.ComponentPropertyDtStart, onset)
		observance.AddProperty(ical.ComponentProperty(ical.PropertyTzoffsetfrom), formatOffset(s.offsetFrom))
		observance.AddProperty(ical.ComponentProperty(ical.PropertyTzoffsetto), formatOffset(s.offsetTo))
		if s.name != "" {
			observance.AddProperty(ical.ComponentProperty(ical.PropertyTzname), s.name)
		}
	}
}

// zoneShifts finds the offset changes of loc in [from, to) to the second.
func zoneShifts(loc *time.Location, from, to time.Time) []zoneShift {
	var shifts []zoneShift
	_, prev := from.In(loc).Zone()
	for day := from; day.Before(to); {
		next := day.Add(24 * time.Hour)
		_, offset := next.In(loc).Zone()
		if offset != prev {
			lo, hi := day, next
			for hi.Sub(lo) > time.Second {
				mid := lo.Add(hi.Sub(lo) / 2)
				if _, o := mid.In(loc).Zone(); o == prev {
					lo = mid
				} else {
					hi = mid
				}
			}
			at := hi.Truncate(time.Second).In(loc)
			name, _ := at.Zone()
			shifts = append(shifts, zoneShift{
				at:         at,
				offsetFrom: prev,
				offsetTo:   offset,
				name:       name,
				dst:        at.IsDST(),
			})
			prev = offset
		}
		day = next
	}
	return shifts
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, seconds%3600/60)
}
