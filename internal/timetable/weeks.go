package timetable

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MaxWeek bounds week numbers accepted in a descriptor.
const MaxWeek = 60

type parity int

const (
	parityAny parity = iota
	parityOdd
	parityEven
)

var (
	rangeSeparators = strings.NewReplacer(
		"－", "-", "—", "-", "–", "-", "~", "-", "～", "-", "至", "-", "到", "-",
		"，", ",", "、", ",", ";", ",", "；", ",",
	)
	spacedDash   = regexp.MustCompile(`\s*-\s*`)
	whitespace   = regexp.MustCompile(`\s+`)
	nonWeekChars = regexp.MustCompile(`[^0-9,\-]`)
)

// ParseWeeks expands a week-recurrence descriptor into the sorted set of
// teaching weeks it names. Accepted forms include "1-16", "1,3,5",
// "1-4,6,8-10", "第1-16周", "1-15(单)", "odd weeks 1-15" and "even".
// A descriptor with a parity marker but no weeks covers 1..termWeeks.
func ParseWeeks(descriptor string, termWeeks int) ([]int, error) {
	if termWeeks <= 0 || termWeeks > MaxWeek {
		termWeeks = 20
	}
	raw := strings.ToLower(strings.TrimSpace(descriptor))
	par := parityAny
	switch {
	case strings.Contains(raw, "单") || strings.Contains(raw, "odd"):
		par = parityOdd
	case strings.Contains(raw, "双") || strings.Contains(raw, "even"):
		par = parityEven
	}

	normalized := rangeSeparators.Replace(raw)
	normalized = spacedDash.ReplaceAllString(normalized, "-")
	normalized = whitespace.ReplaceAllString(normalized, ",")
	normalized = nonWeekChars.ReplaceAllString(normalized, "")

	seen := make(map[int]struct{})
	tokens := 0
	for _, token := range strings.Split(normalized, ",") {
		token = strings.Trim(token, "-")
		if token == "" {
			continue
		}
		tokens++
		from, to, err := parseWeekToken(token)
		if err != nil {
			return nil, fmt.Errorf("week descriptor %q: %w", descriptor, err)
		}
		for w := from; w <= to; w++ {
			seen[w] = struct{}{}
		}
	}
	if tokens == 0 {
		for w := 1; w <= termWeeks; w++ {
			seen[w] = struct{}{}
		}
	}

	weeks := make([]int, 0, len(seen))
	for w := range seen {
		if par == parityOdd && w%2 == 0 || par == parityEven && w%2 == 1 {
			continue
		}
		weeks = append(weeks, w)
	}
	if len(weeks) == 0 {
		return nil, fmt.Errorf("week descriptor %q selects no weeks", descriptor)
	}
	sort.Ints(weeks)
	return weeks, nil
}

func parseWeekToken(token string) (int, int, error) {
	parts := strings.Split(token, "-")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("malformed range %q", token)
	}
	from, err := parseWeek(parts[0])
	if err != nil {
		return 0, 0, err
	}
	to := from
	if len(parts) == 2 {
		if to, err = parseWeek(parts[1]); err != nil {
			return 0, 0, err
		}
	}
	if to < from {
		return 0, 0, fmt.Errorf("descending range %q", token)
	}
	return from, to, nil
}

func parseWeek(raw string) (int, error) {
	w, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid week %q", raw)
	}
	if w < 1 || w > MaxWeek {
		return 0, fmt.Errorf("week %d out of range 1-%d", w, MaxWeek)
	}
	return w, nil
}

// WithinTerm splits sorted weeks into those inside 1..termWeeks and those
// beyond the end of term.
func WithinTerm(weeks []int, termWeeks int) (inside, beyond []int) {
	inside = make([]int, 0, len(weeks))
	for _, w := range weeks {
		if w > termWeeks {
			beyond = append(beyond, w)
			continue
		}
		inside = append(inside, w)
	}
	return inside, beyond
}

// Recurrence is a weekly repetition plan covering an exact week set.
type Recurrence struct {
	FirstWeek int
	Interval  int
	Count     int
	// Excluded lists weeks the weekly rule produces but the section skips.
	Excluded []int
}

// PlanRecurrence encodes weeks as a weekly rule. Evenly spaced weeks become
// an interval rule; anything else becomes a contiguous rule with exclusions.
// weeks must be sorted and non-empty.
func PlanRecurrence(weeks []int) Recurrence {
	if len(weeks) == 1 {
		return Recurrence{FirstWeek: weeks[0], Interval: 1, Count: 1}
	}
	step := weeks[1] - weeks[0]
	even := step > 0
	for i := 2; i < len(weeks) && even; i++ {
		even = weeks[i]-weeks[i-1] == step
	}
	if even {
		return Recurrence{FirstWeek: weeks[0], Interval: step, Count: len(weeks)}
	}

	first, last := weeks[0], weeks[len(weeks)-1]
	included := make(map[int]struct{}, len(weeks))
	for _, w := range weeks {
		included[w] = struct{}{}
	}
	var excluded []int
	for w := first; w <= last; w++ {
		if _, ok := included[w]; !ok {
			excluded = append(excluded, w)
		}
	}
	return Recurrence{FirstWeek: first, Interval: 1, Count: last - first + 1, Excluded: excluded}
}
