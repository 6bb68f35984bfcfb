package models

import (
	"fmt"
	"regexp"
	"strconv"
)

var termPattern = regexp.MustCompile(`^(\d{4})-(\d{4})-([1-3])$`)

// Term identifies an academic term as (start year, end year, term number).
type Term struct {
	StartYear int
	EndYear   int
	Number    int
}

// ParseTerm parses the display form, e.g. "2016-2017-2".
func ParseTerm(raw string) (Term, error) {
	m := termPattern.FindStringSubmatch(raw)
	if m == nil {
		return Term{}, fmt.Errorf("invalid term %q", raw)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	number, _ := strconv.Atoi(m[3])
	if end != start+1 {
		return Term{}, fmt.Errorf("invalid term %q: years must be consecutive", raw)
	}
	return Term{StartYear: start, EndYear: end, Number: number}, nil
}

// IsZero reports whether the term is unset.
func (t Term) IsZero() bool {
	return t == Term{}
}

// String returns the display form, e.g. "2016-2017-2".
func (t Term) String() string {
	return fmt.Sprintf("%04d-%04d-%d", t.StartYear, t.EndYear, t.Number)
}

// Compact returns the short form used in calendar keys, e.g. "16-17-2".
func (t Term) Compact() string {
	return fmt.Sprintf("%02d-%02d-%d", t.StartYear%100, t.EndYear%100, t.Number)
}

// PartitionKey returns the storage partition key, e.g. "16_17_2".
func (t Term) PartitionKey() string {
	return fmt.Sprintf("%02d_%02d_%d", t.StartYear%100, t.EndYear%100, t.Number)
}

// MarshalText encodes the term in display form.
func (t Term) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes the display form.
func (t *Term) UnmarshalText(b []byte) error {
	parsed, err := ParseTerm(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TermOption is one entry of the term selector.
type TermOption struct {
	Term     Term `json:"term"`
	Selected bool `json:"selected"`
}
