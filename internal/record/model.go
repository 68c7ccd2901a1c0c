// Package record holds the values drawn onto a card.
package record

import (
	"strings"
	"time"
)

// MaxPersons is the largest number of people on one multi-person card.
const MaxPersons = 5

// TimestampLayout matches the "M/D/YYYY, h:mm:ss AM" form the cards have
// always carried.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// Record is one person or incident. Fields maps field keys to values; an
// empty or blank value is absent. Photo may be nil.
type Record struct {
	Fields    map[string]string `json:"fields"`
	Photo     []byte            `json:"-"`
	Timestamp string            `json:"timestamp"`
}

// CaseRecord is the shared part of a multi-person card.
type CaseRecord struct {
	Fields    map[string]string `json:"fields"`
	Timestamp string            `json:"timestamp"`
}

// Person is one panel of a multi-person card. Number is shown in its badges
// and decides the panel background.
type Person struct {
	Number int               `json:"number"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields"`
	Photo  []byte            `json:"-"`
}

// Value returns the trimmed value of key.
func (r Record) Value(key string) string {
	return strings.TrimSpace(r.Fields[key])
}

// Name is the record's full name, used in captions and file names.
func (r Record) Name() string {
	return r.Value("fullname")
}

// Stamp formats t the way record timestamps are written.
func Stamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
