package record

import (
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
}

// FormatValue applies a field format. "date" normalizes dates to MM/DD/YYYY
// and "year" reduces them to the year; in both a bare year passes through.
// Values that do not parse are returned unchanged.
func FormatValue(format, v string) string {
	v = strings.TrimSpace(v)
	if format == "" || v == "" {
		return v
	}
	if len(v) >= 4 {
		if _, err := strconv.Atoi(v); err == nil {
			return v
		}
	}
	t, ok := parseDate(v)
	if !ok {
		return v
	}
	switch format {
	case "date":
		return t.Format("01/02/2006")
	case "year":
		return strconv.Itoa(t.Year())
	}
	return v
}

func parseDate(v string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
