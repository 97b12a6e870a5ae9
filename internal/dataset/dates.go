package dataset

import (
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"02.01.2006",
	"2006/01/02",
	"2 Jan 2006",
}

// excelEpoch is day zero of the 1900 date system (with the leap-year bug).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses the date formats found in RASFF exports, including Excel
// serial day numbers. Day-first layouts win over month-first.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 20000 && f < 80000 {
		days := int(f)
		secs := int((f - float64(days)) * 86400)
		return excelEpoch.AddDate(0, 0, days).Add(time.Duration(secs) * time.Second), true
	}
	return time.Time{}, false
}
