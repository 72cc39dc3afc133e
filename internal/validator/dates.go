package validator

import (
	"fmt"
	"strings"
	"time"
)

// monthFirstLayouts are tried before dayFirstLayouts, so "01.02.2024" reads as January 2
var monthFirstLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1-2-2006",
	"1.2.2006",
	"1/2/06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"2. January 2006",
	"2 Jan 2006",
	"2 Jan. 2006",
	"02-Jan-2006",
}

var dayFirstLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
	"2.1.06",
	"2/1/06",
	"2-1-06",
}

// ParseDate reads a date in any of the supported layouts
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layouts := range [][]string{monthFirstLayouts, dayFirstLayouts} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date: %s", s)
}
