package services

import (
	"fmt"
	"time"
)

const layoutData = "2006-01-02"

// ParseDataLocal reads YYYY-MM-DD as midnight in loc, not UTC midnight, so
// the calendar day never shifts when displayed in loc.
func ParseDataLocal(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(layoutData, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("data %q: %w", s, err)
	}
	return t, nil
}
