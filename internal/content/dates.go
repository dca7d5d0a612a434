package content

import (
	"fmt"
	"strings"
	"time"
)

// Zone is the fixed UTC-3 offset all content timestamps are expressed in.
var Zone = time.FixedZone("UTC-3", -3*60*60)

// RSSLayout is the RFC 1123 layout used in feeds, e.g. "Fri, 01 Mar 2024 14:30:00 -0300".
const RSSLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// ParseDateTime combines a "2006-01-02" date and an optional "15:04" time in Zone.
func ParseDateTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if clock == "" {
		t, err := time.ParseInLocation(time.DateOnly, date, Zone)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
		}
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q time %q: %w", date, clock, err)
	}
	return t, nil
}

// FormatRSS renders t in Zone using RSSLayout.
func FormatRSS(t time.Time) string {
	return t.In(Zone).Format(RSSLayout)
}
