// Package pickup turns a 12-hour clock time chosen at checkout into the next
// occurrence of that time.
package pickup

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time is a normalized pickup slot.
type Time struct {
	// At is the canonical timestamp used to sort orders by urgency.
	At time.Time
	// Display is the customer-facing "hh:mm AM" form.
	Display string
}

// ISO returns At in the canonical ISO-8601 form.
func (t Time) ISO() string { return t.At.Format(time.RFC3339) }

// Normalize resolves clock ("HH:MM") and designator ("AM"/"PM") against now.
// The result falls on now's date, or the next day when that instant has
// already passed. ok is false when either input is missing or malformed.
func Normalize(clock, designator string, now time.Time) (Time, bool) {
	clock = strings.TrimSpace(clock)
	designator = strings.ToUpper(strings.TrimSpace(designator))
	if clock == "" || designator == "" {
		return Time{}, false
	}
	if designator != "AM" && designator != "PM" {
		return Time{}, false
	}

	hh, mm, ok := parseClock(clock)
	if !ok {
		return Time{}, false
	}
	switch {
	case designator == "PM" && hh != 12:
		hh += 12
	case designator == "AM" && hh == 12:
		hh = 0
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return Time{}, false
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}

	return Time{At: at, Display: display(hh, mm)}, true
}

func parseClock(clock string) (int, int, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	hh, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	mm, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return hh, mm, true
}

// display renders the 24-hour result back on a 12-hour clock, so input such
// as "13:00 AM" reads as the time that was actually scheduled.
func display(hh24, mm int) string {
	designator := "AM"
	if hh24 >= 12 {
		designator = "PM"
	}
	h := hh24 % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h, mm, designator)
}
