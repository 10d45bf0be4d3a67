package shop

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimeOfDay converts "HH:MM" (seconds, if present, are ignored) into
// minutes since midnight.
func ParseTimeOfDay(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// IsOpen reports whether a shop with the given hours is open at now, in
// minutes since midnight. Both bounds are inclusive. A close time earlier than
// the open time is a window that crosses midnight. A missing or unreadable
// bound means the shop is always open.
func IsOpen(now int, openTime, closeTime string) bool {
	open, ok := ParseTimeOfDay(openTime)
	if !ok {
		return true
	}
	closing, ok := ParseTimeOfDay(closeTime)
	if !ok {
		return true
	}
	if open > closing {
		return now >= open || now <= closing
	}
	return now >= open && now <= closing
}

// IsOpenAt is IsOpen for a wall-clock time.
func IsOpenAt(t time.Time, openTime, closeTime string) bool {
	return IsOpen(t.Hour()*60+t.Minute(), openTime, closeTime)
}

// FormatTime12 renders "21:05" as "9:05 PM". Unreadable input yields "".
func FormatTime12(s string) string {
	minutes, ok := ParseTimeOfDay(s)
	if !ok {
		return ""
	}
	h, m := minutes/60, minutes%60
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, ampm)
}

// HoursLabel is the opening hours line, e.g. "9:00 AM - 9:00 PM".
func HoursLabel(openTime, closeTime string) string {
	if openTime == "" || closeTime == "" {
		return ""
	}
	return FormatTime12(openTime) + " - " + FormatTime12(closeTime)
}
