// Package dateutil holds the calendar rules the schedule engine depends
// on: week parity, localized weekday names and parsing of the free-text
// announcement date on the replacement pages.
package dateutil

import (
	"regexp"
	"strconv"
	"time"
)

var weekdayNames = [7]string{
	"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье",
}

var monthNumbers = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

var announcementRe = regexp.MustCompile(
	`на (\d{1,2}) (января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря) (\d{4}) года`)

// WeekParity reports whether t falls on a "numerator" week: ISO week
// number modulo 2 equals zero. Deterministic, no I/O.
func WeekParity(t time.Time) bool {
	_, week := t.ISOWeek()
	return week%2 == 0
}

// ParityName returns the Russian display name for a week parity value.
func ParityName(numerator bool) string {
	if numerator {
		return "числитель"
	}
	return "знаменатель"
}

// WeekdayName returns the Russian weekday name for t, Monday first.
func WeekdayName(t time.Time) string {
	return weekdayNames[WeekdayIndex(t)]
}

// WeekdayIndex maps t's weekday to 0..6 with Monday as 0.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseAnnouncementDate extracts a date from free text of the form
// "... на 5 ноября 2025 года ...". It returns nil when no date is
// present or the named day does not exist in that month (time.Date
// would silently normalize it otherwise).
func ParseAnnouncementDate(text string) *time.Time {
	m := announcementRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	month := monthNumbers[m[2]]
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return nil
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return nil
	}
	return &d
}

// SameDay reports whether a and b denote the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Midnight truncates t to its calendar date in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
