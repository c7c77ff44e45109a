// Package medication implements the medication records, their SQLite
// store with reactive day/range queries, and the controller that couples
// record mutation to reminder scheduling.
package medication

import (
	"strings"
	"time"
)

// Input clamping bounds. Out-of-range values are clamped, not rejected,
// so a sloppy caller still produces a storable record.
const (
	MaxNameLength = 40
	MinDose       = 1
	MaxDose       = 99

	// PlaceholderName replaces an empty medication name.
	PlaceholderName = "Medicamento"
)

// Medication is one scheduled dose entry. DateEpochDay is days since
// 1970-01-01; keeping the day as a plain integer makes range queries a
// simple comparison and keeps "which day" free of timezone math.
type Medication struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DoseCount    int    `json:"dose_count"`
	DateEpochDay int64  `json:"date_epoch_day"`
	Hour         int    `json:"hour"`
	Minute       int    `json:"minute"`
	Taken        bool   `json:"taken"`
}

// NormalizeName trims the name, substitutes the placeholder when empty,
// and caps the result at MaxNameLength runes.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return PlaceholderName
	}
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = string(runes[:MaxNameLength])
	}
	return name
}

// ClampDose clamps a dose count to [MinDose, MaxDose].
func ClampDose(dose int) int {
	return clamp(dose, MinDose, MaxDose)
}

// ClampHour clamps an hour to [0, 23].
func ClampHour(hour int) int {
	return clamp(hour, 0, 23)
}

// ClampMinute clamps a minute to [0, 59].
func ClampMinute(minute int) int {
	return clamp(minute, 0, 59)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EpochDay returns the epoch-day index of t in its own location.
func EpochDay(t time.Time) int64 {
	year, month, day := t.Date()
	utcMidnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return utcMidnight.Unix() / 86400
}

// Today returns the current epoch-day index in local time.
func Today() int64 {
	return EpochDay(time.Now())
}

// DateOfEpochDay returns the calendar date (year, month, day) that the
// given epoch-day index denotes.
func DateOfEpochDay(day int64) (int, time.Month, int) {
	return time.Unix(day*86400, 0).UTC().Date()
}
