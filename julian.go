package astro

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// SecondsPerDay is the number of seconds in a Julian day.
	SecondsPerDay = 86400
	// J2000 is the Julian date of the J2000.0 epoch (2000-01-01T12:00:00).
	J2000 JulianDate = 2451545.0
	// MissionEpoch is the origin of mission elapsed seconds (2001-01-01T00:00:00).
	MissionEpoch JulianDate = 2451910.5
)

// JulianDate stores a Julian date: a continuous count of days and fractions since
// noon Universal Time on January 1, 4713 BCE (on the Julian calendar).
// Arithmetic goes through the explicit accessors rather than float conversions.
type JulianDate float64

// NewJulianDate returns the Julian date of the Gregorian calendar date and UTC hours.
func NewJulianDate(year, month, day int, utc float64) JulianDate {
	return JulianDate(julian.CalendarGregorianToJD(year, month, float64(day)+utc/24))
}

// JulianDateFromDays wraps a raw Julian day number.
func JulianDateFromDays(jd float64) JulianDate {
	return JulianDate(jd)
}

// JulianDateFromTime converts a time.Time to a Julian date.
func JulianDateFromTime(t time.Time) JulianDate {
	return JulianDate(julian.TimeToJD(t.UTC()))
}

// JulianDateFromSeconds returns the date `seconds` elapsed seconds after the given epoch.
func JulianDateFromSeconds(epoch JulianDate, seconds float64) JulianDate {
	return epoch.AddSeconds(seconds)
}

// Days returns the raw Julian day number.
func (jd JulianDate) Days() float64 {
	return float64(jd)
}

// Seconds returns the Julian date expressed in seconds.
func (jd JulianDate) Seconds() float64 {
	return float64(jd) * SecondsPerDay
}

// Sub returns the difference jd - o in days.
func (jd JulianDate) Sub(o JulianDate) float64 {
	return float64(jd) - float64(o)
}

// DaysSince is an alias of Sub which reads better for epochs.
func (jd JulianDate) DaysSince(epoch JulianDate) float64 {
	return jd.Sub(epoch)
}

// SecondsSince returns the number of elapsed seconds since the given epoch.
func (jd JulianDate) SecondsSince(epoch JulianDate) float64 {
	return jd.Sub(epoch) * SecondsPerDay
}

// AddDays returns the date shifted by the provided number of days.
func (jd JulianDate) AddDays(days float64) JulianDate {
	return jd + JulianDate(days)
}

// AddSeconds returns the date shifted by the provided number of seconds.
func (jd JulianDate) AddSeconds(seconds float64) JulianDate {
	return jd + JulianDate(seconds/SecondsPerDay)
}

// Centuries returns the Julian centuries elapsed since J2000.
func (jd JulianDate) Centuries() float64 {
	return jd.Sub(J2000) / 36525
}

// Gregorian returns the Gregorian calendar date and the UTC hours of the day.
func (jd JulianDate) Gregorian() (year, month, day int, utc float64) {
	var fday float64
	year, month, fday = julian.JDToCalendar(float64(jd))
	whole := math.Floor(fday)
	day = int(whole)
	utc = (fday - whole) * 24
	return
}

// Time converts the date to a UTC time.Time.
func (jd JulianDate) Time() time.Time {
	return julian.JDToTime(float64(jd)).UTC()
}

// String implements the Stringer interface with an ISO 8601 date with 1e-4 seconds.
func (jd JulianDate) String() string {
	year, month, day, utc := jd.Gregorian()
	hour := math.Floor(utc)
	minute := math.Floor(60 * (utc - hour))
	secs := 60 * (60*(utc-hour) - minute)
	second := math.Floor(secs)
	deci := math.Floor((secs - second) * 10000)
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%04d", year, month, day, int(hour), int(minute), int(second), int(deci))
}
