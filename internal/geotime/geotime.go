// Package geotime normalizes export capture timestamps and GPS
// coordinates: UTC date parsing, timezone resolution from
// coordinates, DMS conversion for EXIF, and filesystem timestamps.
package geotime

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
	"github.com/ringsaturn/tzf"
)

// DateLayout is the export's date format once the " UTC" suffix is removed.
const DateLayout = "2006-01-02 15:04:05"

// ParseDate parses an export date string such as
// "2025-11-30 00:31:09 UTC". The wall-clock digits are always
// interpreted as UTC, never as the host's local timezone, so the same
// input maps to the same instant on every machine. Returns false on
// any parse failure.
func ParseDate(dateStr string) (time.Time, bool) {
	clean := strings.TrimSuffix(strings.TrimSpace(dateStr), " UTC")
	t, err := time.ParseInLocation(DateLayout, clean, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Rational is one EXIF rational value.
type Rational struct {
	Numerator   uint32
	Denominator uint32
}

// DecimalToDMS converts a decimal coordinate to degree, minute and
// second rationals for EXIF GPS tags. It operates on the absolute
// value of the input; hemisphere is encoded separately by the caller
// via the reference tags. Rounding is done once, in hundredths of a
// second, and carried upward so seconds and minutes stay below 60.
func DecimalToDMS(v float64) [3]Rational {
	const centisPerMinute = 60 * 100
	const centisPerDegree = 60 * centisPerMinute

	total := int64(math.Round(math.Abs(v) * centisPerDegree))

	degrees := total / centisPerDegree
	total -= degrees * centisPerDegree
	minutes := total / centisPerMinute
	total -= minutes * centisPerMinute

	return [3]Rational{
		{Numerator: uint32(degrees), Denominator: 1},
		{Numerator: uint32(minutes), Denominator: 1},
		{Numerator: uint32(total), Denominator: 100},
	}
}

// SetFileTimestamp sets the file's modification and access times to
// the given instant. A zero instant is a no-op, not an error.
func SetFileTimestamp(path string, t time.Time) error {
	if t.IsZero() {
		return nil
	}
	return os.Chtimes(path, t, t)
}

// Resolver resolves IANA timezones from GPS coordinates. A nil
// Resolver is valid and always keeps timestamps in UTC.
type Resolver struct {
	finder tzf.F
}

// NewResolver creates a Resolver backed by the embedded timezone
// boundary dataset.
func NewResolver() (*Resolver, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, err
	}
	return &Resolver{finder: finder}, nil
}

// Resolve parses the date string and, when useLocalTime is set and
// both coordinates parse, returns the instant in the IANA timezone
// covering those coordinates. Timezone resolution failure degrades to
// the UTC reading. Returns false only when the date itself does not
// parse.
func (r *Resolver) Resolve(dateStr string, useLocalTime bool, latitude, longitude string) (time.Time, bool) {
	t, ok := ParseDate(dateStr)
	if !ok {
		return time.Time{}, false
	}

	if !useLocalTime || r == nil || r.finder == nil {
		return t, true
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(latitude), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(longitude), 64)
	if latErr != nil || lonErr != nil {
		return t, true
	}

	name := r.finder.GetTimezoneName(lon, lat)
	if name == "" {
		logger.Debug("No timezone found for %f,%f, keeping UTC", lat, lon)
		return t, true
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Debug("Could not load timezone %s: %v", name, err)
		return t, true
	}

	return t.In(loc), true
}
