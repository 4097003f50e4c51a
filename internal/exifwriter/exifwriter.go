// Package exifwriter embeds capture time and GPS position into JPEG
// metadata. Embedding is strictly additive: any failure returns the
// original bytes untouched.
package exifwriter

import (
	"bytes"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"

	"github.com/bstardust/snapchat-memories-downloader/internal/geotime"
	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
)

const exifTimeLayout = "2006:01:02 15:04:05"

// Writer builds EXIF blocks from normalized record metadata.
type Writer struct {
	resolver     *geotime.Resolver
	useLocalTime bool
}

// New creates a Writer. The resolver may be nil, in which case
// timestamps stay in UTC.
func New(resolver *geotime.Resolver, useLocalTime bool) *Writer {
	return &Writer{resolver: resolver, useLocalTime: useLocalTime}
}

// Embed writes DateTimeOriginal and GPS tags into the image's EXIF
// segment without altering pixel data. Non-JPEG input, malformed
// input, or any tag construction failure is a passthrough of the
// original bytes.
func (w *Writer) Embed(data []byte, dateStr, latitude, longitude string) (out []byte) {
	out = data

	// The underlying EXIF library reports some malformed inputs by
	// panicking; contain that here and fall through to passthrough.
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("EXIF embedding panicked, keeping original bytes: %v", r)
			out = data
		}
	}()

	jmp := jpegstructure.NewJpegMediaParser()
	if !jmp.LooksLikeFormat(data) {
		return data
	}

	intfc, err := jmp.ParseBytes(data)
	if err != nil {
		logger.Debug("Could not parse JPEG for EXIF embedding: %v", err)
		return data
	}
	segments := intfc.(*jpegstructure.SegmentList)

	rootIb, err := segments.ConstructExifBuilder()
	if err != nil {
		logger.Debug("Could not construct EXIF builder: %v", err)
		return data
	}

	tagged := w.setDateTime(rootIb, dateStr, latitude, longitude)
	tagged = w.setGPS(rootIb, latitude, longitude) || tagged
	if !tagged {
		return data
	}

	if err := segments.SetExif(rootIb); err != nil {
		logger.Debug("Could not attach EXIF block: %v", err)
		return data
	}

	var buf bytes.Buffer
	if err := segments.Write(&buf); err != nil {
		logger.Debug("Could not re-encode JPEG with EXIF: %v", err)
		return data
	}

	return buf.Bytes()
}

func (w *Writer) setDateTime(rootIb *exif.IfdBuilder, dateStr, latitude, longitude string) bool {
	ts, ok := w.resolver.Resolve(dateStr, w.useLocalTime, latitude, longitude)
	if !ok {
		return false
	}

	exifIb, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD/Exif")
	if err != nil {
		logger.Debug("Could not open IFD/Exif: %v", err)
		return false
	}

	if err := exifIb.SetStandardWithName("DateTimeOriginal", ts.Format(exifTimeLayout)); err != nil {
		logger.Debug("Could not set DateTimeOriginal: %v", err)
		return false
	}
	return true
}

func (w *Writer) setGPS(rootIb *exif.IfdBuilder, latitude, longitude string) bool {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(latitude), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(longitude), 64)
	if latErr != nil || lonErr != nil {
		return false
	}

	gpsIb, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD/GPSInfo")
	if err != nil {
		logger.Debug("Could not open IFD/GPSInfo: %v", err)
		return false
	}

	latRef, lonRef := "N", "E"
	if lat < 0 {
		latRef = "S"
	}
	if lon < 0 {
		lonRef = "W"
	}

	tags := []struct {
		name  string
		value interface{}
	}{
		{"GPSLatitudeRef", latRef},
		{"GPSLatitude", toExifRationals(geotime.DecimalToDMS(lat))},
		{"GPSLongitudeRef", lonRef},
		{"GPSLongitude", toExifRationals(geotime.DecimalToDMS(lon))},
	}
	for _, tag := range tags {
		if err := gpsIb.SetStandardWithName(tag.name, tag.value); err != nil {
			logger.Debug("Could not set %s: %v", tag.name, err)
			return false
		}
	}
	return true
}

func toExifRationals(dms [3]geotime.Rational) []exifcommon.Rational {
	out := make([]exifcommon.Rational, 0, len(dms))
	for _, r := range dms {
		out = append(out, exifcommon.Rational{
			Numerator:   r.Numerator,
			Denominator: r.Denominator,
		})
	}
	return out
}
