// Package naming derives output filenames from memory records.
package naming

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bstardust/snapchat-memories-downloader/internal/geotime"
	"github.com/bstardust/snapchat-memories-downloader/pkg/models"
)

const timestampLayout = "2006.01.02-15-04-05"

var illegalChars = strings.NewReplacer(
	"<", "-",
	">", "-",
	":", "-",
	"\"", "-",
	"/", "-",
	"\\", "-",
	"|", "-",
	"?", "-",
	"*", "-",
)

// Extension returns the output file extension for a media type:
// .mp4 for videos, .jpg otherwise.
func Extension(mediaType models.MediaType) string {
	if mediaType == models.MediaVideo {
		return ".mp4"
	}
	return ".jpg"
}

// Sanitize replaces filesystem-illegal characters with "-" so the
// result is safe as a path segment.
func Sanitize(name string) string {
	return illegalChars.Replace(name)
}

// Stem derives the filename stem (no extension). In timestamp mode a
// parsable date yields "YYYY.MM.DD-HH-MM-SS"; an unparsable date falls
// back to the sequential number. Never fails.
func Stem(dateStr string, useTimestamp bool, fallbackNum string) string {
	if useTimestamp {
		if t, ok := geotime.ParseDate(dateStr); ok {
			return Sanitize(t.Format(timestampLayout))
		}
	}
	return Sanitize(fallbackNum)
}

// Generate derives a full output filename.
func Generate(dateStr, extension string, useTimestamp bool, fallbackNum string) string {
	return Stem(dateStr, useTimestamp, fallbackNum) + extension
}

// MemberName names an extracted archive member by its role, inserting
// the -main / -overlay suffix before the extension.
func MemberName(stem, role, extension string) string {
	return stem + "-" + role + extension
}

// SequenceNumber formats a 1-based entry number zero-padded to the
// width of the catalog size, at least two digits.
func SequenceNumber(number, total int) string {
	width := len(strconv.Itoa(total))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%0*d", width, number)
}
