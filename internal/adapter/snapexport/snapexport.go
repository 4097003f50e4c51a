// Package snapexport reads the memories_history.html document from a
// Snapchat export and produces the ordered record sequence the
// download pipeline consumes.
package snapexport

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bstardust/snapchat-memories-downloader/internal/logger"
	"github.com/bstardust/snapchat-memories-downloader/pkg/models"
)

// The asset URL lives in an onclick handler:
// onclick="downloadMemories('URL', ...)"
var downloadURLPattern = regexp.MustCompile(`downloadMemories\('([^']+)'`)

const locationPrefix = "Latitude, Longitude:"

// Parse extracts memory records from the export HTML. Rows missing a
// date or download URL are dropped; document order is preserved.
func Parse(r io.Reader) ([]models.Memory, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing export HTML: %w", err)
	}

	var memories []models.Memory

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var m models.Memory

		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if text == "" {
				return
			}

			// Cells carry no class markers; classify by content,
			// the same way the export's own viewer script does.
			switch {
			case strings.Contains(text, "UTC"):
				m.Date = text
			case text == string(models.MediaImage):
				m.MediaType = models.MediaImage
			case text == string(models.MediaVideo):
				m.MediaType = models.MediaVideo
			case strings.Contains(text, locationPrefix):
				coords := strings.TrimSpace(strings.Replace(text, locationPrefix, "", 1))
				parts := strings.Split(coords, ",")
				if len(parts) == 2 {
					m.Latitude = strings.TrimSpace(parts[0])
					m.Longitude = strings.TrimSpace(parts[1])
				}
			}
		})

		row.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			onclick, ok := link.Attr("onclick")
			if !ok || !strings.Contains(onclick, "downloadMemories") {
				return true
			}
			if match := downloadURLPattern.FindStringSubmatch(onclick); match != nil {
				m.URL = match[1]
				return false
			}
			return true
		})

		if m.URL != "" && m.Date != "" {
			memories = append(memories, m)
		}
	})

	return memories, nil
}

// ParseFile parses the export document at path.
func ParseFile(path string) ([]models.Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export %s: %w", path, err)
	}
	defer f.Close()

	logger.Info("Parsing %s...", path)
	memories, err := Parse(f)
	if err != nil {
		return nil, err
	}
	logger.Info("Found %d memories", len(memories))
	return memories, nil
}
