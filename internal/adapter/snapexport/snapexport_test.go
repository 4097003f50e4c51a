package snapexport

import (
	"strings"
	"testing"

	"github.com/bstardust/snapchat-memories-downloader/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `<!DOCTYPE html>
<html><body>
<table>
<tr><th>Date</th><th>Media Type</th><th>Location</th><th>Download</th></tr>
<tr>
  <td>2025-11-30 00:31:09 UTC</td>
  <td>Image</td>
  <td>Latitude, Longitude: 40.7128, -74.0060</td>
  <td><a href="#" onclick="downloadMemories('https://example.com/mem/1?sig=abc', this); return false;">Download</a></td>
</tr>
<tr>
  <td>2025-12-01 10:00:00 UTC</td>
  <td>Video</td>
  <td><a href="#" onclick="downloadMemories('https://example.com/mem/2', this);">Download</a></td>
</tr>
<tr>
  <td>No date here</td>
  <td>Image</td>
  <td><a href="#" onclick="downloadMemories('https://example.com/mem/3', this);">Download</a></td>
</tr>
<tr>
  <td>2025-12-02 11:00:00 UTC</td>
  <td>Image</td>
  <td><a href="#" onclick="somethingElse('https://example.com/mem/4')">Download</a></td>
</tr>
</table>
</body></html>`

func TestParse(t *testing.T) {
	memories, err := Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)

	// Rows without a date or a downloadMemories URL are dropped.
	require.Len(t, memories, 2)

	assert.Equal(t, "2025-11-30 00:31:09 UTC", memories[0].Date)
	assert.Equal(t, models.MediaImage, memories[0].MediaType)
	assert.Equal(t, "40.7128", memories[0].Latitude)
	assert.Equal(t, "-74.0060", memories[0].Longitude)
	assert.Equal(t, "https://example.com/mem/1?sig=abc", memories[0].URL)

	assert.Equal(t, "2025-12-01 10:00:00 UTC", memories[1].Date)
	assert.Equal(t, models.MediaVideo, memories[1].MediaType)
	assert.Empty(t, memories[1].Latitude)
	assert.Empty(t, memories[1].Longitude)
	assert.Equal(t, "https://example.com/mem/2", memories[1].URL)
}

func TestParse_EmptyDocument(t *testing.T) {
	memories, err := Parse(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, memories)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile("does/not/exist.html")
	assert.Error(t, err)
}
