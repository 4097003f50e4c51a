package naming

import (
	"testing"

	"github.com/bstardust/snapchat-memories-downloader/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	assert.Equal(t, ".mp4", Extension(models.MediaVideo))
	assert.Equal(t, ".jpg", Extension(models.MediaImage))
	assert.Equal(t, ".jpg", Extension(models.MediaType("Unknown")))
	assert.Equal(t, ".jpg", Extension(models.MediaType("")))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a-b-c-d-e-f-g-h-i-j", Sanitize(`a<b>c:d"e/f\g|h?i*j`))
	assert.Equal(t, "plain-name.jpg", Sanitize("plain-name.jpg"))
}

func TestGenerate_Sequential(t *testing.T) {
	assert.Equal(t, "42.jpg", Generate("2025-11-30 00:31:09 UTC", ".jpg", false, "42"))
}

func TestGenerate_Timestamp(t *testing.T) {
	assert.Equal(t, "2025.11.30-00-31-09.jpg",
		Generate("2025-11-30 00:31:09 UTC", ".jpg", true, "42"))
	assert.Equal(t, "2025.11.30-00-31-09.mp4",
		Generate("2025-11-30 00:31:09 UTC", ".mp4", true, "07"))
}

func TestGenerate_TimestampFallsBackOnBadDate(t *testing.T) {
	assert.Equal(t, "42.jpg", Generate("not a date", ".jpg", true, "42"))
	assert.Equal(t, "42.jpg", Generate("", ".jpg", true, "42"))
}

func TestMemberName(t *testing.T) {
	assert.Equal(t, "03-main.jpg", MemberName("03", "main", ".jpg"))
	assert.Equal(t, "03-overlay.mp4", MemberName("03", "overlay", ".mp4"))
}

func TestSequenceNumber(t *testing.T) {
	assert.Equal(t, "01", SequenceNumber(1, 9))
	assert.Equal(t, "07", SequenceNumber(7, 42))
	assert.Equal(t, "007", SequenceNumber(7, 120))
	assert.Equal(t, "120", SequenceNumber(120, 120))
}
