package dedup

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/bstardust/snapchat-memories-downloader/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("content X"))
	b := HashBytes([]byte("content X"))
	c := HashBytes([]byte("content Y"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, hexDigest, a)
	assert.Regexp(t, hexDigest, HashBytes(nil))
}

func TestFindDuplicate_Match(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01.jpg"), []byte("content X"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02.jpg"), []byte("content Y"), 0o644))

	assert.Equal(t, "01.jpg", FindDuplicate([]byte("content X"), dir, true))
	assert.Equal(t, "", FindDuplicate([]byte("content Z"), dir, true))
}

func TestFindDuplicate_Disabled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01.jpg"), []byte("content X"), 0o644))

	assert.Equal(t, "", FindDuplicate([]byte("content X"), dir, false))
}

func TestFindDuplicate_IgnoresLedgerDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, journal.FileName), []byte("content X"), 0o644))

	assert.Equal(t, "", FindDuplicate([]byte("content X"), dir, true))
}

func TestFindDuplicate_ExcludesNamedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01.jpg"), []byte("content X"), 0o644))

	// A freshly written file must not match itself.
	assert.Equal(t, "", FindDuplicate([]byte("content X"), dir, true, "01.jpg"))
}

func TestFindDuplicate_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	assert.Equal(t, "", FindDuplicate([]byte("anything"), dir, true))
}
