package documents

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/interfaces"
)

func newTestStore(t *testing.T) (interfaces.ResultStorage, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir, arbor.NewLogger())
	require.NoError(t, err)
	return store, dir
}

func TestStoreAndOpen(t *testing.T) {
	store, _ := newTestStore(t)

	handle, err := store.Store("job-1", []byte("%PDF-1.7 fake"))
	require.NoError(t, err)
	assert.Equal(t, "brand-guidelines-job-1.pdf", handle)

	data, err := store.Open(handle)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 fake"), data)
}

func TestStore_EmptyDocumentRejected(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Store("job-1", nil)
	assert.Error(t, err)
}

func TestStore_NoTempFileLeftBehind(t *testing.T) {
	store, dir := newTestStore(t)

	_, err := store.Store("job-1", []byte("data"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "brand-guidelines-job-1.pdf", entries[0].Name())
}

func TestOpen_RejectsPathTraversal(t *testing.T) {
	store, _ := newTestStore(t)

	for _, handle := range []string{
		"",
		"../secrets.pdf",
		"sub/dir.pdf",
		"..",
		"a/../../b.pdf",
	} {
		_, err := store.Open(handle)
		assert.Error(t, err, "handle=%q", handle)
	}
}

func TestOpen_MissingDocument(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Open("brand-guidelines-missing.pdf")
	assert.Error(t, err)
}

func TestDeleteOlderThan(t *testing.T) {
	store, dir := newTestStore(t)

	_, err := store.Store("old", []byte("old"))
	require.NoError(t, err)
	_, err = store.Store("fresh", []byte("fresh"))
	require.NoError(t, err)

	// Age the first document past the cutoff
	oldPath := filepath.Join(dir, "brand-guidelines-old.pdf")
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	removed, err := store.DeleteOlderThan(24)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Open("brand-guidelines-old.pdf")
	assert.Error(t, err)
	_, err = store.Open("brand-guidelines-fresh.pdf")
	assert.NoError(t, err)
}

func TestDeleteOlderThan_IgnoresNonPDFFiles(t *testing.T) {
	store, dir := newTestStore(t)

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("keep"), 0644))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(notes, past, past))

	removed, err := store.DeleteOlderThan(24)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	_, err = os.Stat(notes)
	assert.NoError(t, err)
}
