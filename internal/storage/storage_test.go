package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore_Upload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "answers.PDF", strings.NewReader("sheet"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	content, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "sheet", string(content))
}

func TestFSStore_UploadCancelled(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Upload(ctx, "a.png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestSanitizeExt(t *testing.T) {
	assert.Equal(t, ".png", sanitizeExt("../../photo.PNG"))
	assert.Equal(t, "", sanitizeExt("noext"))
	assert.Equal(t, "", sanitizeExt("file.averyveryverylongext"))
}
