package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPicture_Empty(t *testing.T) {
	pic, err := loadPicture("")
	require.NoError(t, err)
	assert.Nil(t, pic)
}

func TestLoadPicture_TypeFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	pic, err := loadPicture(path)
	require.NoError(t, err)
	assert.Equal(t, "avatar.png", pic.Filename)
	assert.Equal(t, "image/png", pic.ContentType)
}

func TestLoadPicture_SniffsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.blob")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"), 0o600))

	pic, err := loadPicture(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", pic.ContentType)
}

func TestLoadPicture_Missing(t *testing.T) {
	_, err := loadPicture(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
