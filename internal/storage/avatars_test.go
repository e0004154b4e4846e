package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAvatar(t *testing.T) {
	store := NewAvatarStore(t.TempDir(), "http://localhost:8080/")

	url, err := store.Save("u1", "image/png", 4, bytes.NewReader([]byte("fake")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/files/avatars/u1-"))
	assert.True(t, strings.HasSuffix(url, ".png"))
}

func TestSaveAvatarRejectsNonImage(t *testing.T) {
	store := NewAvatarStore(t.TempDir(), "http://localhost:8080")

	_, err := store.Save("u1", "application/pdf", 4, bytes.NewReader([]byte("fake")))
	assert.Error(t, err)
}

func TestSaveAvatarRejectsOversize(t *testing.T) {
	store := NewAvatarStore(t.TempDir(), "http://localhost:8080")

	_, err := store.Save("u1", "image/jpeg", MaxAvatarSize+1, bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestSaveAvatarRejectsLyingContentLength(t *testing.T) {
	store := NewAvatarStore(t.TempDir(), "http://localhost:8080")

	// Declared small, actually over the cap.
	big := bytes.Repeat([]byte("a"), MaxAvatarSize+10)
	_, err := store.Save("u1", "image/jpeg", 10, bytes.NewReader(big))
	assert.Error(t, err)
}
