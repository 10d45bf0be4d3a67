package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSave(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root)

	stored, err := s.Save(context.Background(), "products", ".png", strings.NewReader("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "products/"))
	assert.True(t, strings.HasSuffix(stored, ".png"))

	raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored)))
	require.NoError(t, err)
	assert.Equal(t, "data", string(raw))

	other, err := s.Save(context.Background(), "products", ".png", strings.NewReader("data"))
	require.NoError(t, err)
	assert.NotEqual(t, stored, other)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	for _, folder := range []string{"", "../etc", "a/b", "."} {
		_, err := s.Save(context.Background(), folder, ".png", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidFolder, folder)
	}
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://menu.example/uploads/logos/a.png", PublicURL("https://menu.example/", "logos/a.png"))
}
