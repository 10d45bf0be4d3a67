package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidFolder = errors.New("folder must be letters, digits, - or _")
	ErrNotImage      = errors.New("only jpeg, png, gif and webp images are accepted")
	ErrTooLarge      = errors.New("file exceeds the upload limit")
)

var folderPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// extensions maps sniffed content types to the stored file extension.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Storage persists uploaded files and returns their path relative to the
// public uploads root.
type Storage interface {
	Save(ctx context.Context, folder, ext string, r io.Reader) (string, error)
}

type localStorage struct {
	root string
}

// NewLocalStorage stores files under root, creating folders as needed.
func NewLocalStorage(root string) Storage {
	return &localStorage{root: root}
}

func (s *localStorage) Save(ctx context.Context, folder, ext string, r io.Reader) (string, error) {
	if !folderPattern.MatchString(folder) {
		return "", ErrInvalidFolder
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path.Join(folder, name), nil
}

// PublicURL joins the stored path onto the uploads route of baseURL.
func PublicURL(baseURL, stored string) string {
	return strings.TrimRight(baseURL, "/") + "/uploads/" + stored
}
