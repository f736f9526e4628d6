package catalog

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidPhotoName is returned for names that are not a single path element.
var ErrInvalidPhotoName = errors.New("invalid photo name")

var photoNameReplacer = strings.NewReplacer(" ", "", ":", "", `\`, "")

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// PhotoName returns the stored name for an uploaded file:
// "<uuid>-<original>" without spaces, colons or backslashes.
func PhotoName(original string) string {
	return uuid.NewString() + "-" + photoNameReplacer.Replace(original)
}

// isImage checks the declared content type, then the extension.
func isImage(file *multipart.FileHeader) bool {
	if allowedImageTypes[file.Header.Get("Content-Type")] {
		return true
	}
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return true
	}
	return false
}

// PhotoStore keeps uploaded photos in a single flat directory.
type PhotoStore struct {
	dir string
}

func NewPhotoStore(dir string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &PhotoStore{dir: dir}, nil
}

func (s *PhotoStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", ErrInvalidPhotoName
	}
	return filepath.Join(s.dir, name), nil
}

// Save copies the uploaded file to the upload directory under name.
func (s *PhotoStore) Save(name string, file *multipart.FileHeader) error {
	dst, err := s.path(name)
	if err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create photo %s: %w", name, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("write photo %s: %w", name, err)
	}
	return out.Close()
}

// Open opens a stored photo. Missing files report os.ErrNotExist.
func (s *PhotoStore) Open(name string) (*os.File, os.FileInfo, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, os.ErrNotExist
	}
	return f, info, nil
}
