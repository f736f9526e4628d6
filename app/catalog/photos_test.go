package catalog

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoName(t *testing.T) {
	testCases := []struct {
		original string
		suffix   string
	}{
		{original: "foto.png", suffix: "foto.png"},
		{original: "mi foto.jpg", suffix: "mifoto.jpg"},
		{original: "C:\\fotos\\tv 01.jpg", suffix: "Cfotostv01.jpg"},
		{original: "12:30 playa.gif", suffix: "1230playa.gif"},
	}

	uuidPrefix := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}-`)

	for _, tc := range testCases {
		t.Run(tc.original, func(t *testing.T) {
			name := PhotoName(tc.original)

			assert.Regexp(t, uuidPrefix, name)
			assert.Equal(t, tc.suffix, uuidPrefix.ReplaceAllString(name, ""))
		})
	}
}

func TestPhotoName_Unique(t *testing.T) {
	assert.NotEqual(t, PhotoName("a.png"), PhotoName("a.png"))
}

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	fw, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/form", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestIsImage(t *testing.T) {
	testCases := []struct {
		name        string
		filename    string
		contentType string
		expected    bool
	}{
		{name: "Declared jpeg", filename: "foto", contentType: "image/jpeg", expected: true},
		{name: "Declared webp", filename: "foto.bin", contentType: "image/webp", expected: true},
		{name: "Png by extension", filename: "foto.PNG", contentType: "application/octet-stream", expected: true},
		{name: "Gif by extension", filename: "anim.gif", contentType: "", expected: true},
		{name: "Text file", filename: "notes.txt", contentType: "text/plain", expected: false},
		{name: "Pdf", filename: "doc.pdf", contentType: "application/pdf", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fh := fileHeader(t, tc.filename, tc.contentType, []byte("data"))

			assert.Equal(t, tc.expected, isImage(fh))
		})
	}
}

func TestPhotoStore_SaveAndOpen(t *testing.T) {
	// Arrange
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewPhotoStore(dir)
	require.NoError(t, err)
	fh := fileHeader(t, "foto.png", "image/png", []byte("pixels"))

	// Act
	err = store.Save("abc-foto.png", fh)

	// Assert
	require.NoError(t, err)
	f, info, err := store.Open("abc-foto.png")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
	assert.Equal(t, int64(6), info.Size())
}

func TestPhotoStore_RejectsPaths(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir())
	require.NoError(t, err)
	fh := fileHeader(t, "foto.png", "image/png", []byte("pixels"))

	for _, name := range []string{"", ".", "..", "../x.png", "a/b.png", `a\b.png`, "/etc/passwd"} {
		t.Run(name, func(t *testing.T) {
			_, _, err := store.Open(name)
			assert.ErrorIs(t, err, ErrInvalidPhotoName)

			err = store.Save(name, fh)
			assert.ErrorIs(t, err, ErrInvalidPhotoName)
		})
	}
}

func TestPhotoStore_OpenMissingAndDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPhotoStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	_, _, err = store.Open("missing.png")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = store.Open("sub")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
