package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/storeblocks/pkg/errors"
)

const homePage = `{
  "title": "Home",
  "blocks": [
    {"__typename": "GLTextBlock", "systemId": "t1", "fields": {"blockTitle": "Hello"}},
    {"__typename": "GLEmptyBlock", "id": "e1"}
  ]
}`

func writePage(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFilePage(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "home.json", homePage)

	src, err := NewFile(dir)
	require.NoError(t, err)
	defer src.Close()

	page, err := src.Page(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, "home", page.ID)
	assert.Equal(t, "Home", page.Title)
	require.Len(t, page.Blocks, 2)
	assert.Equal(t, "GLTextBlock", page.Blocks[0].Typename)
	assert.Equal(t, "Hello", page.Blocks[0].Fields.String("blockTitle"))
	assert.Equal(t, "e1", page.Blocks[1].ID())
	assert.Equal(t, "file", src.Name())
	assert.Equal(t, dir, src.Dir())
}

func TestFilePageErrors(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "broken.json", `{"blocks": [`)
	src, err := NewFile(dir)
	require.NoError(t, err)

	tests := []struct {
		id   string
		code errors.Code
	}{
		{"missing", errors.ErrCodePageNotFound},
		{"../etc/passwd", errors.ErrCodeInvalidInput},
		{"", errors.ErrCodeInvalidInput},
		{"broken", errors.ErrCodeInvalidPage},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := src.Page(context.Background(), tt.id)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestFilePageCancelled(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "home.json", homePage)
	src, err := NewFile(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Page(ctx, "home")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFileInvalidDir(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))

	f := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(f, []byte("{}"), 0o644))
	_, err = NewFile(f)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestReadPage(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "landing.json", homePage)

	page, err := ReadPage(filepath.Join(dir, "landing.json"))
	require.NoError(t, err)
	assert.Equal(t, "landing", page.ID)
	assert.Len(t, page.Blocks, 2)

	_, err = ReadPage(filepath.Join(dir, "nope.json"))
	assert.True(t, errors.Is(err, errors.ErrCodePageNotFound))
}

func TestDecodePageKeepsID(t *testing.T) {
	page, err := DecodePage([]byte(`{"id": "about", "blocks": []}`), "fallback")
	require.NoError(t, err)
	assert.Equal(t, "about", page.ID)
}
