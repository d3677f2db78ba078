package source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/errors"
)

// File reads pages from <dir>/<id>.json.
type File struct {
	dir string
}

// NewFile creates a file source rooted at dir.
func NewFile(dir string) (*File, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "page directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "page directory %s is not a directory", dir)
	}
	return &File{dir: dir}, nil
}

func (f *File) Page(ctx context.Context, id string) (block.Page, error) {
	if err := errors.ValidatePageID(id); err != nil {
		return block.Page{}, err
	}
	if err := ctx.Err(); err != nil {
		return block.Page{}, err
	}
	data, err := os.ReadFile(filepath.Join(f.dir, id+".json"))
	if os.IsNotExist(err) {
		return block.Page{}, notFound(id)
	}
	if err != nil {
		return block.Page{}, errors.Wrap(errors.ErrCodeInternal, err, "read page %s", id)
	}
	return DecodePage(data, id)
}

// ReadPage decodes a single page file outside any source directory. The
// page id defaults to the file name without extension.
func ReadPage(path string) (block.Page, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return block.Page{}, errors.New(errors.ErrCodePageNotFound, "page file %s not found", path)
	}
	if err != nil {
		return block.Page{}, errors.Wrap(errors.ErrCodeInternal, err, "read page file %s", path)
	}
	base := filepath.Base(path)
	return DecodePage(data, base[:len(base)-len(filepath.Ext(base))])
}

func (f *File) Name() string { return "file" }

func (f *File) Close() error { return nil }

// Dir returns the page directory.
func (f *File) Dir() string { return f.dir }

var _ Source = (*File)(nil)
