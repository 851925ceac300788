package resolve

import (
	"bytes"
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// FileSystem is the seam the resolver reads through: existence checks,
// package.json reads, and directory listings. The default implementation
// is backed by github.com/viant/afs so a non-local backend (an in-memory
// corpus for tests, or beyond this spec's scope a remote object store) can
// stand in without touching the resolution algorithm in resolver.go.
type FileSystem interface {
	Exists(path string) bool
	IsDir(path string) bool
	ReadFile(path string) ([]byte, error)
}

// Writer is the seam internal/driver writes output artifacts and the
// runtime shim through, backed by the same afs.Service as FileSystem so
// local writes and a future remote object-store target share one upload
// path rather than diverging into two write implementations.
type Writer interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// afsFileSystem is the local-disk default, backed by afs.Service.
type afsFileSystem struct {
	ctx context.Context
	svc afs.Service
}

// NewLocalFileSystem returns the default FileSystem, rooted at the local
// disk via afs's OS storage backend.
func NewLocalFileSystem() FileSystem {
	return &afsFileSystem{ctx: context.Background(), svc: afs.New()}
}

// NewLocalWriter returns the default Writer, backed by the same afs OS
// storage backend as NewLocalFileSystem.
func NewLocalWriter() Writer {
	return &afsFileSystem{ctx: context.Background(), svc: afs.New()}
}

func (f *afsFileSystem) Exists(path string) bool {
	ok, err := f.svc.Exists(f.ctx, path)
	return err == nil && ok
}

func (f *afsFileSystem) IsDir(path string) bool {
	obj, err := f.svc.Object(f.ctx, path)
	if err != nil {
		return false
	}
	return obj.IsDir()
}

func (f *afsFileSystem) ReadFile(path string) ([]byte, error) {
	return f.svc.DownloadWithURL(f.ctx, path)
}

func (f *afsFileSystem) WriteFile(ctx context.Context, path string, content []byte) error {
	return f.svc.Upload(ctx, path, file.DefaultFileOsMode, bytes.NewReader(content))
}
