package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore persists an uploaded file and returns a URL clients can fetch it from.
type BlobStore interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// FSStore writes blobs below base and serves them under publicURL.
type FSStore struct {
	base      string
	publicURL string
}

func NewFSStore(base, publicURL string) (*FSStore, error) {
	if base == "" {
		base = "./uploads"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Upload stores r under a collision-free key derived from name.
func (s *FSStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := uuid.NewString() + sanitizeExt(name)
	dst := filepath.Join(s.base, key)

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, &ctxReader{ctx: ctx, r: r}); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}

	return s.publicURL + "/" + url.PathEscape(key), nil
}

// Dir is the directory served as static files.
func (s *FSStore) Dir() string {
	return s.base
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(path.Ext(filepath.Base(name)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		return ""
	}
	return ext
}

// ctxReader aborts a copy once the upload deadline passes.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, errors.Join(ErrUploadCancelled, err)
	}
	return c.r.Read(p)
}

var ErrUploadCancelled = errors.New("upload cancelled")
