// Package paths maps slot file names onto the per-user application-data directory.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ziyyanmart/localstore/internal/apperr"
	"github.com/ziyyanmart/localstore/internal/logger"
)

// DirProvider reports the application-data directory. platform.Environment satisfies it.
type DirProvider interface {
	AppDataDir() (string, error)
}

// Resolver computes absolute file paths under the application-data directory.
// Resolution is pure: it never touches the filesystem.
type Resolver struct {
	provider DirProvider
}

func NewResolver(provider DirProvider) (*Resolver, error) {
	if provider == nil {
		return nil, errors.New("directory provider is nil")
	}
	return &Resolver{provider: provider}, nil
}

// Dir returns the application-data directory or a path_resolution error.
func (r *Resolver) Dir() (string, error) {
	dir, err := r.provider.AppDataDir()
	if err != nil {
		return "", apperr.PathResolution("resolve app data dir", err)
	}
	if dir == "" || !filepath.IsAbs(dir) {
		return "", apperr.PathResolution("resolve app data dir", fmt.Errorf("not an absolute path: %q", dir))
	}
	return filepath.Clean(dir), nil
}

// Resolve joins a bare file name onto the application-data directory.
func (r *Resolver) Resolve(fileName string) (string, error) {
	if fileName == "" || fileName == "." || fileName == ".." || strings.ContainsAny(fileName, `/\`) {
		return "", apperr.PathResolution("resolve file", fmt.Errorf("invalid file name %q", fileName))
	}
	dir, err := r.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// EnsureDir creates dir and any missing ancestors. It is a no-op when dir exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.IO("create directory", dir, err)
	}
	logger.WithComponent("paths").Tracef("ensured directory %s", dir)
	return nil
}
