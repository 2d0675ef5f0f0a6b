// Package filestore holds the backends uploaded document files are written to.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local writes files into Dir and hands out URLs under Prefix, which the HTTP
// server maps back onto Dir as static files.
type Local struct {
	Dir    string
	Prefix string
}

func NewLocal(dir, prefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if prefix == "" {
		prefix = "/uploads"
	}
	return &Local{Dir: dir, Prefix: "/" + strings.Trim(prefix, "/")}, nil
}

func (l *Local) Save(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	name = filepath.Base(name)
	f, err := os.OpenFile(filepath.Join(l.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path.Join(l.Prefix, name), nil
}

func (l *Local) Remove(_ context.Context, fileURL string) error {
	name, ok := strings.CutPrefix(fileURL, l.Prefix+"/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return nil
	}
	err := os.Remove(filepath.Join(l.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
