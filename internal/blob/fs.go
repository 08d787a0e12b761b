package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSSink writes objects as files under a root directory.
type FSSink struct {
	root string
}

// NewFSSink returns a sink rooted at dir, creating it if needed.
func NewFSSink(dir string) (*FSSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &FSSink{root: dir}, nil
}

// Root returns the output directory.
func (s *FSSink) Root() string {
	return s.root
}

// Put streams r into a temporary file and renames it over the target, so a
// reader never sees a partially written file.
func (s *FSSink) Put(ctx context.Context, key string, r io.Reader, _ string) error {
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.root, filepath.FromSlash(k))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving %s into place: %w", key, err)
	}
	return nil
}
