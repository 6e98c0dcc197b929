package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage writes media files under a base directory using the
// date-partitioned layout other tooling (cleanup scripts, direct file access)
// relies on:
//
//	<base>/audio/<decade>s/<year>/<month>/<day>/<timestamp>_<id>.<ext>
//
// The layout is a naming convention, not an index; collisions between
// concurrent uploads are prevented by the random id component.
type Storage struct {
	baseDir string
}

func NewStorage(baseDir string) *Storage {
	return &Storage{baseDir: baseDir}
}

func (s *Storage) BaseDir() string { return s.baseDir }

// AudioRelPath builds the relative path for an audio recording captured at
// the given time. ext may be passed with or without a leading dot; an empty
// ext falls back to ".bin".
func (s *Storage) AudioRelPath(capturedAt time.Time, id, ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		ext = ".bin"
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	decade := capturedAt.Year() / 10 * 10
	return filepath.Join(
		"audio",
		fmt.Sprintf("%ds", decade),
		fmt.Sprintf("%04d", capturedAt.Year()),
		fmt.Sprintf("%02d", int(capturedAt.Month())),
		fmt.Sprintf("%02d", capturedAt.Day()),
		fmt.Sprintf("%s_%s%s", capturedAt.Format("20060102T150405"), id, ext),
	)
}

// Abs resolves a relative media path against the base directory.
func (s *Storage) Abs(rel string) string {
	return filepath.Join(s.baseDir, rel)
}

// Save writes the reader's contents to the relative path, creating parent
// directories as needed. Returns the number of bytes written. A partially
// written file is removed on copy failure.
func (s *Storage) Save(rel string, r io.Reader) (int64, error) {
	abs := s.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return 0, fmt.Errorf("create media directory: %w", err)
	}

	dst, err := os.Create(abs)
	if err != nil {
		return 0, fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, r)
	if err != nil {
		_ = os.Remove(abs)
		return 0, fmt.Errorf("write media file: %w", err)
	}
	return n, nil
}

// Remove deletes the file at the relative path. Missing files are not an
// error; they may already be gone.
func (s *Storage) Remove(rel string) error {
	err := os.Remove(s.Abs(rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
