package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadLocation is where one weekly upload lives on disk.
type UploadLocation struct {
	Dir          string // {root}/{course}/week_{n}/{ts}
	ZipPath      string
	ExtractedDir string
	StoredName   string
	UploadTs     int64
}

type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) *LocalStorage {
	if root == "" {
		root = "uploads/weekly"
	}
	return &LocalStorage{root: root}
}

func (s *LocalStorage) Root() string {
	return s.root
}

// SaveWeeklyZip writes the raw archive under a per-upload directory keyed by
// the upload time in milliseconds. Only the base name of zipFilename is used.
func (s *LocalStorage) SaveWeeklyZip(courseId string, week int, zipFilename string, data []byte, now time.Time) (*UploadLocation, error) {
	ts := now.UnixMilli()
	dir := filepath.Join(s.root, courseId, fmt.Sprintf("week_%d", week), fmt.Sprintf("%d", ts))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	name := SafeBaseName(zipFilename)
	if name == "" {
		name = fmt.Sprintf("week_%d.zip", week)
	}

	zipPath := filepath.Join(dir, name)
	if err := os.WriteFile(zipPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &UploadLocation{
		Dir:          dir,
		ZipPath:      zipPath,
		ExtractedDir: filepath.Join(dir, "extracted"),
		StoredName:   name,
		UploadTs:     ts,
	}, nil
}

// RelativePath reports p relative to the storage root, slash separated.
func (s *LocalStorage) RelativePath(p string) string {
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// SafeBaseName strips any directory part (either separator) from a client
// supplied file name.
func SafeBaseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "." || name == ".." {
		return ""
	}
	return name
}
