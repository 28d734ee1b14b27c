package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const DefaultMaxEntries = 200

var ErrUnreadableArchive = errors.New("zip archive is unreadable")

// Entry is one archive member as seen by SafeExtract.
type Entry struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Skipped string `json:"skipped,omitempty"`
	Bytes   int64  `json:"bytes"`
}

type ExtractOptions struct {
	MaxEntries   int   // only the first MaxEntries members are considered
	MaxFileBytes int64 // larger members are skipped; 0 means 100 MB
}

// SafeExtract writes the members of the zip in data below dest. Directory
// entries and macOS metadata are skipped, and members that would resolve
// outside dest are refused. Returned entries cover every considered member;
// Path is set only for members actually written.
func SafeExtract(data []byte, dest string, opts ExtractOptions) ([]Entry, error) {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = 100 << 20
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	// insecure names are refused per entry below
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableArchive, err)
	}

	root, err := filepath.Abs(dest)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}

	files := zr.File
	if len(files) > opts.MaxEntries {
		files = files[:opts.MaxEntries]
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		e := Entry{Name: f.Name, Bytes: int64(f.UncompressedSize64)}

		switch {
		case f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/"):
			continue
		case isJunk(f.Name):
			e.Skipped = "macos metadata"
			entries = append(entries, e)
			continue
		case e.Bytes > opts.MaxFileBytes:
			e.Skipped = "too large"
			entries = append(entries, e)
			continue
		}

		target, ok := resolveInside(root, f.Name)
		if !ok {
			e.Skipped = "path escapes extraction directory"
			entries = append(entries, e)
			continue
		}

		if err := writeMember(f, target, opts.MaxFileBytes); err != nil {
			e.Skipped = err.Error()
			entries = append(entries, e)
			continue
		}
		e.Path = target
		entries = append(entries, e)
	}

	return entries, nil
}

func isJunk(name string) bool {
	n := strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(n, "__MACOSX/") || strings.Contains(n, "/__MACOSX/") {
		return true
	}
	base := n
	if i := strings.LastIndex(n, "/"); i >= 0 {
		base = n[i+1:]
	}
	return strings.HasPrefix(base, "._") || base == ".DS_Store"
}

// resolveInside joins name onto root and reports whether the result stays
// strictly below root.
func resolveInside(root, name string) (string, bool) {
	n := strings.ReplaceAll(name, "\\", "/")
	if filepath.IsAbs(n) || strings.HasPrefix(n, "/") || filepath.VolumeName(n) != "" {
		return "", false
	}
	target := filepath.Join(root, filepath.FromSlash(n))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

func writeMember(f *zip.File, target string, limit int64) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	n, err := io.Copy(out, io.LimitReader(src, limit+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > limit {
		err = errors.New("too large")
	}
	if err != nil {
		_ = os.Remove(target)
	}
	return err
}
