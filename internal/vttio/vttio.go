// Package vttio moves WebVTT documents between the file system and the
// in-memory engine. Reads decode UTF-8 or BOM-marked UTF-16 input; writes
// go through temporary files so an output is either complete or absent.
package vttio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"github.com/mgpai22/vttkit/internal/subtitle"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"go.uber.org/multierr"
)

const lockName = ".vttkit.lock"

// File is one output waiting to be written.
type File struct {
	Path string
	Data string
}

// ReadText returns the decoded contents of path with any byte order mark
// removed. Invalid UTF-8 is replaced rather than rejected.
func ReadText(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(file, decoder))
	if err != nil {
		return "", fmt.Errorf("error reading subtitle file: %w", err)
	}
	return string(data), nil
}

// Open reads and parses a WebVTT file.
func Open(path string, opts subtitle.ParseOptions) (*subtitle.Document, *subtitle.Report, error) {
	text, err := ReadText(path)
	if err != nil {
		return nil, nil, err
	}
	doc, report := subtitle.Parse(text, opts)
	return doc, report, nil
}

// Glob lists the regular files in dir matching pattern, sorted by name.
// The order carries no meaning; callers sort parts with subtitle.OrderParts.
func Glob(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", m, err)
		}
		if info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	sort.Strings(files)

	return files, nil
}

// WriteFile writes a single output atomically.
func WriteFile(path, data string) error {
	return WriteAll([]File{{Path: path, Data: data}})
}

// WriteAll writes every file or none of them. Each target directory is
// locked while its files are moved into place.
func WriteAll(files []File) error {
	dirs := make(map[string]struct{})
	for _, f := range files {
		dirs[filepath.Dir(f.Path)] = struct{}{}
	}

	for dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		lock := flock.New(filepath.Join(dir, lockName))
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("lock output directory %s: %w", dir, err)
		}
		defer func() {
			_ = lock.Unlock()
			_ = os.Remove(lock.Path())
		}()
	}

	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}

	for _, f := range files {
		tmp, err := writeTemp(f)
		if err != nil {
			cleanup()
			return err
		}
		temps = append(temps, tmp)
	}

	for i, f := range files {
		if err := os.Rename(temps[i], f.Path); err != nil {
			temps = temps[i:]
			cleanup()
			return fmt.Errorf("move %s into place: %w", f.Path, err)
		}
	}

	return nil
}

func writeTemp(f File) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temporary file for %s: %w", f.Path, err)
	}

	_, werr := tmp.WriteString(f.Data)
	if werr == nil {
		werr = tmp.Sync()
	}
	cerr := tmp.Close()
	if err := multierr.Combine(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", f.Path, err)
	}

	return tmp.Name(), nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
