// Package exporter mirrors the heritage catalogue into a local sink.
package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File names used inside a FileSink directory.
const (
	RecordsFile   = "records.ndjson"
	BookmarksFile = "bookmarks.json"
)

// FileSink appends records as NDJSON and keeps bookmarks in a JSON file,
// both inside one directory.
type FileSink struct {
	dir string
	mu  sync.Mutex
}

var _ Sink = (*FileSink)(nil)

// NewFileSink creates dir if needed and returns a sink writing into it.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sink directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// RecordsPath returns the path of the NDJSON records file.
func (s *FileSink) RecordsPath() string {
	return filepath.Join(s.dir, RecordsFile)
}

// WriteRecords appends one JSON line per record.
func (s *FileSink) WriteRecords(ctx context.Context, records []ExportRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.RecordsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening records file: %w", err)
	}

	enc := json.NewEncoder(f)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			_ = f.Close()
			return fmt.Errorf("encoding record %s: %w", records[i].HeritageID, err)
		}
	}
	return f.Close()
}

// GetBookmark returns the stored value for key, or "" when none is stored.
func (s *FileSink) GetBookmark(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.readBookmarks()
	if err != nil {
		return "", err
	}
	return bookmarks[key], nil
}

// SetBookmark stores value under key, replacing the file atomically.
func (s *FileSink) SetBookmark(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.readBookmarks()
	if err != nil {
		return err
	}
	bookmarks[key] = value

	data, err := json.MarshalIndent(bookmarks, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bookmarks: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, BookmarksFile+".*")
	if err != nil {
		return fmt.Errorf("creating bookmarks file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing bookmarks: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, BookmarksFile)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing bookmarks: %w", err)
	}
	return nil
}

func (s *FileSink) readBookmarks() (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, BookmarksFile))
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading bookmarks: %w", err)
	}

	var bookmarks map[string]string
	if err := json.Unmarshal(data, &bookmarks); err != nil {
		return nil, fmt.Errorf("decoding bookmarks: %w", err)
	}
	if bookmarks == nil {
		bookmarks = make(map[string]string)
	}
	return bookmarks, nil
}
