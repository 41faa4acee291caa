package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Output file names inside the corpus directory.
const (
	ChunksFile = "chunks.jsonl"
	PagesFile  = "pages.json"
	MetaFile   = ".meta.json"
)

// Storage writes corpus artifacts into one directory.
type Storage struct {
	dir string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// New creates dir if needed.
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Path returns the full path of an artifact.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Storage) SaveFile(name string, content []byte) error {
	if err := os.WriteFile(s.Path(name), content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

// SaveJSON writes v as two-space indented JSON without HTML escaping.
func (s *Storage) SaveJSON(name string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error marshalling %s: %w", name, err)
	}
	return s.SaveFile(name, bytes.TrimRight(buf.Bytes(), "\n"))
}

func (s *Storage) HasFile(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// RemoveFile deletes an artifact if it exists.
func (s *Storage) RemoveFile(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing %s: %w", name, err)
	}
	return nil
}

// GetFileStats returns metadata about an artifact using os.Stat.
func (s *Storage) GetFileStats(name string) (*FileStats, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}
