package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dtnitsch/ragc/models"
)

// maxRecordBytes bounds a single chunks.jsonl line when reading.
const maxRecordBytes = 16 << 20

// lineSeparators are stripped from records so every line stays one JSON
// value for line-oriented readers.
var lineSeparators = strings.NewReplacer("\u2028", "", "\u2029", "")

// ChunkWriter appends chunk records to a JSONL file, one per line.
type ChunkWriter struct {
	f   *os.File
	w   *bufio.Writer
	enc *json.Encoder
	n   int
}

// CreateChunks truncates and opens the named JSONL file.
func (s *Storage) CreateChunks(name string) (*ChunkWriter, error) {
	f, err := os.Create(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("error creating %s: %w", name, err)
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &ChunkWriter{f: f, w: w, enc: enc}, nil
}

func (cw *ChunkWriter) Write(rec models.ChunkRecord) error {
	rec.ID = lineSeparators.Replace(rec.ID)
	rec.URL = lineSeparators.Replace(rec.URL)
	rec.Title = lineSeparators.Replace(rec.Title)
	rec.SourcePath = lineSeparators.Replace(rec.SourcePath)
	rec.Text = lineSeparators.Replace(rec.Text)

	if err := cw.enc.Encode(rec); err != nil {
		return fmt.Errorf("error writing chunk %s: %w", rec.ID, err)
	}
	cw.n++
	return nil
}

// Count is the number of records written so far.
func (cw *ChunkWriter) Count() int { return cw.n }

// Close flushes buffered records and closes the file.
func (cw *ChunkWriter) Close() error {
	flushErr := cw.w.Flush()
	closeErr := cw.f.Close()
	if flushErr != nil {
		return fmt.Errorf("error flushing chunks: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("error closing chunks: %w", closeErr)
	}
	return nil
}

// ReadChunks calls fn for every record of a JSONL file in order. Blank
// lines are ignored.
func ReadChunks(path string, fn func(models.ChunkRecord) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening chunks: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxRecordBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec models.ChunkRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return fmt.Errorf("error decoding %s line %d: %w", path, line, err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading chunks: %w", err)
	}
	return nil
}
