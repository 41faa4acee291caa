// Package pipeline turns discovered documents into chunk records.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/ragc/models"
	"github.com/dtnitsch/ragc/pkg/discover"
	"github.com/dtnitsch/ragc/pkg/tokenizer"
)

// Status is the terminal classification of a document.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
)

// SkipReason says why a document produced no chunks.
type SkipReason string

const (
	ReasonReadError        SkipReason = "read_error"
	ReasonExtractionFailed SkipReason = "extraction_failed"
	ReasonConversionFailed SkipReason = "conversion_failed"
	ReasonTooShort         SkipReason = "too_short"
	ReasonNoChunks         SkipReason = "no_chunks"
	ReasonPanic            SkipReason = "panic"
)

// Extractor pulls the main content out of a page, or returns nil.
type Extractor interface {
	Extract(rawURL, rawHTML string) *models.Extracted
}

// Converter renders extracted content HTML as markdown flow text.
type Converter interface {
	ToMarkdown(contentHTML string) (string, error)
}

// Splitter cuts flow text into chunks.
type Splitter interface {
	Split(text string) []string
}

// Outcome is the immutable result of processing one document. Page and
// Chunks are set only when Status is StatusSucceeded.
type Outcome struct {
	Document models.Document
	URL      string
	Status   Status
	Reason   SkipReason
	Err      error
	Page     *models.PageSummary
	Chunks   []models.ChunkRecord
}

// Processor runs documents through extract, convert, length gate and split.
type Processor struct {
	extractor    Extractor
	converter    Converter
	splitter     Splitter
	counter      tokenizer.Counter
	baseURL      *url.URL
	pretty       bool
	minTextChars int
	logger       *slog.Logger
	readFile     func(string) ([]byte, error)
}

// NewProcessor wires a Processor for cfg. A nil logger uses slog.Default().
func NewProcessor(cfg *models.Config, extractor Extractor, converter Converter, splitter Splitter, counter tokenizer.Counter, logger *slog.Logger) (*Processor, error) {
	if extractor == nil || converter == nil || splitter == nil || counter == nil {
		return nil, errors.New("processor needs an extractor, converter, splitter and token counter")
	}
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Processor{
		extractor:    extractor,
		converter:    converter,
		splitter:     splitter,
		counter:      counter,
		baseURL:      baseURL,
		pretty:       cfg.Pretty(),
		minTextChars: cfg.MinTextChars,
		logger:       logger,
		readFile:     os.ReadFile,
	}, nil
}

// Process handles one document end to end. It never fails: every problem
// ends as a skipped Outcome.
func (p *Processor) Process(doc models.Document) (out Outcome) {
	out = Outcome{
		Document: doc,
		URL:      discover.ToURL(p.baseURL, doc.SourcePath, p.pretty),
	}

	defer func() {
		if r := recover(); r != nil {
			out = p.skip(out, ReasonPanic, fmt.Errorf("panic: %v", r))
		}
	}()

	raw, err := p.readFile(doc.AbsPath)
	if err != nil {
		return p.skip(out, ReasonReadError, err)
	}

	extracted := p.extractor.Extract(out.URL, string(raw))
	if extracted == nil {
		return p.skip(out, ReasonExtractionFailed, nil)
	}

	text, err := p.converter.ToMarkdown(extracted.ContentHTML)
	if err != nil {
		return p.skip(out, ReasonConversionFailed, err)
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < p.minTextChars {
		return p.skip(out, ReasonTooShort, nil)
	}

	chunks := p.splitter.Split(text)
	if len(chunks) == 0 {
		return p.skip(out, ReasonNoChunks, nil)
	}

	title := extracted.Title
	if title == "" {
		title = out.URL
	}

	out.Status = StatusSucceeded
	out.Chunks = make([]models.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		out.Chunks[i] = models.ChunkRecord{
			ID:         models.ChunkID(out.URL, i),
			URL:        out.URL,
			Title:      title,
			SourcePath: doc.SourcePath,
			ChunkIndex: i,
			TokenCount: p.counter.Count(chunk),
			Text:       chunk,
		}
	}
	out.Page = &models.PageSummary{
		URL:        out.URL,
		Title:      title,
		Excerpt:    extracted.Excerpt,
		SourcePath: doc.SourcePath,
		ChunkCount: len(chunks),
	}
	return out
}

func (p *Processor) skip(out Outcome, reason SkipReason, err error) Outcome {
	attrs := []any{"source_path", out.Document.SourcePath, "url", out.URL, "reason", reason}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	p.logger.Warn("Skipping document", attrs...)

	out.Status = StatusSkipped
	out.Reason = reason
	out.Err = err
	out.Page = nil
	out.Chunks = nil
	return out
}
