// Package chunker splits page markdown into token-bounded chunks.
//
// Text is first cut into sections at heading lines. Sections are packed
// greedily while the packed text stays within MaxTokens. A section too large
// on its own is cut into paragraphs and packed the same way, optionally
// repeating the trailing paragraphs of one chunk at the start of the next.
// Paragraphs are never split; a single paragraph over MaxTokens is emitted
// whole. Any chunk under MinTokens is dropped.
package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dtnitsch/ragc/pkg/tokenizer"
)

const separator = "\n\n"

// minTailParagraphs is the smallest number of trailing paragraphs remembered
// for overlap, whatever OverlapParagraphs is.
const minTailParagraphs = 3

var (
	headingLine     = regexp.MustCompile(`^#+\s`)
	bareHeadingLine = regexp.MustCompile(`^#+$`)
	paragraphBreak  = regexp.MustCompile(`\n{2,}`)
)

var ErrInvalidOptions = errors.New("invalid chunk options")

// Options bounds the chunks produced by a Chunker.
type Options struct {
	MaxTokens         int
	MinTokens         int
	OverlapParagraphs int
}

// Chunker is safe for concurrent use if its Counter is.
type Chunker struct {
	counter tokenizer.Counter
	opts    Options
	tailCap int
}

// New validates opts and returns a Chunker counting with counter.
func New(counter tokenizer.Counter, opts Options) (*Chunker, error) {
	if counter == nil {
		return nil, fmt.Errorf("%w: nil token counter", ErrInvalidOptions)
	}
	if opts.MaxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidOptions, opts.MaxTokens)
	}
	if opts.MinTokens < 0 || opts.MinTokens > opts.MaxTokens {
		return nil, fmt.Errorf("%w: min tokens must be between 0 and %d, got %d", ErrInvalidOptions, opts.MaxTokens, opts.MinTokens)
	}
	if opts.OverlapParagraphs < 0 {
		return nil, fmt.Errorf("%w: overlap paragraphs must not be negative, got %d", ErrInvalidOptions, opts.OverlapParagraphs)
	}

	return &Chunker{
		counter: counter,
		opts:    opts,
		tailCap: max(minTailParagraphs, opts.OverlapParagraphs),
	}, nil
}

// Split returns the chunks of text in source order. It returns an empty
// result when nothing reaches MinTokens.
func (c *Chunker) Split(text string) []string {
	out := &emitter{counter: c.counter, minTokens: c.opts.MinTokens}
	var acc accumulator

	for _, section := range splitSections(text) {
		next := acc.with(section)
		if c.fits(next) {
			acc.text = next
			continue
		}

		out.flush(acc.text)
		acc.text = ""

		if c.fits(section) {
			// Carried, not flushed: it may still merge with the next section.
			acc.text = section
			continue
		}
		c.splitSection(section, out)
	}

	out.flush(acc.text)
	return out.chunks
}

// splitSection packs the paragraphs of an oversized section.
func (c *Chunker) splitSection(section string, out *emitter) {
	acc := accumulator{tail: newParagraphTail(c.tailCap)}

	for _, para := range splitParagraphs(section) {
		next := acc.with(para)
		if c.fits(next) {
			acc.text = next
			acc.tail.push(para)
			continue
		}

		out.flush(acc.text)

		if c.opts.OverlapParagraphs > 0 && acc.tail.len() > 0 {
			overlap := strings.Join(acc.tail.last(c.opts.OverlapParagraphs), separator)
			acc.text = strings.TrimSpace(overlap + separator + para)
		} else {
			acc.text = para
		}
		acc.tail.reset()
		acc.tail.push(para)
	}

	out.flush(acc.text)
}

func (c *Chunker) fits(text string) bool {
	return c.counter.Count(text) <= c.opts.MaxTokens
}

// accumulator is the text waiting to be emitted. tail is only used when
// packing paragraphs.
type accumulator struct {
	text string
	tail *paragraphTail
}

func (a *accumulator) with(next string) string {
	if a.text == "" {
		return next
	}
	return a.text + separator + next
}

type emitter struct {
	counter   tokenizer.Counter
	minTokens int
	chunks    []string
}

// flush keeps text as a chunk if it is non-blank and reaches minTokens.
func (e *emitter) flush(text string) {
	t := strings.TrimSpace(text)
	if t == "" {
		return
	}
	if e.counter.Count(t) < e.minTokens {
		return
	}
	e.chunks = append(e.chunks, t)
}

// splitSections cuts text immediately before every heading line.
func splitSections(text string) []string {
	lines := strings.Split(text, "\n")

	var parts []string
	start := 0
	for i := 1; i < len(lines); i++ {
		if isHeading(lines[i], i == len(lines)-1) {
			parts = appendTrimmed(parts, strings.Join(lines[start:i], "\n"))
			start = i
		}
	}
	return appendTrimmed(parts, strings.Join(lines[start:], "\n"))
}

// isHeading matches "#" runs followed by whitespace. A bare "#" run counts
// when a newline follows it.
func isHeading(line string, last bool) bool {
	if headingLine.MatchString(line) {
		return true
	}
	return !last && bareHeadingLine.MatchString(line)
}

func splitParagraphs(section string) []string {
	var paras []string
	for _, p := range paragraphBreak.Split(section, -1) {
		paras = appendTrimmed(paras, p)
	}
	return paras
}

func appendTrimmed(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}
