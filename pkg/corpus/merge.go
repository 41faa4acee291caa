// Package corpus folds chunk records back into one document per page.
package corpus

import (
	"regexp"
	"strings"

	"github.com/dtnitsch/ragc/models"
	"golang.org/x/text/unicode/norm"
)

const DefaultMaxTextChars = 20000

var whitespaceRun = regexp.MustCompile(`\s+`)

// Doc is a page reassembled from its chunks.
type Doc struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	ChunkCount int    `json:"-"`
}

// Merger groups chunk records by URL, keeping pages in first-seen order.
type Merger struct {
	maxTextChars int
	docs         []*Doc
	byURL        map[string]*Doc
}

func NewMerger(maxTextChars int) *Merger {
	if maxTextChars <= 0 {
		maxTextChars = DefaultMaxTextChars
	}
	return &Merger{maxTextChars: maxTextChars, byURL: make(map[string]*Doc)}
}

// Add folds one record into its page. The latest non-empty title wins, and
// the page text is cut to the configured number of characters after every
// append.
func (m *Merger) Add(rec models.ChunkRecord) {
	title := rec.Title
	if title == "" {
		title = rec.URL
	}

	doc, ok := m.byURL[rec.URL]
	if !ok {
		doc = &Doc{URL: rec.URL, Title: title}
		m.byURL[rec.URL] = doc
		m.docs = append(m.docs, doc)
	}
	doc.Title = title
	doc.ChunkCount++

	text := Normalize(rec.Text)
	if doc.Text != "" {
		text = doc.Text + "\n\n" + text
	}
	doc.Text = truncate(text, m.maxTextChars)
}

// Docs returns the merged pages in first-seen order.
func (m *Merger) Docs() []Doc {
	out := make([]Doc, len(m.docs))
	for i, d := range m.docs {
		out[i] = *d
	}
	return out
}

// Normalize composes text to NFC, collapses whitespace runs to single
// spaces and trims the ends.
func Normalize(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(norm.NFC.String(s), " "))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
