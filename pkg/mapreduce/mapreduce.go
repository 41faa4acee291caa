// Package mapreduce aggregates word counts across the pages of a corpus.
package mapreduce

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/ragc/pkg/analytics"
	"golang.org/x/sync/errgroup"
)

// Map generates a word frequency map for a single document's content.
func Map(content string, a *analytics.Analytics) map[string]int {
	return a.WordFrequency(content)
}

// MapAll runs Map over every document on up to workers goroutines. The
// result at index i belongs to docs[i].
func MapAll(ctx context.Context, docs []string, a *analytics.Analytics, workers int) ([]map[string]int, error) {
	if workers < 1 {
		workers = 1
	}

	out := make([]map[string]int, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Map(doc, a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}

// isValidKeyword filters malformed tokens: trailing ":" or "=", unmatched
// opening delimiters and unmatched quotes.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}

	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}, {"{", "}"}} {
		if strings.Contains(word, pair[0]) && !strings.Contains(word, pair[1]) {
			return false
		}
	}

	return strings.Count(word, `"`)%2 == 0 && strings.Count(word, "'")%2 == 0
}

// TopKeywords returns the top n keywords from aggregated word counts,
// formatted as "word:count" (e.g. "fees:42").
func TopKeywords(wordCounts map[string]int, n int) []string {
	ranked := analytics.Rank(wordCounts, n, isValidKeyword)

	keywords := make([]string, len(ranked))
	for i, wc := range ranked {
		keywords[i] = fmt.Sprintf("%s:%d", wc.Word, wc.Count)
	}
	return keywords
}

// WriteTopKeywords writes the top n keywords to w as a numbered list.
func WriteTopKeywords(w io.Writer, wordCounts map[string]int, n int) error {
	for i, wc := range analytics.Rank(wordCounts, n, isValidKeyword) {
		if _, err := fmt.Fprintf(w, "%d. %s: %d\n", i+1, wc.Word, wc.Count); err != nil {
			return err
		}
	}
	return nil
}
