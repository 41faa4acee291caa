package db

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrEmptyQuery = errors.New("empty search query")

// SearchResult is one ranked page match.
type SearchResult struct {
	URL     string
	Title   string
	Snippet string
	Score   float64
}

// Title matches weigh more than body matches.
const (
	titleWeight = 10.0
	textWeight  = 1.0
)

// MatchQuery turns free text into an FTS5 query that requires every term.
// Terms are quoted so user input can never be read as FTS5 syntax.
func MatchQuery(query string) string {
	terms := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, `"`+strings.ToLower(t)+`"`)
	}
	return strings.Join(quoted, " ")
}

// Search ranks pages matching every term of query by bm25, best first.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	match := MatchQuery(query)
	if match == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.Query(`
		SELECT p.url, p.title,
			snippet(pages_fts, 1, '[', ']', '...', 16),
			bm25(pages_fts, ?, ?) AS score
		FROM pages_fts
		JOIN pages p ON p.page_id = pages_fts.rowid
		WHERE pages_fts MATCH ?
		ORDER BY score, p.page_id
		LIMIT ?
	`, titleWeight, textWeight, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.URL, &r.Title, &r.Snippet, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}
