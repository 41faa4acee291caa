package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrPageNotFound = errors.New("page not found")

// Page is one merged document stored in the search index.
type Page struct {
	URL         string
	Title       string
	Text        string
	Language    string
	ChunkCount  int
	TopKeywords map[string]int
}

// ReplacePages rebuilds the index so that it holds exactly pages, in order.
func (db *DB) ReplacePages(pages []Page) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM pages_fts"); err != nil {
		return fmt.Errorf("failed to clear full-text index: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM pages"); err != nil {
		return fmt.Errorf("failed to clear pages: %w", err)
	}

	insertPage, err := tx.Prepare(`
		INSERT INTO pages (url, title, text, language, chunk_count, top_keywords)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer insertPage.Close()

	insertFTS, err := tx.Prepare("INSERT INTO pages_fts (rowid, title, text) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare full-text insert: %w", err)
	}
	defer insertFTS.Close()

	for _, p := range pages {
		keywords, err := encodeKeywords(p.TopKeywords)
		if err != nil {
			return err
		}

		result, err := insertPage.Exec(p.URL, p.Title, p.Text, NewNullString(p.Language), p.ChunkCount, keywords)
		if err != nil {
			return fmt.Errorf("failed to insert page %s: %w", p.URL, err)
		}
		pageID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get page ID: %w", err)
		}

		if _, err := insertFTS.Exec(pageID, p.Title, p.Text); err != nil {
			return fmt.Errorf("failed to index page %s: %w", p.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

// CountPages returns the number of indexed pages.
func (db *DB) CountPages() (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

// GetPage looks up a page by URL.
func (db *DB) GetPage(url string) (*Page, error) {
	var (
		p        Page
		language sql.NullString
		keywords sql.NullString
	)
	err := db.QueryRow(`
		SELECT url, title, text, language, chunk_count, top_keywords
		FROM pages WHERE url = ?
	`, url).Scan(&p.URL, &p.Title, &p.Text, &language, &p.ChunkCount, &keywords)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	p.Language = language.String
	if keywords.Valid && keywords.String != "" {
		if err := json.Unmarshal([]byte(keywords.String), &p.TopKeywords); err != nil {
			return nil, fmt.Errorf("failed to decode keywords for %s: %w", url, err)
		}
	}
	return &p, nil
}

// SetInfo records a key-value detail about the index build.
func (db *DB) SetInfo(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO index_info (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set index info: %w", err)
	}
	return nil
}

// GetInfo returns a detail recorded with SetInfo, or "" when absent.
func (db *DB) GetInfo(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM index_info WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get index info: %w", err)
	}
	return value, nil
}

func encodeKeywords(keywords map[string]int) (sql.NullString, error) {
	if len(keywords) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode keywords: %w", err)
	}
	return NewNullString(string(data)), nil
}

// NewNullString creates a sql.NullString, treating "" as NULL.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
