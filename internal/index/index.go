package index

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dtnitsch/ragc/models"
	"github.com/dtnitsch/ragc/pkg/analytics"
	"github.com/dtnitsch/ragc/pkg/corpus"
	dbpkg "github.com/dtnitsch/ragc/pkg/db"
	"github.com/dtnitsch/ragc/pkg/detector"
	"github.com/dtnitsch/ragc/pkg/mapreduce"
	"github.com/dtnitsch/ragc/pkg/storage"
)

const (
	DocsFile = "docs.json"

	pageKeywords   = 10
	corpusKeywords = 20
)

type Options struct {
	ChunksPath     string
	OutDir         string
	DBPath         string
	MaxTextChars   int
	Workers        int
	DetectLanguage bool
}

type Result struct {
	Pages       int
	DocsPath    string
	DBPath      string
	WordCounts  map[string]int
	TopKeywords []string
}

// Run merges the chunk records at opts.ChunksPath into one document per page
// and rebuilds both docs.json and the full-text index from them.
func Run(ctx context.Context, logger *slog.Logger, opts Options) (*Result, error) {
	merger := corpus.NewMerger(opts.MaxTextChars)
	err := storage.ReadChunks(opts.ChunksPath, func(rec models.ChunkRecord) error {
		merger.Add(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	docs := merger.Docs()
	logger.Info("Merged chunks", "chunks_path", opts.ChunksPath, "pages", len(docs))

	store, err := storage.New(opts.OutDir)
	if err != nil {
		return nil, err
	}
	if err := store.SaveJSON(DocsFile, docs); err != nil {
		return nil, fmt.Errorf("error saving %s: %w", DocsFile, err)
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Title + "\n" + d.Text
	}
	a := &analytics.Analytics{}
	frequencies, err := mapreduce.MapAll(ctx, texts, a, opts.Workers)
	if err != nil {
		return nil, err
	}

	var lang *detector.Detector
	if opts.DetectLanguage {
		lang = detector.New()
	}

	pages := make([]dbpkg.Page, len(docs))
	for i, d := range docs {
		top := make(map[string]int)
		for _, wc := range analytics.Rank(frequencies[i], pageKeywords, nil) {
			top[wc.Word] = wc.Count
		}
		pages[i] = dbpkg.Page{
			URL:         d.URL,
			Title:       d.Title,
			Text:        d.Text,
			ChunkCount:  d.ChunkCount,
			TopKeywords: top,
		}
		if lang != nil {
			pages[i].Language = lang.Language(d.Text)
		}
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(opts.OutDir, dbpkg.DefaultDBName)
	}
	database, err := dbpkg.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	if err := database.ReplacePages(pages); err != nil {
		return nil, err
	}
	for k, v := range map[string]string{
		"chunks_path": opts.ChunksPath,
		"page_count":  strconv.Itoa(len(pages)),
		"built_at":    time.Now().UTC().Format(time.RFC3339),
	} {
		if err := database.SetInfo(k, v); err != nil {
			return nil, err
		}
	}
	logger.Info("Rebuilt search index", "db", dbPath, "pages", len(pages))

	wordCounts := mapreduce.Reduce(frequencies)
	return &Result{
		Pages:       len(docs),
		DocsPath:    store.Path(DocsFile),
		DBPath:      dbPath,
		WordCounts:  wordCounts,
		TopKeywords: mapreduce.TopKeywords(wordCounts, corpusKeywords),
	}, nil
}
