package index

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	dbpkg "github.com/dtnitsch/ragc/pkg/db"
	"github.com/dtnitsch/ragc/pkg/mapreduce"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func IndexAction(c *cli.Context) error {
	logger := newLogger(c)

	res, err := Run(c.Context, logger, Options{
		ChunksPath:     c.String("chunks"),
		OutDir:         c.String("out-dir"),
		DBPath:         c.String("db"),
		MaxTextChars:   c.Int("max-text-chars"),
		Workers:        c.Int("workers"),
		DetectLanguage: c.Bool("detect-language"),
	})
	if err != nil {
		logger.Error("search index build failed", "error", err)
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	fmt.Printf("Built search index for %d pages\n", res.Pages)
	for _, path := range []string{res.DBPath, res.DocsPath} {
		if info, err := os.Stat(path); err == nil {
			fmt.Printf("Wrote: %s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
		} else {
			fmt.Printf("Wrote: %s\n", path)
		}
	}

	if n := c.Int("top-keywords"); n > 0 && len(res.WordCounts) > 0 {
		fmt.Println("\nTop keywords:")
		if err := mapreduce.WriteTopKeywords(os.Stdout, res.WordCounts, n); err != nil {
			return err
		}
	}
	return nil
}

func SearchAction(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return cli.Exit("Error: a search query is required", 1)
	}

	dbPath := c.String("db")
	if _, err := os.Stat(dbPath); err != nil {
		return cli.Exit(fmt.Sprintf("Error: search index not found at %s (run 'ragc index' first)", dbPath), 1)
	}

	database, err := dbpkg.Open(dbPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	defer database.Close()

	results, err := database.Search(query, c.Int("limit"))
	if errors.Is(err, dbpkg.ErrEmptyQuery) {
		return cli.Exit("Error: the query has no searchable terms", 1)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	if len(results) == 0 {
		fmt.Printf("No pages match %q\n", query)
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	fmt.Printf("\n%d results\n", len(results))
	return nil
}
