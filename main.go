package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/ragc/internal/build"
	"github.com/dtnitsch/ragc/internal/index"
	"github.com/dtnitsch/ragc/pkg/corpus"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func quietFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "only log errors",
	}
}

func main() {
	// A .env file may supply RAG_CONFIG, RAG_OUT_DIR, CHUNKS_PATH and friends.
	// Variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	app := &cli.App{
		Name:  "ragc",
		Usage: "Build a retrieval corpus from a rendered static site",
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Chunk the site's HTML pages into chunks.jsonl, pages.json and .meta.json",
				Action: build.BuildAction,
				Flags: []cli.Flag{
					quietFlag(),
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Value:   "rag.config.json",
						EnvVars: []string{"RAG_CONFIG"},
						Usage:   "path to the JSON or YAML config file",
					},
					&cli.StringFlag{
						Name:    "out-dir",
						Aliases: []string{"o"},
						Value:   "rag",
						EnvVars: []string{"RAG_OUT_DIR"},
						Usage:   "directory the corpus files are written to",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "number of pages processed in parallel (overrides the config)",
					},
					&cli.StringFlag{
						Name:  "encoding",
						Usage: "tokenizer encoding, or \"estimate\" (overrides the config)",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Build docs.json and a full-text search index from chunks.jsonl",
				Action: index.IndexAction,
				Flags: []cli.Flag{
					quietFlag(),
					&cli.StringFlag{
						Name:    "chunks",
						Value:   "rag/chunks.jsonl",
						EnvVars: []string{"CHUNKS_PATH"},
						Usage:   "chunk records produced by build",
					},
					&cli.StringFlag{
						Name:    "out-dir",
						Aliases: []string{"o"},
						Value:   "_site/search",
						EnvVars: []string{"SEARCH_OUT_DIR"},
						Usage:   "directory docs.json and the index are written to",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "search index path (default <out-dir>/index.db)",
					},
					&cli.IntFlag{
						Name:    "max-text-chars",
						Value:   corpus.DefaultMaxTextChars,
						EnvVars: []string{"MAX_TEXT_CHARS_PER_PAGE"},
						Usage:   "maximum characters of text kept per page",
					},
					&cli.IntFlag{
						Name:  "workers",
						Value: 4,
						Usage: "number of pages analysed in parallel",
					},
					&cli.IntFlag{
						Name:  "top-keywords",
						Value: 10,
						Usage: "corpus keywords to print, 0 to disable",
					},
					&cli.BoolFlag{
						Name:  "detect-language",
						Usage: "store the detected language of each page",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Query the full-text search index",
				ArgsUsage: "<query>",
				Action:    index.SearchAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Value: "_site/search/index.db",
						Usage: "search index path",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Value:   10,
						Usage:   "maximum number of results",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
