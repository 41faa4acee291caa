package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dtnitsch/ragc/models"
	"github.com/dtnitsch/ragc/pkg/chunker"
	"github.com/dtnitsch/ragc/pkg/discover"
	"github.com/dtnitsch/ragc/pkg/manifest"
	"github.com/dtnitsch/ragc/pkg/parser"
	"github.com/dtnitsch/ragc/pkg/pipeline"
	"github.com/dtnitsch/ragc/pkg/storage"
	"github.com/dtnitsch/ragc/pkg/tokenizer"
)

// Options are the run settings that do not live in the config file.
type Options struct {
	ConfigPath string
	OutDir     string
}

// Artifact is one file written by a build.
type Artifact struct {
	Path      string
	SizeBytes int64
}

// Result describes a completed build.
type Result struct {
	Meta      models.BuildMetadata
	Artifacts []Artifact
}

// Run builds the corpus described by cfg into opts.OutDir. Any returned
// error is fatal for the run; the metadata file is only written when
// everything else succeeded.
func Run(ctx context.Context, logger *slog.Logger, cfg *models.Config, opts Options) (*Result, error) {
	counter, err := tokenizer.New(cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	ch, err := chunker.New(counter, chunker.Options{
		MaxTokens:         cfg.Chunk.MaxTokens,
		MinTokens:         cfg.Chunk.MinTokens,
		OverlapParagraphs: cfg.Chunk.OverlapParagraphs,
	})
	if err != nil {
		return nil, err
	}

	distDirAbs, err := filepath.Abs(cfg.DistDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site directory: %w", err)
	}
	outDirAbs, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	docs, err := discover.Documents(distDirAbs, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	logger.Info("Discovered documents", "dist_dir", distDirAbs, "count", len(docs))

	store, err := storage.New(outDirAbs)
	if err != nil {
		return nil, err
	}
	// A run that fails from here on leaves no metadata file.
	if store.HasFile(storage.MetaFile) {
		if err := store.RemoveFile(storage.MetaFile); err != nil {
			return nil, err
		}
		logger.Info("Removed previous build metadata", "path", store.Path(storage.MetaFile))
	}

	p := &parser.Parser{}
	proc, err := pipeline.NewProcessor(cfg, p, p, ch, counter, logger)
	if err != nil {
		return nil, err
	}

	outcomes, stats, err := proc.Run(ctx, docs, cfg.WorkerCount)
	if err != nil {
		return nil, fmt.Errorf("build interrupted: %w", err)
	}

	if err := writeCorpus(logger, store, outcomes); err != nil {
		return nil, err
	}

	meta := manifest.Build(cfg, manifest.Paths{
		ConfigPath: opts.ConfigPath,
		DistDir:    cfg.DistDir,
		DistDirAbs: distDirAbs,
		OutDir:     opts.OutDir,
		OutDirAbs:  outDirAbs,
	}, manifest.Counts{
		PagesOK:         stats.PagesOK,
		PagesSkipped:    stats.PagesSkipped,
		TotalPagesFound: len(docs),
		TotalChunks:     stats.TotalChunks,
		SkipReasons:     stats.SkipReasons,
	}, counter.Name(), time.Now())

	if _, err := manifest.Write(store, meta); err != nil {
		return nil, err
	}

	res := &Result{Meta: meta}
	for _, name := range []string{storage.ChunksFile, storage.PagesFile, storage.MetaFile} {
		fs, err := store.GetFileStats(name)
		if err != nil {
			return nil, err
		}
		res.Artifacts = append(res.Artifacts, Artifact{Path: store.Path(name), SizeBytes: fs.SizeBytes})
	}
	return res, nil
}

// writeCorpus streams chunk records and then writes the page index, both in
// discovery order.
func writeCorpus(logger *slog.Logger, store *storage.Storage, outcomes []pipeline.Outcome) error {
	cw, err := store.CreateChunks(storage.ChunksFile)
	if err != nil {
		return err
	}

	pages := []models.PageSummary{}
	for _, o := range outcomes {
		if o.Status != pipeline.StatusSucceeded {
			continue
		}
		for _, rec := range o.Chunks {
			if err := cw.Write(rec); err != nil {
				_ = cw.Close()
				return err
			}
		}
		pages = append(pages, *o.Page)
	}
	if err := cw.Close(); err != nil {
		return err
	}
	logger.Info("Wrote chunk records", "path", store.Path(storage.ChunksFile), "chunks", cw.Count(), "pages", len(pages))

	return store.SaveJSON(storage.PagesFile, pages)
}
