// Package manifest records how a corpus was built.
package manifest

import (
	"fmt"
	"time"

	"github.com/dtnitsch/ragc/models"
	"github.com/dtnitsch/ragc/pkg/storage"
)

// Paths echoes where a build read from and wrote to.
type Paths struct {
	ConfigPath string
	DistDir    string
	DistDirAbs string
	OutDir     string
	OutDirAbs  string
}

// Counts are the corpus-wide totals of a build.
type Counts struct {
	PagesOK         int
	PagesSkipped    int
	TotalPagesFound int
	TotalChunks     int
	SkipReasons     map[string]int
}

// Build assembles the metadata for a finished build.
func Build(cfg *models.Config, paths Paths, counts Counts, encoding string, now time.Time) models.BuildMetadata {
	reasons := counts.SkipReasons
	if reasons == nil {
		reasons = map[string]int{}
	}

	return models.BuildMetadata{
		GeneratedAt:     now.UTC().Format(time.RFC3339),
		ConfigPath:      paths.ConfigPath,
		DistDir:         paths.DistDir,
		DistDirAbs:      paths.DistDirAbs,
		OutDir:          paths.OutDir,
		OutDirAbs:       paths.OutDirAbs,
		BaseURL:         cfg.BaseURL,
		URLStyle:        cfg.URLStyle,
		Include:         cfg.Include,
		Exclude:         cfg.Exclude,
		Encoding:        encoding,
		MinTextChars:    cfg.MinTextChars,
		PagesOK:         counts.PagesOK,
		PagesSkipped:    counts.PagesSkipped,
		TotalPagesFound: counts.TotalPagesFound,
		TotalChunks:     counts.TotalChunks,
		SkipReasons:     reasons,
		Chunk:           cfg.Chunk,
	}
}

// Write saves meta as the build's metadata file and returns its path.
func Write(s *storage.Storage, meta models.BuildMetadata) (string, error) {
	if err := s.SaveJSON(storage.MetaFile, meta); err != nil {
		return "", fmt.Errorf("error saving build metadata: %w", err)
	}
	return s.Path(storage.MetaFile), nil
}
