package build

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/ragc/models"
	"github.com/dtnitsch/ragc/pkg/storage"
	"github.com/dtnitsch/ragc/pkg/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longPage = `<!doctype html>
<html><head><title>%s</title></head>
<body><main>
<h1>%s</h1>
<p>You can pay court and tribunal fees online using a debit or credit card. Payments are taken straight away and you get a confirmation email.</p>
<p>If you cannot pay online you can pay by telephone or by post. Allow at least five working days for postal payments to be processed.</p>
</main></body></html>`

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	return root
}

func page(title string) string {
	return strings.ReplaceAll(longPage, "%s", title)
}

func testConfig(distDir string) *models.Config {
	cfg := models.DefaultConfig()
	cfg.DistDir = distDir
	cfg.BaseURL = "https://example.gov"
	cfg.Encoding = tokenizer.EstimateEncoding
	cfg.Chunk.MinTokens = 10
	cfg.Chunk.MaxTokens = 200
	cfg.Exclude = []string{"drafts/**"}
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	site := writeSite(t, map[string]string{
		"index.html":              page("Pay a fee"),
		"guides/index.html":       page("Guides"),
		"guides/postal.html":      page("Postal payments"),
		"short.html":              "<html><body><p>Too short.</p></body></html>",
		"drafts/unpublished.html": page("Draft"),
		"assets/site.css":         "body{}",
	})
	outDir := filepath.Join(t.TempDir(), "rag")

	res, err := Run(context.Background(), discardLogger(), testConfig(site), Options{ConfigPath: "rag.config.json", OutDir: outDir})
	require.NoError(t, err)

	meta := res.Meta
	assert.Equal(t, 3, meta.PagesOK)
	assert.Equal(t, 1, meta.PagesSkipped)
	assert.Equal(t, 4, meta.TotalPagesFound)
	assert.Equal(t, map[string]int{"too_short": 1}, meta.SkipReasons)
	assert.Equal(t, tokenizer.EstimateEncoding, meta.Encoding)
	assert.Equal(t, "rag.config.json", meta.ConfigPath)
	assert.Equal(t, outDir, meta.OutDirAbs)

	require.Len(t, res.Artifacts, 3)
	for _, a := range res.Artifacts {
		assert.FileExists(t, a.Path)
		assert.Positive(t, a.SizeBytes)
	}

	var recs []models.ChunkRecord
	require.NoError(t, storage.ReadChunks(filepath.Join(outDir, storage.ChunksFile), func(r models.ChunkRecord) error {
		recs = append(recs, r)
		return nil
	}))
	assert.Equal(t, meta.TotalChunks, len(recs))
	require.NotEmpty(t, recs)

	// Pages come out in sorted discovery order.
	seen := []string{}
	for _, r := range recs {
		if len(seen) == 0 || seen[len(seen)-1] != r.URL {
			seen = append(seen, r.URL)
		}
		assert.Equal(t, models.ChunkID(r.URL, r.ChunkIndex), r.ID)
		assert.LessOrEqual(t, r.TokenCount, 200)
	}
	assert.Equal(t, []string{
		"https://example.gov/guides/",
		"https://example.gov/guides/postal.html",
		"https://example.gov/",
	}, seen)

	data, err := os.ReadFile(filepath.Join(outDir, storage.PagesFile))
	require.NoError(t, err)
	var pages []models.PageSummary
	require.NoError(t, json.Unmarshal(data, &pages))
	require.Len(t, pages, 3)
	assert.Equal(t, "Guides", pages[0].Title)
	assert.Equal(t, "guides/index.html", pages[0].SourcePath)
}

func TestRun_EmptySite(t *testing.T) {
	site := writeSite(t, map[string]string{"robots.txt": "User-agent: *"})
	outDir := filepath.Join(t.TempDir(), "rag")

	res, err := Run(context.Background(), discardLogger(), testConfig(site), Options{OutDir: outDir})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Meta.TotalPagesFound)

	data, err := os.ReadFile(filepath.Join(outDir, storage.PagesFile))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = os.ReadFile(filepath.Join(outDir, storage.ChunksFile))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRun_FatalErrors(t *testing.T) {
	site := writeSite(t, map[string]string{"index.html": page("Home")})

	t.Run("unknown encoding", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "rag")
		cfg := testConfig(site)
		cfg.Encoding = "no_such_encoding"

		_, err := Run(context.Background(), discardLogger(), cfg, Options{OutDir: outDir})
		assert.ErrorIs(t, err, tokenizer.ErrUnknownEncoding)
		assert.NoDirExists(t, outDir)
	})

	t.Run("missing site directory", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "rag")

		_, err := Run(context.Background(), discardLogger(), testConfig(filepath.Join(site, "nope")), Options{OutDir: outDir})
		assert.Error(t, err)
		assert.NoFileExists(t, filepath.Join(outDir, storage.MetaFile))
	})

	t.Run("cancelled", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "rag")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Metadata from an earlier successful build.
		require.NoError(t, os.MkdirAll(outDir, 0750))
		require.NoError(t, os.WriteFile(filepath.Join(outDir, storage.MetaFile), []byte(`{"pagesOk":9}`), 0600))

		_, err := Run(ctx, discardLogger(), testConfig(site), Options{OutDir: outDir})
		assert.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, filepath.Join(outDir, storage.MetaFile))
	})
}
