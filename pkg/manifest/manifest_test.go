package manifest

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/dtnitsch/ragc/models"
	"github.com/dtnitsch/ragc/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAndWrite(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.BaseURL = "https://example.gov"
	cfg.Chunk.OverlapParagraphs = 1

	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.FixedZone("BST", 3600))
	meta := Build(cfg, Paths{ConfigPath: "rag.config.json", DistDir: "_site", OutDir: "rag"}, Counts{
		PagesOK:         3,
		PagesSkipped:    1,
		TotalPagesFound: 4,
		TotalChunks:     7,
	}, "cl100k_base", now)

	assert.Equal(t, "2026-10-15T08:30:00Z", meta.GeneratedAt)
	assert.Equal(t, map[string]int{}, meta.SkipReasons)
	assert.Equal(t, 1, meta.Chunk.OverlapParagraphs)

	s, err := storage.New(t.TempDir())
	require.NoError(t, err)
	path, err := Write(s, meta)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "https://example.gov", got["baseUrl"])
	assert.Equal(t, "plain", got["urlStyle"])
	assert.Equal(t, "cl100k_base", got["encoding"])
	assert.Equal(t, float64(3), got["pagesOk"])
	assert.Equal(t, float64(1), got["pagesSkipped"])
	assert.Equal(t, float64(4), got["totalPagesFound"])
	assert.Equal(t, float64(7), got["totalChunks"])
	assert.Equal(t, map[string]any{"maxTokens": float64(450), "minTokens": float64(120), "overlapParagraphs": float64(1)}, got["chunk"])
	assert.Equal(t, []any{"**/*.html"}, got["include"])
}
