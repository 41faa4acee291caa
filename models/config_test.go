package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_JSONDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"baseUrl": "https://example.gov"}`))
	require.NoError(t, err)

	want := DefaultConfig()
	want.BaseURL = "https://example.gov"
	assert.Equal(t, want, cfg)
	assert.False(t, cfg.Pretty())
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"distDir": "public",
		"baseUrl": "https://example.gov/docs/",
		"include": ["guides/**/*.html"],
		"exclude": ["guides/drafts/**"],
		"urlStyle": "pretty",
		"chunk": {"maxTokens": 300, "overlapParagraphs": 2},
		"minTextChars": 0,
		"encoding": "o200k_base",
		"workers": 8
	}`))
	require.NoError(t, err)

	assert.Equal(t, "public", cfg.DistDir)
	assert.Equal(t, []string{"guides/**/*.html"}, cfg.Include)
	assert.Equal(t, []string{"guides/drafts/**"}, cfg.Exclude)
	assert.True(t, cfg.Pretty())
	assert.Equal(t, ChunkConfig{MaxTokens: 300, MinTokens: 120, OverlapParagraphs: 2}, cfg.Chunk)
	assert.Equal(t, 0, cfg.MinTextChars)
	assert.Equal(t, "o200k_base", cfg.Encoding)
	assert.Equal(t, 8, cfg.WorkerCount)
}

func TestParseConfig_YAMLAndNullLists(t *testing.T) {
	cfg, err := ParseConfig([]byte("baseUrl: https://example.gov\ninclude: null\nexclude: null\nurlStyle: html\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"**/*.html"}, cfg.Include)
	assert.Equal(t, []string{}, cfg.Exclude)
	assert.False(t, cfg.Pretty())
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "missing baseUrl", data: `{}`, wantErr: ErrMissingBaseURL},
		{name: "relative baseUrl", data: `{"baseUrl": "/docs"}`, wantErr: ErrInvalidConfig},
		{name: "unknown urlStyle", data: `{"baseUrl": "https://example.gov", "urlStyle": "fancy"}`, wantErr: ErrInvalidConfig},
		{name: "zero maxTokens", data: `{"baseUrl": "https://example.gov", "chunk": {"maxTokens": 0}}`, wantErr: ErrInvalidConfig},
		{name: "min above max", data: `{"baseUrl": "https://example.gov", "chunk": {"maxTokens": 100, "minTokens": 101}}`, wantErr: ErrInvalidConfig},
		{name: "negative overlap", data: `{"baseUrl": "https://example.gov", "chunk": {"overlapParagraphs": -1}}`, wantErr: ErrInvalidConfig},
		{name: "negative minTextChars", data: `{"baseUrl": "https://example.gov", "minTextChars": -5}`, wantErr: ErrInvalidConfig},
		{name: "empty encoding", data: `{"baseUrl": "https://example.gov", "encoding": ""}`, wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := ParseConfig([]byte(`{"baseUrl": [`))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rag.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"baseUrl": "https://example.gov"}`), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.gov", cfg.BaseURL)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "https://example.gov/fees/#chunk=3", ChunkID("https://example.gov/fees/", 3))
}
