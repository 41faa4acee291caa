// Package models defines data structures for configuration and corpus output.
package models

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// URL styles recognised in the config file.
const (
	URLStylePlain  = "plain"
	URLStyleHTML   = "html" // alias of plain, kept for older config files
	URLStylePretty = "pretty"
)

var (
	ErrMissingBaseURL = errors.New("config must include baseUrl")
	ErrInvalidConfig  = errors.New("invalid config")
)

// ChunkConfig controls the segmenter.
type ChunkConfig struct {
	MaxTokens         int `yaml:"maxTokens" json:"maxTokens"`
	MinTokens         int `yaml:"minTokens" json:"minTokens"`
	OverlapParagraphs int `yaml:"overlapParagraphs" json:"overlapParagraphs"`
}

// Config holds the corpus build configuration. It is read from a JSON or
// YAML file; keys missing from the file keep their defaults.
type Config struct {
	DistDir      string      `yaml:"distDir"`
	BaseURL      string      `yaml:"baseUrl"`
	Include      []string    `yaml:"include"`
	Exclude      []string    `yaml:"exclude"`
	URLStyle     string      `yaml:"urlStyle"`
	Chunk        ChunkConfig `yaml:"chunk"`
	MinTextChars int         `yaml:"minTextChars"`
	Encoding     string      `yaml:"encoding"`
	WorkerCount  int         `yaml:"workers"`
}

// DefaultConfig returns a Config with every optional value filled in.
// BaseURL has no default.
func DefaultConfig() *Config {
	return &Config{
		DistDir:  "_site",
		Include:  []string{"**/*.html"},
		Exclude:  []string{},
		URLStyle: URLStylePlain,
		Chunk: ChunkConfig{
			MaxTokens:         450,
			MinTokens:         120,
			OverlapParagraphs: 0,
		},
		MinTextChars: 80,
		Encoding:     "cl100k_base",
		WorkerCount:  4,
	}
}

// LoadConfig reads the config file at path over the defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes config bytes (JSON is valid YAML) over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// An explicit null list decodes to nil; treat it like an absent key.
	if cfg.Include == nil {
		cfg.Include = []string{"**/*.html"}
	}
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields a build cannot run without.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: baseUrl %q is not an absolute URL", ErrInvalidConfig, c.BaseURL)
	}

	switch c.URLStyle {
	case URLStylePlain, URLStyleHTML, URLStylePretty:
	default:
		return fmt.Errorf("%w: urlStyle must be %q or %q, got %q", ErrInvalidConfig, URLStylePlain, URLStylePretty, c.URLStyle)
	}

	if c.Chunk.MaxTokens <= 0 {
		return fmt.Errorf("%w: chunk.maxTokens must be positive, got %d", ErrInvalidConfig, c.Chunk.MaxTokens)
	}
	if c.Chunk.MinTokens < 0 || c.Chunk.MinTokens > c.Chunk.MaxTokens {
		return fmt.Errorf("%w: chunk.minTokens must be between 0 and %d, got %d", ErrInvalidConfig, c.Chunk.MaxTokens, c.Chunk.MinTokens)
	}
	if c.Chunk.OverlapParagraphs < 0 {
		return fmt.Errorf("%w: chunk.overlapParagraphs must not be negative", ErrInvalidConfig)
	}
	if c.MinTextChars < 0 {
		return fmt.Errorf("%w: minTextChars must not be negative", ErrInvalidConfig)
	}
	if c.Encoding == "" {
		return fmt.Errorf("%w: encoding must not be empty", ErrInvalidConfig)
	}
	return nil
}

// Pretty reports whether URLs drop the .html suffix.
func (c *Config) Pretty() bool {
	return c.URLStyle == URLStylePretty
}
