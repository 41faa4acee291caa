package models

import "fmt"

// Document is one discovered HTML file.
type Document struct {
	Index      int    // position in discovery order
	SourcePath string // slash-separated, relative to distDir
	AbsPath    string
}

// Extracted is the main content pulled out of a page. A nil *Extracted
// means there was nothing worth indexing.
type Extracted struct {
	Title       string
	Excerpt     string
	ContentHTML string
}

// ChunkRecord is one line of chunks.jsonl.
type ChunkRecord struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	SourcePath string `json:"source_path"`
	ChunkIndex int    `json:"chunk_index"`
	TokenCount int    `json:"token_count"`
	Text       string `json:"text"`
}

// ChunkID builds the synthetic record id for chunk i of a page.
func ChunkID(url string, i int) string {
	return fmt.Sprintf("%s#chunk=%d", url, i)
}

// PageSummary is one entry of pages.json.
type PageSummary struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	SourcePath string `json:"source_path"`
	ChunkCount int    `json:"chunkCount"`
}

// BuildMetadata is written to .meta.json once a build completes.
type BuildMetadata struct {
	GeneratedAt     string         `json:"generatedAt"`
	ConfigPath      string         `json:"configPath"`
	DistDir         string         `json:"distDir"`
	DistDirAbs      string         `json:"distDirAbs"`
	OutDir          string         `json:"outDir"`
	OutDirAbs       string         `json:"outDirAbs"`
	BaseURL         string         `json:"baseUrl"`
	URLStyle        string         `json:"urlStyle"`
	Include         []string       `json:"include"`
	Exclude         []string       `json:"exclude"`
	Encoding        string         `json:"encoding"`
	MinTextChars    int            `json:"minTextChars"`
	PagesOK         int            `json:"pagesOk"`
	PagesSkipped    int            `json:"pagesSkipped"`
	TotalPagesFound int            `json:"totalPagesFound"`
	TotalChunks     int            `json:"totalChunks"`
	SkipReasons     map[string]int `json:"skipReasons"`
	Chunk           ChunkConfig    `json:"chunk"`
}
