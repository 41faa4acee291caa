package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA temp_store = MEMORY;

-- Pages: one merged document per URL in the corpus
CREATE TABLE IF NOT EXISTS pages (
    page_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    text TEXT NOT NULL,
    language TEXT,
    chunk_count INTEGER DEFAULT 0,
    indexed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

    -- Top keywords as JSON object: {"word1": count1, "word2": count2, ...}
    top_keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_pages_language ON pages(language);

-- Full-text index over title and text; rowid matches pages.page_id
CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
    title,
    text,
    tokenize = 'unicode61 remove_diacritics 2'
);

-- Key-value details about the last index build
CREATE TABLE IF NOT EXISTS index_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
