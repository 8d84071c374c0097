package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per fetch of a source URL
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    source_url TEXT NOT NULL,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    pages_fetched INTEGER DEFAULT 0,
    listings_found INTEGER DEFAULT 0,
    sold_count INTEGER DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running',   -- running, success, failed
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);

-- Listings: extracted cards, keyed by run and in-run sequence
CREATE TABLE IF NOT EXISTS listings (
    listing_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    name TEXT NOT NULL,
    link TEXT,
    finn_code TEXT,
    image_url TEXT,
    additional_info TEXT,
    details TEXT,
    year INTEGER,
    mileage INTEGER,
    age INTEGER,
    km_per_year INTEGER,
    price_amount INTEGER,
    price_sold BOOLEAN NOT NULL DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_listings_run ON listings(run_id);
CREATE INDEX IF NOT EXISTS idx_listings_finn_code ON listings(finn_code);

-- Valuations: scored listings per run
CREATE TABLE IF NOT EXISTS valuations (
    valuation_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    listing_seq INTEGER NOT NULL,
    name TEXT NOT NULL,
    year INTEGER NOT NULL,
    age INTEGER NOT NULL,
    price INTEGER NOT NULL,
    km_per_year INTEGER NOT NULL,
    matched_model TEXT NOT NULL,
    matched_year INTEGER NOT NULL,
    match_score REAL NOT NULL,
    original_price INTEGER NOT NULL,
    expected_value INTEGER NOT NULL,
    actual_pct REAL NOT NULL,
    expected_pct REAL NOT NULL,
    diff_pct REAL NOT NULL,
    price_grade TEXT NOT NULL,
    mileage_grade TEXT NOT NULL,
    overall_grade TEXT NOT NULL,
    recommendation TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, listing_seq)
);

CREATE INDEX IF NOT EXISTS idx_valuations_run ON valuations(run_id);
CREATE INDEX IF NOT EXISTS idx_valuations_grade ON valuations(overall_grade);
`
