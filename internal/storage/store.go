package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Source identifies where a narrated image came from.
type Source string

const (
	SourceScreen Source = "screen"
	SourceHTTP   Source = "http"
	SourceFile   Source = "file"
)

// Narration is one completed capture -> analyze -> synthesize cycle.
type Narration struct {
	ID        int64
	Source    Source
	Analysis  string
	AudioPath string
	CreatedAt time.Time
}

// SQLiteStore keeps the analysis cache and narration history in SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Configure SQLite with WAL mode and busy timeout for better concurrency
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:" databases intact.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	analysisCacheQuery := `
	CREATE TABLE IF NOT EXISTS analysis_cache (
		image_hash TEXT PRIMARY KEY,
		analysis TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(analysisCacheQuery); err != nil {
		return fmt.Errorf("failed to create analysis_cache table: %w", err)
	}

	narrationsQuery := `
	CREATE TABLE IF NOT EXISTS narrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		analysis TEXT NOT NULL,
		audio_path TEXT,
		created_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(narrationsQuery); err != nil {
		return fmt.Errorf("failed to create narrations table: %w", err)
	}

	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetAnalysisCache returns the cached analysis for an image hash.
func (s *SQLiteStore) GetAnalysisCache(imageHash string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var analysis string
	err := s.db.QueryRow(
		"SELECT analysis FROM analysis_cache WHERE image_hash = ?",
		imageHash,
	).Scan(&analysis)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query analysis cache: %w", err)
	}

	return analysis, true, nil
}

// SetAnalysisCache stores an analysis in the cache.
func (s *SQLiteStore) SetAnalysisCache(imageHash, analysis string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO analysis_cache (image_hash, analysis)
		VALUES (?, ?)
		ON CONFLICT(image_hash) DO UPDATE SET
			analysis = excluded.analysis,
			created_at = CURRENT_TIMESTAMP
	`, imageHash, analysis)
	if err != nil {
		return fmt.Errorf("failed to set analysis cache: %w", err)
	}

	return nil
}

// RecordNarration appends a narration to the history. A zero CreatedAt is
// set to the current time.
func (s *SQLiteStore) RecordNarration(n *Narration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(
		"INSERT INTO narrations (source, analysis, audio_path, created_at) VALUES (?, ?, ?, ?)",
		string(n.Source), n.Analysis, n.AudioPath, n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record narration: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get narration id: %w", err)
	}
	n.ID = id

	return nil
}

// RecentNarrations returns up to limit narrations, newest first.
func (s *SQLiteStore) RecentNarrations(limit int) ([]Narration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, source, analysis, audio_path, created_at FROM narrations ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query narrations: %w", err)
	}
	defer rows.Close()

	var narrations []Narration
	for rows.Next() {
		var n Narration
		var source string
		var audioPath sql.NullString
		if err := rows.Scan(&n.ID, &source, &n.Analysis, &audioPath, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan narration: %w", err)
		}
		n.Source = Source(source)
		n.AudioPath = audioPath.String
		narrations = append(narrations, n)
	}

	return narrations, rows.Err()
}
