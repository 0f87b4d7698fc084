// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cardstore caches generated flashcards in SQLite, keyed by the
// fingerprint of the topic they were generated from. An in-memory LRU
// fronts lookups.
package cardstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

const (
	dbFile         = "cards.db"
	defaultLRUSize = 256
)

// Store manages the card cache database.
type Store struct {
	db     *sql.DB
	path   string
	recent *lru.Cache[string, []types.Card]
}

// Open opens or creates cards.db under cfg.Dir and creates the schema if it
// does not exist.
func Open(cfg types.CacheConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time; generation stores results from many goroutines.
	db.SetMaxOpenConns(1)

	size := cfg.LRUSize
	if size <= 0 {
		size = defaultLRUSize
	}
	recent, err := lru.New[string, []types.Card](size)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating LRU: %w", err)
	}

	s := &Store{db: db, path: dbPath, recent: recent}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS topics (
			fingerprint TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			card_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			fingerprint TEXT NOT NULL REFERENCES topics(fingerprint) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			type TEXT NOT NULL,
			front TEXT NOT NULL,
			back TEXT,
			parent TEXT,
			tags TEXT,
			items TEXT,
			correct_choice INTEGER,
			extra_detail TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_fingerprint ON cards(fingerprint, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_type ON cards(type)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the cards stored for a fingerprint. The bool is false on a
// miss. Callers own the returned slice.
func (s *Store) Get(ctx context.Context, fingerprint string) ([]types.Card, bool, error) {
	if cards, ok := s.recent.Get(fingerprint); ok {
		return cloneCards(cards), true, nil
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT card_count FROM topics WHERE fingerprint = ?`, fingerprint,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("looking up %s: %w", fingerprint, err)
	}

	cards, err := s.cards(ctx, `WHERE fingerprint = ? ORDER BY seq`, fingerprint)
	if err != nil {
		return nil, false, err
	}
	if len(cards) != count {
		return nil, false, fmt.Errorf("cache entry %s holds %d of %d cards", fingerprint, len(cards), count)
	}
	s.recent.Add(fingerprint, cloneCards(cards))
	return cards, true, nil
}

// cloneCards copies cards deeply enough that the LRU never shares
// backing arrays with callers.
func cloneCards(cards []types.Card) []types.Card {
	out := slices.Clone(cards)
	for i := range out {
		out[i].Tags = slices.Clone(out[i].Tags)
		out[i].Items = slices.Clone(out[i].Items)
	}
	return out
}

// Put replaces the cards stored for a fingerprint.
func (s *Store) Put(ctx context.Context, fingerprint, topic string, cards []types.Card) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE fingerprint = ?`, fingerprint); err != nil {
		return fmt.Errorf("deleting old cards: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO topics (fingerprint, topic, card_count, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
			topic=excluded.topic, card_count=excluded.card_count, created_at=excluded.created_at`,
		fingerprint, topic, len(cards), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting topic: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cards (fingerprint, seq, type, front, back, parent, tags, items, correct_choice, extra_detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range cards {
		tagsJSON, _ := json.Marshal(c.Tags)
		itemsJSON, _ := json.Marshal(c.Items)
		_, err := stmt.ExecContext(ctx,
			fingerprint, i, string(c.Type), c.Front, c.Back, c.Parent,
			string(tagsJSON), string(itemsJSON), c.CorrectChoice, c.ExtraDetail,
		)
		if err != nil {
			return fmt.Errorf("inserting card %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	s.recent.Add(fingerprint, cloneCards(cards))
	return nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Topics int            `json:"topics" yaml:"topics"`
	Cards  int            `json:"cards" yaml:"cards"`
	ByType map[string]int `json:"by_type" yaml:"by_type"`
	Path   string         `json:"path" yaml:"path"`
}

// Stats counts cached topics and cards.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByType: make(map[string]int), Path: s.path}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM topics`).Scan(&st.Topics); err != nil {
		return Stats{}, fmt.Errorf("counting topics: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT type, count(*) FROM cards GROUP BY type`)
	if err != nil {
		return Stats{}, fmt.Errorf("counting cards: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning count: %w", err)
		}
		st.ByType[t] = n
		st.Cards += n
	}
	return st, rows.Err()
}

// Clear removes every cached entry and returns how many topics were dropped.
func (s *Store) Clear(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return 0, fmt.Errorf("deleting cards: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM topics`)
	if err != nil {
		return 0, fmt.Errorf("deleting topics: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	s.recent.Purge()

	n, _ := res.RowsAffected()
	return int(n), nil
}

// Entry is one cached topic with its cards.
type Entry struct {
	Fingerprint string       `json:"fingerprint" yaml:"fingerprint"`
	Topic       string       `json:"topic" yaml:"topic"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
	Cards       []types.Card `json:"cards" yaml:"cards"`
}

// All returns every cached entry ordered by creation time.
func (s *Store) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, topic, created_at FROM topics ORDER BY created_at, fingerprint`)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.Fingerprint, &e.Topic, &created); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		cards, err := s.cards(ctx, `WHERE fingerprint = ? ORDER BY seq`, entries[i].Fingerprint)
		if err != nil {
			return nil, err
		}
		entries[i].Cards = cards
	}
	return entries, nil
}

func (s *Store) cards(ctx context.Context, where string, args ...any) ([]types.Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, front, back, parent, tags, items, correct_choice, extra_detail FROM cards `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []types.Card
	for rows.Next() {
		var c types.Card
		var typ, tagsJSON, itemsJSON string
		var back, parent, extra sql.NullString
		var correct sql.NullInt64
		if err := rows.Scan(&typ, &c.Front, &back, &parent, &tagsJSON, &itemsJSON, &correct, &extra); err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		c.Type = types.CardType(typ)
		c.Back = back.String
		c.Parent = parent.String
		c.ExtraDetail = extra.String
		c.CorrectChoice = int(correct.Int64)
		json.Unmarshal([]byte(tagsJSON), &c.Tags)
		json.Unmarshal([]byte(itemsJSON), &c.Items)
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
