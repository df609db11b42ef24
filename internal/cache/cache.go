// Package cache stores chat replies keyed by the exact request window, so
// repeating a conversation state skips the provider round trip. Entries
// live in memory with a SQLite table behind them; cached replies are not
// session state and carry no transcript semantics.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"laribot/internal/openai"
)

// Cache is a two-level response cache: a sync.Map front and a SQLite table.
type Cache struct {
	db     *sql.DB
	mem    sync.Map
	logger *slog.Logger
}

// entry is one in-memory cached reply.
type entry struct {
	response  string
	timestamp time.Time
}

// Open opens (or creates) the cache database at path. Use ":memory:" for an
// ephemeral cache.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	createTable := `
	CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		response TEXT,
		created_at DATETIME
	);`

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create responses table: %w", err)
	}

	return &Cache{db: db, logger: logger}, nil
}

// Key derives a cache key from a request window. Identical role/content
// sequences always produce the same key.
func Key(messages []openai.ChatMessage) string {
	h := sha256.New()
	for _, msg := range messages {
		h.Write([]byte(msg.Role))
		h.Write([]byte(msg.Content))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get returns the cached reply for key, checking memory before SQLite.
func (c *Cache) Get(key string) (string, bool) {
	if val, ok := c.mem.Load(key); ok {
		c.logger.Info("cache hit", "key", key[:16])
		return val.(entry).response, true
	}

	var response string
	err := c.db.QueryRow("SELECT response FROM responses WHERE key = ?", key).Scan(&response)
	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Warn("cache lookup failed", "error", err)
		}
		return "", false
	}

	c.mem.Store(key, entry{response: response, timestamp: time.Now()})
	c.logger.Info("cache hit", "key", key[:16], "source", "sqlite")
	return response, true
}

// Put stores a reply under key. Database failures are logged, not returned:
// a missed write only costs a future provider call.
func (c *Cache) Put(key, response string) {
	c.mem.Store(key, entry{response: response, timestamp: time.Now()})

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO responses (key, response, created_at) VALUES (?, ?, ?)",
		key, response, time.Now(),
	)
	if err != nil {
		c.logger.Warn("failed to persist cached response", "error", err)
		return
	}

	c.logger.Info("cached response", "key", key[:16])
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
