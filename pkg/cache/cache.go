// Package cache stores finished translations in SQLite with an in-memory
// tier in front of it.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates the requested key has no stored translation.
var ErrNotFound = errors.New("translation not found")

// DefaultSize is the number of translations kept in memory when Config.Size
// is zero.
const DefaultSize = 256

const schema = `CREATE TABLE IF NOT EXISTS translations (
	key TEXT PRIMARY KEY,
	id TEXT NOT NULL,
	output TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// EnvPath names the environment variable that selects the database when
// no path is configured.
const EnvPath = "CLOVE_CACHE_DB"

// Entry is one stored translation.
type Entry struct {
	Key       string
	ID        string
	Output    string
	CreatedAt time.Time
}

// Config holds cache configuration options.
type Config struct {
	Path string // Path to the database (defaults to ~/.clove/cache.db)
	Size int    // Entries held in memory (defaults to DefaultSize)
}

// Cache is a persistent translation cache. It is safe for concurrent use.
type Cache struct {
	db     *sql.DB
	path   string
	memory *lru.ARCCache
}

// Open opens or creates the cache database. If cfg is nil, defaults are used.
func Open(cfg *Config) (*Cache, error) {
	c := &Cache{}

	size := DefaultSize
	if cfg != nil && cfg.Size > 0 {
		size = cfg.Size
	}
	memory, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("creating memory tier: %w", err)
	}
	c.memory = memory

	// Determine database path
	if cfg != nil && cfg.Path != "" {
		c.path = cfg.Path
	} else if path := os.Getenv(EnvPath); path != "" {
		c.path = path
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home dir: %w", err)
		}
		c.path = filepath.Join(home, ".clove", "cache.db")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", c.path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	c.db = db

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return c, nil
}

// Path returns the database location.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *Cache) Close() error {
	c.memory.Purge()
	return c.db.Close()
}

// Get returns the translation stored under key. A missing key is not an
// error: ok is false.
func (c *Cache) Get(key string) (string, bool, error) {
	entry, err := c.Lookup(key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Output, true, nil
}

// Lookup loads an entry from memory or the database.
func (c *Cache) Lookup(key string) (*Entry, error) {
	if v, ok := c.memory.Get(key); ok {
		return v.(*Entry), nil
	}

	var entry Entry
	var created string
	err := c.db.QueryRow(
		"SELECT key, id, output, created_at FROM translations WHERE key = ?", key,
	).Scan(&entry.Key, &entry.ID, &entry.Output, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying translation: %w", err)
	}
	entry.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of %s: %w", entry.ID, err)
	}

	c.memory.Add(key, &entry)
	return &entry, nil
}

// Put stores output under key, replacing any earlier translation.
func (c *Cache) Put(key, output string) error {
	entry := &Entry{
		Key:       key,
		ID:        uuid.New().String(),
		Output:    output,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO translations (key, id, output, created_at) VALUES (?, ?, ?, ?)",
		entry.Key, entry.ID, entry.Output, entry.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving translation: %w", err)
	}

	c.memory.Add(key, entry)
	return nil
}

// Entries returns every stored translation, newest first.
func (c *Cache) Entries() ([]*Entry, error) {
	rows, err := c.db.Query("SELECT key, id, output, created_at FROM translations ORDER BY created_at DESC, key")
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var created string
		if err := rows.Scan(&entry.Key, &entry.ID, &entry.Output, &created); err != nil {
			return nil, fmt.Errorf("scanning translation: %w", err)
		}
		if entry.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("parsing created_at of %s: %w", entry.ID, err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Prune deletes translations created before cutoff and returns how many
// were removed.
func (c *Cache) Prune(cutoff time.Time) (int64, error) {
	res, err := c.db.Exec("DELETE FROM translations WHERE created_at < ?", cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("pruning translations: %w", err)
	}
	c.memory.Purge()
	return res.RowsAffected()
}

// Clear removes every stored translation.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM translations"); err != nil {
		return fmt.Errorf("clearing translations: %w", err)
	}
	c.memory.Purge()
	return nil
}

// IsCached reports whether key is currently held in memory.
func (c *Cache) IsCached(key string) bool {
	return c.memory.Contains(key)
}
