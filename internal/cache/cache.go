// Package cache persists successful metadata lookups in SQLite so repeated
// runs skip the network. Entries are keyed by DOI and expire after a TTL.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/keller/citefmt/internal/enrich"
	"github.com/keller/citefmt/internal/reference"
)

// DefaultTTL is how long a cached lookup stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// Store wraps the SQLite lookup cache.
type Store struct {
	db   *sql.DB
	path string
	ttl  time.Duration
}

// Open opens or creates the cache database at the given path. A ttl of
// zero selects DefaultTTL.
func Open(path string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, path: path, ttl: ttl}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS lookups (
			doi TEXT PRIMARY KEY,
			fields_json TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached partial for a DOI, or ok=false on a miss or an
// expired entry.
func (s *Store) Get(doi string) (*reference.Partial, bool, error) {
	var fieldsJSON string
	var fetchedAt int64
	err := s.db.QueryRow(
		"SELECT fields_json, fetched_at FROM lookups WHERE doi = ?", doi,
	).Scan(&fieldsJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if time.Since(time.Unix(0, fetchedAt)) >= s.ttl {
		return nil, false, nil
	}

	var p reference.Partial
	if err := json.Unmarshal([]byte(fieldsJSON), &p); err != nil {
		return nil, false, fmt.Errorf("parsing cache entry for %s: %w", doi, err)
	}
	return &p, true, nil
}

// Put stores a lookup result, replacing any previous entry for the DOI.
func (s *Store) Put(doi string, p *reference.Partial) error {
	fieldsJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling cache entry for %s: %w", doi, err)
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO lookups (doi, fields_json, fetched_at)
		VALUES (?, ?, ?)
	`, doi, string(fieldsJSON), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("writing cache entry for %s: %w", doi, err)
	}
	return nil
}

// Count returns the number of cached entries, expired ones included.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM lookups").Scan(&count)
	return count, err
}

// Clear removes all cached entries.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM lookups")
	return err
}

// Lookup decorates another lookup with the cache. DOI lookups are served
// from the cache when fresh; successful results, including query results
// that carry a DOI, are written back.
type Lookup struct {
	next  enrich.Lookup
	store *Store
}

// NewLookup wraps a lookup with the cache.
func NewLookup(next enrich.Lookup, store *Store) *Lookup {
	return &Lookup{next: next, store: store}
}

// ByDOI serves a DOI lookup, consulting the cache first.
func (l *Lookup) ByDOI(ctx context.Context, doi string) (*reference.Partial, error) {
	if p, ok, err := l.store.Get(doi); err == nil && ok {
		return p, nil
	}
	p, err := l.next.ByDOI(ctx, doi)
	if err != nil {
		return nil, err
	}
	// Cache write failures never fail the lookup.
	_ = l.store.Put(doi, p)
	return p, nil
}

// ByQuery runs a bibliographic query and caches the result under the DOI
// it resolves to, so a later DOI lookup for the same work stays local.
func (l *Lookup) ByQuery(ctx context.Context, title, family string) (*reference.Partial, error) {
	p, err := l.next.ByQuery(ctx, title, family)
	if err != nil {
		return nil, err
	}
	if p.DOI != "" {
		_ = l.store.Put(p.DOI, p)
	}
	return p, nil
}
