// Package store caches subset-construction results in SQLite, keyed by a
// digest of the canonical NFA text.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"

	"github.com/lopezrodolfo/nfa/automaton"
	"github.com/lopezrodolfo/nfa/automaton/fafile"
)

const schema = `CREATE TABLE IF NOT EXISTS dfa_cache (
	digest     TEXT PRIMARY KEY,
	nfa        TEXT NOT NULL,
	dfa        TEXT NOT NULL,
	dfa_states INTEGER NOT NULL,
	created_at INTEGER NOT NULL
)`

// Store provides SQLite-backed persistence for converted DFAs.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Digest returns the cache key of n: the xxhash of its canonical text, so
// NFAs that differ only in transition order share a key.
func Digest(n *automaton.NFA) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(fafile.FormatNFA(n)))
}

// Open opens the cache at path, creating the schema when needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	// modernc.org/sqlite only applies pragmas passed as _pragma parameters.
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Batch workers share the store; one connection serializes their writes.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the cached DFA for n. A digest collision with a different
// NFA is reported as a miss.
func (s *Store) Get(ctx context.Context, n *automaton.NFA) (*automaton.DFA, bool, error) {
	if s == nil || s.sqlDB == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}
	canonical := fafile.FormatNFA(n)

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT nfa, dfa FROM dfa_cache WHERE digest = ?`,
		Digest(n),
	)
	var storedNFA, storedDFA string
	if err := row.Scan(&storedNFA, &storedDFA); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get dfa: %w", err)
	}
	if storedNFA != canonical {
		return nil, false, nil
	}

	d, err := fafile.ReadDFA(strings.NewReader(storedDFA))
	if err != nil {
		return nil, false, fmt.Errorf("decode cached dfa: %w", err)
	}
	return d, true, nil
}

// Put stores d as the conversion of n, replacing any previous entry.
func (s *Store) Put(ctx context.Context, n *automaton.NFA, d *automaton.DFA) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	text, err := fafile.FormatDFA(d)
	if err != nil {
		return fmt.Errorf("encode dfa: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO dfa_cache (digest, nfa, dfa, dfa_states, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(digest) DO UPDATE SET
			nfa = excluded.nfa,
			dfa = excluded.dfa,
			dfa_states = excluded.dfa_states,
			created_at = excluded.created_at`,
		Digest(n), fafile.FormatNFA(n), text, d.NumStates(), s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put dfa: %w", err)
	}
	return nil
}

// Len returns the number of cached conversions.
func (s *Store) Len(ctx context.Context) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM dfa_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count dfa cache: %w", err)
	}
	return count, nil
}
