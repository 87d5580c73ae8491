// internal/store/store.go
package store

import (
	"database/sql"
	"math"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"kprof/core/kmer"
	"kprof/core/profile"
)

// ErrDuplicate reports a save under an already-registered profile name.
var ErrDuplicate = errors.New("profile name already exists")

// ErrNotFound reports a lookup of an unknown profile name.
var ErrNotFound = errors.New("profile not found")

// Store is the profile repository on a single SQLite file. It assumes
// a single writer; concurrent multi-writer semantics are out of scope.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    taxonomy_level TEXT NOT NULL,
    k INTEGER NOT NULL,
    total_kmers INTEGER NOT NULL,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);
CREATE TABLE IF NOT EXISTS kmers (
    profile_id INTEGER NOT NULL,
    kmer TEXT NOT NULL,
    count INTEGER NOT NULL,
    frequency REAL NOT NULL,
    PRIMARY KEY (profile_id, kmer),
    FOREIGN KEY (profile_id) REFERENCES profiles(id)
);
CREATE INDEX IF NOT EXISTS idx_kmers_profile ON kmers(profile_id);
CREATE INDEX IF NOT EXISTS idx_profiles_taxonomy ON profiles(taxonomy_level);
`

// Open opens (or creates) the repository at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// One writer; avoids SQLITE_BUSY from the pool's extra conns.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "initialize schema")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// sqlCount fits a saturating uint64 count into SQLite's signed integer
// column. Values past MaxInt64 (reachable only after saturation) clamp
// rather than flipping negative, which would trip Validate.
func sqlCount(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

// Save persists a profile and its k-mer table in one transaction.
// A duplicate name fails with ErrDuplicate and leaves the repository
// untouched.
func (s *Store) Save(p *profile.Profile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM profiles WHERE name = ?`, p.Name).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, "check name")
	}
	if exists > 0 {
		return errors.Wrapf(ErrDuplicate, "%q", p.Name)
	}

	res, err := tx.Exec(
		`INSERT INTO profiles (name, taxonomy_level, k, total_kmers, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Level.String(), p.K, sqlCount(p.Total), p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.Wrap(err, "insert profile")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "profile id")
	}

	stmt, err := tx.Prepare(`INSERT INTO kmers (profile_id, kmer, count, frequency) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare kmer insert")
	}
	defer func() { _ = stmt.Close() }()
	for c, n := range p.Counts {
		if _, err := stmt.Exec(id, kmer.Decode(c, p.K), sqlCount(n), p.Freqs[c]); err != nil {
			return errors.Wrap(err, "insert kmer")
		}
	}

	return errors.Wrap(tx.Commit(), "commit")
}

// Load retrieves one profile by name, including its k-mer table.
func (s *Store) Load(name string) (*profile.Profile, error) {
	var (
		id      int64
		level   string
		k       int
		total   int64
		created string
	)
	err := s.db.QueryRow(
		`SELECT id, taxonomy_level, k, total_kmers, created_at FROM profiles WHERE name = ?`, name,
	).Scan(&id, &level, &k, &total, &created)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select profile")
	}

	lvl, err := profile.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "profile %q", name)
	}
	createdAt, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, errors.Wrapf(err, "profile %q created_at", name)
	}

	p := &profile.Profile{
		Name:      name,
		Level:     lvl,
		K:         k,
		Total:     uint64(total),
		Counts:    make(map[kmer.Code]uint64),
		Freqs:     make(map[kmer.Code]float64),
		CreatedAt: createdAt,
	}

	rows, err := s.db.Query(`SELECT kmer, count, frequency FROM kmers WHERE profile_id = ?`, id)
	if err != nil {
		return nil, errors.Wrap(err, "select kmers")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			seq  string
			n    int64
			freq float64
		)
		if err := rows.Scan(&seq, &n, &freq); err != nil {
			return nil, errors.Wrap(err, "scan kmer row")
		}
		code, err := kmer.Encode([]byte(seq), k)
		if err != nil {
			return nil, errors.Wrapf(err, "profile %q stored k-mer %q", name, seq)
		}
		p.Counts[code] = uint64(n)
		p.Freqs[code] = freq
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate kmers")
	}
	return p, nil
}

// List returns profile summaries ordered by name, optionally filtered
// by taxonomy level ("" = all).
func (s *Store) List(level profile.Level) ([]profile.Summary, error) {
	query := `SELECT name, taxonomy_level, k, total_kmers, created_at FROM profiles ORDER BY name`
	args := []any{}
	if level != "" {
		query = `SELECT name, taxonomy_level, k, total_kmers, created_at FROM profiles WHERE taxonomy_level = ? ORDER BY name`
		args = append(args, level.String())
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list profiles")
	}
	defer func() { _ = rows.Close() }()

	var out []profile.Summary
	for rows.Next() {
		var (
			sm      profile.Summary
			lvl     string
			total   int64
			created string
		)
		if err := rows.Scan(&sm.Name, &lvl, &sm.K, &total, &created); err != nil {
			return nil, errors.Wrap(err, "scan profile row")
		}
		parsed, err := profile.ParseLevel(lvl)
		if err != nil {
			return nil, errors.Wrapf(err, "profile %q", sm.Name)
		}
		sm.Level = parsed
		sm.Total = uint64(total)
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			sm.CreatedAt = t
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Remove deletes a profile and its k-mers. It reports whether the
// profile existed.
func (s *Store) Remove(name string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRow(`SELECT id FROM profiles WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "select profile")
	}
	if _, err := tx.Exec(`DELETE FROM kmers WHERE profile_id = ?`, id); err != nil {
		return false, errors.Wrap(err, "delete kmers")
	}
	if _, err := tx.Exec(`DELETE FROM profiles WHERE id = ?`, id); err != nil {
		return false, errors.Wrap(err, "delete profile")
	}
	return true, errors.Wrap(tx.Commit(), "commit")
}
