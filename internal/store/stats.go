// internal/store/stats.go
package store

import (
	"fmt"

	"github.com/pkg/errors"
)

// LevelCount is one row of the per-level profile census.
type LevelCount struct {
	Level string
	Count int
}

// Stats is the repository-wide census.
type Stats struct {
	Profiles int
	KmerRows int
	ByLevel  []LevelCount
}

// Stats counts profiles and stored k-mer rows.
func (s *Store) Stats() (*Stats, error) {
	var st Stats
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&st.Profiles); err != nil {
		return nil, errors.Wrap(err, "count profiles")
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kmers`).Scan(&st.KmerRows); err != nil {
		return nil, errors.Wrap(err, "count kmers")
	}
	rows, err := s.db.Query(`SELECT taxonomy_level, COUNT(*) FROM profiles GROUP BY taxonomy_level ORDER BY taxonomy_level`)
	if err != nil {
		return nil, errors.Wrap(err, "group by level")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var lc LevelCount
		if err := rows.Scan(&lc.Level, &lc.Count); err != nil {
			return nil, errors.Wrap(err, "scan level row")
		}
		st.ByLevel = append(st.ByLevel, lc)
	}
	return &st, rows.Err()
}

// ValidationReport collects integrity findings; errors are corruption,
// warnings are oddities a repository can live with.
type ValidationReport struct {
	Errors   []string
	Warnings []string
}

func (r *ValidationReport) errf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks referential and value integrity of the repository.
func (s *Store) Validate() (*ValidationReport, error) {
	var report ValidationReport

	var badLevels int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM profiles WHERE taxonomy_level NOT IN ('Genus','Species','Strain')`,
	).Scan(&badLevels)
	if err != nil {
		return nil, errors.Wrap(err, "check levels")
	}
	if badLevels > 0 {
		report.errf("%d profiles with invalid taxonomy level", badLevels)
	}

	var badCounts int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM profiles WHERE k <= 0 OR k > 32 OR total_kmers <= 0`).Scan(&badCounts)
	if err != nil {
		return nil, errors.Wrap(err, "check profile values")
	}
	if badCounts > 0 {
		report.errf("%d profiles with invalid k or total", badCounts)
	}

	var badFreqs int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM kmers WHERE frequency <= 0 OR frequency > 1`).Scan(&badFreqs)
	if err != nil {
		return nil, errors.Wrap(err, "check frequencies")
	}
	if badFreqs > 0 {
		report.errf("%d k-mers with out-of-range frequency", badFreqs)
	}

	rows, err := s.db.Query(`SELECT profile_id, SUM(frequency) FROM kmers GROUP BY profile_id`)
	if err != nil {
		return nil, errors.Wrap(err, "sum frequencies")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			id  int64
			sum float64
		)
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, errors.Wrap(err, "scan frequency sum")
		}
		if sum < 0.99 || sum > 1.01 {
			report.errf("profile id %d: frequency sum %.6f (expected ~1.0)", id, sum)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var orphans int
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM kmers k LEFT JOIN profiles p ON k.profile_id = p.id WHERE p.id IS NULL`,
	).Scan(&orphans)
	if err != nil {
		return nil, errors.Wrap(err, "check orphans")
	}
	if orphans > 0 {
		report.errf("%d orphaned k-mer rows", orphans)
	}

	empty, err := s.db.Query(
		`SELECT p.name FROM profiles p LEFT JOIN kmers k ON p.id = k.profile_id GROUP BY p.id HAVING COUNT(k.kmer) = 0`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "check empty profiles")
	}
	defer func() { _ = empty.Close() }()
	for empty.Next() {
		var name string
		if err := empty.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan empty profile")
		}
		report.warnf("profile %q has no k-mers", name)
	}
	return &report, empty.Err()
}
