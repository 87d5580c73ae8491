// core/profile/build.go
package profile

import (
	"errors"
	"fmt"
	"time"

	"kprof/core/counter"
	"kprof/core/kmer"
)

var (
	// ErrEmptyProfile rejects a table with zero k-mers: such a profile
	// carries no taxonomic signal. Fatal to this one profile only.
	ErrEmptyProfile = errors.New("profile has no k-mers")

	// ErrKMismatch rejects a table whose k differs from the requested k.
	ErrKMismatch = errors.New("table k does not match profile k")
)

// Build freezes a frequency table into an immutable Profile with raw
// counts and precomputed relative frequencies. Name uniqueness is the
// store's concern, not enforced here.
func Build(name string, level Level, k int, t *counter.Table) (*Profile, error) {
	if err := kmer.ValidateK(k); err != nil {
		return nil, err
	}
	if t.K() != k {
		return nil, fmt.Errorf("%w: table k=%d, profile k=%d", ErrKMismatch, t.K(), k)
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyProfile, name)
	}

	total := t.Total()
	counts := make(map[kmer.Code]uint64, t.Len())
	freqs := make(map[kmer.Code]float64, t.Len())
	ft := float64(total)
	t.Range(func(c kmer.Code, n uint64) {
		counts[c] = n
		freqs[c] = float64(n) / ft
	})

	return &Profile{
		Name:      name,
		Level:     level,
		K:         k,
		Total:     total,
		Counts:    counts,
		Freqs:     freqs,
		CreatedAt: time.Now().UTC(),
	}, nil
}
