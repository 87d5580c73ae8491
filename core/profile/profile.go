// core/profile/profile.go
package profile

import (
	"fmt"
	"strings"
	"time"

	"kprof/core/kmer"
)

// Level is the taxonomic rank a profile fingerprints.
type Level string

const (
	Genus   Level = "Genus"
	Species Level = "Species"
	Strain  Level = "Strain"
)

// ParseLevel accepts a level name case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "genus":
		return Genus, nil
	case "species":
		return Species, nil
	case "strain":
		return Strain, nil
	}
	return "", fmt.Errorf("invalid taxonomy level %q (genus|species|strain)", s)
}

func (l Level) String() string { return string(l) }

// Profile is a normalized k-mer frequency fingerprint. It is immutable
// once built or loaded; nothing in this package mutates one after
// construction, which is what makes concurrent comparisons safe.
type Profile struct {
	Name      string
	Level     Level
	K         int
	Total     uint64
	Counts    map[kmer.Code]uint64  // raw occurrence counts
	Freqs     map[kmer.Code]float64 // precomputed relative frequencies
	CreatedAt time.Time
}

// Summary is the listing view of a stored profile.
type Summary struct {
	Name      string
	Level     Level
	K         int
	Total     uint64
	CreatedAt time.Time
}
