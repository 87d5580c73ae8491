// core/counter/table.go
package counter

import (
	"fmt"
	"math"

	"kprof/core/kmer"
)

// Table is one logical frequency table for a fixed k: canonical code ->
// occurrence count. It is not safe for concurrent mutation; the Count
// pipeline gives each worker its own Table and merges afterwards.
type Table struct {
	k         int
	counts    map[kmer.Code]uint64
	saturated int
}

// NewTable returns an empty table for the given k.
func NewTable(k int) (*Table, error) {
	if err := kmer.ValidateK(k); err != nil {
		return nil, err
	}
	return &Table{k: k, counts: make(map[kmer.Code]uint64)}, nil
}

// K returns the table's fixed k-mer size.
func (t *Table) K() int { return t.k }

// Len returns the number of distinct canonical k-mers.
func (t *Table) Len() int { return len(t.counts) }

// Get returns the count for a code (0 if absent).
func (t *Table) Get(c kmer.Code) uint64 { return t.counts[c] }

// Saturated returns how many increments were clamped at the counter
// ceiling instead of wrapping.
func (t *Table) Saturated() int { return t.saturated }

// Add increments the count for c by n. A count that would exceed the
// representable range saturates at MaxUint64; wrapping would corrupt
// downstream frequency math.
func (t *Table) Add(c kmer.Code, n uint64) {
	cur := t.counts[c]
	if cur > math.MaxUint64-n {
		t.counts[c] = math.MaxUint64
		t.saturated++
		return
	}
	t.counts[c] = cur + n
}

// Merge folds src into t. The operation is commutative and associative
// (saturating sum per key), so per-worker partial tables can be merged
// in any order with identical totals.
func (t *Table) Merge(src *Table) error {
	if src.k != t.k {
		return fmt.Errorf("cannot merge k=%d table into k=%d table", src.k, t.k)
	}
	for c, n := range src.counts {
		t.Add(c, n)
	}
	t.saturated += src.saturated
	return nil
}

// Total returns the saturating sum of all counts.
func (t *Table) Total() uint64 {
	var total uint64
	for _, n := range t.counts {
		if total > math.MaxUint64-n {
			return math.MaxUint64
		}
		total += n
	}
	return total
}

// Range calls fn for every (code, count) pair in unspecified order.
func (t *Table) Range(fn func(kmer.Code, uint64)) {
	for c, n := range t.counts {
		fn(c, n)
	}
}
