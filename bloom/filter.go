// Package bloom provides a probabilistic membership pre-filter for crawl
// frontiers. A negative answer is definitive, so callers only consult an
// exact set when the filter says "maybe".
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a Bloom filter over canonical URLs. It is not safe for
// concurrent use; the frontier guards it with its own lock.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs at the given
// false positive rate. n is raised to 1 when zero.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// TestAndAdd records url and reports whether it may have been present
// before. A false result is definitive.
func (f *Filter) TestAndAdd(url string) bool {
	return f.f.TestAndAddString(url)
}
