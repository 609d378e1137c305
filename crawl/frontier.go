package crawl

import (
	"sync"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/bloom"
)

// Frontier sizing for a single crawl.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Compile-time interface verification.
var _ siteshape.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue. Membership is answered by a
// Bloom filter first and confirmed against an exact set, so a URL is never
// dropped on a false positive.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu      sync.Mutex
	filter  *bloom.Filter
	seen    map[string]struct{}
	order   []string
	queue   []string
	visited int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the pre-filter.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		filter: bloom.NewFilter(n, fpRate),
		seen:   make(map[string]struct{}),
	}
}

// Push appends url to the queue unless it was queued before.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.filter.TestAndAdd(url) {
		if _, ok := f.seen[url]; ok {
			return false
		}
	}
	f.seen[url] = struct{}{}
	f.order = append(f.order, url)
	f.queue = append(f.queue, url)
	return true
}

// Pop removes the oldest queued URL and counts it as visited.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	f.visited++
	return url, true
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Visited returns the number of URLs popped so far.
func (f *Frontier) Visited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited
}

// Discovered returns a copy of every queued URL in push order.
func (f *Frontier) Discovered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}
