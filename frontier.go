package siteshape

import "context"

// URLFrontier is the FIFO work queue of a crawl together with its
// membership sets. A URL enters the queue at most once and is never
// re-queued after it has been visited.
type URLFrontier interface {
	// Push appends a canonical URL to the queue.
	// Returns false if the URL was already discovered.
	Push(url string) bool

	// Pop removes the oldest queued URL and marks it visited.
	// Returns false if the queue is empty.
	Pop() (string, bool)

	// Len returns the number of queued URLs.
	Len() int

	// Visited returns the number of URLs popped so far.
	Visited() int

	// Discovered returns every URL ever queued, in the order first pushed.
	Discovered() []string
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
