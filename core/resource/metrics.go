package resource

// Metrics receives the cache lifecycle events.
type Metrics interface {
	// Hit is called when a query is served from a fulfilled entry.
	Hit()
	// Miss is called when a query has to go to the network.
	Miss()
	// Fetch is called for every network request issued for a query.
	Fetch()
	// Invalidate is called once per entry hit by a tag invalidation.
	Invalidate()
	// Evict is called when an unused entry is dropped.
	Evict()
}

// NoopMetrics ignores all events.
type NoopMetrics struct{}

func (NoopMetrics) Hit()        {}
func (NoopMetrics) Miss()       {}
func (NoopMetrics) Fetch()      {}
func (NoopMetrics) Invalidate() {}
func (NoopMetrics) Evict()      {}
