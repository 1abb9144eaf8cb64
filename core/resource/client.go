package resource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/AkmalxonWeBd/education-platform/core"
)

type Options struct {
	Logger  core.Logger
	Metrics Metrics
	Retry   RetryPolicy

	// UnusedTTL is how long an entry without subscribers is kept. Zero keeps entries forever.
	UnusedTTL time.Duration
	// SweepInterval defaults to UnusedTTL.
	SweepInterval time.Duration

	Now func() time.Time
}

// OptionsFromConfig maps the cache section of the app config.
func OptionsFromConfig(conf *core.Config, logger core.Logger) Options {
	return Options{
		Logger: logger,
		Retry: RetryPolicy{
			MaxRetries:      conf.Cache.MaxRetries,
			InitialInterval: conf.Cache.RetryInitialInterval,
			MaxInterval:     conf.Cache.RetryMaxInterval,
		},
		UnusedTTL: conf.Cache.UnusedTTL,
	}
}

// Client is the resource cache. One instance is shared by the whole process;
// tests build their own.
//
// All entry transitions happen under mu, and subscribers are notified before mu is
// released, so each subscriber receives the transitions of its entry in order.
type Client struct {
	req     Requester
	log     core.Logger
	metrics Metrics
	retry   RetryPolicy
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	fetches uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewClient(req Requester, opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = NoopMetrics{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		req:     req,
		log:     opts.Logger,
		metrics: opts.Metrics,
		retry:   opts.Retry,
		ttl:     opts.UnusedTTL,
		now:     opts.Now,
		entries: make(map[string]*entry),
		ctx:     ctx,
		cancel:  cancel,
	}

	if c.ttl > 0 {
		interval := opts.SweepInterval
		if interval <= 0 {
			interval = c.ttl
		}
		c.wg.Add(1)
		go c.janitor(interval)
	}
	return c
}

// Query subscribes to the entry of q, creating it and starting its request when needed.
//
// A request is started only when none is in flight for the key and the entry is not
// fulfilled: a new entry, a rejected one, or one invalidated while nobody watched it.
// The first value on Updates is the entry state at subscription time.
func (c *Client) Query(q Query) *Subscription {
	key := q.Key()
	sub := newSubscription(c, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = newEntry(q)
		c.entries[key] = e
	} else {
		e.setQuery(q)
	}
	e.subs[sub.id] = sub
	e.unusedSince = time.Time{}

	if !e.inflight && e.status != StatusFulfilled {
		c.metrics.Miss()
		c.start(e)
	} else if e.status == StatusFulfilled {
		c.metrics.Hit()
	}
	sub.publish(e.snapshot())
	return sub
}

// Subscribe is Query with a callback; fn runs on its own goroutine, one call at a time,
// until Unsubscribe returns.
func (c *Client) Subscribe(q Query, fn func(Snapshot)) *Subscription {
	sub := c.Query(q)
	go func() {
		for snap := range sub.Updates() {
			if !sub.deliver(fn, snap) {
				return
			}
		}
	}()
	return sub
}

// Snapshot returns the current state of key.
func (c *Client) Snapshot(key string) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Snapshot{Key: key}, false
	}
	return e.snapshot(), true
}

// Keys lists the cached keys.
func (c *Client) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Invalidate sends every entry carrying one of tags back to pending. Entries with
// subscribers are refetched once; an entry whose request is in flight is refetched
// once that request settles.
func (c *Client) Invalidate(tags ...Tag) {
	if len(tags) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if !e.tagged(tags) {
			continue
		}
		c.metrics.Invalidate()
		if e.inflight {
			e.stale = true
			continue
		}
		e.status = StatusPending
		e.err = nil
		if len(e.subs) > 0 {
			c.start(e)
		}
		c.publish(e)
	}
}

// Refetch forces a request for key unless one is already in flight.
func (c *Client) Refetch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.inflight {
		return false
	}
	c.start(e)
	c.publish(e)
	return true
}

// Reset drops every cached result, typically when the session changes.
// Observed entries start over with a fresh request; requests issued before the
// reset are cancelled and their results discarded.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if len(e.subs) == 0 {
			if e.cancel != nil {
				e.cancel()
			}
			delete(c.entries, key)
			continue
		}
		e.data, e.err = nil, nil
		e.fetchedAt = time.Time{}
		e.stale = false
		c.start(e)
		c.publish(e)
	}
}

// Sweep evicts the entries unused for at least UnusedTTL and returns how many were dropped.
func (c *Client) Sweep(now time.Time) int {
	if c.ttl <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for key, e := range c.entries {
		if len(e.subs) > 0 || e.inflight || e.unusedSince.IsZero() {
			continue
		}
		if now.Sub(e.unusedSince) >= c.ttl {
			delete(c.entries, key)
			c.metrics.Evict()
			n++
		}
	}
	return n
}

// Close stops the janitor, cancels in-flight requests and waits for them.
func (c *Client) Close() {
	c.cancel()
	c.wg.Wait()
}

// Mutate issues a write. On success the entries tagged with m.Invalidates are invalidated
// and the response body is returned; on failure the cache is left untouched.
func (c *Client) Mutate(ctx context.Context, m Mutation) ([]byte, error) {
	resp, err := c.req.Do(ctx, m.request())
	if err != nil {
		c.log.Warn(fmt.Sprintf("%s %s: %v", m.Method, m.Path(), err), err)
		return nil, errors.Wrapf(err, "%s %s", m.Method, m.Path())
	}
	c.Invalidate(m.Invalidates...)
	return resp.Body, nil
}

func (c *Client) unsubscribe(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[sub.key]
	if !ok {
		return
	}
	if _, ok := e.subs[sub.id]; !ok {
		return
	}
	delete(e.subs, sub.id)
	if len(e.subs) == 0 {
		e.unusedSince = c.now()
	}
}

// start marks e as fetching and issues its request. c.mu must be held.
func (c *Client) start(e *entry) {
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.fetches++
	e.fetchID = c.fetches
	e.cancel = cancel
	e.status = StatusPending
	e.err = nil
	e.inflight = true

	c.wg.Add(1)
	go c.fetch(ctx, e, e.fetchID, e.query)
}

func (c *Client) fetch(ctx context.Context, e *entry, id uint64, q Query) {
	defer c.wg.Done()

	c.metrics.Fetch()
	c.log.Debug(fmt.Sprintf("fetching %s", e.key))
	resp, err := c.retry.do(ctx, func() (Response, error) {
		return c.req.Do(ctx, q.request())
	})

	var data interface{}
	if err == nil {
		data, err = q.decode(resp.Body)
	}
	if err != nil {
		c.log.Warn(fmt.Sprintf("query %s failed: %v", e.key, err), err)
	}
	c.settle(e, id, data, err)
}

func (c *Client) settle(e *entry, id uint64, data interface{}, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// the entry was evicted, reset or refetched meanwhile
	if c.entries[e.key] != e || e.fetchID != id {
		return
	}

	e.inflight = false
	e.cancel()
	e.cancel = nil
	if err != nil {
		e.status = StatusRejected
		e.data = nil
		e.err = err
	} else {
		e.status = StatusFulfilled
		e.data = data
		e.err = nil
		e.fetchedAt = c.now()
	}

	if e.stale {
		e.stale = false
		if err == nil {
			e.status = StatusPending
		}
		if len(e.subs) > 0 {
			c.start(e)
		}
	}
	if len(e.subs) == 0 && e.unusedSince.IsZero() {
		e.unusedSince = c.now()
	}
	c.publish(e)
}

func (c *Client) publish(e *entry) {
	snap := e.snapshot()
	for _, sub := range e.subs {
		sub.publish(snap)
	}
}

func (c *Client) janitor(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(c.now()); n > 0 {
				c.log.Debug(fmt.Sprintf("evicted %d unused entries", n))
			}
		}
	}
}
