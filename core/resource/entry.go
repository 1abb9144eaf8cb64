package resource

import (
	"context"
	"time"
)

// Status of a cache entry.
type Status int

const (
	StatusUninitialized Status = iota
	StatusPending
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "uninitialized"
	}
}

// Snapshot is an immutable copy of a cache entry taken at one transition.
//
// Data is kept while an entry is pending after an invalidation so that observers can
// keep showing the previous result until the refetch settles. It is dropped on rejection.
type Snapshot struct {
	Key         string
	Status      Status
	Data        interface{}
	Err         error
	FetchedAt   time.Time
	Fetching    bool
	Subscribers int
}

func (s Snapshot) Settled() bool {
	return s.Status == StatusFulfilled || s.Status == StatusRejected
}

type entry struct {
	key    string
	query  Query
	tags   map[Tag]struct{}
	status Status
	data   interface{}
	err    error

	fetchedAt   time.Time
	unusedSince time.Time

	inflight bool
	// stale is set when the entry was invalidated while its request was in flight.
	stale bool
	// fetchID identifies the request whose result may be applied to the entry.
	fetchID uint64
	cancel  context.CancelFunc

	subs map[string]*Subscription
}

func newEntry(q Query) *entry {
	e := &entry{
		key:  q.Key(),
		subs: make(map[string]*Subscription),
	}
	e.setQuery(q)
	return e
}

// setQuery keeps the tags of every caller that asked for the key.
func (e *entry) setQuery(q Query) {
	e.query = q
	if e.tags == nil {
		e.tags = make(map[Tag]struct{}, len(q.Tags))
	}
	for _, t := range q.Tags {
		e.tags[t] = struct{}{}
	}
}

func (e *entry) tagged(tags []Tag) bool {
	for _, t := range tags {
		if _, ok := e.tags[t]; ok {
			return true
		}
	}
	return false
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		Key:         e.key,
		Status:      e.status,
		Data:        e.data,
		Err:         e.err,
		FetchedAt:   e.fetchedAt,
		Fetching:    e.inflight,
		Subscribers: len(e.subs),
	}
}
