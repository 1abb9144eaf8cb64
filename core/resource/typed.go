package resource

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

var ErrClosed = errors.New("subscription closed")

// As returns the data of snap as a T. Pending and rejected snapshots without data yield the zero T.
func As[T any](snap Snapshot) (T, error) {
	var zero T
	if snap.Data == nil {
		return zero, nil
	}
	v, ok := snap.Data.(T)
	if !ok {
		return zero, errors.Errorf("%s holds %T, not %T", snap.Key, snap.Data, zero)
	}
	return v, nil
}

// Fetch queries q and waits for the entry to settle.
func Fetch[T any](ctx context.Context, c *Client, q Query) (T, error) {
	if q.Decode == nil {
		q.Decode = DecodeJSON[T]()
	}
	snap, err := Await(ctx, c, q)
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](snap)
}

// Await queries q and returns the first settled snapshot of its entry.
// A rejected entry is returned along with its error.
func Await(ctx context.Context, c *Client, q Query) (Snapshot, error) {
	sub := c.Query(q)
	defer sub.Unsubscribe()

	for {
		select {
		case snap, ok := <-sub.Updates():
			if !ok {
				return Snapshot{}, ErrClosed
			}
			switch snap.Status {
			case StatusFulfilled:
				return snap, nil
			case StatusRejected:
				return snap, snap.Err
			}
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
	}
}

// Exec runs m and decodes the response body into a T.
// An empty body yields the zero T.
func Exec[T any](ctx context.Context, c *Client, m Mutation) (T, error) {
	var v T
	body, err := c.Mutate(ctx, m)
	if err != nil {
		return v, err
	}
	if len(body) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, errors.Wrapf(err, "decoding %s %s response", m.Method, m.Path())
	}
	return v, nil
}
