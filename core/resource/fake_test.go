package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AkmalxonWeBd/education-platform/core"
)

type testUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// fakeAPI is an in-memory /users backend counting the requests it receives.
type fakeAPI struct {
	mu     sync.Mutex
	calls  map[string]int
	users  []testUser
	nextID int
	gate   chan struct{}
	fail   map[string]error
}

func newFakeAPI(users ...testUser) *fakeAPI {
	return &fakeAPI{calls: make(map[string]int), users: users, nextID: len(users) + 1, fail: make(map[string]error)}
}

func callKey(method, path, query string) string {
	k := method + " " + path
	if query != "" {
		k += "?" + query
	}
	return k
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

// block makes every following request wait until the returned func is called.
func (f *fakeAPI) block() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.gate == gate {
				f.gate = nil
			}
			f.mu.Unlock()
			close(gate)
		})
	}
}

func (f *fakeAPI) failWith(method, path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method+" "+path] = err
}

func (f *fakeAPI) Do(ctx context.Context, req Request) (Response, error) {
	f.mu.Lock()
	f.calls[callKey(req.Method, req.Path, req.Params.Encode())]++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Response{}, &core.NetworkError{Method: req.Method, Path: req.Path, Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail[req.Method+" "+req.Path]; err != nil {
		return Response{}, err
	}

	switch {
	case req.Method == http.MethodGet && req.Path == "/users":
		role := req.Params.Get("role")
		out := make([]testUser, 0)
		for _, u := range f.users {
			if role == "" || u.Role == role {
				out = append(out, u)
			}
		}
		return jsonResponse(http.StatusOK, out)
	case req.Method == http.MethodPost && req.Path == "/users":
		var u testUser
		data, _ := json.Marshal(req.Body)
		_ = json.Unmarshal(data, &u)
		u.ID = strconv.Itoa(f.nextID)
		f.nextID++
		f.users = append(f.users, u)
		return jsonResponse(http.StatusCreated, u)
	case req.Method == http.MethodDelete && strings.HasPrefix(req.Path, "/users/"):
		id := strings.TrimPrefix(req.Path, "/users/")
		for i, u := range f.users {
			if u.ID == id {
				f.users = append(f.users[:i], f.users[i+1:]...)
				return Response{Status: http.StatusNoContent}, nil
			}
		}
		return Response{Status: http.StatusNotFound}, &core.HTTPError{Status: http.StatusNotFound, Message: "Not found"}
	}
	return Response{Status: http.StatusNotFound}, &core.HTTPError{Status: http.StatusNotFound, Message: "Not found"}
}

func jsonResponse(status int, v interface{}) (Response, error) {
	data, err := json.Marshal(v)
	return Response{Status: status, Body: data}, err
}

type countingMetrics struct {
	mu sync.Mutex

	hits, misses, fetches, invals, evicts int
}

func (m *countingMetrics) Hit()        { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *countingMetrics) Miss()       { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *countingMetrics) Fetch()      { m.mu.Lock(); m.fetches++; m.mu.Unlock() }
func (m *countingMetrics) Invalidate() { m.mu.Lock(); m.invals++; m.mu.Unlock() }
func (m *countingMetrics) Evict()      { m.mu.Lock(); m.evicts++; m.mu.Unlock() }

func usersQuery(role string) Query {
	return Query{
		Resource: "users",
		Params:   Params{"role": role},
		Tags:     []Tag{"User"},
		Decode:   DecodeJSON[[]testUser](),
	}
}

func newTestClient(t *testing.T, api Requester, opts Options) *Client {
	t.Helper()
	c := NewClient(api, opts)
	t.Cleanup(c.Close)
	return c
}

// waitFor reads sub until a snapshot matches ok.
func waitFor(t *testing.T, sub *Subscription, ok func(Snapshot) bool) Snapshot {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case snap, open := <-sub.Updates():
			require.True(t, open, "subscription %s closed", sub.Key())
			if ok(snap) {
				return snap
			}
		case <-timeout:
			t.Fatalf("timed out waiting on %s, current = %+v", sub.Key(), sub.Current())
		}
	}
}

func isFulfilled(s Snapshot) bool { return s.Status == StatusFulfilled }
func isRejected(s Snapshot) bool  { return s.Status == StatusRejected }

func names(t *testing.T, snap Snapshot) []string {
	t.Helper()
	users, err := As[[]testUser](snap)
	require.NoError(t, err)
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}
