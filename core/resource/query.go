// Package resource implements a caching client for the REST resources of the backend.
//
// Reads go through Query: results are cached per normalized key (resource + sorted params),
// concurrent identical reads share one request, and subscribers observe every status change
// of the entry. Writes go through Mutate: on success every entry carrying one of the
// mutation's tags goes back to pending and, when observed, is refetched.
package resource

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Tag connects the queries reading a resource with the mutations changing it.
type Tag string

// Params are the query string parameters of a request. Empty values are treated as unset.
type Params map[string]string

// Values returns the non-empty params as url.Values.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for key, val := range p {
		if val == "" {
			continue
		}
		v.Set(key, val)
	}
	return v
}

// NormalizeKey derives the cache key of a query. url.Values.Encode sorts by key,
// so the order in which params were set never matters.
func NormalizeKey(resource string, params Params) string {
	resource = strings.Trim(resource, "/")
	enc := params.Values().Encode()
	if enc == "" {
		return resource
	}
	return resource + "?" + enc
}

// DecodeFunc turns a response body into the value stored in the cache.
type DecodeFunc func(body []byte) (interface{}, error)

// DecodeJSON decodes bodies into a T.
func DecodeJSON[T any]() DecodeFunc {
	return func(body []byte) (interface{}, error) {
		var v T
		if len(body) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, errors.Wrapf(err, "decoding %T", v)
		}
		return v, nil
	}
}

// Query describes a read: GET /<Resource>?<Params>.
type Query struct {
	Resource string // eg. "users" or "users/42"
	Params   Params
	Tags     []Tag
	Decode   DecodeFunc // json.RawMessage is stored when nil
}

func (q Query) Key() string { return NormalizeKey(q.Resource, q.Params) }

func (q Query) Path() string { return "/" + strings.Trim(q.Resource, "/") }

func (q Query) request() Request {
	return Request{Method: http.MethodGet, Path: q.Path(), Params: q.Params.Values()}
}

func (q Query) decode(body []byte) (interface{}, error) {
	if q.Decode == nil {
		return json.RawMessage(body), nil
	}
	return q.Decode(body)
}

// Mutation describes a write: <Method> /<Resource> with an optional JSON body.
type Mutation struct {
	Method      string
	Resource    string
	Params      Params
	Body        interface{}
	Invalidates []Tag
}

func (m Mutation) Path() string { return "/" + strings.Trim(m.Resource, "/") }

func (m Mutation) request() Request {
	return Request{Method: m.Method, Path: m.Path(), Params: m.Params.Values(), Body: m.Body}
}
