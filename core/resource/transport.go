package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/AkmalxonWeBd/education-platform/core"
)

type (
	Request struct {
		Method string
		Path   string
		Params url.Values
		Body   interface{}
	}

	Response struct {
		Status int
		Body   []byte
	}

	// Requester is the HTTP collaborator. Non-2xx answers must be reported as *core.HTTPError
	// and transport failures as *core.NetworkError.
	Requester interface {
		Do(ctx context.Context, req Request) (Response, error)
	}
)

// HTTPRequester talks JSON to the backend at baseURL, attaching the bearer token
// returned by token (read on every request) when there is one.
type HTTPRequester struct {
	baseURL string
	client  *http.Client
	token   func() string
}

var _ Requester = (*HTTPRequester)(nil)

func NewHTTPRequester(baseURL string, timeout time.Duration, token func() string) *HTTPRequester {
	if token == nil {
		token = func() string { return "" }
	}
	return &HTTPRequester{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		token:   token,
	}
}

func (r *HTTPRequester) Do(ctx context.Context, req Request) (Response, error) {
	u := r.baseURL + req.Path
	if len(req.Params) > 0 {
		u += "?" + req.Params.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return Response{}, errors.Wrapf(err, "encoding %s %s body", req.Method, req.Path)
		}
		body = bytes.NewReader(data)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return Response{}, errors.Wrapf(err, "building %s %s", req.Method, req.Path)
	}
	hreq.Header.Set("Accept", "application/json")
	if body != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}
	if token := r.token(); token != "" {
		hreq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(hreq)
	if err != nil {
		return Response{}, &core.NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &core.NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	out := Response{Status: resp.StatusCode, Body: data}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, &core.HTTPError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	return out, nil
}

// errorMessage extracts a human readable message from an error body:
// {"detail": "..."}, {"error": "..."} or {"message": "..."}; the raw body otherwise.
func errorMessage(status int, body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, field := range []string{"detail", "error", "message"} {
			if msg, ok := payload[field].(string); ok && msg != "" {
				return msg
			}
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) <= 200 {
		return msg
	}
	return http.StatusText(status)
}
