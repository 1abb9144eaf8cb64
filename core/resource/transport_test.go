package resource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkmalxonWeBd/education-platform/core"
)

func newEchoServer(t *testing.T) (*echo.Echo, *httptest.Server) {
	t.Helper()
	e := echo.New()
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return e, srv
}

func TestHTTPRequester_Do(t *testing.T) {
	e, srv := newEchoServer(t)

	e.GET("/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"auth": c.Request().Header.Get("Authorization"),
			"role": c.QueryParam("role"),
		})
	})
	e.POST("/users", func(c echo.Context) error {
		var u testUser
		if err := c.Bind(&u); err != nil {
			return err
		}
		u.ID = "9"
		return c.JSON(http.StatusCreated, u)
	})
	e.GET("/detail", func(c echo.Context) error {
		return c.JSON(http.StatusForbidden, echo.Map{"detail": "Not enough permissions"})
	})
	e.GET("/error", func(c echo.Context) error {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	})
	e.GET("/plain", func(c echo.Context) error {
		return c.String(http.StatusBadGateway, "")
	})

	token := ""
	req := NewHTTPRequester(srv.URL+"/", time.Second, func() string { return token })
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		resp, err := req.Do(ctx, Request{Method: http.MethodGet, Path: "/users"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"auth":"","role":""}`, string(resp.Body))
	})

	t.Run("bearer token and params", func(t *testing.T) {
		token = "tkn"
		defer func() { token = "" }()
		resp, err := req.Do(ctx, Request{Method: http.MethodGet, Path: "/users", Params: url.Values{"role": {"teacher"}}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.JSONEq(t, `{"auth":"Bearer tkn","role":"teacher"}`, string(resp.Body))
	})

	t.Run("json body", func(t *testing.T) {
		resp, err := req.Do(ctx, Request{Method: http.MethodPost, Path: "/users", Body: testUser{Name: "Aziza", Role: "teacher"}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.Status)
		assert.JSONEq(t, `{"id":"9","name":"Aziza","role":"teacher"}`, string(resp.Body))
	})

	errTests := []struct {
		name        string
		path        string
		wantStatus  int
		wantMessage string
	}{
		{name: "detail", path: "/detail", wantStatus: http.StatusForbidden, wantMessage: "Not enough permissions"},
		{name: "error", path: "/error", wantStatus: http.StatusConflict, wantMessage: "already exists"},
		{name: "empty body", path: "/plain", wantStatus: http.StatusBadGateway, wantMessage: "Bad Gateway"},
		{name: "not found", path: "/nope", wantStatus: http.StatusNotFound, wantMessage: "Not Found"},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := req.Do(ctx, Request{Method: http.MethodGet, Path: tt.path})
			herr, ok := core.AsHTTPError(err)
			require.True(t, ok, "got %v", err)
			if herr.Status != tt.wantStatus || herr.Message != tt.wantMessage {
				t.Errorf("Do() error = %v, want %d %s", herr, tt.wantStatus, tt.wantMessage)
			}
		})
	}
}

func TestHTTPRequester_NetworkError(t *testing.T) {
	_, srv := newEchoServer(t)
	srv.Close()

	req := NewHTTPRequester(srv.URL, time.Second, nil)
	_, err := req.Do(context.Background(), Request{Method: http.MethodGet, Path: "/users"})
	require.Error(t, err)
	assert.True(t, core.IsNetworkError(err))
}

func TestRetryPolicy(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

	tests := []struct {
		name      string
		policy    RetryPolicy
		failures  int32
		failWith  error
		wantCalls int32
		wantErr   bool
	}{
		{name: "default never retries", failures: 1, failWith: &core.HTTPError{Status: 503}, wantCalls: 1, wantErr: true},
		{name: "server errors are retried", policy: policy, failures: 2, failWith: &core.HTTPError{Status: 503}, wantCalls: 3},
		{name: "network errors are retried", policy: policy, failures: 1, failWith: &core.NetworkError{Method: "GET", Path: "/", Err: errors.New("reset")}, wantCalls: 2},
		{name: "client errors are not", policy: policy, failures: 5, failWith: &core.HTTPError{Status: 401}, wantCalls: 1, wantErr: true},
		{name: "gives up", policy: policy, failures: 10, failWith: &core.HTTPError{Status: 500}, wantCalls: 4, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			_, err := tt.policy.do(context.Background(), func() (Response, error) {
				if n := atomic.AddInt32(&calls, 1); n <= tt.failures {
					return Response{}, tt.failWith
				}
				return Response{Status: 200}, nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("do() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assert.Equal(t, tt.failWith, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}
