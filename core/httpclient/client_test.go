package httpclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *Client {
	t.Helper()
	cfg.Name = "test"
	cfg.BaseURL = srv.URL + "/api"
	c, err := New(cfg, nil)
	require.NoError(t, err)
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	_, err := New(Config{Name: "x", BaseURL: "not a url"}, nil)
	assert.Error(t, err)

	_, err = New(Config{Name: "x", BaseURL: ""}, nil)
	assert.Error(t, err)
}

func TestDo_SendsAuthQueryAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/items/7", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"7","ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{Token: "secret"})

	var out struct {
		ID string `json:"id"`
		OK bool   `json:"ok"`
	}
	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/items/7",
		Query:  url.Values{"page": {"2"}},
		Body:   map[string]string{"name": "x"},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "7", out.ID)
	assert.True(t, out.OK)
}

func TestDo_OmitsAuthorizationWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	assert.NoError(t, c.Do(context.Background(), Request{Method: http.MethodDelete, Path: "x"}, nil))
}

func TestDo_RetriesTransientFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"value":1}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 2})

	var out map[string]int
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v"}, &out))
	assert.Equal(t, 1, out["value"])
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestDo_ReturnsLastErrorWhenRetriesExhausted(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 1})

	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v"}, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusTooManyRequests))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestDo_DoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"missing"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 3})

	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v"}, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Body, "missing")
	assert.False(t, se.Temporary())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDo_DoesNotRepeatPostAfterServerError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":"2"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 3})
	err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/rows", Body: map[string]string{"k": "v"}}, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestDo_RepeatsPostAfterTooManyRequests(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id":"2"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 3})
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/rows"}, &out))
	assert.Equal(t, "2", out.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestDo_RepeatsIdempotentPost(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 3})
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/publish", Idempotent: true}, nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestShouldRetry(t *testing.T) {
	dial := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}
	read := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset")}}
	badGateway := &StatusError{StatusCode: http.StatusBadGateway}
	badRequest := &StatusError{StatusCode: http.StatusBadRequest}

	post := Request{Method: http.MethodPost}
	get := Request{Method: http.MethodGet}
	put := Request{Method: http.MethodPut}

	assert.True(t, shouldRetry(post, dial))
	assert.False(t, shouldRetry(post, read))
	assert.False(t, shouldRetry(post, badGateway))
	assert.True(t, shouldRetry(get, read))
	assert.True(t, shouldRetry(put, badGateway))
	assert.True(t, shouldRetry(Request{Method: http.MethodPost, Idempotent: true}, badGateway))
	assert.False(t, shouldRetry(get, badRequest))
}

func TestDo_InvalidJSONIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})

	var out map[string]any
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v"}, &out)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDo_CircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{BreakerFailures: 2, BreakerCooldown: time.Minute})
	ctx := context.Background()

	assert.Error(t, c.Do(ctx, Request{Method: http.MethodGet, Path: "/v"}, nil))
	assert.Error(t, c.Do(ctx, Request{Method: http.MethodGet, Path: "/v"}, nil))

	err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/v"}, nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestDo_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{BreakerFailures: 1})
	for i := 0; i < 3; i++ {
		err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v"}, nil)
		assert.True(t, IsStatus(err, http.StatusBadRequest))
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestRetryDelay(t *testing.T) {
	c := &Client{backoff: 100 * time.Millisecond}

	assert.Equal(t, 100*time.Millisecond, c.retryDelay(1, errors.New("x")))
	assert.Equal(t, 200*time.Millisecond, c.retryDelay(2, errors.New("x")))
	assert.Equal(t, 400*time.Millisecond, c.retryDelay(3, errors.New("x")))
	assert.Equal(t, maxBackoff, c.retryDelay(20, errors.New("x")))

	withHeader := &retryAfterError{StatusError: &StatusError{StatusCode: 429}, after: 3 * time.Second}
	assert.Equal(t, 3*time.Second, c.retryDelay(1, withHeader))
}
