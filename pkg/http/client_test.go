package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndParseDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "BTC/USD", r.URL.Query().Get("symbol"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": body["inputs"]})
	}))
	defer srv.Close()

	c := NewClient(WithTimeout(time.Second))
	var out map[string]string
	err := c.SendAndParse(context.Background(), &RequestOptions{
		Method:      MethodPost,
		URL:         srv.URL,
		QueryParams: map[string][]string{"symbol": {"BTC/USD"}},
		Body:        map[string]string{"inputs": "hello"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", out["echo"])
}

func TestSendAndParseRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"model loading"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(WithRetry(5 * time.Second))
	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, &out))
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSendAndParseDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad symbol"))
	}))
	defer srv.Close()

	c := NewClient(WithRetry(5 * time.Second))
	err := c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, nil)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "bad symbol", se.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendAndParseDoesNotRetryMalformedBody(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()), WithRetry(5*time.Second))
	var out map[string]any
	start := time.Now()
	err := c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Less(t, time.Since(start), time.Second)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestWithHTTPClient(t *testing.T) {
	var seen atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	hc := srv.Client()
	base := hc.Transport
	hc.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen.Store(true)
		return base.RoundTrip(r)
	})

	c := NewClient(WithHTTPClient(hc))
	require.NoError(t, c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, nil))
	assert.True(t, seen.Load())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestSendAndParseRawBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<rss></rss>"))
	}))
	defer srv.Close()

	var raw []byte
	require.NoError(t, NewClient().SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, &raw))
	assert.Equal(t, "<rss></rss>", string(raw))
}

func TestRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := NewClient(WithRateLimit(0.001, 1))
	require.NoError(t, c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.SendAndParse(ctx, &RequestOptions{Method: MethodGet, URL: srv.URL}, nil)
	require.Error(t, err)
}
