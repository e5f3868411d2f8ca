package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news/aggregator/internal/client"
	"news/aggregator/internal/config"
	"news/aggregator/internal/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeFetcher struct {
	params []service.Params
	body   []byte
	err    error
}

func (f *fakeFetcher) News(_ context.Context, params service.Params) ([]byte, error) {
	f.params = append(f.params, params)
	return f.body, f.err
}

func newTestServer(t *testing.T, fetcher NewsFetcher) *Server {
	t.Helper()
	s, err := New(fetcher, Options{AllowedOrigin: "http://localhost:3000"})
	require.NoError(t, err)
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleNews_Success(t *testing.T) {
	f := &fakeFetcher{body: []byte(`{"status":"ok","articles":[{"title":"a"}]}`)}
	s := newTestServer(t, f)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/news?category=technology&page=1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok","articles":[{"title":"a"}]}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	require.Len(t, f.params, 1)
	assert.Equal(t, service.Params{Category: "technology", Page: "1"}, f.params[0])
}

func TestHandleNews_Failure(t *testing.T) {
	f := &fakeFetcher{err: service.ErrFetchFailed}
	s := newTestServer(t, f)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/news?search=bitcoin", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch news"}`, w.Body.String())
}

func TestHandleNews_OnlyGET(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{})

	w := serve(s, httptest.NewRequest(http.MethodPost, "/api/news", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{body: []byte(`{}`)})

	req := httptest.NewRequest(http.MethodGet, "/api/news?category=health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(s, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/news?category=health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(s, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/news", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = serve(s, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestNew_InvalidOrigin(t *testing.T) {
	_, err := New(&fakeFetcher{}, Options{AllowedOrigin: "localhost:3000"})
	assert.Error(t, err)

	_, err = New(&fakeFetcher{}, Options{AllowedOrigin: "*"})
	assert.NoError(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{})
	w := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := serve(s, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

// End to end through the real service and upstream client.
func TestProxy_Upstream(t *testing.T) {
	tests := []struct {
		name       string
		upstream   http.HandlerFunc
		timeout    int
		wantStatus int
		wantBody   string
	}{
		{
			name: "healthy upstream",
			upstream: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[{"title":"t","source":{"name":"s"}}]}`))
			},
			timeout:    5,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok","totalResults":1,"articles":[{"title":"t","source":{"name":"s"}}]}`,
		},
		{
			name: "upstream timeout",
			upstream: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(3 * time.Second):
				}
			},
			timeout:    1,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to fetch news"}`,
		},
		{
			name: "upstream 429",
			upstream: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"status":"error","code":"rateLimited","message":"slow down"}`))
			},
			timeout:    5,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to fetch news"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(tt.upstream)
			defer upstream.Close()

			c := client.NewNewsAPIClient(config.NewsAPIConfig{
				BaseURL:  upstream.URL,
				APIKey:   "k",
				Country:  "us",
				PageSize: 20,
				Timeout:  tt.timeout,
			})
			s := newTestServer(t, service.NewService(c))

			w := serve(s, httptest.NewRequest(http.MethodGet, "/api/news?category=technology&page=1", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s, err := New(&fakeFetcher{}, Options{Addr: "127.0.0.1:0", AllowedOrigin: "*", ShutdownTimeout: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
