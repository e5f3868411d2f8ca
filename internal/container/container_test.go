package container

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news/aggregator/internal/browse"
	"news/aggregator/internal/config"
	"news/aggregator/internal/domain"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 5001, ShutdownTimeout: 1},
		NewsAPI: config.NewsAPIConfig{BaseURL: "http://127.0.0.1:1", APIKey: "k", Country: "us", PageSize: 20, Timeout: 1},
		CORS:    config.CORSConfig{AllowedOrigin: "*"},
		Browse: config.BrowseConfig{
			BackendURL: "http://127.0.0.1:1",
			Store:      config.StoreFile,
			PrefsPath:  filepath.Join(t.TempDir(), "prefs.yaml"),
			PageSize:   20,
			Timeout:    1,
		},
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	cfg := baseConfig(t)
	cfg.NewsAPI.APIKey = ""

	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestNew_InvalidOrigin(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CORS.AllowedOrigin = "not-a-url"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Server.Port = 0

	c, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("container did not stop")
	}
}

func TestNewBrowser_FileStore(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"articles":[{"title":"hello","source":{"name":"s"},"url":"https://x"}]}`))
	}))
	defer backend.Close()

	cfg := baseConfig(t)
	cfg.Browse.BackendURL = backend.URL

	b, err := NewBrowser(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()
	v := b.Controller.Refresh(ctx)
	assert.Equal(t, browse.StatusReady, v.Status)
	require.Len(t, v.Articles, 1)

	_, err = b.Controller.SelectCategory(ctx, domain.CategoryHealth)
	require.NoError(t, err)

	prefs, err := b.Store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryHealth, prefs.Category)
}

func TestNewBrowser_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	mr.HSet("news:prefs:carol", "category", "science", "search", "", "page", "3")

	cfg := baseConfig(t)
	cfg.Browse.Store = config.StoreRedis
	cfg.Browse.Profile = "carol"
	cfg.Redis = config.RedisConfig{Host: host, Port: p}

	b, err := NewBrowser(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	prefs := b.Controller.Preferences()
	assert.Equal(t, domain.CategoryScience, prefs.Category)
	assert.Equal(t, 3, prefs.Page)
}

func TestNewBrowser_UnknownStore(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Browse.Store = "etcd"

	_, err := NewBrowser(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewBrowser_RedisUnreachableKeepsLogOutput(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	cfg := baseConfig(t)
	cfg.Browse.Store = config.StoreRedis
	cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewBrowser(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
	assert.Same(t, &buf, log.StandardLogger().Out)
}

func TestBrowserRun_BadLogFile(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	log.SetOutput(os.Stderr)

	cfg := baseConfig(t)
	cfg.Browse.LogFile = filepath.Join(t.TempDir(), "missing", "browse.log")

	b, err := NewBrowser(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	assert.Error(t, b.Run(context.Background()))
	assert.Equal(t, os.Stderr, log.StandardLogger().Out)
}
