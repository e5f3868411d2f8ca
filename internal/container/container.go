package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"news/aggregator/internal/backend"
	"news/aggregator/internal/browse"
	"news/aggregator/internal/client"
	"news/aggregator/internal/config"
	"news/aggregator/internal/logging"
	"news/aggregator/internal/server"
	"news/aggregator/internal/service"
	"news/aggregator/internal/state"
	"news/aggregator/internal/tui"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds the components of the proxy
type Container struct {
	Config  *config.Config
	Client  client.NewsAPIClient
	Service *service.Service
	Server  *server.Server
}

// New creates the proxy container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)

	newsClient := client.NewNewsAPIClient(cfg.NewsAPI)
	newsService := service.NewService(newsClient)

	srv, err := server.New(newsService, server.Options{
		Addr:            cfg.ListenAddr(),
		AllowedOrigin:   cfg.CORS.AllowedOrigin,
		ShutdownTimeout: cfg.ShutdownTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return &Container{
		Config:  cfg,
		Client:  newsClient,
		Service: newsService,
		Server:  srv,
	}, nil
}

// Run serves the proxy until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Run(ctx)
	})

	return g.Wait()
}

// Browser holds the components of the terminal browser
type Browser struct {
	Config     *config.Config
	Store      state.PreferencesStore
	Controller *browse.Controller

	redis *redis.Client
}

// NewBrowser wires the preferences store, backend client and controller
func NewBrowser(ctx context.Context, cfg *config.Config) (*Browser, error) {
	b := &Browser{Config: cfg}

	switch cfg.Browse.Store {
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")
		b.redis = rdb
		b.Store = state.NewRedisStore(rdb, cfg.Browse.Profile)

	case config.StoreFile, "":
		path := cfg.Browse.PrefsPath
		if path == "" {
			path = state.DefaultPrefsPath(cfg.Browse.Profile)
		}
		b.Store = state.NewFileStore(path)

	default:
		return nil, fmt.Errorf("unknown browse.store %q", cfg.Browse.Store)
	}

	fetcher := backend.New(cfg.Browse.BackendURL, cfg.BackendTimeout())
	b.Controller = browse.New(b.Store, fetcher, browse.Options{
		PageSize:  cfg.Browse.PageSize,
		Freshness: cfg.FreshnessWindow(),
	})
	b.Controller.Init(ctx)

	return b, nil
}

// Run launches the TUI and blocks until it exits. Log output goes to
// browse.log_file while the screen is owned by the TUI.
func (b *Browser) Run(ctx context.Context) error {
	logFile, err := logging.RedirectToFile(b.Config.Browse.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	return tui.Run(ctx, tui.RunOpts{
		Controller: b.Controller,
		Debounce:   b.Config.Debounce(),
	})
}

// Close performs cleanup when shutting down
func (b *Browser) Close() error {
	if b.redis != nil {
		return b.redis.Close()
	}
	return nil
}
