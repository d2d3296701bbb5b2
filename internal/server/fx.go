// Package server provides the application server and dependency wiring.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/feedback-unfurler/internal/api"
	"github.com/JakeFAU/feedback-unfurler/internal/clock/system"
	"github.com/JakeFAU/feedback-unfurler/internal/config"
	"github.com/JakeFAU/feedback-unfurler/internal/locale"
	"github.com/JakeFAU/feedback-unfurler/internal/logging"
	"github.com/JakeFAU/feedback-unfurler/internal/slackbot"
	memorystore "github.com/JakeFAU/feedback-unfurler/internal/storage/memory"
	pgstore "github.com/JakeFAU/feedback-unfurler/internal/storage/postgres"
	"github.com/JakeFAU/feedback-unfurler/internal/unfurl"
)

// Store is a content store the application owns.
type Store interface {
	unfurl.ContentStore
	Ping(ctx context.Context) error
	Close()
}

// App contains the application's dependencies.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      Store
	unfurler   *unfurl.Unfurler
	dispatcher *slackbot.Dispatcher
	socket     *slackbot.SocketRunner
	apiServer  *api.Server
}

// Build creates the application's dependencies for serving Slack traffic.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.ValidateSlack(); err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{Development: cfg.Logging.Development, Level: cfg.Logging.Level})
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return BuildWithLogger(ctx, cfg, logger)
}

// BuildWithLogger is Build with a caller-supplied logger.
func BuildWithLogger(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger.Info("building application dependencies",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("socket_mode", cfg.Slack.SocketMode),
		zap.String("store", cfg.Store.Driver),
		zap.String("site", cfg.Site.Host),
		zap.String("locale", cfg.Site.Locale),
	)

	store, err := NewStore(ctx, cfg, logger.Named(logging.Store))
	if err != nil {
		return nil, err
	}

	slackLogger := logger.Named(logging.Slack)
	client := slackbot.NewClient(slackbot.ClientConfig{
		BotToken: cfg.Slack.BotToken,
		AppToken: cfg.Slack.AppToken,
		APIURL:   cfg.Slack.APIURL,
	})
	unfurler, err := NewUnfurler(cfg, store, slackbot.NewPoster(client, slackLogger), logger.Named(logging.Unfurl))
	if err != nil {
		store.Close()
		return nil, err
	}

	app := &App{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		unfurler:   unfurler,
		dispatcher: slackbot.NewDispatcher(unfurler, cfg.EventTimeout(), slackLogger),
	}

	opts := api.Options{Ready: store, Logger: logger.Named(logging.API)}
	if cfg.Slack.SocketMode {
		app.socket = slackbot.NewSocketRunner(client, app.dispatcher, slackLogger)
	} else {
		opts.Events = slackbot.NewEventsHandler(cfg.Slack.SigningSecret, app.dispatcher, slackLogger)
		opts.EventsPath = cfg.Server.EventsPath
	}
	app.apiServer = api.NewServer(opts)
	return app, nil
}

// NewStore opens the content store selected by store.driver.
func NewStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		if cfg.Store.Fixtures == "" {
			logger.Warn("memory store without fixtures, every link will be skipped")
			return memorystore.NewContentStore(), nil
		}
		store, err := memorystore.LoadFixtures(cfg.Store.Fixtures)
		if err != nil {
			return nil, fmt.Errorf("memory store init failed: %w", err)
		}
		logger.Info("memory store loaded", zap.String("fixtures", cfg.Store.Fixtures))
		return store, nil
	case config.DriverPostgres:
		store, err := pgstore.NewContentStore(ctx, pgstore.ContentStoreConfig{
			DSN:             cfg.DB.DSN,
			Schema:          cfg.DB.Schema,
			MaxConns:        cfg.DB.MaxConns,
			MinConns:        cfg.DB.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime(),
		})
		if err != nil {
			return nil, fmt.Errorf("postgres store init failed: %w", err)
		}
		logger.Info("postgres store initialized", zap.String("schema", cfg.DB.Schema))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewUnfurler wires the classify, resolve and render pipeline. poster may be
// nil when only previews are needed.
func NewUnfurler(cfg *config.Config, store unfurl.ContentStore, poster unfurl.Poster, logger *zap.Logger) (*unfurl.Unfurler, error) {
	loc, err := locale.New(cfg.Site.Locale)
	if err != nil {
		return nil, fmt.Errorf("locale init failed: %w", err)
	}
	classifier, err := unfurl.NewClassifier(cfg.Site.Host)
	if err != nil {
		return nil, fmt.Errorf("classifier init failed: %w", err)
	}
	renderer := unfurl.NewRenderer(unfurl.Style{
		Color:        cfg.Site.Color,
		FooterIcon:   cfg.Site.FooterIcon,
		UsersBaseURL: cfg.Site.UsersBaseURL,
	}, loc, system.New())
	return unfurl.New(classifier, unfurl.NewResolver(store), renderer, poster, logger), nil
}

// Handler exposes the HTTP router.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run starts the HTTP server and, in socket mode, the Socket Mode runner. It
// blocks until ctx is canceled, a signal arrives or a runner fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application started")
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		a.Close()
		return fmt.Errorf("http listen %s: %w", srv.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http server started", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if a.socket != nil {
		g.Go(func() error {
			a.logger.Info("socket mode runner started")
			return a.socket.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown error", zap.Error(err))
		}
		return nil
	})

	runErr := g.Wait()
	if runErr != nil {
		a.logger.Error("runner failed", zap.Error(runErr))
	}
	a.Close()
	return runErr
}

// Close waits for in-flight events, then releases the store and flushes logs.
func (a *App) Close() {
	a.dispatcher.Wait()
	a.store.Close()
	a.logger.Info("shutdown complete")
	if err := a.logger.Sync(); err != nil {
		a.logger.Debug("logger sync failed", zap.Error(err))
	}
}
