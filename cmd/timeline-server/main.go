// Command timeline-server serves the hireline activity timeline over HTTP
// and WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/client"
	"github.com/hireline/timeline/internal/api"
	"github.com/hireline/timeline/internal/config"
	"github.com/hireline/timeline/internal/dbpool"
	"github.com/hireline/timeline/internal/service"
	"github.com/hireline/timeline/internal/source"
	"github.com/hireline/timeline/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	envFile := flag.String("env-file", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	if *showVersion {
		fmt.Println(config.Version)
		return
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("could not load env file")
	}

	if err := run(log); err != nil {
		log.WithError(err).Fatal("timeline server exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher, pool, err := newFetcher(ctx, cfg, log)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	svc := service.NewTimelineService(fetcher, hub, log)
	startBackground(ctx, cfg, log, svc, pool)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(ctx, &api.RouterDeps{
			Log:         log,
			Pool:        pool,
			Hub:         hub,
			Timeline:    svc,
			CORSOrigins: cfg.CORSOrigins,
			APIKey:      cfg.APIKey.Value(),
			Version:     config.Version,
			Source:      cfg.Source,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"source":  cfg.Source,
			"version": config.Version,
		}).Info("timeline server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")

	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	return nil
}

// newFetcher builds the record source selected by SOURCE. The pool is
// returned for the postgres source so health checks and the change
// listener can share it.
func newFetcher(ctx context.Context, cfg *config.Config, log *logrus.Logger) (source.Fetcher, *dbpool.Pool, error) {
	switch cfg.Source {
	case config.SourcePostgres:
		pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), dbpool.Options{
			MaxConns: int32(cfg.DBMaxConns), //nolint:gosec // validated to 4..64
			ReadOnly: true,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}

		return source.NewPostgresSource(pool, log, cfg.FetchTimeout), pool, nil
	default:
		opts := []client.Option{client.WithTimeout(cfg.FetchTimeout)}
		if token := cfg.BackendToken.Value(); token != "" {
			opts = append(opts, client.WithAPIKey(token))
		}

		return source.NewRESTSource(client.New(cfg.BackendURL, opts...), log), nil, nil
	}
}

// startBackground launches the refresh poller and, for the postgres source,
// the change listener.
func startBackground(ctx context.Context, cfg *config.Config, log *logrus.Logger, svc *service.TimelineService, pool *dbpool.Pool) {
	if cfg.PollingEnabled() {
		log.WithField("interval", cfg.RefreshInterval.String()).Info("periodic refresh enabled")
	} else {
		log.Info("periodic refresh disabled, refreshing once at startup")
	}
	go service.NewRefreshPoller(svc, cfg.RefreshInterval, log).Run(ctx)

	if pool == nil || cfg.NotifyChannel == "" {
		return
	}

	listener := service.NewChangeListener(log, pool, svc, cfg.NotifyChannel)
	if err := listener.Start(ctx); err != nil {
		log.WithError(err).Warn("change listener disabled")
	}
}
