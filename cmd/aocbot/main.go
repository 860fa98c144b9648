package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aocbot/aocbot/internal/adapters/aoc"
	"github.com/aocbot/aocbot/internal/adapters/cache"
	"github.com/aocbot/aocbot/internal/adapters/http/api"
	"github.com/aocbot/aocbot/internal/adapters/repository"
	"github.com/aocbot/aocbot/internal/adapters/scheduler"
	"github.com/aocbot/aocbot/internal/adapters/slack"
	service "github.com/aocbot/aocbot/internal/app"
	"github.com/aocbot/aocbot/internal/config"
	"github.com/aocbot/aocbot/internal/domain/calendar"
	"github.com/aocbot/aocbot/pkg/logger"
	"github.com/aocbot/aocbot/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	a, err := build(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build application", logger.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			log.Error(ctx, "failed to start scheduler", logger.Error(err))
			return
		}
	}

	go startServiceMetricsUpdater(ctx, a.service)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.server.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Int("event", cfg.AOC.Event),
			logger.String("storage", cfg.Storage.Driver),
			logger.Bool("cache", cfg.RedisEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// application holds the wired components and what must be closed on exit.
type application struct {
	service   *service.Service
	server    *api.Server
	scheduler *scheduler.Scheduler
	closers   []io.Closer
}

// Close stops the scheduler and closes stores in reverse order.
func (a *application) Close() {
	if a.scheduler != nil {
		_ = a.scheduler.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

// build wires storage, cache, remote client, service and HTTP routes from cfg.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*application, error) {
	a := &application{}
	cal := calendar.New(cfg.AOC.Event)

	store, err := repository.Open(ctx, cfg.Storage,
		repository.WithEvent(cfg.AOC.Event),
		repository.WithLogger(log.Named("repository")),
	)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store)

	// The in-process snapshot outlives a refresh interval so the scheduler
	// stays the only steady-state caller of adventofcode.com.
	var snapshots cache.SnapshotCache = cache.NewMemory(2 * cfg.EffectiveRefreshInterval())
	if cfg.RedisEnabled() {
		rc, err := cache.NewRedis(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.TTL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, rc)
		snapshots = rc
	}

	client := aoc.NewClient(cfg.AOC.Event, cfg.AOC.LeaderboardID, cfg.AOC.SessionToken, log.Named("aoc"),
		aoc.WithBaseURL(cfg.AOC.BaseURL),
		aoc.WithUserAgent(cfg.AOC.UserAgent),
		aoc.WithTimeout(cfg.AOC.Timeout),
	)
	fetcher := cache.NewCachingFetcher(client, snapshots, cache.Key(cfg.AOC.Event, cfg.AOC.LeaderboardID), log.Named("cache"))

	a.service = service.New(fetcher, store, store,
		service.WithCalendar(cal),
		service.WithLeaderboardID(cfg.AOC.LeaderboardID),
		service.WithAdmin(cfg.Slack.AdminID),
		service.WithOverallDuration(cfg.Leaderboard.OverallDuration),
		service.WithLogger(log.Named("service")),
	)

	messengerOpts := []slack.Option{slack.WithLogger(log.Named("slack"))}
	if cfg.Slack.APIURL != "" {
		messengerOpts = append(messengerOpts, slack.WithAPIURL(cfg.Slack.APIURL))
	}
	messenger := slack.NewMessenger(cfg.Slack.BotToken, messengerOpts...)

	a.server = api.NewServer(a.service, messenger, a.service, cfg.Slack.SigningSecret,
		api.WithLogger(log.Named("api")),
		api.WithRenderer(slack.NewRenderer(cfg.Leaderboard.DetailedSplits)),
	)

	a.scheduler, err = scheduler.New(a.service, cfg.EffectiveRefreshInterval(),
		scheduler.WithLogger(log.Named("scheduler")),
		scheduler.WithTimeout(cfg.AOC.Timeout*2),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// startServiceMetricsUpdater refreshes gauges derived from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if members, ok := stats["snapshotMembers"].(int); ok {
		metrics.UpdateSnapshotMembers(members)
	}
}
