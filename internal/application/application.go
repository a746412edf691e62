package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"skin_market/internal/config"
	"skin_market/internal/domain/entity"
	"skin_market/internal/domain/service/calc"
	"skin_market/internal/domain/service/items"
	"skin_market/internal/domain/service/refresh"
	"skin_market/internal/infrastructure/analysis"
	"skin_market/internal/infrastructure/cache"
	"skin_market/internal/infrastructure/filter"
	"skin_market/internal/infrastructure/notifier"
	"skin_market/internal/infrastructure/persistence"
	"skin_market/internal/infrastructure/storage"
	"skin_market/internal/server"
	"skin_market/internal/worker"
	"skin_market/pkg/application/connectors"
	"skin_market/pkg/application/modules"
	"skin_market/pkg/logx"
	"skin_market/pkg/probe"
)

// Run starts every module the configuration enables and blocks until ctx is
// done or one of them fails.
func Run(ctx context.Context, cfg config.Config) error {
	for _, warning := range cfg.Warnings() {
		logger(ctx).Warn("config", logx.Error(warning))
	}

	redisConnector := &connectors.Redis{
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		Address:            cfg.Redis.Address,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	defer redisConnector.Close(ctx)

	postgresConnector := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	defer postgresConnector.Close(ctx)

	analyzer, err := newAnalyzer(cfg.Analysis, cfg.HTTP.LogFieldMaxLen)
	if err != nil {
		return fmt.Errorf("newAnalyzer: %w", err)
	}

	calculator, err := calc.NewCalculator(cfg.Calculator.CommissionRate)
	if err != nil {
		return fmt.Errorf("calc.NewCalculator: %w", err)
	}

	results := cache.NewResultCache()

	refreshService := refresh.NewService(analyzer, results).
		WithTimeout(cfg.Analysis.Timeout)

	var (
		checks    []probe.ReadinessCheck
		bucket    items.Bucket
		runs      *persistence.RefreshRunRepository
		publisher storage.LatestPublisher
	)

	if redisConnector.Enabled() {
		publisher = storage.NewLatestPublisher(
			storage.NewBucket(redisConnector.Client(ctx), cfg.Storage.KeyPrefix),
		)
		bucket = publisher

		if cfg.Storage.Publish {
			refreshService.WithPublisher(publisher)
		}

		checks = append(checks, redisConnector.Ping)
	}

	if postgresConnector.Enabled() {
		db := postgresConnector.Client(ctx)

		if err = persistence.Migrate(ctx, db); err != nil {
			return fmt.Errorf("persistence.Migrate: %w", err)
		}

		runs = persistence.NewRefreshRunRepository(db)
		refreshService.WithRunRecorder(runs)

		checks = append(checks, postgresConnector.Ping)
	}

	if cfg.Bot.Enabled() {
		var bot *notifier.TelegramBot

		if bot, err = notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID); err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		refreshService.WithNotifier(bot.WithTop(cfg.Bot.TopN, cfg.Bot.MinProfit))
	}

	var source items.DataSource = items.NewMemorySource(results, refreshService)
	if cfg.Storage.DataSource == config.DataSourceBucket {
		source = items.NewBucketSource(bucket)
	}

	itemsService := items.NewService(source, filter.NewEngine())

	var runsLister interface {
		ListRecent(ctx context.Context, limit int) ([]entity.RefreshRun, error)
	}
	if runs != nil {
		runsLister = runs
	}

	srv := server.NewServer(
		server.NewItemsServer(itemsService, results),
		server.NewRefreshServer(
			refreshService,
			rate.NewLimiter(rate.Every(cfg.Refresh.ManualInterval), cfg.Refresh.ManualBurst),
			runsLister,
		),
		server.NewCalculatorServer(calculator),
		server.NewDashboardServer(itemsService, calculator),
	)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           srv.NewRouter(cfg.HTTP.LogFieldMaxLen),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		Checks:        checks,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
	}.Run(ctx, g)

	runScheduler(ctx, g, cfg, refreshService)

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func newAnalyzer(cfg config.Analysis, logFieldMaxLen int) (refresh.Analyzer, error) {
	switch cfg.Engine {
	case config.EngineHTTP:
		return analysis.NewHTTPEngine(analysis.HTTPOptions{
			URL:            cfg.URL,
			Token:          cfg.Token,
			Timeout:        cfg.Timeout,
			LogFieldMaxLen: logFieldMaxLen,
		}), nil
	case config.EngineFile:
		return analysis.NewFileEngine(cfg.File), nil
	default:
		engine, err := analysis.NewCommandEngine(cfg.Command)
		if err != nil {
			return nil, fmt.Errorf("analysis.NewCommandEngine: %w", err)
		}

		return engine.WithDir(cfg.Dir), nil
	}
}

func runScheduler(ctx context.Context, g *errgroup.Group, cfg config.Config, refreshService *refresh.Service) {
	switch cfg.Refresh.Scheduler {
	case config.SchedulerTicker:
		scheduler := worker.NewRefreshScheduler(refreshService, cfg.Refresh.Interval).
			WithRefreshOnStart(cfg.Refresh.OnStart)

		g.Go(func() error {
			return scheduler.Run(ctx)
		})
	case config.SchedulerAsynq:
		asynqServer := modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DatabaseNumber,
			Concurrency:   cfg.Refresh.AsynqConcurrency,
		}

		asynqServer.Run(
			ctx,
			g,
			modules.AsynqQueues{worker.QueueRefresh: 1},
			modules.AsynqHandler{
				Pattern: worker.TaskTypeRefresh,
				Handle:  worker.NewRefreshTaskHandler(refreshService).ProcessTask,
			},
		)

		modules.AsynqScheduler{Server: asynqServer}.Run(ctx, g, modules.AsynqPeriodicTask{
			Cronspec: cfg.Refresh.Cron,
			Task:     worker.NewRefreshTask(cfg.Analysis.Timeout),
		})

		if cfg.Refresh.OnStart {
			if err := refreshService.Trigger(ctx, entity.TriggerSchedule); err != nil {
				logger(ctx).Warn("refreshService.Trigger", logx.Error(err))
			}
		}
	default:
		logger(ctx).Info("refresh scheduler disabled", slog.String("scheduler", cfg.Refresh.Scheduler))
	}
}
