package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

type AsynqQueues map[string]int

type AsynqHandler struct {
	Pattern string
	Handle  func(context.Context, *asynq.Task) error
}

// AsynqServer consumes tasks from Redis and dispatches them to handlers until
// ctx is done.
type AsynqServer struct {
	RedisUsername string
	RedisPassword string
	RedisAddress  string
	RedisDB       int
	Concurrency   int
}

func (s AsynqServer) RedisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     s.RedisAddress,
		Username: s.RedisUsername,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	}
}

func (s AsynqServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	queues AsynqQueues,
	handlers ...AsynqHandler,
) {
	g.Go(func() error {
		worker := asynq.NewServer(s.RedisConnOpt(), asynq.Config{
			BaseContext: func() context.Context { return ctx },
			Queues:      queues,
			Concurrency: s.Concurrency,
		})

		mux := asynq.NewServeMux()

		for _, h := range handlers {
			mux.HandleFunc(h.Pattern, h.Handle)
		}

		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("asynqServer.Start: %w", err)
		}

		logger(ctx).Info("asynq server started", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		<-ctx.Done()

		worker.Shutdown()

		logger(ctx).Info("asynq server stopped", slog.String("redis-address", s.RedisAddress), slog.Int("redis-db", s.RedisDB))

		return nil
	})
}

// AsynqPeriodicTask is enqueued by the scheduler on every tick of Cronspec.
type AsynqPeriodicTask struct {
	Cronspec string
	Task     *asynq.Task
	Options  []asynq.Option
}

// AsynqScheduler enqueues periodic tasks. It does not wait for them: the
// AsynqServer picks them up.
type AsynqScheduler struct {
	Server AsynqServer
}

func (s AsynqScheduler) Run(ctx context.Context, g *errgroup.Group, tasks ...AsynqPeriodicTask) {
	g.Go(func() error {
		scheduler := asynq.NewScheduler(s.Server.RedisConnOpt(), &asynq.SchedulerOpts{})

		for _, t := range tasks {
			entryID, err := scheduler.Register(t.Cronspec, t.Task, t.Options...)
			if err != nil {
				return fmt.Errorf("scheduler.Register(%s): %w", t.Task.Type(), err)
			}

			logger(ctx).Info(
				"asynq periodic task registered",
				slog.String("task", t.Task.Type()),
				slog.String("cronspec", t.Cronspec),
				slog.String("entry-id", entryID),
			)
		}

		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("scheduler.Start: %w", err)
		}

		logger(ctx).Info("asynq scheduler started", slog.String("redis-address", s.Server.RedisAddress))

		<-ctx.Done()

		scheduler.Shutdown()

		logger(ctx).Info("asynq scheduler stopped")

		return nil
	})
}
