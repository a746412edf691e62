package config

import "time"

const (
	SchedulerTicker = "ticker"
	SchedulerAsynq  = "asynq"
	SchedulerNone   = "none"
)

type Refresh struct {
	Scheduler string        `env:"REFRESH_SCHEDULER" envDefault:"ticker" validate:"oneof=ticker asynq none"`
	Interval  time.Duration `env:"REFRESH_INTERVAL" envDefault:"30m" validate:"gt=0"`
	Cron      string        `env:"REFRESH_CRON" envDefault:"*/30 * * * *"`
	OnStart   bool          `env:"REFRESH_ON_START" envDefault:"true"`

	AsynqConcurrency int `env:"REFRESH_ASYNQ_CONCURRENCY" envDefault:"1" validate:"gte=1"`

	// Manual refreshes through POST /api/refresh.
	ManualInterval time.Duration `env:"REFRESH_MANUAL_INTERVAL" envDefault:"1m" validate:"gt=0"`
	ManualBurst    int           `env:"REFRESH_MANUAL_BURST" envDefault:"1" validate:"gte=1"`
}
