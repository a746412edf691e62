package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App        App
	HTTP       HTTP
	Probe      Probe
	Metrics    Metrics
	Log        Log
	Analysis   Analysis
	Refresh    Refresh
	Storage    Storage
	Redis      Redis
	Postgres   Postgres
	Bot        Bot
	Calculator Calculator
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"skin-market"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

var (
	ErrSchedulerNeedsRedis = errors.New("REFRESH_SCHEDULER=asynq requires REDIS_ADDRESS")
	ErrBucketNeedsRedis    = errors.New("DATA_SOURCE=bucket without REDIS_ADDRESS serves 500 on every request")
)

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks field constraints and the combinations that cannot work.
// A bucket data source without Redis is allowed: requests then fail with a
// configuration error, which Warnings reports.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	if c.Refresh.Scheduler == SchedulerAsynq && !c.Redis.Enabled() {
		return ErrSchedulerNeedsRedis
	}

	return nil
}

// Warnings lists settings that are valid but probably unintended.
func (c Config) Warnings() []error {
	var warnings []error

	if c.Storage.DataSource == DataSourceBucket && !c.Redis.Enabled() {
		warnings = append(warnings, ErrBucketNeedsRedis)
	}

	return warnings
}
