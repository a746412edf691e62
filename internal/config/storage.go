package config

import "time"

const (
	DataSourceMemory = "memory"
	DataSourceBucket = "bucket"
)

type Storage struct {
	DataSource string `env:"DATA_SOURCE" envDefault:"memory" validate:"oneof=memory bucket"`
	Publish    bool   `env:"STORAGE_PUBLISH" envDefault:"true"`
	KeyPrefix  string `env:"STORAGE_KEY_PREFIX" envDefault:"skin-market:"`
}

// Redis backs the bucket store and the asynq scheduler. An empty address
// disables both.
type Redis struct {
	Address            string `env:"REDIS_ADDRESS"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}

// Postgres keeps the refresh run history. An empty DSN disables it.
type Postgres struct {
	DSN             string        `env:"PG_DSN" json:"-"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"5m"`
}

func (p Postgres) Enabled() bool {
	return p.DSN != ""
}
