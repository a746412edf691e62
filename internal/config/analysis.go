package config

import "time"

const (
	EngineCommand = "command"
	EngineHTTP    = "http"
	EngineFile    = "file"
)

type Analysis struct {
	Engine  string        `env:"ANALYSIS_ENGINE" envDefault:"command" validate:"oneof=command http file"`
	Command []string      `env:"ANALYSIS_COMMAND" envSeparator:" " validate:"required_if=Engine command"`
	Dir     string        `env:"ANALYSIS_DIR"`
	URL     string        `env:"ANALYSIS_URL" validate:"required_if=Engine http,omitempty,url"`
	Token   string        `env:"ANALYSIS_TOKEN" json:"-"`
	File    string        `env:"ANALYSIS_FILE" validate:"required_if=Engine file"`
	Timeout time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"10m" validate:"gt=0"`
}
