package config

// Bot posts refresh summaries to a Telegram chat. An empty token disables it.
type Bot struct {
	Token     string  `env:"BOT_TOKEN" json:"-"`
	ChatID    int64   `env:"BOT_CHAT_ID" validate:"required_with=Token"`
	TopN      int     `env:"BOT_TOP_N" envDefault:"5" validate:"gte=1"`
	MinProfit float64 `env:"BOT_MIN_PROFIT" envDefault:"0"`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

type Calculator struct {
	CommissionRate float64 `env:"COMMISSION_RATE" envDefault:"0.10" validate:"gte=0,lt=1"`
}
