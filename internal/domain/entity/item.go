package entity

// Sentinel values the analysis engine writes into profit fields.
const (
	// ProfitNotListed: the item is not listed on the reference marketplace.
	ProfitNotListed = -999.0
	// ProfitLowVolume: listed, but the volume is too low to trade.
	ProfitLowVolume = -998.0
	// SteamProfitUnavailable: no comparable Steam price.
	SteamProfitUnavailable = -999.0
)

// Item is one tradable good priced on Buff, the reference market and Steam.
// JSON names are the analysis engine's and are consumed verbatim.
type Item struct {
	Name     string `json:"name"`
	BuffID   int    `json:"buff_id"`
	IconURL  string `json:"icon_url"`
	Exterior string `json:"exterior"`

	BuffPrice    float64 `json:"buffPrice"`
	BuffSellNum  int     `json:"buffSellNum"`
	MarketPrice  float64 `json:"marketPrice"`
	MarketVolume int     `json:"marketVolume"`
	SteamPrice   float64 `json:"steamPrice"`

	SteamMarketURL string `json:"steam_market_url"`
	SteamPriceRaw  string `json:"steam_price_raw,omitempty"`

	ProfitPercent      float64 `json:"profitPercent"`
	ProfitRub          float64 `json:"profitRub"`
	Status             string  `json:"status"`
	ProfitSteamPercent float64 `json:"profitSteamPercent"`
	StatusSteam        string  `json:"statusSteam"`
}

func (i Item) NotListed() bool {
	return i.ProfitPercent == ProfitNotListed
}

func (i Item) LowVolume() bool {
	return i.ProfitPercent == ProfitLowVolume
}

func (i Item) SteamUnavailable() bool {
	return i.ProfitSteamPercent == SteamProfitUnavailable
}

// HasProfit reports whether ProfitPercent is a real value, not a sentinel.
func (i Item) HasProfit() bool {
	return !i.NotListed() && !i.LowVolume()
}
