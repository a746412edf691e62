package value

// Defaults applied when a filter parameter is absent or blank. The dashboard
// client and the HTTP handler share them.
const (
	DefaultMinProfit = "0"
	DefaultMinPrice  = "0"
	DefaultMaxPrice  = "9999999"
)

// Query parameter names of GET /api/items.
const (
	ParamMinProfit = "min_profit"
	ParamMinPrice  = "min_price"
	ParamMaxPrice  = "max_price"
)

// FilterParams are passed to the filter engine as strings, unparsed. Parsing
// and any validation belong to the engine.
type FilterParams struct {
	MinProfit string `json:"min_profit"`
	MinPrice  string `json:"min_price"`
	MaxPrice  string `json:"max_price"`
}

// NewFilterParams substitutes defaults for blank values and keeps the rest
// byte for byte.
func NewFilterParams(minProfit, minPrice, maxPrice string) FilterParams {
	return FilterParams{
		MinProfit: orDefault(minProfit, DefaultMinProfit),
		MinPrice:  orDefault(minPrice, DefaultMinPrice),
		MaxPrice:  orDefault(maxPrice, DefaultMaxPrice),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
