package dashboard

import (
	"errors"
	"slices"

	"skin_market/internal/domain/entity"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sortable columns, named after the item JSON fields.
const (
	KeyBuffPrice          = "buffPrice"
	KeyBuffSellNum        = "buffSellNum"
	KeyMarketPrice        = "marketPrice"
	KeyMarketVolume       = "marketVolume"
	KeySteamPrice         = "steamPrice"
	KeyProfitPercent      = "profitPercent"
	KeyProfitRub          = "profitRub"
	KeyProfitSteamPercent = "profitSteamPercent"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

//nolint:gochecknoglobals
var sortValues = map[string]func(entity.Item) float64{
	KeyBuffPrice:          func(i entity.Item) float64 { return i.BuffPrice },
	KeyBuffSellNum:        func(i entity.Item) float64 { return float64(i.BuffSellNum) },
	KeyMarketPrice:        func(i entity.Item) float64 { return i.MarketPrice },
	KeyMarketVolume:       func(i entity.Item) float64 { return float64(i.MarketVolume) },
	KeySteamPrice:         func(i entity.Item) float64 { return i.SteamPrice },
	KeyProfitPercent:      func(i entity.Item) float64 { return i.ProfitPercent },
	KeyProfitRub:          func(i entity.Item) float64 { return i.ProfitRub },
	KeyProfitSteamPercent: func(i entity.Item) float64 { return i.ProfitSteamPercent },
}

func ValidSortKey(key string) bool {
	_, ok := sortValues[key]
	return ok
}

type SortState struct {
	Key       string
	Direction Direction
}

func DefaultSort() SortState {
	return SortState{Key: KeyProfitPercent, Direction: Desc}
}

// Toggle flips the direction when key is already active, otherwise switches
// to key in descending order.
func (s SortState) Toggle(key string) (SortState, error) {
	if !ValidSortKey(key) {
		return s, ErrUnknownSortKey
	}

	if s.Key == key {
		if s.Direction == Desc {
			s.Direction = Asc
		} else {
			s.Direction = Desc
		}
		return s, nil
	}

	return SortState{Key: key, Direction: Desc}, nil
}

// Sort orders items in place. Sentinel values sort as the numbers they are.
func Sort(items []entity.Item, s SortState) {
	get, ok := sortValues[s.Key]
	if !ok {
		return
	}

	slices.SortStableFunc(items, func(a, b entity.Item) int {
		diff := get(a) - get(b)
		if s.Direction == Desc {
			diff = -diff
		}

		switch {
		case diff < 0:
			return -1
		case diff > 0:
			return 1
		default:
			return 0
		}
	})
}
