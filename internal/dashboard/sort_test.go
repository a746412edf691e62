package dashboard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skin_market/internal/dashboard"
	"skin_market/internal/domain/entity"
	"skin_market/pkg/lox"
)

func profits(items []entity.Item) []float64 {
	return lox.Map(items, func(i entity.Item) float64 { return i.ProfitPercent })
}

func TestSortSentinelsAreNumbers(t *testing.T) {
	rq := require.New(t)

	items := []entity.Item{
		{Name: "a", ProfitPercent: 5},
		{Name: "b", ProfitPercent: entity.ProfitNotListed},
		{Name: "c", ProfitPercent: 20},
	}

	dashboard.Sort(items, dashboard.DefaultSort())
	rq.Equal([]float64{20, 5, -999}, profits(items))

	dashboard.Sort(items, dashboard.SortState{Key: dashboard.KeyProfitPercent, Direction: dashboard.Asc})
	rq.Equal([]float64{-999, 5, 20}, profits(items))
}

func TestSortIdempotent(t *testing.T) {
	rq := require.New(t)

	items := []entity.Item{
		{Name: "a", MarketPrice: 10, ProfitPercent: 1},
		{Name: "b", MarketPrice: 10, ProfitPercent: 2},
		{Name: "c", MarketPrice: 5, ProfitPercent: 3},
		{Name: "d", MarketPrice: 30, ProfitPercent: 4},
	}

	state := dashboard.SortState{Key: dashboard.KeyMarketPrice, Direction: dashboard.Desc}

	dashboard.Sort(items, state)
	once := append([]entity.Item(nil), items...)

	dashboard.Sort(items, state)
	rq.Equal(once, items)
	rq.Equal([]string{"d", "a", "b", "c"}, lox.Map(items, func(i entity.Item) string { return i.Name }))
}

func TestSortStateToggle(t *testing.T) {
	rq := require.New(t)

	state := dashboard.DefaultSort()
	rq.Equal(dashboard.SortState{Key: dashboard.KeyProfitPercent, Direction: dashboard.Desc}, state)

	state, err := state.Toggle(dashboard.KeyProfitPercent)
	rq.NoError(err)
	rq.Equal(dashboard.Asc, state.Direction)

	state, err = state.Toggle(dashboard.KeyProfitPercent)
	rq.NoError(err)
	rq.Equal(dashboard.Desc, state.Direction)

	state, err = state.Toggle(dashboard.KeyProfitPercent)
	rq.NoError(err)

	state, err = state.Toggle(dashboard.KeyBuffPrice)
	rq.NoError(err)
	rq.Equal(dashboard.SortState{Key: dashboard.KeyBuffPrice, Direction: dashboard.Desc}, state)

	unchanged, err := state.Toggle("name")
	rq.ErrorIs(err, dashboard.ErrUnknownSortKey)
	rq.Equal(state, unchanged)
}
