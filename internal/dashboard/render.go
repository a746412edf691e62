package dashboard

import (
	"fmt"
	"net/url"
	"strings"

	"skin_market/internal/domain/entity"
	"skin_market/pkg/lox"
)

// Informational row texts.
const (
	MessageLoading = "Loading data..."
	MessageEmpty   = "No data yet. The server may not have finished its first analysis."
	MessageError   = "An error occurred: %s"
)

// Sentinel texts of the profit cells.
const (
	TextNotListed   = "Not on Market"
	TextLowVolume   = "(Low: %d pcs)"
	TextNoAmount    = "---"
	TextUnavailable = "N/A"
	TextSteamVolume = "(N/A pcs)"
)

// Platform badges of the price cells.
const (
	BadgeBuff   = "B"
	BadgeMarket = "M"
	BadgeSteam  = "S"
)

const (
	marketSearchURL = "https://market.csgo.com/?search="
	buffGoodsURL    = "https://buff.163.com/goods/%d"
)

type Column struct {
	Label   string
	SortKey string
}

//nolint:gochecknoglobals
var Columns = []Column{
	{Label: "Item"},
	{Label: "Buff", SortKey: KeyBuffPrice},
	{Label: "Market", SortKey: KeyMarketPrice},
	{Label: "Steam", SortKey: KeySteamPrice},
	{Label: "Profit", SortKey: KeyProfitPercent},
	{Label: "Steam profit", SortKey: KeyProfitSteamPercent},
}

// Header is a column title with its sort indicator class.
type Header struct {
	Column
	Class string
}

func (h Header) Sortable() bool {
	return h.SortKey != ""
}

// Headers marks the active column with sort-asc or sort-desc.
func Headers(s SortState) []Header {
	return lox.Map(Columns, func(c Column) Header {
		h := Header{Column: c}
		if c.SortKey != "" && c.SortKey == s.Key {
			h.Class = "sort-" + string(s.Direction)
		}
		return h
	})
}

type Cell struct {
	Text    string
	SubText string
	Class   string
	Link    string
	Icon    string
	Badge   string
}

// Row is either a table row with one cell per column or, when Message is
// set, a single cell spanning all columns.
type Row struct {
	Cells   []Cell
	Message string
	Error   bool
}

func (r Row) IsMessage() bool {
	return r.Message != ""
}

func MessageRow(text string) Row {
	return Row{Message: text}
}

func ErrorRow(err error) Row {
	return Row{Message: fmt.Sprintf(MessageError, err), Error: true}
}

// Rows renders items in their current order.
func Rows(items []entity.Item) []Row {
	if len(items) == 0 {
		return []Row{MessageRow(MessageEmpty)}
	}

	return lox.Map(items, ItemRow)
}

func ItemRow(item entity.Item) Row {
	marketURL := MarketSearchURL(item.Name)
	buffURL := BuffURL(item.BuffID)

	return Row{
		Cells: []Cell{
			{
				Text:    item.Name,
				SubText: item.Exterior,
				Link:    marketURL,
				Icon:    item.IconURL,
			},
			{
				Text:    price(item.BuffPrice),
				SubText: pieces(item.BuffSellNum),
				Link:    buffURL,
				Badge:   BadgeBuff,
			},
			{
				Text:    price(item.MarketPrice),
				SubText: pieces(item.MarketVolume),
				Link:    marketURL,
				Badge:   BadgeMarket,
			},
			{
				Text:    price(item.SteamPrice),
				SubText: TextSteamVolume,
				Link:    item.SteamMarketURL,
				Badge:   BadgeSteam,
			},
			profitCell(item),
			steamProfitCell(item),
		},
	}
}

func profitCell(item entity.Item) Cell {
	c := Cell{
		Text:    percent(item.ProfitPercent),
		SubText: price(item.ProfitRub),
		Class:   item.Status,
	}

	switch {
	case item.NotListed():
		c.Text = TextNotListed
		c.SubText = TextNoAmount
	case item.LowVolume():
		c.Text = fmt.Sprintf(TextLowVolume, item.MarketVolume)
		c.SubText = TextNoAmount
	}

	return c
}

func steamProfitCell(item entity.Item) Cell {
	c := Cell{
		Text:  percent(item.ProfitSteamPercent),
		Class: item.StatusSteam,
	}

	if item.SteamUnavailable() {
		c.Text = TextUnavailable
	}

	return c
}

// MarketSearchURL percent-encodes name the way browsers encode a URI
// component: spaces become %20.
func MarketSearchURL(name string) string {
	return marketSearchURL + strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

func BuffURL(buffID int) string {
	return fmt.Sprintf(buffGoodsURL, buffID)
}

func price(v float64) string {
	return fmt.Sprintf("%.2f ₽", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func pieces(n int) string {
	return fmt.Sprintf("%d pcs", n)
}
