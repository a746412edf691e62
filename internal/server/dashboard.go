package server

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"skin_market/internal/dashboard"
	"skin_market/internal/domain/entity"
	"skin_market/internal/domain/service/calc"
	"skin_market/internal/domain/value"
	"skin_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	paramSort = "sort"
	paramDir  = "dir"
	paramBuy  = "buy"
	paramSell = "sell"
)

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML)) //nolint:gochecknoglobals

type DashboardServer struct {
	itemsService itemsService
	calculator   calculator
}

func NewDashboardServer(itemsService itemsService, calculator calculator) DashboardServer {
	return DashboardServer{
		itemsService: itemsService,
		calculator:   calculator,
	}
}

type pageHeader struct {
	dashboard.Header
	Href string
}

type pageCalculator struct {
	Buy        string
	Sell       string
	Commission string
	Result     calc.Result
	OK         bool
}

type page struct {
	Params     value.FilterParams
	Sort       dashboard.SortState
	Headers    []pageHeader
	Rows       []dashboard.Row
	Span       int
	Calculator pageCalculator
}

func (s DashboardServer) getIndex(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	query := r.URL.Query()

	params := filterParams(r)
	state := sortState(query)

	p := page{
		Params:  params,
		Sort:    state,
		Headers: pageHeaders(params, state),
		Rows:    s.rows(ctx, params, state),
		Span:    len(dashboard.Columns),
		Calculator: pageCalculator{
			Buy:        query.Get(paramBuy),
			Sell:       query.Get(paramSell),
			Commission: s.calculator.CommissionRate().Shift(2).String(),
		},
	}

	p.Calculator.Result, p.Calculator.OK = s.calculator.CalculateInput(p.Calculator.Buy, p.Calculator.Sell)

	var buf bytes.Buffer

	if err := indexTemplate.Execute(&buf, p); err != nil {
		return fmt.Errorf("indexTemplate.Execute: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		logger(ctx).Error("buf.WriteTo", logx.Error(err))
	}

	return nil
}

// rows turns the filtered result into table rows. Failures become an error
// row so the page still renders.
func (s DashboardServer) rows(ctx context.Context, params value.FilterParams, state dashboard.SortState) []dashboard.Row {
	body, err := s.itemsService.Items(ctx, params)
	if err != nil {
		logger(ctx).Warn("itemsService.Items", logx.Error(err))
		return []dashboard.Row{dashboard.ErrorRow(err)}
	}

	var items []entity.Item

	if err = json.UnmarshalFromString(body, &items); err != nil {
		logger(ctx).Warn("json.Unmarshal", logx.Error(err))
		return []dashboard.Row{dashboard.ErrorRow(err)}
	}

	dashboard.Sort(items, state)

	return dashboard.Rows(items)
}

func sortState(query url.Values) dashboard.SortState {
	state := dashboard.DefaultSort()

	key := query.Get(paramSort)
	if !dashboard.ValidSortKey(key) {
		return state
	}

	state.Key = key
	state.Direction = dashboard.Desc

	if dashboard.Direction(query.Get(paramDir)) == dashboard.Asc {
		state.Direction = dashboard.Asc
	}

	return state
}

// pageHeaders links every sortable header to the page sorted by the toggled state.
func pageHeaders(params value.FilterParams, state dashboard.SortState) []pageHeader {
	headers := dashboard.Headers(state)
	result := make([]pageHeader, 0, len(headers))

	for _, h := range headers {
		ph := pageHeader{Header: h}

		if next, err := state.Toggle(h.SortKey); err == nil {
			ph.Href = "/?" + url.Values{
				value.ParamMinProfit: {params.MinProfit},
				value.ParamMinPrice:  {params.MinPrice},
				value.ParamMaxPrice:  {params.MaxPrice},
				paramSort:            {next.Key},
				paramDir:             {string(next.Direction)},
			}.Encode()
		}

		result = append(result, ph)
	}

	return result
}
