package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"skin_market/internal/domain/entity"
	"skin_market/internal/domain/value"
	"skin_market/pkg/logx"
)

// Control labels.
const (
	LabelIdle = "Refresh"
	LabelBusy = "Loading..."
)

// Status line texts.
const (
	StatusRequesting = "Requesting %s..."
	StatusNoAnalysis = "The server has not finished its first analysis yet. Wait 1-2 minutes and reload."
	StatusLoaded     = "Data loaded: %d items."
	StatusFailed     = "Error: %s"
	StatusCancelled  = "Loading cancelled."
)

var (
	ErrBusy       = errors.New("a load is already in progress")
	ErrSuperseded = errors.New("load was cancelled")
)

type ItemsFetcher interface {
	FetchItems(ctx context.Context, params value.FilterParams) ([]entity.Item, error)
}

// Inputs are the raw filter fields. Blank fields get the shared defaults.
type Inputs struct {
	MinProfit string
	MinPrice  string
	MaxPrice  string
}

func (in Inputs) Params() value.FilterParams {
	return value.NewFilterParams(in.MinProfit, in.MinPrice, in.MaxPrice)
}

// Dashboard holds the client side state: the loaded items, the sort order,
// the status line and the busy control. Safe for concurrent use.
type Dashboard struct {
	fetcher ItemsFetcher

	mu         sync.Mutex
	items      []entity.Item
	sort       SortState
	status     string
	err        error
	busy       bool
	generation uint64
	cancel     context.CancelFunc
}

func New(fetcher ItemsFetcher) *Dashboard {
	return &Dashboard{
		fetcher: fetcher,
		items:   []entity.Item{},
		sort:    DefaultSort(),
	}
}

// LoadData fetches items for in and replaces the list. The previous list is
// kept when the fetch fails. A load started while another one is running
// returns ErrBusy; a load abandoned through Cancel returns ErrSuperseded and
// changes nothing.
func (d *Dashboard) LoadData(ctx context.Context, in Inputs) error {
	params := in.Params()

	ctx, gen, ok := d.begin(ctx, params)
	if !ok {
		return ErrBusy
	}
	defer d.finish(gen)

	items, err := d.fetcher.FetchItems(ctx, params)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.generation {
		logger(ctx).Debug("dropping superseded response")
		return ErrSuperseded
	}

	if err != nil {
		logger(ctx).Error("fetcher.FetchItems", logx.Error(err))

		d.err = err
		d.status = fmt.Sprintf(StatusFailed, err)

		return fmt.Errorf("fetcher.FetchItems: %w", err)
	}

	d.err = nil
	d.sort = DefaultSort()

	if items == nil {
		d.items = []entity.Item{}
		d.status = StatusNoAnalysis

		return nil
	}

	d.items = items
	d.status = fmt.Sprintf(StatusLoaded, len(items))

	logger(ctx).Debug("items loaded", slog.Int(logx.FieldItemCount, len(items)))

	return nil
}

func (d *Dashboard) begin(ctx context.Context, params value.FilterParams) (context.Context, uint64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.busy {
		return ctx, 0, false
	}

	ctx, cancel := context.WithCancel(ctx)

	d.busy = true
	d.generation++
	d.cancel = cancel
	d.status = fmt.Sprintf(StatusRequesting, ItemsPath(params))

	return ctx, d.generation, true
}

func (d *Dashboard) finish(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.generation {
		return
	}

	d.busy = false
	d.cancel()
	d.cancel = nil
}

// Cancel abandons the running load, if any. Its response is dropped when it
// arrives.
func (d *Dashboard) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.busy {
		return
	}

	d.generation++
	d.busy = false
	d.cancel()
	d.cancel = nil
	d.status = StatusCancelled
}

// ToggleSort applies a header click and clears a displayed error.
func (d *Dashboard) ToggleSort(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next, err := d.sort.Toggle(key)
	if err != nil {
		return err
	}

	d.sort = next
	d.err = nil

	return nil
}

func (d *Dashboard) SortState() SortState {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.sort
}

func (d *Dashboard) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.busy
}

func (d *Dashboard) Label() string {
	if d.Busy() {
		return LabelBusy
	}
	return LabelIdle
}

func (d *Dashboard) Status() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.status
}

// Items returns a copy of the list in its current order.
func (d *Dashboard) Items() []entity.Item {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.items)
}

func (d *Dashboard) Headers() []Header {
	return Headers(d.SortState())
}

// Rows sorts the list by the active key and renders it. While a load runs
// the table shows a loading row, after a failed load an error row.
func (d *Dashboard) Rows() []Row {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case d.busy:
		return []Row{MessageRow(MessageLoading)}
	case d.err != nil:
		return []Row{ErrorRow(d.err)}
	}

	Sort(d.items, d.sort)

	return Rows(d.items)
}
