package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"skin_market/internal/domain"
	"skin_market/internal/domain/entity"
	"skin_market/internal/domain/service/calc"
	"skin_market/internal/domain/value"
	"skin_market/internal/server"
	"skin_market/pkg/errcodes"
	"skin_market/pkg/rest"
	"skin_market/pkg/tests"
)

type itemsServiceMock struct {
	mu     sync.Mutex
	body   string
	err    error
	params value.FilterParams
}

func (m *itemsServiceMock) Items(_ context.Context, params value.FilterParams) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.params = params

	return m.body, m.err
}

func (m *itemsServiceMock) set(body string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.body, m.err = body, err
}

func (m *itemsServiceMock) lastParams() value.FilterParams {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.params
}

type resultsMock struct {
	snapshot entity.Snapshot
	ready    bool
	inFlight bool
}

func (m resultsMock) Latest() (entity.Snapshot, bool) {
	return m.snapshot, m.ready
}

func (m resultsMock) InFlight() bool {
	return m.inFlight
}

type triggerMock struct {
	mu    sync.Mutex
	err   error
	calls []entity.Trigger
}

func (m *triggerMock) Trigger(_ context.Context, trigger entity.Trigger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, trigger)

	return m.err
}

func (m *triggerMock) triggers() []entity.Trigger {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]entity.Trigger(nil), m.calls...)
}

type runsMock struct {
	mu    sync.Mutex
	runs  []entity.RefreshRun
	limit int
}

func (m *runsMock) ListRecent(_ context.Context, limit int) ([]entity.RefreshRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.limit = limit

	return m.runs, nil
}

func (m *runsMock) lastLimit() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.limit
}

type fixture struct {
	items    *itemsServiceMock
	trigger  *triggerMock
	runs     *runsMock
	client   tests.APIClient
	endpoint string
}

func newFixture(t *testing.T, results resultsMock, limiter *rate.Limiter, withRuns bool) fixture {
	t.Helper()

	calculator, err := calc.NewCalculator(calc.DefaultCommissionRate)
	require.NoError(t, err)

	f := fixture{
		items:   &itemsServiceMock{body: "[]"},
		trigger: &triggerMock{},
		runs:    &runsMock{},
	}

	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	var runs interface {
		ListRecent(ctx context.Context, limit int) ([]entity.RefreshRun, error)
	}
	if withRuns {
		runs = f.runs
	}

	srv := server.NewServer(
		server.NewItemsServer(f.items, results),
		server.NewRefreshServer(f.trigger, limiter, runs),
		server.NewCalculatorServer(calculator),
		server.NewDashboardServer(f.items, calculator),
	)

	ts := httptest.NewServer(srv.NewRouter(0))
	t.Cleanup(ts.Close)

	f.endpoint = ts.URL
	f.client = tests.NewAPIClient(ts.URL, ts.Client())

	return f
}

func TestGetItems(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newFixture(t, resultsMock{}, nil, false)

	testCases := []struct {
		name       string
		endpoint   string
		body       string
		err        error
		wantStatus int
		wantParams value.FilterParams
		wantCode   string
	}{
		{
			name:       "Defaults",
			endpoint:   "/api/items",
			body:       `[{"name":"AK-47"}]`,
			wantStatus: http.StatusOK,
			wantParams: value.FilterParams{MinProfit: "0", MinPrice: "0", MaxPrice: "9999999"},
		},
		{
			name:       "Raw values passed through",
			endpoint:   "/api/items?min_profit=5.5&min_price=abc&max_price=",
			body:       "[]",
			wantStatus: http.StatusOK,
			wantParams: value.FilterParams{MinProfit: "5.5", MinPrice: "abc", MaxPrice: "9999999"},
		},
		{
			name:       "Filter failure answers null",
			endpoint:   "/api/items",
			body:       "null",
			wantStatus: http.StatusOK,
			wantParams: value.FilterParams{MinProfit: "0", MinPrice: "0", MaxPrice: "9999999"},
		},
		{
			name:       "Not ready",
			endpoint:   "/api/items",
			err:        domain.ErrAnalysisNotReady,
			wantStatus: http.StatusServiceUnavailable,
			wantParams: value.FilterParams{MinProfit: "0", MinPrice: "0", MaxPrice: "9999999"},
			wantCode:   errcodes.AnalysisNotReady.String(),
		},
		{
			name:       "Bucket empty",
			endpoint:   "/api/items",
			err:        domain.ErrAnalysisNotFound,
			wantStatus: http.StatusNotFound,
			wantParams: value.FilterParams{MinProfit: "0", MinPrice: "0", MaxPrice: "9999999"},
			wantCode:   errcodes.AnalysisNotFound.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			f.items.set(tc.body, tc.err)

			var (
				items  []map[string]any
				errRes rest.Error
			)

			resp, err := f.client.Get(ctx, tc.endpoint, nil, &items, &errRes)
			rq.NoError(err)
			rq.Equal(tc.wantStatus, resp.StatusCode)
			rq.Equal(tc.wantParams, f.items.lastParams())

			if tc.wantCode != "" {
				rq.Equal(tc.wantCode, string(errRes.Code))

				if tc.wantStatus == http.StatusServiceUnavailable {
					rq.Equal("120", resp.Header.Get("Retry-After"))
				}
			}
		})
	}
}

func TestGetStatus(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	updatedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	testCases := []struct {
		name    string
		results resultsMock
		want    rest.Status
	}{
		{
			name:    "Cold",
			results: resultsMock{inFlight: true},
			want:    rest.Status{InFlight: true},
		},
		{
			name: "Ready",
			results: resultsMock{
				snapshot: entity.Snapshot{Data: "[1,2]", UpdatedAt: updatedAt},
				ready:    true,
			},
			want: rest.Status{Ready: true, UpdatedAt: &updatedAt, Bytes: 5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			f := newFixture(t, tc.results, nil, false)

			var status rest.Status

			resp, err := f.client.Get(ctx, "/api/status", nil, &status, nil)
			rq.NoError(err)
			rq.Equal(http.StatusOK, resp.StatusCode)
			rq.Equal(tc.want.Ready, status.Ready)
			rq.Equal(tc.want.InFlight, status.InFlight)
			rq.Equal(tc.want.Bytes, status.Bytes)

			if tc.want.UpdatedAt == nil {
				rq.Nil(status.UpdatedAt)
			} else {
				rq.NotNil(status.UpdatedAt)
				rq.True(tc.want.UpdatedAt.Equal(*status.UpdatedAt))
			}
		})
	}
}

func TestPostRefresh(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	t.Run("Started", func(*testing.T) {
		f := newFixture(t, resultsMock{}, nil, false)

		var accepted rest.RefreshAccepted

		resp, err := f.client.Post(ctx, "/api/refresh", nil, struct{}{}, &accepted, nil)
		rq.NoError(err)
		rq.Equal(http.StatusAccepted, resp.StatusCode)
		rq.Equal("started", accepted.Status)
		rq.Equal([]entity.Trigger{entity.TriggerManual}, f.trigger.triggers())
	})

	t.Run("Busy", func(*testing.T) {
		f := newFixture(t, resultsMock{}, nil, false)
		f.trigger.err = domain.ErrRefreshInProgress

		var errRes rest.Error

		resp, err := f.client.Post(ctx, "/api/refresh", nil, struct{}{}, nil, &errRes)
		rq.NoError(err)
		rq.Equal(http.StatusServiceUnavailable, resp.StatusCode)
		rq.Equal(errcodes.AnalysisInProgress.String(), string(errRes.Code))
	})

	t.Run("Rate limited", func(*testing.T) {
		f := newFixture(t, resultsMock{}, rate.NewLimiter(rate.Every(time.Hour), 1), false)

		resp, err := f.client.Post(ctx, "/api/refresh", nil, struct{}{}, nil, nil)
		rq.NoError(err)
		rq.Equal(http.StatusAccepted, resp.StatusCode)

		var errRes rest.Error

		resp, err = f.client.Post(ctx, "/api/refresh", nil, struct{}{}, nil, &errRes)
		rq.NoError(err)
		rq.Equal(http.StatusTooManyRequests, resp.StatusCode)
		rq.Equal(errcodes.TooManyRequests.String(), string(errRes.Code))
		rq.Len(f.trigger.triggers(), 1)
	})
}

func TestGetRuns(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	t.Run("Not configured", func(*testing.T) {
		f := newFixture(t, resultsMock{}, nil, false)

		resp, err := f.client.Get(ctx, "/api/runs", nil, nil, nil)
		rq.NoError(err)
		rq.Equal(http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Listed", func(*testing.T) {
		f := newFixture(t, resultsMock{}, nil, true)

		started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		finished := started.Add(1500 * time.Millisecond)

		f.runs.runs = []entity.RefreshRun{
			{
				ID:         "run-1",
				Trigger:    entity.TriggerSchedule,
				Status:     entity.RunStatusSucceeded,
				StartedAt:  started,
				FinishedAt: &finished,
				Bytes:      10,
				ItemCount:  2,
			},
		}

		var runs rest.RefreshRuns

		resp, err := f.client.Get(ctx, "/api/runs?limit=5", nil, &runs, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Equal(5, f.runs.lastLimit())
		rq.Len(runs.Runs, 1)
		rq.Equal("run-1", runs.Runs[0].ID)
		rq.Equal("schedule", runs.Runs[0].Trigger)
		rq.Equal(int64(1500), runs.Runs[0].DurationMs)
	})

	t.Run("Invalid limit", func(*testing.T) {
		f := newFixture(t, resultsMock{}, nil, true)

		var errRes rest.Error

		resp, err := f.client.Get(ctx, "/api/runs?limit=0", nil, nil, &errRes)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Equal(errcodes.InvalidRunsLimit.String(), string(errRes.Code))
	})
}

func TestPostCalculator(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newFixture(t, resultsMock{}, nil, false)

	testCases := []struct {
		name       string
		body       string
		wantStatus int
		want       rest.CalculatorResult
	}{
		{
			name:       "Profit",
			body:       `{"buyPrice":100,"sellPrice":200}`,
			wantStatus: http.StatusOK,
			want: rest.CalculatorResult{
				CommissionRate: "0.1",
				NetProceeds:    "180.00",
				ProfitAmount:   "80.00",
				ProfitPercent:  "80.0",
				Class:          calc.ClassProfit,
			},
		},
		{
			name:       "Loss",
			body:       `{"buyPrice":100,"sellPrice":100}`,
			wantStatus: http.StatusOK,
			want: rest.CalculatorResult{
				CommissionRate: "0.1",
				NetProceeds:    "90.00",
				ProfitAmount:   "-10.00",
				ProfitPercent:  "-10.0",
				Class:          calc.ClassLoss,
			},
		},
		{
			name:       "Zero price clears result",
			body:       `{"buyPrice":0,"sellPrice":100}`,
			wantStatus: http.StatusOK,
			want:       rest.CalculatorResult{Empty: true, CommissionRate: "0.1"},
		},
		{
			name:       "Negative price",
			body:       `{"buyPrice":-1,"sellPrice":100}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Malformed",
			body:       `{"buyPrice":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var (
				result rest.CalculatorResult
				errRes rest.Error
			)

			resp, err := f.client.PostJSON(ctx, "/api/calculator", nil, tc.body, &result, &errRes)
			rq.NoError(err)
			rq.Equal(tc.wantStatus, resp.StatusCode)

			if tc.wantStatus == http.StatusOK {
				rq.Equal(tc.want, result)
			} else {
				rq.Equal(errcodes.InvalidCalculatorInput.String(), string(errRes.Code))
			}
		})
	}
}
