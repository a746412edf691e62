package items_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skin_market/internal/domain"
	"skin_market/internal/domain/entity"
	"skin_market/internal/domain/service/items"
	"skin_market/internal/domain/value"
	"skin_market/internal/infrastructure/cache"
	"skin_market/pkg/errcodes"
)

type filterMock struct {
	calls  int
	data   string
	params value.FilterParams
	out    string
	err    error
}

func (m *filterMock) FilterItems(_ context.Context, data string, params value.FilterParams) (string, error) {
	m.calls++
	m.data = data
	m.params = params
	return m.out, m.err
}

type refresherMock struct {
	calls    int
	results  *cache.ResultCache
	data     string
	err      error
	triggers []entity.Trigger
}

func (m *refresherMock) Refresh(_ context.Context, trigger entity.Trigger) (entity.Snapshot, error) {
	m.calls++
	m.triggers = append(m.triggers, trigger)
	if m.err != nil {
		return entity.Snapshot{}, m.err
	}
	return m.results.Replace(m.data), nil
}

type bucketMock struct {
	snapshot entity.Snapshot
	err      error
}

func (m bucketMock) Latest(context.Context) (entity.Snapshot, error) {
	return m.snapshot, m.err
}

func TestServiceItemsPassesParamsThrough(t *testing.T) {
	rq := require.New(t)

	results := cache.NewResultCache()
	results.Replace(`[{"name":"a"}]`)

	filter := &filterMock{out: `[{"name":"a"}]`}
	svc := items.NewService(items.NewMemorySource(results, &refresherMock{}), filter)

	params := value.NewFilterParams("5", "", "abc")

	got, err := svc.Items(context.Background(), params)
	rq.NoError(err)
	rq.Equal(`[{"name":"a"}]`, got)

	rq.Equal(1, filter.calls)
	rq.Equal(`[{"name":"a"}]`, filter.data)
	rq.Equal(value.FilterParams{MinProfit: "5", MinPrice: "0", MaxPrice: "abc"}, filter.params)
}

func TestServiceItemsFilterFailureIsNull(t *testing.T) {
	tests := []struct {
		name   string
		filter *filterMock
	}{
		{name: "error", filter: &filterMock{err: errors.New("bad json")}},
		{name: "empty output", filter: &filterMock{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			results := cache.NewResultCache()
			results.Replace(`[]`)

			got, err := items.NewService(items.NewMemorySource(results, &refresherMock{}), tt.filter).
				Items(context.Background(), value.NewFilterParams("", "", ""))
			rq.NoError(err)
			rq.Equal(items.NullResult, got)
		})
	}
}

func TestMemorySourceColdStart(t *testing.T) {
	rq := require.New(t)

	results := cache.NewResultCache()
	refresher := &refresherMock{results: results, data: `[{"name":"fresh"}]`}
	source := items.NewMemorySource(results, refresher)

	got, err := source.Load(context.Background())
	rq.NoError(err)
	rq.Equal(`[{"name":"fresh"}]`, got)
	rq.Equal([]entity.Trigger{entity.TriggerColdStart}, refresher.triggers)

	latest, ok := results.Latest()
	rq.True(ok)
	rq.Equal(got, latest.Data)

	got, err = source.Load(context.Background())
	rq.NoError(err)
	rq.Equal(`[{"name":"fresh"}]`, got)
	rq.Equal(1, refresher.calls)
}

func TestMemorySourceColdStartFailure(t *testing.T) {
	tests := []struct {
		name       string
		refreshErr error
		wantErr    error
		wantCode   string
	}{
		{
			name:       "refresh in flight",
			refreshErr: domain.ErrRefreshInProgress,
			wantErr:    domain.ErrRefreshInProgress,
			wantCode:   string(errcodes.AnalysisInProgress),
		},
		{
			name:       "analysis failed",
			refreshErr: domain.WrapError(errors.New("exit status 1"), errcodes.AnalysisFailed, "analysis failed"),
			wantErr:    domain.ErrAnalysisNotReady,
			wantCode:   string(errcodes.AnalysisNotReady),
		},
		{
			name:       "empty analysis",
			refreshErr: domain.ErrEmptyAnalysis,
			wantErr:    domain.ErrAnalysisNotReady,
			wantCode:   string(errcodes.AnalysisNotReady),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			results := cache.NewResultCache()
			filter := &filterMock{}
			svc := items.NewService(items.NewMemorySource(results, &refresherMock{err: tt.refreshErr}), filter)

			_, err := svc.Items(context.Background(), value.NewFilterParams("", "", ""))
			rq.ErrorIs(err, tt.wantErr)

			code, ok := domain.GetCode(err)
			rq.True(ok)
			rq.Equal(tt.wantCode, string(code))

			rq.Zero(filter.calls)

			_, ok = results.Latest()
			rq.False(ok)
		})
	}
}

func TestBucketSource(t *testing.T) {
	tests := []struct {
		name    string
		bucket  items.Bucket
		want    string
		wantErr error
	}{
		{
			name:    "storage not configured",
			bucket:  nil,
			wantErr: domain.ErrStorageNotConfigured,
		},
		{
			name:    "object missing",
			bucket:  bucketMock{err: domain.ErrAnalysisNotFound},
			wantErr: domain.ErrAnalysisNotFound,
		},
		{
			name:   "object present",
			bucket: bucketMock{snapshot: entity.Snapshot{Data: `[{"name":"b"}]`, UpdatedAt: time.Now()}},
			want:   `[{"name":"b"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			filter := &filterMock{out: `[]`}
			svc := items.NewService(items.NewBucketSource(tt.bucket), filter)

			got, err := svc.Items(context.Background(), value.NewFilterParams("", "", ""))
			if tt.wantErr != nil {
				rq.ErrorIs(err, tt.wantErr)
				rq.Zero(filter.calls)
				return
			}

			rq.NoError(err)
			rq.Equal(`[]`, got)
			rq.Equal(tt.want, filter.data)
		})
	}
}
