package dashboard_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"skin_market/internal/dashboard"
	"skin_market/internal/domain/value"
)

func TestClientFetchItems(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantNil   bool
		wantCount int
		wantErr   string
	}{
		{
			name:      "items",
			status:    http.StatusOK,
			body:      `[{"name":"a","profitPercent":1.5},{"name":"b"}]`,
			wantCount: 2,
		},
		{
			name:    "null before the first analysis",
			status:  http.StatusOK,
			body:    `null`,
			wantNil: true,
		},
		{
			name:      "empty list",
			status:    http.StatusOK,
			body:      `[]`,
			wantCount: 0,
		},
		{
			name:    "error envelope",
			status:  http.StatusServiceUnavailable,
			body:    `{"code":"AnalysisNotReady","message":"data has not been analyzed yet"}`,
			wantErr: "server error: 503 Service Unavailable: data has not been analyzed yet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			var path, query string

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				query = r.URL.RawQuery

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			items, err := dashboard.NewClient(srv.URL+"/", nil).
				FetchItems(context.Background(), value.NewFilterParams("10", "", "500"))

			rq.Equal("/api/items", path)
			rq.Equal("min_profit=10&min_price=0&max_price=500", query)

			if tt.wantErr != "" {
				rq.EqualError(err, tt.wantErr)
				return
			}

			rq.NoError(err)
			rq.Equal(tt.wantNil, items == nil)
			rq.Len(items, tt.wantCount)
		})
	}
}

func TestWriteTable(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	rq.NoError(dashboard.WriteTable(&buf, dashboard.Headers(dashboard.DefaultSort()), dashboard.Rows(nil)))

	out := buf.String()
	rq.Contains(out, "▼")
	rq.Contains(out, "No data yet")
}
