package analysis_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skin_market/internal/infrastructure/analysis"
)

func TestHTTPEngineRunAnalysis(t *testing.T) {
	const payload = `[{"name":"AK-47 | Redline","profitPercent":12.5}]`

	tests := []struct {
		name    string
		token   string
		status  int
		want    string
		wantErr bool
	}{
		{
			name:   "ok",
			status: http.StatusOK,
			want:   payload,
		},
		{
			name:   "bearer token",
			token:  "secret",
			status: http.StatusOK,
			want:   payload,
		},
		{
			name:    "upstream failure",
			status:  http.StatusBadGateway,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.token != "" && r.Header.Get("Authorization") != "Bearer "+tt.token {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(payload))
			}))
			defer srv.Close()

			engine := analysis.NewHTTPEngine(analysis.HTTPOptions{
				URL:            srv.URL,
				Token:          tt.token,
				Timeout:        time.Second,
				LogFieldMaxLen: 64,
			})

			got, err := engine.RunAnalysis(context.Background())
			if tt.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.Equal(tt.want, got)
		})
	}
}
