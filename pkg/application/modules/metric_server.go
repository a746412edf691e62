package modules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"skin_market/pkg/metrics"
)

type MetricServer struct {
	ListenAddress string
}

func (m MetricServer) Run(ctx context.Context, g *errgroup.Group) {
	if m.ListenAddress == "" {
		logger(ctx).Info("metric server disabled")

		return
	}

	prometheusServer := metrics.NewPrometheusServer(
		m.ListenAddress,
		nil,
	)

	g.Go(func() error {
		if err := prometheusServer.Run(ctx); err != nil {
			return fmt.Errorf("prometheusServer.Run: %w", err)
		}

		return nil
	})
}
