package items

import (
	"context"
	"fmt"
	"log/slog"

	"skin_market/internal/domain/value"
	"skin_market/pkg/logx"
)

// NullResult is returned in place of a filter engine failure. Clients read it
// as "no analysis yet".
const NullResult = "null"

type DataSource interface {
	Load(ctx context.Context) (string, error)
}

type FilterEngine interface {
	FilterItems(ctx context.Context, data string, params value.FilterParams) (string, error)
}

// Service answers item queries: it resolves the current analysis from the
// configured source and passes it through the filter engine.
type Service struct {
	source DataSource
	filter FilterEngine
}

func NewService(source DataSource, filter FilterEngine) *Service {
	return &Service{
		source: source,
		filter: filter,
	}
}

// Items returns the filter engine output unmodified. Source errors are
// returned as is; filter errors are logged and turned into NullResult.
func (s *Service) Items(ctx context.Context, params value.FilterParams) (string, error) {
	data, err := s.source.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("source.Load: %w", err)
	}

	out, err := s.filter.FilterItems(ctx, data, params)
	if err != nil {
		logger(ctx).Error(
			"filter.FilterItems",
			slog.String(value.ParamMinProfit, params.MinProfit),
			slog.String(value.ParamMinPrice, params.MinPrice),
			slog.String(value.ParamMaxPrice, params.MaxPrice),
			logx.Error(err),
		)

		return NullResult, nil
	}

	if out == "" {
		return NullResult, nil
	}

	return out, nil
}
