package server

import (
	"context"
	"fmt"
	"net/http"

	"skin_market/internal/domain/entity"
	"skin_market/internal/domain/value"
	"skin_market/pkg/httpx/reply"
	"skin_market/pkg/httpx/req"
)

type itemsService interface {
	Items(ctx context.Context, params value.FilterParams) (string, error)
}

type resultState interface {
	Latest() (entity.Snapshot, bool)
	InFlight() bool
}

type ItemsServer struct {
	itemsService itemsService
	results      resultState
}

func NewItemsServer(itemsService itemsService, results resultState) ItemsServer {
	return ItemsServer{
		itemsService: itemsService,
		results:      results,
	}
}

func filterParams(r *http.Request) value.FilterParams {
	return value.NewFilterParams(
		req.QueryOrDefault(r, value.ParamMinProfit, value.DefaultMinProfit),
		req.QueryOrDefault(r, value.ParamMinPrice, value.DefaultMinPrice),
		req.QueryOrDefault(r, value.ParamMaxPrice, value.DefaultMaxPrice),
	)
}

// getItems answers with the filter engine output as is.
func (s ItemsServer) getItems(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := s.itemsService.Items(ctx, filterParams(r))
	if err != nil {
		return fmt.Errorf("itemsService.Items: %w", err)
	}

	reply.RawJSON(ctx, w, http.StatusOK, body)

	return nil
}

func (s ItemsServer) getStatus(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	snapshot, ok := s.results.Latest()

	reply.JSON(ctx, w, http.StatusOK, newRESTStatus(snapshot, ok, s.results.InFlight()))

	return nil
}
