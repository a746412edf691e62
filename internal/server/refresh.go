package server

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"skin_market/internal/domain"
	"skin_market/internal/domain/entity"
	"skin_market/pkg/errcodes"
	"skin_market/pkg/httpx/reply"
	"skin_market/pkg/httpx/req"
	"skin_market/pkg/lox"
	"skin_market/pkg/rest"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

var errTooManyRefreshes = domain.NewError(errcodes.TooManyRequests, "manual refresh rate exceeded, try again later")

type refreshTrigger interface {
	Trigger(ctx context.Context, trigger entity.Trigger) error
}

type runsLister interface {
	ListRecent(ctx context.Context, limit int) ([]entity.RefreshRun, error)
}

type RefreshServer struct {
	refresher refreshTrigger
	limiter   *rate.Limiter
	runs      runsLister
}

// NewRefreshServer accepts a nil runs lister when run history is disabled.
func NewRefreshServer(refresher refreshTrigger, limiter *rate.Limiter, runs runsLister) RefreshServer {
	return RefreshServer{
		refresher: refresher,
		limiter:   limiter,
		runs:      runs,
	}
}

func (s RefreshServer) postRefresh(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if !s.limiter.Allow() {
		return errTooManyRefreshes
	}

	if err := s.refresher.Trigger(ctx, entity.TriggerManual); err != nil {
		return fmt.Errorf("refresher.Trigger: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, rest.RefreshAccepted{Status: "started"})

	return nil
}

func (s RefreshServer) getRuns(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if s.runs == nil {
		return domain.NewError(errcodes.NotFound, "run history is not configured")
	}

	limit, err := req.QueryInt(r, "limit", defaultRunsLimit, 1, maxRunsLimit, errcodes.InvalidRunsLimit)
	if err != nil {
		return fmt.Errorf("req.QueryInt: %w", err)
	}

	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("runs.ListRecent: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.RefreshRuns{Runs: lox.Map(runs, newRESTRun)})

	return nil
}
