package server

import (
	"github.com/shopspring/decimal"

	"skin_market/internal/domain/entity"
	"skin_market/internal/domain/service/calc"
	"skin_market/pkg/rest"
)

func newRESTStatus(snapshot entity.Snapshot, ready, inFlight bool) rest.Status {
	status := rest.Status{
		Ready:    ready,
		InFlight: inFlight,
	}

	if ready {
		updatedAt := snapshot.UpdatedAt
		status.UpdatedAt = &updatedAt
		status.Bytes = snapshot.Bytes()
	}

	return status
}

func newRESTRun(run entity.RefreshRun) rest.RefreshRun {
	return rest.RefreshRun{
		ID:         run.ID,
		Trigger:    run.Trigger.String(),
		Status:     string(run.Status),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		DurationMs: run.Duration().Milliseconds(),
		Bytes:      run.Bytes,
		ItemCount:  run.ItemCount,
		Error:      run.Error,
	}
}

func newRESTCalculatorResult(result calc.Result, ok bool, commission decimal.Decimal) rest.CalculatorResult {
	if !ok {
		return rest.CalculatorResult{
			Empty:          true,
			CommissionRate: commission.String(),
		}
	}

	return rest.CalculatorResult{
		CommissionRate: commission.String(),
		NetProceeds:    result.NetProceeds.StringFixed(2),
		ProfitAmount:   result.AmountText(),
		ProfitPercent:  result.PercentText(),
		Class:          result.Class(),
	}
}
