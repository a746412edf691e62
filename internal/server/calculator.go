package server

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"skin_market/internal/domain/service/calc"
	"skin_market/pkg/errcodes"
	"skin_market/pkg/httpx/reply"
	"skin_market/pkg/httpx/req"
	"skin_market/pkg/rest"
)

type calculator interface {
	Calculate(buy, sell decimal.Decimal) (calc.Result, bool)
	CalculateInput(buy, sell string) (calc.Result, bool)
	CommissionRate() decimal.Decimal
}

type CalculatorServer struct {
	calculator calculator
}

func NewCalculatorServer(calculator calculator) CalculatorServer {
	return CalculatorServer{calculator: calculator}
}

func (s CalculatorServer) postCalculator(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CalculatorRequest

	if err := req.Read(r, &request, errcodes.InvalidCalculatorInput); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	result, ok := s.calculator.Calculate(
		decimal.NewFromFloat(request.BuyPrice),
		decimal.NewFromFloat(request.SellPrice),
	)

	reply.JSON(ctx, w, http.StatusOK, newRESTCalculatorResult(result, ok, s.calculator.CommissionRate()))

	return nil
}
