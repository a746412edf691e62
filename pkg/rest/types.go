// Wire types of the dashboard HTTP API.
package rest

import "time"

// Status describes the result cache.
type Status struct {
	Ready     bool       `json:"ready"`
	InFlight  bool       `json:"inFlight"`
	UpdatedAt *time.Time `json:"updatedAt"`
	Bytes     int        `json:"bytes"`
}

type RefreshAccepted struct {
	Status string `json:"status"`
}

type CalculatorRequest struct {
	BuyPrice  float64 `json:"buyPrice" validate:"gte=0"`
	SellPrice float64 `json:"sellPrice" validate:"gte=0"`
}

// CalculatorResult is empty when either price is zero.
type CalculatorResult struct {
	Empty          bool   `json:"empty"`
	CommissionRate string `json:"commissionRate"`
	NetProceeds    string `json:"netProceeds,omitempty"`
	ProfitAmount   string `json:"profitAmount,omitempty"`
	ProfitPercent  string `json:"profitPercent,omitempty"`
	Class          string `json:"class,omitempty"`
}

type RefreshRun struct {
	ID         string     `json:"id"`
	Trigger    string     `json:"trigger"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`
	DurationMs int64      `json:"durationMs"`
	Bytes      int        `json:"bytes"`
	ItemCount  int        `json:"itemCount"`
	Error      string     `json:"error,omitempty"`
}

type RefreshRuns struct {
	Runs []RefreshRun `json:"runs"`
}

// Error is the body of every error response.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	SupportID string    `json:"supportId"`
}

type ErrorCode string
