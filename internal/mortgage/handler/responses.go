package handler

import (
	"encoding/json"
	"time"

	"mortgagecheck/internal/mortgage"
)

// CheckResponse is the HTTP response for POST /mortgage-check.
type CheckResponse struct {
	Feasible     bool           `json:"feasible"`
	MonthlyCosts *MoneyResponse `json:"monthly_costs,omitempty"`
	ErrorCodes   []string       `json:"error_codes,omitempty"`
	EvaluatedAt  time.Time      `json:"evaluated_at"`
	TraceID      string         `json:"trace_id,omitempty"`
}

// MoneyResponse renders an amount as a JSON number with two decimals.
type MoneyResponse struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

// RatesResponse is the HTTP response for GET /interest-rates.
type RatesResponse struct {
	Rates   []RateResponse `json:"rates"`
	TraceID string         `json:"trace_id,omitempty"`
}

// RateResponse is one tier of the rate table.
type RateResponse struct {
	MaturityPeriod int         `json:"maturity_period"`
	InterestRate   json.Number `json:"interest_rate"`
	LastUpdate     time.Time   `json:"last_update"`
}

// FromCheckResult converts a domain CheckResult to an HTTP response.
func FromCheckResult(result *mortgage.CheckResult, traceID string) *CheckResponse {
	resp := &CheckResponse{
		Feasible:    result.Feasible,
		EvaluatedAt: result.EvaluatedAt,
		TraceID:     traceID,
	}
	if result.MonthlyPayment != nil {
		resp.MonthlyCosts = &MoneyResponse{
			Amount:   json.Number(result.MonthlyPayment.Value.StringFixed(2)),
			Currency: result.MonthlyPayment.Currency.String(),
		}
	}
	for _, code := range result.ErrorCodes {
		resp.ErrorCodes = append(resp.ErrorCodes, string(code))
	}
	return resp
}

// FromRatesResult converts the published rate table to an HTTP response.
func FromRatesResult(result *mortgage.RatesResult, traceID string) *RatesResponse {
	rates := make([]RateResponse, 0, len(result.Rates))
	for _, tier := range result.Rates {
		rates = append(rates, RateResponse{
			MaturityPeriod: tier.MaturityPeriodMonths,
			InterestRate:   json.Number(tier.AnnualRatePercent.String()),
			LastUpdate:     tier.LastUpdate,
		})
	}
	return &RatesResponse{Rates: rates, TraceID: traceID}
}
