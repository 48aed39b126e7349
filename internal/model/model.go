// Package model defines the request-scoped entities shared across workflows.
package model

import "time"

// Budget is a spending limit for one category over a period.
type Budget struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Category    string    `json:"category"`
	LimitAmount float64   `json:"limitAmount"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}

// Transaction is a single ledger movement. Negative amounts are expenses.
type Transaction struct {
	ID          string    `json:"id,omitempty"`
	AccountID   string    `json:"accountId"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"` // "EXPENSE" or "INCOME"
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurredAt,omitempty"`
}

// TransactionType derives EXPENSE/INCOME from the sign of amount.
func TransactionType(amount float64) string {
	if amount < 0 {
		return "EXPENSE"
	}
	return "INCOME"
}

// ClassificationResult is the ML service's category prediction.
type ClassificationResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// AnomalyResult is the ML service's anomaly verdict for a transaction.
type AnomalyResult struct {
	IsAnomaly   bool    `json:"isAnomaly"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// ForecastPoint is one month of the ML spending forecast.
type ForecastPoint struct {
	Month           int     `json:"forecastMonth"`
	Year            int     `json:"forecastYear"`
	PredictedAmount float64 `json:"predictedAmount"`
	Trend           string  `json:"trend"`
	Category        string  `json:"category,omitempty"`
}
