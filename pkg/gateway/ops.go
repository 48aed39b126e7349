package gateway

import "context"

// Budget is a budget record as returned by the gateway.
type Budget struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Category    string  `json:"category"`
	LimitAmount float64 `json:"limitAmount"`
	PeriodStart string  `json:"periodStart"`
	PeriodEnd   string  `json:"periodEnd"`
}

// RegisterTransactionInput is the payload for the registerTransaction mutation.
type RegisterTransactionInput struct {
	AccountID   string  `json:"accountId"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// TransactionRecord is the registered transaction as returned by the gateway.
type TransactionRecord struct {
	ID string `json:"id"`
}

// ClassifyInput is the payload for the classifyTransaction mutation.
type ClassifyInput struct {
	Text   string  `json:"text"`
	Amount float64 `json:"amount"`
}

// Prediction is the ML service's category prediction.
type Prediction struct {
	ID                string  `json:"id"`
	PredictedCategory string  `json:"predictedCategory"`
	Confidence        float64 `json:"confidence"`
	ModelVersion      string  `json:"modelVersion"`
}

// ForecastEntry is one month of the ML spending forecast.
type ForecastEntry struct {
	ForecastMonth   int     `json:"forecastMonth"`
	ForecastYear    int     `json:"forecastYear"`
	PredictedAmount float64 `json:"predictedAmount"`
	Trend           string  `json:"trend"`
	Category        string  `json:"category"`
}

// AnomalyInput is the payload for the detectAnomaly query.
type AnomalyInput struct {
	UserID      string  `json:"userId"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// AnomalyVerdict is the ML service's anomaly assessment.
type AnomalyVerdict struct {
	IsAnomaly   bool    `json:"isAnomaly"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

const budgetsByUserQuery = `
query BudgetsByUser($userId: String!) {
  budgetsByUser(userId: $userId) {
    id
    userId
    category
    limitAmount
    periodStart
    periodEnd
  }
}`

func (c *httpClient) BudgetsByUser(ctx context.Context, userID string) ([]Budget, error) {
	var data struct {
		BudgetsByUser []Budget `json:"budgetsByUser"`
	}
	if err := c.execute(ctx, budgetsByUserQuery, map[string]any{"userId": userID}, &data); err != nil {
		return nil, err
	}
	return data.BudgetsByUser, nil
}

const registerTransactionMutation = `
mutation RegisterTransaction($input: RegisterTransactionInput!) {
  registerTransaction(input: $input) {
    id
  }
}`

func (c *httpClient) RegisterTransaction(ctx context.Context, input RegisterTransactionInput) (*TransactionRecord, error) {
	var data struct {
		RegisterTransaction TransactionRecord `json:"registerTransaction"`
	}
	if err := c.execute(ctx, registerTransactionMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	return &data.RegisterTransaction, nil
}

const classifyTransactionMutation = `
mutation ClassifyTransaction($input: ClassifyTransactionInput!) {
  classifyTransaction(input: $input) {
    id
    predictedCategory
    confidence
    modelVersion
  }
}`

func (c *httpClient) ClassifyTransaction(ctx context.Context, input ClassifyInput) (*Prediction, error) {
	var data struct {
		ClassifyTransaction Prediction `json:"classifyTransaction"`
	}
	if err := c.execute(ctx, classifyTransactionMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	return &data.ClassifyTransaction, nil
}

const generateForecastQuery = `
query GenerateForecast($userId: ID!, $months: Int!) {
  generateForecast(userId: $userId, months: $months) {
    forecastMonth
    forecastYear
    predictedAmount
    trend
    category
  }
}`

func (c *httpClient) GenerateForecast(ctx context.Context, userID string, months int) ([]ForecastEntry, error) {
	var data struct {
		GenerateForecast []ForecastEntry `json:"generateForecast"`
	}
	vars := map[string]any{"userId": userID, "months": months}
	if err := c.execute(ctx, generateForecastQuery, vars, &data); err != nil {
		return nil, err
	}
	return data.GenerateForecast, nil
}

const detectAnomalyQuery = `
query DetectAnomaly($input: DetectAnomalyInput!) {
  detectAnomaly(input: $input) {
    isAnomaly
    score
    description
  }
}`

func (c *httpClient) DetectAnomaly(ctx context.Context, input AnomalyInput) (*AnomalyVerdict, error) {
	var data struct {
		DetectAnomaly AnomalyVerdict `json:"detectAnomaly"`
	}
	if err := c.execute(ctx, detectAnomalyQuery, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	return &data.DetectAnomaly, nil
}
