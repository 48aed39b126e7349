// Package gateway is a GraphQL client for the core API gateway, which fronts
// the ledger and ML services.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultBaseURL = "http://localhost:4000/graphql"

// Client executes GraphQL operations against the core gateway.
type Client interface {
	BudgetsByUser(ctx context.Context, userID string) ([]Budget, error)
	RegisterTransaction(ctx context.Context, input RegisterTransactionInput) (*TransactionRecord, error)
	ClassifyTransaction(ctx context.Context, input ClassifyInput) (*Prediction, error)
	GenerateForecast(ctx context.Context, userID string, months int) ([]ForecastEntry, error)
	DetectAnomaly(ctx context.Context, input AnomalyInput) (*AnomalyVerdict, error)
}

// APIError reports a failed gateway call with the HTTP status, if any.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway: status %d: %s", e.StatusCode, e.Message)
	}
	return "gateway: " + e.Message
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default gateway URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a gateway client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type tokenKey struct{}

// WithToken returns a context carrying the caller's bearer token, forwarded
// on every gateway call made with that context.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom extracts the bearer token from ctx, or "".
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// execute posts one GraphQL operation and decodes the data envelope into out.
func (c *httpClient) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return eris.Wrap(err, "gateway: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "gateway: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token := TokenFrom(ctx); token != "" {
		if !strings.HasPrefix(token, "Bearer ") {
			token = "Bearer " + token
		}
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}

	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, len(gqlResp.Errors))
		for i, e := range gqlResp.Errors {
			msgs[i] = e.Message
		}
		zap.L().Error("gateway: graphql errors", zap.Strings("errors", msgs))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.Join(msgs, "; ")}
	}

	if out != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: "decode data: " + err.Error()}
		}
	}

	return nil
}
