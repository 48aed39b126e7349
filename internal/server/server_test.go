package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oliver369X/agents-service/internal/config"
	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/ocr"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/pkg/gateway"
)

// fakeWorkflows returns canned outcomes and records what it was called with.
type fakeWorkflows struct {
	lastUserID string
	lastToken  string
	outcome    *model.WorkflowOutcome
	err        error
}

func (f *fakeWorkflows) capture(ctx context.Context, userID string) {
	f.lastUserID = userID
	f.lastToken = gateway.TokenFrom(ctx)
}

func (f *fakeWorkflows) Chat(ctx context.Context, req reasoning.Request) (*reasoning.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &reasoning.Response{Content: "Hello! I am your financial assistant.", Provider: reasoning.ProviderMock}, nil
}

func (f *fakeWorkflows) ExtractDocument(ctx context.Context, documentURL string) (*ocr.Extraction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ocr.Extraction{Text: "Total: $45.50", Provider: "mock"}, nil
}

func (f *fakeWorkflows) AuditBudget(ctx context.Context, userID string) (*model.WorkflowOutcome, error) {
	f.capture(ctx, userID)
	return f.outcome, f.err
}

func (f *fakeWorkflows) ProcessDocument(ctx context.Context, userID, documentURL, accountID string) (*model.WorkflowOutcome, error) {
	f.capture(ctx, userID)
	return f.outcome, f.err
}

func (f *fakeWorkflows) SavingsPlan(ctx context.Context, userID string, targetAmount float64, months int) (*model.WorkflowOutcome, error) {
	f.capture(ctx, userID)
	if targetAmount <= 0 || months <= 0 {
		return nil, resilience.NewValidationError("targetAmount", "must be positive")
	}
	return f.outcome, f.err
}

func (f *fakeWorkflows) SmartCategorize(ctx context.Context, userID string, tx model.Transaction) (*model.WorkflowOutcome, error) {
	f.capture(ctx, userID)
	return f.outcome, f.err
}

func (f *fakeWorkflows) FinancialInsights(ctx context.Context, userID string) (*model.WorkflowOutcome, error) {
	f.capture(ctx, userID)
	return f.outcome, f.err
}

func (f *fakeWorkflows) SpendingAlert(ctx context.Context, userID string, tx model.Transaction) (*model.WorkflowOutcome, error) {
	f.capture(ctx, userID)
	return f.outcome, f.err
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeWorkflows) {
	t.Helper()
	fake := &fakeWorkflows{
		outcome: &model.WorkflowOutcome{
			Workflow: "audit_budget",
			Status:   model.OutcomeSuccess,
			Steps:    []model.StepResult{{Name: "fetch_budgets", Status: model.StepSuccess, Critical: true}},
			Payload:  map[string]any{"budgetsReviewed": 3},
		},
	}
	cfg := &config.Config{}
	cfg.Anthropic.Key = "sk-test"
	srv := httptest.NewServer(New(cfg, fake, nil).Router())
	t.Cleanup(srv.Close)
	return srv, fake
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["status"])
	assert.Contains(t, body["integrations"], "anthropic")
}

func TestAuditBudget_ReturnsOutcome(t *testing.T) {
	srv, fake := newTestServer(t)

	resp := postJSON(t, srv.URL+"/agent/audit-budget?user_id=123", nil, map[string]string{
		"Authorization": "Bearer token-abc",
	})
	body := decode(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SUCCESS", body["status"])
	assert.Equal(t, "123", fake.lastUserID)
	assert.Equal(t, "Bearer token-abc", fake.lastToken)
}

func TestSavingsPlan_ValidationError_Is400(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/agent/savings-plan?user_id=u1",
		map[string]any{"targetAmount": -5, "months": 12}, nil)
	body := decode(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "targetAmount")
}

func TestChat_PromptForm(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/agent/chat", map[string]any{"prompt": "hello"}, nil)
	body := decode(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "mock", body["provider"])
	assert.NotEmpty(t, body["content"])
}

func TestChat_MessagesAndPrompt_Rejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/agent/chat", map[string]any{
		"prompt":   "hi",
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOCR_MissingURL_Rejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/agent/ocr", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGraphQL_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/graphql", map[string]any{"query": "query { health { status version } }"}, nil)
	body := decode(t, resp)
	require.Contains(t, body, "data")
	data := body["data"].(map[string]any)
	health := data["health"].(map[string]any)
	assert.Equal(t, "OK", health["status"])
}

func TestGraphQL_AuditBudget(t *testing.T) {
	srv, fake := newTestServer(t)

	resp := postJSON(t, srv.URL+"/graphql", map[string]any{
		"query":     `mutation AuditBudget($userId: String!) { auditBudget(userId: $userId) { status } }`,
		"variables": map[string]any{"userId": "123"},
	}, nil)
	body := decode(t, resp)
	require.Contains(t, body, "data")
	assert.Equal(t, "123", fake.lastUserID)
}

func TestGraphQL_UnsupportedOperation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/graphql", map[string]any{"query": "mutation { deleteEverything }"}, nil)
	body := decode(t, resp)
	require.Contains(t, body, "errors")
}

func TestRuns_NotConfigured(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/agent/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
