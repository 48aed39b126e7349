// Package server exposes the workflows over REST and a single-endpoint
// GraphQL dispatcher. It owns authentication-token passthrough and request
// decoding; all business behavior lives in the orchestrator.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Oliver369X/agents-service/internal/config"
	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/ocr"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/internal/runlog"
	"github.com/Oliver369X/agents-service/pkg/gateway"
)

// Version reported by the health endpoint.
const Version = "0.1.0"

// Workflows is the orchestrator surface the transport layer invokes.
type Workflows interface {
	Chat(ctx context.Context, req reasoning.Request) (*reasoning.Response, error)
	ExtractDocument(ctx context.Context, documentURL string) (*ocr.Extraction, error)
	AuditBudget(ctx context.Context, userID string) (*model.WorkflowOutcome, error)
	ProcessDocument(ctx context.Context, userID, documentURL, accountID string) (*model.WorkflowOutcome, error)
	SavingsPlan(ctx context.Context, userID string, targetAmount float64, months int) (*model.WorkflowOutcome, error)
	SmartCategorize(ctx context.Context, userID string, tx model.Transaction) (*model.WorkflowOutcome, error)
	FinancialInsights(ctx context.Context, userID string) (*model.WorkflowOutcome, error)
	SpendingAlert(ctx context.Context, userID string, tx model.Transaction) (*model.WorkflowOutcome, error)
}

// Server routes HTTP traffic to the orchestrator.
type Server struct {
	cfg  *config.Config
	orch Workflows
	runs runlog.Store // optional
}

// New creates a Server.
func New(cfg *config.Config, orch Workflows, runs runlog.Store) *Server {
	return &Server{cfg: cfg, orch: orch, runs: runs}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(tokenPassthrough)

	r.Get("/health", s.handleHealth)
	r.Post("/graphql", s.handleGraphQL)

	r.Route("/agent", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/ocr", s.handleOCR)
		r.Post("/audit-budget", s.handleAuditBudget)
		r.Post("/process-document", s.handleProcessDocument)
		r.Post("/savings-plan", s.handleSavingsPlan)
		r.Post("/smart-categorize", s.handleSmartCategorize)
		r.Post("/financial-insights", s.handleFinancialInsights)
		r.Post("/spending-alert", s.handleSpendingAlert)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{runID}", s.handleGetRun)
	})

	return r
}

// tokenPassthrough forwards the caller's Authorization header to the
// gateway via the request context. The token is never interpreted here.
func tokenPassthrough(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.Header.Get("Authorization"); token != "" {
			r = r.WithContext(gateway.WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

// writeError maps the error taxonomy to HTTP statuses. Only validation
// errors and infrastructure faults reach here; workflow-level failures are
// carried inside a WorkflowOutcome body with status 200.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if resilience.IsValidation(err) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return resilience.NewValidationError("body", "malformed JSON: "+err.Error())
	}
	return nil
}
