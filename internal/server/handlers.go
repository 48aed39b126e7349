package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Oliver369X/agents-service/internal/model"
	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/resilience"
	"github.com/Oliver369X/agents-service/internal/runlog"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	integrations := []string{}
	if s.cfg.Anthropic.Key != "" {
		integrations = append(integrations, "anthropic")
	}
	if s.cfg.OCR.MistralKey != "" {
		integrations = append(integrations, "mistral_ocr")
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "OK",
		"version":      Version,
		"integrations": integrations,
	})
}

type chatRequest struct {
	Messages []reasoning.Message `json:"messages,omitempty"`
	Prompt   string              `json:"prompt,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	normalized, err := reasoning.Request{Messages: req.Messages, Prompt: req.Prompt}.Normalize()
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := s.orch.Chat(r.Context(), normalized)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type ocrRequest struct {
	DocumentURL string `json:"documentUrl"`
}

func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	var req ocrRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.DocumentURL == "" {
		writeError(w, resilience.NewValidationError("documentUrl", "must not be empty"))
		return
	}

	ex, err := s.orch.ExtractDocument(r.Context(), req.DocumentURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleAuditBudget(w http.ResponseWriter, r *http.Request) {
	out, err := s.orch.AuditBudget(r.Context(), r.URL.Query().Get("user_id"))
	s.writeOutcome(w, out, err)
}

type processDocumentRequest struct {
	DocumentURL string `json:"documentUrl"`
	AccountID   string `json:"accountId"`
}

func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req processDocumentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.orch.ProcessDocument(r.Context(), r.URL.Query().Get("user_id"), req.DocumentURL, req.AccountID)
	s.writeOutcome(w, out, err)
}

type savingsPlanRequest struct {
	TargetAmount float64 `json:"targetAmount"`
	Months       int     `json:"months"`
}

func (s *Server) handleSavingsPlan(w http.ResponseWriter, r *http.Request) {
	var req savingsPlanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.orch.SavingsPlan(r.Context(), r.URL.Query().Get("user_id"), req.TargetAmount, req.Months)
	s.writeOutcome(w, out, err)
}

type smartCategorizeRequest struct {
	TransactionText string  `json:"transactionText"`
	AccountID       string  `json:"accountId"`
	Amount          float64 `json:"amount"`
}

func (s *Server) handleSmartCategorize(w http.ResponseWriter, r *http.Request) {
	var req smartCategorizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.orch.SmartCategorize(r.Context(), r.URL.Query().Get("user_id"), model.Transaction{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.TransactionText,
	})
	s.writeOutcome(w, out, err)
}

func (s *Server) handleFinancialInsights(w http.ResponseWriter, r *http.Request) {
	out, err := s.orch.FinancialInsights(r.Context(), r.URL.Query().Get("user_id"))
	s.writeOutcome(w, out, err)
}

type spendingAlertRequest struct {
	AccountID   string  `json:"accountId,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

func (s *Server) handleSpendingAlert(w http.ResponseWriter, r *http.Request) {
	var req spendingAlertRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	out, err := s.orch.SpendingAlert(r.Context(), r.URL.Query().Get("user_id"), model.Transaction{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	})
	s.writeOutcome(w, out, err)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "run log not configured"})
		return
	}
	q := r.URL.Query()
	runs, err := s.runs.ListRuns(r.Context(), runlog.Filter{
		Workflow: q.Get("workflow"),
		UserID:   q.Get("user_id"),
		Status:   q.Get("status"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "run log not configured"})
		return
	}
	run, err := s.runs.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// writeOutcome sends a WorkflowOutcome as the response body. Validation
// errors surface as 400; nothing else reaches the caller as a bare error.
func (s *Server) writeOutcome(w http.ResponseWriter, out *model.WorkflowOutcome, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
