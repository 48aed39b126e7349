package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Oliver369X/agents-service/internal/reasoning"
	"github.com/Oliver369X/agents-service/internal/resilience"
)

// graphqlRequest is the standard POST body of a GraphQL call.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// handleGraphQL dispatches the supported named operations. A full schema
// executor is deliberately out of scope; the dispatcher matches the
// operations the upstream federation gateway sends.
func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGraphQLError(w, "malformed request body")
		return
	}

	op := operationName(req.Query)
	if op == "" {
		writeGraphQLError(w, "no supported operation found in query")
		return
	}

	data, err := s.dispatchOperation(r, op, req.Variables)
	if err != nil {
		if resilience.IsValidation(err) {
			writeGraphQLError(w, err.Error())
			return
		}
		writeGraphQLError(w, "internal error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{op: data}})
}

// graphqlOperations lists the dispatchable field names in match order.
var graphqlOperations = []string{
	"health",
	"chat",
	"analyzeDocument",
	"auditBudget",
	"processDocument",
	"generateSavingsPlan",
}

// operationName finds the first supported operation field in the query text.
func operationName(query string) string {
	body := query
	if i := strings.IndexByte(query, '{'); i >= 0 {
		body = query[i:]
	}
	for _, op := range graphqlOperations {
		if idx := strings.Index(body, op); idx >= 0 {
			// Must be a field, not a substring of another identifier.
			if idx > 0 && isIdentChar(body[idx-1]) {
				continue
			}
			end := idx + len(op)
			if end < len(body) && isIdentChar(body[end]) {
				continue
			}
			return op
		}
	}
	return ""
}

func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (s *Server) dispatchOperation(r *http.Request, op string, vars map[string]any) (any, error) {
	ctx := r.Context()
	switch op {
	case "health":
		integrations := []string{}
		if s.cfg.Anthropic.Key != "" {
			integrations = append(integrations, "anthropic")
		}
		if s.cfg.OCR.MistralKey != "" {
			integrations = append(integrations, "mistral_ocr")
		}
		return map[string]any{"status": "OK", "version": Version, "integrations": integrations}, nil

	case "chat":
		var in struct {
			Messages []reasoning.Message `mapstructure:"messages"`
			Prompt   string              `mapstructure:"prompt"`
		}
		if err := decodeVariables(vars, &in); err != nil {
			return nil, err
		}
		normalized, err := reasoning.Request{Messages: in.Messages, Prompt: in.Prompt}.Normalize()
		if err != nil {
			return nil, err
		}
		return s.orch.Chat(ctx, normalized)

	case "analyzeDocument":
		var in struct {
			DocumentURL string `mapstructure:"documentUrl"`
		}
		if err := decodeVariables(vars, &in); err != nil {
			return nil, err
		}
		if in.DocumentURL == "" {
			return nil, resilience.NewValidationError("documentUrl", "must not be empty")
		}
		return s.orch.ExtractDocument(ctx, in.DocumentURL)

	case "auditBudget":
		var in struct {
			UserID string `mapstructure:"userId"`
		}
		if err := decodeVariables(vars, &in); err != nil {
			return nil, err
		}
		return s.orch.AuditBudget(ctx, in.UserID)

	case "processDocument":
		var in struct {
			UserID string `mapstructure:"userId"`
			Input  struct {
				DocumentURL string `mapstructure:"documentUrl"`
				AccountID   string `mapstructure:"accountId"`
			} `mapstructure:"input"`
		}
		if err := decodeVariables(vars, &in); err != nil {
			return nil, err
		}
		return s.orch.ProcessDocument(ctx, in.UserID, in.Input.DocumentURL, in.Input.AccountID)

	case "generateSavingsPlan":
		var in struct {
			UserID string `mapstructure:"userId"`
			Input  struct {
				TargetAmount float64 `mapstructure:"targetAmount"`
				Months       int     `mapstructure:"months"`
			} `mapstructure:"input"`
		}
		if err := decodeVariables(vars, &in); err != nil {
			return nil, err
		}
		return s.orch.SavingsPlan(ctx, in.UserID, in.Input.TargetAmount, in.Input.Months)
	}
	return nil, resilience.NewValidationError("operation", "unsupported operation "+op)
}

func decodeVariables(vars map[string]any, out any) error {
	if err := mapstructure.Decode(vars, out); err != nil {
		return resilience.NewValidationError("variables", err.Error())
	}
	return nil
}

func writeGraphQLError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"errors": []map[string]any{{"message": msg}},
	})
}
