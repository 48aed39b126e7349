package ocr

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

	"github.com/Oliver369X/agents-service/internal/resilience"
)

const (
	mistralOCREndpoint  = "https://api.mistral.ai/v1/ocr"
	defaultMistralModel = "pixtral-large-latest"
)

// Mistral extracts document text using the Mistral OCR API.
type Mistral struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewMistral creates a Mistral extractor. If model is empty, the default is used.
func NewMistral(apiKey, model string, timeout time.Duration) *Mistral {
	if model == "" {
		model = defaultMistralModel
	}
	return &Mistral{
		apiKey:   apiKey,
		model:    model,
		endpoint: mistralOCREndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// WithEndpoint overrides the API endpoint, for tests.
func (m *Mistral) WithEndpoint(endpoint string) *Mistral {
	m.endpoint = endpoint
	return m
}

type mistralRequest struct {
	Model    string          `json:"model"`
	Document mistralDocument `json:"document"`
}

type mistralDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type mistralResponse struct {
	Pages []mistralPage `json:"pages"`
}

type mistralPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

// Extract sends the document URL to Mistral OCR and returns the extracted
// text. Non-2xx statuses, timeouts, and malformed bodies are normalized into
// ProviderUnavailableError.
func (m *Mistral) Extract(ctx context.Context, documentURL string) (*Extraction, error) {
	body, err := json.Marshal(mistralRequest{
		Model: m.model,
		Document: mistralDocument{
			Type:        "document_url",
			DocumentURL: documentURL,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "ocr: marshal mistral request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "ocr: create mistral request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, resilience.NewProviderUnavailable("mistral", resilience.ReasonTimeout, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewProviderUnavailable("mistral", resilience.ReasonServer, err)
	}

	if resp.StatusCode != http.StatusOK {
		reason := resilience.ProviderReasonFromStatus(resp.StatusCode)
		if reason == "" {
			reason = resilience.ReasonServer
		}
		return nil, resilience.NewProviderUnavailable("mistral", reason,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)))
	}

	var ocrResp mistralResponse
	if err := json.Unmarshal(respBody, &ocrResp); err != nil {
		return nil, resilience.NewProviderUnavailable("mistral", resilience.ReasonServer,
			eris.Wrap(err, "unmarshal response"))
	}

	var sb strings.Builder
	for i, page := range ocrResp.Pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(page.Markdown)
	}

	return &Extraction{Text: sb.String(), Provider: "live"}, nil
}
