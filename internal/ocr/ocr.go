// Package ocr extracts text from financial documents (receipts, invoices),
// with a live Mistral OCR backend and a deterministic mock, selected and
// failed over the same way as the reasoning provider.
package ocr

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Oliver369X/agents-service/internal/config"
	"github.com/Oliver369X/agents-service/internal/resilience"
)

// Extraction is the text pulled from one document.
type Extraction struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
	Provider   string   `json:"provider"` // "live" or "mock"
}

// Extractor extracts text content from a document URL.
type Extractor interface {
	Extract(ctx context.Context, documentURL string) (*Extraction, error)
}

// NewExtractor selects the extractor from config: an empty credential means
// the mock, no network attempt; otherwise Mistral behind single-substitution
// failover. Failover here is independent of the reasoning provider's — each
// call classifies and recovers on its own.
func NewExtractor(cfg config.OCRConfig, timeout time.Duration) Extractor {
	if cfg.MistralKey == "" {
		zap.L().Debug("ocr: no credential configured, using mock extractor")
		return NewMock()
	}
	return &failoverExtractor{
		live: NewMistral(cfg.MistralKey, cfg.Model, timeout),
		mock: NewMock(),
	}
}

// failoverExtractor substitutes the mock exactly once when the live
// extractor fails with a provider-unavailable error.
type failoverExtractor struct {
	live Extractor
	mock Extractor
}

func (f *failoverExtractor) Extract(ctx context.Context, documentURL string) (*Extraction, error) {
	ex, err := f.live.Extract(ctx, documentURL)
	if err == nil || !resilience.IsProviderUnavailable(err) {
		return ex, err
	}
	zap.L().Warn("ocr: live extractor unavailable, substituting mock",
		zap.String("document_url", documentURL),
		zap.Error(err),
	)
	return f.mock.Extract(ctx, documentURL)
}
