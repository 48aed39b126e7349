package ocr

import "context"

const mockReceiptText = "LA FAVORITA SUPERMARKET\nDate: 2025-11-09\nTotal: $45.50\nVAT: $5.46\nItems: Fruit, Vegetables, Dairy"

// MockExtractor returns a fixed receipt, letting the document pipeline run
// end to end without credentials. Pure: identical input, identical output.
type MockExtractor struct{}

// NewMock creates the mock extractor.
func NewMock() *MockExtractor {
	return &MockExtractor{}
}

func (m *MockExtractor) Extract(_ context.Context, _ string) (*Extraction, error) {
	confidence := 0.95
	return &Extraction{
		Text:       mockReceiptText,
		Confidence: &confidence,
		Provider:   "mock",
	}, nil
}
