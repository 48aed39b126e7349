package orchestrator

import (
	"testing"

	"github.com/Oliver369X/agents-service/internal/config"
)

type testMocks struct {
	ledger    *mockLedger
	ml        *mockML
	notifier  *mockNotifier
	reasoner  *mockProvider
	extractor *mockExtractor
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *testMocks) {
	t.Helper()
	m := &testMocks{
		ledger:    &mockLedger{},
		ml:        &mockML{},
		notifier:  &mockNotifier{},
		reasoner:  &mockProvider{},
		extractor: &mockExtractor{},
	}
	cfg := &config.Config{
		Agent: config.AgentConfig{
			ConfidenceThreshold: 0.7,
			RiskThreshold:       0.6,
			CallTimeoutSecs:     30,
		},
	}
	o := New(cfg, m.ledger, m.ml, m.notifier, m.reasoner, m.extractor, nil)
	return o, m
}

func (m *testMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.ledger.AssertExpectations(t)
	m.ml.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
	m.reasoner.AssertExpectations(t)
	m.extractor.AssertExpectations(t)
}
