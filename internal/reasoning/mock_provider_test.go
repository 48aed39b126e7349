package reasoning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oliver369X/agents-service/internal/model"
)

func TestMockChat_KeywordPriority(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	tests := []struct {
		name     string
		prompt   string
		contains string
	}{
		{"greeting", "hello!", "Hello! I am your financial assistant"},
		{"savings", "how can I save more money", "improve your savings"},
		{"spending", "my expenses feel too high", "largest expense categories"},
		{"budgeting", "should I change my budget", "reviewed weekly"},
		{"investment", "is it time to invest", "risk tolerance"},
		{"debt", "I have credit card debt", "highest interest rate first"},
		{"income", "my salary changed", "every income source"},
		{"fallback", "tell me something random", "room to save more"},
		// "hello" (greeting) outranks "savings" because rules are ordered.
		{"priority order", "hello, I want savings advice", "Hello! I am your financial assistant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := m.Chat(ctx, Request{Prompt: tt.prompt})
			require.NoError(t, err)
			assert.Equal(t, ProviderMock, resp.Provider)
			assert.Contains(t, resp.Content, tt.contains)
		})
	}
}

func TestMockChat_Deterministic(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	first, err := m.Chat(ctx, Request{Prompt: "how do budgets work"})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := m.Chat(ctx, Request{Prompt: "how do budgets work"})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMockChat_UsesLastUserMessage(t *testing.T) {
	m := NewMock()

	resp, err := m.Chat(context.Background(), Request{Messages: []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleModel, Content: "Hi, how can I help?"},
		{Role: RoleUser, Content: "I want to pay off my loan"},
	}})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "highest interest rate first")
}

func TestMockChat_InvalidRequest(t *testing.T) {
	m := NewMock()

	_, err := m.Chat(context.Background(), Request{})
	require.Error(t, err)

	_, err = m.Chat(context.Background(), Request{
		Prompt:   "hi",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
}

func TestMockSavingsPlan_Arithmetic(t *testing.T) {
	m := NewMock()

	resp, err := m.SavingsPlan(context.Background(), 5000, 12)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "$416.67")
	assert.Equal(t, ProviderMock, resp.Provider)

	resp, err = m.SavingsPlan(context.Background(), 1200, 6)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "$200.00")
}

func TestMockAnalyzeBudgets(t *testing.T) {
	m := NewMock()

	budgets := []model.Budget{
		{Category: "Food", LimitAmount: 300},
		{Category: "Transport", LimitAmount: 450},
		{Category: "Health", LimitAmount: 150},
	}
	resp, err := m.AnalyzeBudgets(context.Background(), "u1", budgets)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "Reviewed 3 budget(s)")
	assert.Contains(t, resp.Content, "$900.00")
	assert.Contains(t, resp.Content, `"Transport" at $450.00`)
	// Category order is sorted, not input order.
	assert.Contains(t, resp.Content, "Food, Health, Transport")
}

func TestMockAnalyzeBudgets_Empty(t *testing.T) {
	m := NewMock()

	resp, err := m.AnalyzeBudgets(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "No budgets are configured")
}

func TestMonthlySavings(t *testing.T) {
	assert.Equal(t, 416.67, MonthlySavings(5000, 12))
	assert.Equal(t, 200.0, MonthlySavings(1200, 6))
	assert.Equal(t, 33.33, MonthlySavings(100, 3))
	assert.Equal(t, 0.0, MonthlySavings(100, 0))
}
