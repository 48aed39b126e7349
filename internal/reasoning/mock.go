package reasoning

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Oliver369X/agents-service/internal/model"
)

//go:embed rules.yaml
var rulesYAML []byte

// keywordRule pairs a predicate (any keyword contained in the message) with
// a canned response. Rules are held in a slice so evaluation order is fixed
// and independent of map iteration.
type keywordRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

type ruleFile struct {
	Rules    []keywordRule `yaml:"rules"`
	Fallback string        `yaml:"fallback"`
}

// MockProvider is a deterministic, offline reasoning provider. It is pure:
// identical input always yields identical output.
type MockProvider struct {
	rules    []keywordRule
	fallback string
}

// NewMock creates the mock provider from the embedded rule file.
func NewMock() *MockProvider {
	var rf ruleFile
	// The rule file is embedded and validated by tests; a parse failure here
	// is a build defect, not a runtime condition.
	if err := yaml.Unmarshal(rulesYAML, &rf); err != nil {
		panic(fmt.Sprintf("reasoning: embedded rules.yaml invalid: %v", err))
	}
	return &MockProvider{rules: rf.Rules, fallback: rf.Fallback}
}

// Chat scans the most recent user message against the ordered keyword rules
// and returns the first matching canned response.
func (m *MockProvider) Chat(_ context.Context, req Request) (*Response, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	message := strings.ToLower(req.LastUserMessage())
	content := m.fallback
	for _, rule := range m.rules {
		if matchesAny(message, rule.Keywords) {
			content = rule.Response
			break
		}
	}

	return &Response{Content: content, Provider: ProviderMock}, nil
}

// AnalyzeBudgets produces a budget review computed from the supplied
// budgets, so counts and amounts stay internally consistent.
func (m *MockProvider) AnalyzeBudgets(_ context.Context, userID string, budgets []model.Budget) (*Response, error) {
	if len(budgets) == 0 {
		return &Response{
			Content:  "No budgets are configured yet. Create per-category budgets to enable auditing.",
			Provider: ProviderMock,
		}, nil
	}

	var total float64
	largest := budgets[0]
	for _, b := range budgets {
		total += b.LimitAmount
		if b.LimitAmount > largest.LimitAmount {
			largest = b
		}
	}

	categories := make([]string, len(budgets))
	for i, b := range budgets {
		categories[i] = b.Category
	}
	sort.Strings(categories)

	content := fmt.Sprintf(
		"Reviewed %d budget(s) totaling $%.2f across %s. "+
			"The largest allocation is %q at $%.2f; keep its spending under the limit "+
			"and review each budget weekly to catch drift early.",
		len(budgets), total, strings.Join(categories, ", "), largest.Category, largest.LimitAmount,
	)

	return &Response{Content: content, Provider: ProviderMock}, nil
}

// SavingsPlan computes a plan from the numeric targets using the shared
// MonthlySavings arithmetic.
func (m *MockProvider) SavingsPlan(_ context.Context, targetAmount float64, months int) (*Response, error) {
	monthly := MonthlySavings(targetAmount, months)

	content := fmt.Sprintf(
		"Savings Plan\n\n"+
			"Target: $%.2f over %d month(s)\n"+
			"Monthly savings required: $%.2f\n\n"+
			"Strategy:\n"+
			"1. Automate a $%.2f transfer to a separate savings account at the start of each month.\n"+
			"2. Cut discretionary spending by about $%.2f/month (dining out, subscriptions).\n"+
			"3. Review progress weekly and adjust the plan if income changes.\n",
		targetAmount, months, monthly, monthly, monthly*0.3,
	)

	return &Response{Content: content, Provider: ProviderMock}, nil
}

func matchesAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}
