package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oliver369X/agents-service/internal/resilience"
)

func TestParseReceipt_Complete(t *testing.T) {
	text := "LA FAVORITA SUPERMARKET\nDate: 2025-11-09\nTotal: $45.50\nVAT: $5.46"

	fields, errs := ParseReceipt(text)
	assert.Empty(t, errs)
	assert.Equal(t, 45.50, fields.Amount)
	assert.Equal(t, "2025-11-09", fields.Date)
	assert.Equal(t, "LA FAVORITA SUPERMARKET", fields.Merchant)
}

func TestParseReceipt_CommaAmount(t *testing.T) {
	fields, _ := ParseReceipt("BIG STORE\nTotal: $1,234.56")
	assert.Equal(t, 1234.56, fields.Amount)
}

func TestParseReceipt_SlashDate(t *testing.T) {
	fields, _ := ParseReceipt("CORNER SHOP\n12/31/2025\nTotal: $9.99")
	assert.Equal(t, "12/31/2025", fields.Date)
}

func TestParseReceipt_FirstAmountWins(t *testing.T) {
	fields, _ := ParseReceipt("SHOP\nSubtotal: $40.00\nTotal: $45.50")
	assert.Equal(t, 40.0, fields.Amount)
}

func TestParseReceipt_MissingFields(t *testing.T) {
	fields, errs := ParseReceipt("just some words with no structure")
	assert.Zero(t, fields.Amount)
	assert.Empty(t, fields.Date)
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.True(t, resilience.IsParse(err))
	}
	// The plain text line still reads as a merchant name.
	assert.Equal(t, "just some words with no structure", fields.Merchant)
}

func TestParseReceipt_Empty(t *testing.T) {
	fields, errs := ParseReceipt("")
	assert.Zero(t, fields.Amount)
	assert.Empty(t, fields.Merchant)
	assert.Empty(t, fields.Date)
	assert.Len(t, errs, 3)
}

func TestFirstMerchantLine(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"skips labeled lines", "Date: 2025-01-01\nACME MARKET\nTotal: $5.00", "ACME MARKET"},
		{"skips amount lines", "$45.50\nACME MARKET", "ACME MARKET"},
		{"skips digit heavy lines", "123456789\nACME MARKET", "ACME MARKET"},
		{"skips blank lines", "\n\n  \nACME MARKET", "ACME MARKET"},
		{"nothing plausible", "Total: $5.00\n1234 5678", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstMerchantLine(tt.text))
		})
	}
}
