package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/quote"
	"github.com/edgemoorlf/premiumcalculator/internal/regulatory"
)

func sampleResult() quote.Result {
	return quote.Result{Quote: &domain.PremiumQuote{
		QuoteID:              "Q-1",
		ProductType:          domain.ProductTermLife,
		ProductName:          "Term Life Insurance",
		MonthlyPremium:       decimal.NewFromFloat(42.50),
		AnnualPremium:        decimal.NewFromFloat(510.00),
		CoverageAmount:       decimal.NewFromInt(500000),
		UnderwritingDecision: domain.DecisionApprovedStandard,
		RiskMultiplier:       decimal.NewFromInt(1),
		QuoteValidUntil:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Breakdown: domain.PremiumBreakdown{
			NetPremium:     decimal.NewFromFloat(340.00),
			ExpenseLoading: decimal.NewFromFloat(76.50),
			ProfitMargin:   decimal.NewFromFloat(25.50),
			Commission:     decimal.NewFromFloat(68.00),
			PolicyReserves: decimal.NewFromInt(10000),
		},
		UnderwriterNotes: "UNDERWRITING ASSESSMENT",
		Explanation:      "PREMIUM CALCULATION",
	}}
}

func TestConsoleQuoteReport(t *testing.T) {
	var buf bytes.Buffer
	err := NewReportGenerator(&buf).GenerateQuoteReport([]quote.Result{sampleResult()}, "console")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "QUOTE 1: Term Life Insurance")
	assert.Contains(t, out, "Coverage Amount:  $500000.00")
	assert.Contains(t, out, "Monthly Premium:  $42.50")
	assert.Contains(t, out, "PREMIUM BREAKDOWN (ANNUAL)")
	assert.Contains(t, out, "Valid Until:      2026-09-01")
	assert.Contains(t, out, "UNDERWRITING ASSESSMENT")
}

func TestConsoleQuoteReportFailure(t *testing.T) {
	var buf bytes.Buffer
	results := []quote.Result{{Failure: &domain.Failure{
		Kind:    domain.FailureNotFound,
		Message: "medical conditions: no entry for \"unlisted\"",
	}}}
	err := NewReportGenerator(&buf).GenerateQuoteReport(results, "console")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "QUOTE FAILED (not_found)")
	assert.Contains(t, buf.String(), "no entry for")
}

func TestJSONQuoteReportRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	err := NewReportGenerator(&buf).GenerateQuoteReport([]quote.Result{sampleResult()}, "json")
	require.NoError(t, err)

	var decoded []struct {
		Quote *struct {
			QuoteID        string          `json:"quote_id"`
			MonthlyPremium decimal.Decimal `json:"monthly_premium"`
		} `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.NotNil(t, decoded[0].Quote)
	assert.Equal(t, "Q-1", decoded[0].Quote.QuoteID)
	assert.True(t, decoded[0].Quote.MonthlyPremium.Equal(decimal.NewFromFloat(42.50)))
}

func TestCSVQuoteReport(t *testing.T) {
	var buf bytes.Buffer
	results := []quote.Result{
		sampleResult(),
		{Failure: &domain.Failure{Kind: domain.FailureOutOfRange, Message: "coverage too low"}},
	}
	err := NewReportGenerator(&buf).GenerateQuoteReport(results, "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "header plus one row per result")
	assert.Contains(t, lines[0], "QuoteID,ProductType")
	assert.Contains(t, lines[1], "Q-1,term_life,Term Life Insurance,approved_standard,500000.00,42.50")
	assert.Contains(t, lines[2], "failed:out_of_range")
}

func TestGenerateQuoteReportUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewReportGenerator(&buf).GenerateQuoteReport(nil, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestConsoleReserveReport(t *testing.T) {
	var buf bytes.Buffer
	calc := &regulatory.ReserveCalculation{
		PolicyReserves:          decimal.NewFromInt(60000),
		UnearnedPremiumReserves: decimal.NewFromInt(1200),
		ClaimsReserves:          decimal.NewFromInt(4300),
		TotalReserves:           decimal.NewFromInt(65500),
		SolvencyMargin:          decimal.NewFromInt(2620),
		RiskBasedCapital:        decimal.NewFromInt(3100),
		RequirementsMet:         true,
		ComplianceNotes:         "RESERVE ADEQUACY ASSESSMENT",
	}
	err := NewReportGenerator(&buf).GenerateReserveReport(calc, "console")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "PORTFOLIO RESERVE VALUATION")
	assert.Contains(t, out, "Total Reserves:            $65500.00")
	assert.Contains(t, out, "RESERVE ADEQUACY ASSESSMENT")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1234.50", FormatCurrency(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "3.50%", FormatPercentage(decimal.NewFromFloat(3.5)))
}
