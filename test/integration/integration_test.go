package integration

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgemoorlf/premiumcalculator/internal/config"
	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/output"
	"github.com/edgemoorlf/premiumcalculator/internal/quote"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

func openTables(t *testing.T) *tables.Snapshot {
	t.Helper()
	store, err := tables.Open("../../data")
	require.NoError(t, err)
	return store.Snapshot()
}

func TestEndToEndMultiProductQuote(t *testing.T) {
	input, err := config.NewInputParser().LoadQuoteInput("../testdata/sample_quote_request.yaml")
	require.NoError(t, err)
	require.Len(t, input.Products, 3)

	snap := openTables(t)
	results := quote.NewOrchestrator().MultiQuote(snap, &input.Applicant, input.Products)
	require.Len(t, results, 3)

	for i, result := range results {
		require.Nilf(t, result.Failure, "product %d failed: %+v", i, result.Failure)
		require.NotNil(t, result.Quote)
		assert.Truef(t, result.Quote.UnderwritingDecision.Approved(),
			"product %d (%s) should approve, got %s",
			i, result.Quote.ProductType, result.Quote.UnderwritingDecision)
		assert.True(t, result.Quote.MonthlyPremium.GreaterThan(decimal.Zero),
			"approved quotes carry a premium")
	}

	// A mild condition loads the multiplier above 1.0 on every product.
	assert.Equal(t, domain.DecisionApprovedSubstandard, results[0].Quote.UnderwritingDecision)

	var buf bytes.Buffer
	require.NoError(t, output.NewReportGenerator(&buf).GenerateQuoteReport(results, "console"))
	assert.Contains(t, buf.String(), "Term Life Insurance")
	assert.Contains(t, buf.String(), "PREMIUM BREAKDOWN (ANNUAL)")

	buf.Reset()
	require.NoError(t, output.NewReportGenerator(&buf).GenerateQuoteReport(results, "json"))
	assert.Contains(t, buf.String(), "\"quote_id\"")
}

func TestEndToEndPortfolioReserves(t *testing.T) {
	input, err := config.NewInputParser().LoadPortfolioInput("../testdata/sample_portfolio.yaml")
	require.NoError(t, err)
	require.Len(t, input.Policies, 3)

	snap := openTables(t)
	orch := quote.NewOrchestrator()
	calc, err := orch.Regulatory.PortfolioReserves(snap, input.Policies, input.ValuationDate)
	require.NoError(t, err)

	assert.True(t, calc.TotalReserves.GreaterThan(decimal.Zero))
	assert.True(t, calc.TotalReserves.Equal(
		calc.PolicyReserves.Add(calc.UnearnedPremiumReserves).Add(calc.ClaimsReserves)))
	assert.NotEmpty(t, calc.ComplianceNotes)

	var buf bytes.Buffer
	require.NoError(t, output.NewReportGenerator(&buf).GenerateReserveReport(calc, "console"))
	assert.Contains(t, buf.String(), "PORTFOLIO RESERVE VALUATION")
}
