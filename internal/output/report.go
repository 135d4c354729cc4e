package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/quote"
	"github.com/edgemoorlf/premiumcalculator/internal/regulatory"
)

// ReportGenerator handles quote and reserve report generation.
type ReportGenerator struct {
	Out io.Writer
}

// NewReportGenerator creates a report generator writing to the given stream.
func NewReportGenerator(out io.Writer) *ReportGenerator {
	return &ReportGenerator{Out: out}
}

// GenerateQuoteReport writes quote results in the specified format.
func (rg *ReportGenerator) GenerateQuoteReport(results []quote.Result, format string) error {
	switch format {
	case "console":
		return rg.consoleQuoteReport(results)
	case "json":
		return rg.jsonReport(results)
	case "csv":
		return rg.csvQuoteReport(results)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// GenerateReserveReport writes a portfolio reserve valuation in the
// specified format.
func (rg *ReportGenerator) GenerateReserveReport(calc *regulatory.ReserveCalculation, format string) error {
	switch format {
	case "console":
		return rg.consoleReserveReport(calc)
	case "json":
		return rg.jsonReport(calc)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (rg *ReportGenerator) jsonReport(v any) error {
	enc := json.NewEncoder(rg.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (rg *ReportGenerator) consoleQuoteReport(results []quote.Result) error {
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(rg.Out)
		}
		if result.Failure != nil {
			fmt.Fprintf(rg.Out, "QUOTE FAILED (%s)\n", result.Failure.Kind)
			fmt.Fprintln(rg.Out, strings.Repeat("=", 50))
			fmt.Fprintln(rg.Out, result.Failure.Message)
			continue
		}
		q := result.Quote

		fmt.Fprintf(rg.Out, "QUOTE %d: %s\n", i+1, q.ProductName)
		fmt.Fprintln(rg.Out, strings.Repeat("=", 50))
		fmt.Fprintf(rg.Out, "Decision:         %s\n", q.UnderwritingDecision)
		if !q.UnderwritingDecision.Approved() {
			fmt.Fprintln(rg.Out)
			fmt.Fprintln(rg.Out, q.UnderwriterNotes)
			continue
		}
		fmt.Fprintf(rg.Out, "Coverage Amount:  %s\n", FormatCurrency(q.CoverageAmount))
		fmt.Fprintf(rg.Out, "Monthly Premium:  %s\n", FormatCurrency(q.MonthlyPremium))
		fmt.Fprintf(rg.Out, "Annual Premium:   %s\n", FormatCurrency(q.AnnualPremium))
		fmt.Fprintf(rg.Out, "Risk Multiplier:  %sx\n", q.RiskMultiplier.StringFixed(2))
		fmt.Fprintf(rg.Out, "Valid Until:      %s\n", q.QuoteValidUntil.Format("2006-01-02"))
		fmt.Fprintln(rg.Out)

		fmt.Fprintln(rg.Out, "PREMIUM BREAKDOWN (ANNUAL)")
		fmt.Fprintln(rg.Out, strings.Repeat("-", 30))
		fmt.Fprintf(rg.Out, "Net Premium:      %s\n", FormatCurrency(q.Breakdown.NetPremium))
		fmt.Fprintf(rg.Out, "Expense Loading:  %s\n", FormatCurrency(q.Breakdown.ExpenseLoading))
		fmt.Fprintf(rg.Out, "Profit Margin:    %s\n", FormatCurrency(q.Breakdown.ProfitMargin))
		fmt.Fprintf(rg.Out, "Commission:       %s\n", FormatCurrency(q.Breakdown.Commission))
		fmt.Fprintf(rg.Out, "Policy Reserves:  %s\n", FormatCurrency(q.Breakdown.PolicyReserves))
		fmt.Fprintln(rg.Out)

		fmt.Fprintln(rg.Out, q.UnderwriterNotes)
		fmt.Fprintln(rg.Out)
		fmt.Fprintln(rg.Out, q.Explanation)
	}
	return nil
}

func (rg *ReportGenerator) consoleReserveReport(calc *regulatory.ReserveCalculation) error {
	fmt.Fprintln(rg.Out, "PORTFOLIO RESERVE VALUATION")
	fmt.Fprintln(rg.Out, strings.Repeat("=", 50))
	fmt.Fprintf(rg.Out, "Policy Reserves:           %s\n", FormatCurrency(calc.PolicyReserves))
	fmt.Fprintf(rg.Out, "Unearned Premium Reserves: %s\n", FormatCurrency(calc.UnearnedPremiumReserves))
	fmt.Fprintf(rg.Out, "Claims Reserves:           %s\n", FormatCurrency(calc.ClaimsReserves))
	fmt.Fprintf(rg.Out, "Total Reserves:            %s\n", FormatCurrency(calc.TotalReserves))
	fmt.Fprintf(rg.Out, "Solvency Margin:           %s\n", FormatCurrency(calc.SolvencyMargin))
	fmt.Fprintf(rg.Out, "Risk-Based Capital:        %s\n", FormatCurrency(calc.RiskBasedCapital))
	fmt.Fprintln(rg.Out)
	fmt.Fprintln(rg.Out, calc.ComplianceNotes)
	return nil
}

// FormatCurrency formats a decimal amount as currency
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
