package output

import (
	"encoding/csv"

	"github.com/edgemoorlf/premiumcalculator/internal/quote"
)

// csvQuoteReport writes one row per quote result. Failed results carry the
// failure kind in the decision column so batch consumers see every outcome.
func (rg *ReportGenerator) csvQuoteReport(results []quote.Result) error {
	w := csv.NewWriter(rg.Out)
	header := []string{
		"QuoteID", "ProductType", "ProductName", "Decision",
		"CoverageAmount", "MonthlyPremium", "AnnualPremium",
		"RiskMultiplier", "ValidUntil",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, result := range results {
		if result.Failure != nil {
			row := []string{"", "", "", "failed:" + string(result.Failure.Kind), "", "", "", "", ""}
			if err := w.Write(row); err != nil {
				return err
			}
			continue
		}
		q := result.Quote
		row := []string{
			q.QuoteID,
			string(q.ProductType),
			q.ProductName,
			string(q.UnderwritingDecision),
			q.CoverageAmount.StringFixed(2),
			q.MonthlyPremium.StringFixed(2),
			q.AnnualPremium.StringFixed(2),
			q.RiskMultiplier.StringFixed(2),
			q.QuoteValidUntil.Format("2006-01-02"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
