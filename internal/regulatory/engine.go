// Package regulatory computes reserve, solvency, and risk-based capital
// line items, and enforces the pricing and underwriting compliance limits.
// Reserves are attached to the quote breakdown; they never feed back into
// premium pricing.
package regulatory

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/logging"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

// Engine evaluates regulatory requirements against a table snapshot.
type Engine struct {
	Logger logging.Logger
}

// NewEngine creates an engine with no-op logging.
func NewEngine() *Engine {
	return &Engine{Logger: logging.NopLogger{}}
}

// QuoteReserves are the regulatory line items attached to one quote.
type QuoteReserves struct {
	PolicyReserve    decimal.Decimal `json:"policy_reserve"`
	SolvencyMargin   decimal.Decimal `json:"solvency_margin"`
	RiskBasedCapital decimal.Decimal `json:"risk_based_capital"`
}

// EvaluateQuote computes reserves for a priced product and runs the
// compliance checks. A solvency-floor breach returns a ComplianceError; the
// caller surfaces it as "manual review required", never as an approval.
func (e *Engine) EvaluateQuote(snap *tables.Snapshot, product *domain.ProductSpec, coverage, grossAnnualPremium, riskMultiplier decimal.Decimal) (*QuoteReserves, error) {
	reg := snap.Regulatory

	if product.ExpenseLoad.GreaterThan(reg.MaxExpenseLoading) {
		return nil, &domain.ComplianceError{
			Check:   "pricing.expense_loading",
			Message: fmt.Sprintf("expense load %s exceeds regulatory maximum %s", product.ExpenseLoad, reg.MaxExpenseLoading),
		}
	}
	if product.ProfitMargin.GreaterThan(reg.MaxProfitMargin) {
		return nil, &domain.ComplianceError{
			Check:   "pricing.profit_margin",
			Message: fmt.Sprintf("profit margin %s exceeds regulatory maximum %s", product.ProfitMargin, reg.MaxProfitMargin),
		}
	}
	if riskMultiplier.GreaterThan(reg.MaxRiskMultiplier) {
		return nil, &domain.ComplianceError{
			Check:   "underwriting.risk_multiplier",
			Message: fmt.Sprintf("risk multiplier %s exceeds regulatory ceiling %s", riskMultiplier, reg.MaxRiskMultiplier),
		}
	}
	if reg.MaxCoverageAutomatic.GreaterThan(decimal.Zero) && coverage.GreaterThan(reg.MaxCoverageAutomatic) {
		return nil, &domain.ComplianceError{
			Check:   "underwriting.evidence",
			Message: fmt.Sprintf("coverage $%s requires special approval above $%s", coverage.StringFixed(0), reg.MaxCoverageAutomatic.StringFixed(0)),
		}
	}

	factor, ok := reg.ReserveFactors[product.Type]
	if !ok {
		return nil, &domain.NotFoundError{Table: "reserve_factors", Key: string(product.Type)}
	}
	reserve := coverage.Mul(factor)

	if reserve.GreaterThan(decimal.Zero) && reg.SolvencyFloor.GreaterThan(decimal.Zero) {
		ratio := grossAnnualPremium.Div(reserve)
		if ratio.LessThan(reg.SolvencyFloor) {
			return nil, &domain.ComplianceError{
				Check: "solvency_floor",
				Message: fmt.Sprintf("premium-to-reserve ratio %s below solvency floor %s; actuarial review required",
					ratio.StringFixed(4), reg.SolvencyFloor),
			}
		}
	}

	reserves := &QuoteReserves{
		PolicyReserve:    reserve,
		SolvencyMargin:   coverage.Mul(reg.SolvencyMargins.ForProduct(product.Type)),
		RiskBasedCapital: riskBasedCapital(reg.RBCFactors, coverage, reserve),
	}
	e.Logger.Debugf("reserves for %s coverage $%s: policy %s, solvency %s, rbc %s",
		product.Type, coverage.StringFixed(0),
		reserves.PolicyReserve.StringFixed(2), reserves.SolvencyMargin.StringFixed(2), reserves.RiskBasedCapital.StringFixed(2))
	return reserves, nil
}

// riskBasedCapital combines the C1-C4 components: sqrt(C1^2 + C2^2 + C3^2)
// + C4. The square root runs in float64, which is ample for a capital
// requirement rounded to cents.
func riskBasedCapital(f tables.RBCFactors, coverage, reserve decimal.Decimal) decimal.Decimal {
	c1, _ := coverage.Mul(f.C1AssetRisk).Float64()
	c2, _ := coverage.Mul(f.C2InsuranceRisk).Float64()
	c3, _ := reserve.Mul(f.C3InterestRateRisk).Float64()
	c4 := coverage.Mul(f.C4BusinessRisk)

	covariance := math.Sqrt(c1*c1 + c2*c2 + c3*c3)
	return decimal.NewFromFloat(covariance).Add(c4)
}
