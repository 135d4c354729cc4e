package regulatory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

// Policy is one in-force policy for portfolio reserve valuation.
type Policy struct {
	PolicyID          string             `yaml:"policy_id" json:"policy_id"`
	ProductType       domain.ProductType `yaml:"product_type" json:"product_type"`
	CoverageAmount    decimal.Decimal    `yaml:"coverage_amount" json:"coverage_amount"`
	AnnualPremium     decimal.Decimal    `yaml:"annual_premium" json:"annual_premium"`
	PolicyYear        int                `yaml:"policy_year" json:"policy_year"`
	RemainingYears    int                `yaml:"remaining_years" json:"remaining_years"`
	CurrentAge        int                `yaml:"current_age" json:"current_age"`
	Gender            domain.Gender      `yaml:"gender" json:"gender"`
	PolicyAnniversary time.Time          `yaml:"policy_anniversary" json:"policy_anniversary"`
}

// ReserveCalculation is the portfolio-level reserve and capital valuation.
type ReserveCalculation struct {
	PolicyReserves          decimal.Decimal `json:"policy_reserves"`
	UnearnedPremiumReserves decimal.Decimal `json:"unearned_premium_reserves"`
	ClaimsReserves          decimal.Decimal `json:"claims_reserves"`
	TotalReserves           decimal.Decimal `json:"total_reserves"`
	SolvencyMargin          decimal.Decimal `json:"solvency_margin"`
	RiskBasedCapital        decimal.Decimal `json:"risk_based_capital"`
	RequirementsMet         bool            `json:"regulatory_requirements_met"`
	ComplianceNotes         string          `json:"compliance_notes"`
}

var one = decimal.NewFromInt(1)

// PortfolioReserves values reserves for a policy portfolio at the given
// valuation date.
func (e *Engine) PortfolioReserves(snap *tables.Snapshot, portfolio []Policy, valuationDate time.Time) (*ReserveCalculation, error) {
	calc := &ReserveCalculation{}
	liabilityByProduct := make(map[domain.ProductType]decimal.Decimal)

	for i := range portfolio {
		policy := &portfolio[i]
		reserve, err := e.policyReserve(snap, policy)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", policy.PolicyID, err)
		}
		calc.PolicyReserves = calc.PolicyReserves.Add(reserve)
		calc.UnearnedPremiumReserves = calc.UnearnedPremiumReserves.Add(unearnedPremium(policy, valuationDate))
		calc.ClaimsReserves = calc.ClaimsReserves.Add(claimsReserve(snap, policy))
		liabilityByProduct[policy.ProductType] = liabilityByProduct[policy.ProductType].Add(policy.CoverageAmount)
	}
	calc.TotalReserves = calc.PolicyReserves.Add(calc.UnearnedPremiumReserves).Add(calc.ClaimsReserves)

	for productType, liability := range liabilityByProduct {
		calc.SolvencyMargin = calc.SolvencyMargin.Add(liability.Mul(snap.Regulatory.SolvencyMargins.ForProduct(productType)))
	}

	totalCoverage := decimal.Zero
	for _, liability := range liabilityByProduct {
		totalCoverage = totalCoverage.Add(liability)
	}
	calc.RiskBasedCapital = riskBasedCapital(snap.Regulatory.RBCFactors, totalCoverage, calc.TotalReserves)

	// Reserves must cover both the solvency margin and the RBC requirement.
	required := calc.SolvencyMargin
	if calc.RiskBasedCapital.GreaterThan(required) {
		required = calc.RiskBasedCapital
	}
	calc.RequirementsMet = calc.TotalReserves.GreaterThanOrEqual(required)
	calc.ComplianceNotes = complianceNotes(calc)

	e.Logger.Infof("portfolio valuation at %s: total reserves %s, requirements met: %t",
		valuationDate.Format("2006-01-02"), calc.TotalReserves.StringFixed(2), calc.RequirementsMet)
	return calc, nil
}

// policyReserve is the greater of the prospective reserve (PV future
// benefits less PV future premiums) and the minimum factor reserve.
func (e *Engine) policyReserve(snap *tables.Snapshot, policy *Policy) (decimal.Decimal, error) {
	benefitsPV, err := futureBenefitsPV(snap, policy)
	if err != nil {
		return decimal.Zero, err
	}
	premiumsPV, err := futurePremiumsPV(snap, policy)
	if err != nil {
		return decimal.Zero, err
	}

	factor, ok := snap.Regulatory.ReserveFactors[policy.ProductType]
	if !ok {
		return decimal.Zero, &domain.NotFoundError{Table: "reserve_factors", Key: string(policy.ProductType)}
	}
	floor := policy.CoverageAmount.Mul(factor)

	reserve := benefitsPV.Sub(premiumsPV)
	if reserve.LessThan(floor) {
		reserve = floor
	}
	return reserve, nil
}

func futureBenefitsPV(snap *tables.Snapshot, policy *Policy) (decimal.Decimal, error) {
	var ciRate decimal.Decimal
	if policy.ProductType == domain.ProductCriticalIllness {
		product, err := snap.Product(policy.ProductType)
		if err != nil {
			return decimal.Zero, err
		}
		for _, condition := range product.CoveredConditions {
			rate, err := snap.CriticalIllnessRate(condition, policy.CurrentAge, policy.Gender)
			if err != nil {
				return decimal.Zero, err
			}
			ciRate = ciRate.Add(rate)
		}
	}

	v := one.Div(one.Add(snap.PricingRate))
	discount := one
	pv := decimal.Zero
	for year := 0; year < policy.RemainingYears; year++ {
		q, err := snap.LookupMortality(policy.CurrentAge+year, policy.Gender)
		if err != nil {
			return decimal.Zero, err
		}
		pv = pv.Add(policy.CoverageAmount.Mul(q).Mul(discount))
		if policy.ProductType == domain.ProductCriticalIllness {
			pv = pv.Add(policy.CoverageAmount.Mul(ciRate).Mul(discount))
		}
		discount = discount.Mul(v)
	}
	return pv, nil
}

func futurePremiumsPV(snap *tables.Snapshot, policy *Policy) (decimal.Decimal, error) {
	v := one.Div(one.Add(snap.PricingRate))
	discount := one
	survival := one
	pv := decimal.Zero
	for year := 0; year < policy.RemainingYears; year++ {
		q, err := snap.LookupMortality(policy.CurrentAge+year, policy.Gender)
		if err != nil {
			return decimal.Zero, err
		}
		pv = pv.Add(policy.AnnualPremium.Mul(survival).Mul(discount))
		survival = survival.Mul(one.Sub(q))
		discount = discount.Mul(v)
	}
	return pv, nil
}

// unearnedPremium prorates the annual premium over the days remaining to
// the next policy anniversary.
func unearnedPremium(policy *Policy, valuationDate time.Time) decimal.Decimal {
	if policy.PolicyAnniversary.IsZero() || policy.AnnualPremium.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	next := time.Date(valuationDate.Year(), policy.PolicyAnniversary.Month(), policy.PolicyAnniversary.Day(), 0, 0, 0, 0, time.UTC)
	if !next.After(valuationDate) {
		next = next.AddDate(1, 0, 0)
	}
	daysRemaining := decimal.NewFromFloat(next.Sub(valuationDate).Hours() / 24)
	unearned := policy.AnnualPremium.Mul(daysRemaining).Div(decimal.NewFromInt(365))
	if unearned.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return unearned
}

func claimsReserve(snap *tables.Snapshot, policy *Policy) decimal.Decimal {
	factor, ok := snap.Regulatory.ClaimsReserveFactors[policy.ProductType]
	if !ok {
		return decimal.Zero
	}
	return policy.CoverageAmount.Mul(factor)
}

func complianceNotes(calc *ReserveCalculation) string {
	var b strings.Builder
	b.WriteString("RESERVE ADEQUACY ASSESSMENT\n\n")
	fmt.Fprintf(&b, "Total Policy Reserves: $%s\n", calc.PolicyReserves.StringFixed(2))
	fmt.Fprintf(&b, "Unearned Premium Reserves: $%s\n", calc.UnearnedPremiumReserves.StringFixed(2))
	fmt.Fprintf(&b, "Claims Reserves: $%s\n", calc.ClaimsReserves.StringFixed(2))
	fmt.Fprintf(&b, "Required Solvency Margin: $%s\n", calc.SolvencyMargin.StringFixed(2))
	fmt.Fprintf(&b, "Risk-Based Capital Requirement: $%s\n\n", calc.RiskBasedCapital.StringFixed(2))
	if calc.RequirementsMet {
		b.WriteString("REGULATORY COMPLIANCE: PASSED\nReserve levels meet or exceed regulatory minimums.")
	} else {
		b.WriteString("REGULATORY COMPLIANCE: FAILED\nReserve levels below regulatory requirements; increase reserves or reduce risk exposure.")
	}
	return b.String()
}
