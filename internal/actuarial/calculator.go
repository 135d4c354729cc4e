// Package actuarial prices insurance products: mortality and morbidity cost
// accumulation, present-value premium composition, and gross premium
// loading. All present-value math runs on decimals at the table pricing
// rate; rounding to display precision happens at the quote boundary, not
// here.
package actuarial

import (
	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/logging"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// Horizon age for whole-life level premium payments.
const wholeLifeHorizonAge = 100

// Calculator prices a single product for a given applicant and risk
// multiplier.
type Calculator struct {
	Logger logging.Logger
}

// NewCalculator creates a calculator with no-op logging.
func NewCalculator() *Calculator {
	return &Calculator{Logger: logging.NopLogger{}}
}

// Pricing is the result of pricing one product. All amounts are annual and
// unrounded unless stated otherwise.
type Pricing struct {
	Product        *domain.ProductSpec
	CoverageAmount decimal.Decimal

	NetSinglePremium decimal.Decimal
	AnnuityFactor    decimal.Decimal
	NetAnnual        decimal.Decimal
	RiskMultiplier   decimal.Decimal
	NetAnnualRisk    decimal.Decimal

	ExpenseLoading decimal.Decimal
	ProfitMargin   decimal.Decimal
	Commission     decimal.Decimal
	GrossAnnual    decimal.Decimal
	GrossMonthly   decimal.Decimal

	Explanation string
}

// Price validates the request against product bounds and dispatches to the
// product methodology. Bounds are re-validated here even though upstream
// underwriting already filtered; the calculator fails loudly rather than
// extrapolate tables.
func (c *Calculator) Price(snap *tables.Snapshot, applicant *domain.ApplicantProfile, req *domain.ProductRequest, coverage, riskMultiplier decimal.Decimal) (*Pricing, error) {
	product, err := snap.Product(req.Type)
	if err != nil {
		return nil, err
	}
	if err := validate(product, applicant, req, coverage); err != nil {
		return nil, err
	}

	var pricing *Pricing
	switch req.Type {
	case domain.ProductTermLife, domain.ProductWholeLife:
		pricing, err = c.priceLife(snap, product, applicant, req, coverage)
	case domain.ProductDisabilityIncome:
		pricing, err = c.priceDisability(snap, product, applicant, req)
	case domain.ProductCriticalIllness:
		pricing, err = c.priceCriticalIllness(snap, product, applicant, coverage)
	default:
		return nil, &domain.OutOfRangeError{Field: "product_type", Value: string(req.Type)}
	}
	if err != nil {
		return nil, err
	}

	c.compose(pricing, product, riskMultiplier)
	pricing.Explanation = explain(pricing, applicant, req)
	c.Logger.Debugf("priced %s: net annual %s, gross annual %s (risk %sx)",
		req.Type, pricing.NetAnnual.StringFixed(2), pricing.GrossAnnual.StringFixed(2), riskMultiplier)
	return pricing, nil
}

// compose applies the risk loading then builds the gross premium.
//
// Commission is resolved algebraically, not iteratively: it is computed on
// the pre-commission gross base, so
//
//	grossBase  = netRisk * (1 + expense + profit)
//	commission = grossBase * commissionRate
//	gross      = grossBase + commission
//
// which keeps the composition deterministic and free of the circular
// "commission on gross" definition.
func (c *Calculator) compose(p *Pricing, product *domain.ProductSpec, riskMultiplier decimal.Decimal) {
	p.RiskMultiplier = riskMultiplier
	p.NetAnnualRisk = p.NetAnnual.Mul(riskMultiplier)

	grossBase := p.NetAnnualRisk.Mul(one.Add(product.ExpenseLoad).Add(product.ProfitMargin))
	p.ExpenseLoading = p.NetAnnualRisk.Mul(product.ExpenseLoad)
	p.ProfitMargin = p.NetAnnualRisk.Mul(product.ProfitMargin)
	p.Commission = grossBase.Mul(product.Commission)
	p.GrossAnnual = grossBase.Add(p.Commission)
	p.GrossMonthly = p.GrossAnnual.Div(twelve)
}

// validate re-checks age, coverage, and product-specific parameters against
// the product spec.
func validate(product *domain.ProductSpec, applicant *domain.ApplicantProfile, req *domain.ProductRequest, coverage decimal.Decimal) error {
	if applicant.Age < product.MinAge || applicant.Age > product.MaxAge {
		return &domain.OutOfRangeError{
			Field: "age",
			Value: decimal.NewFromInt(int64(applicant.Age)).String(),
			Min:   decimal.NewFromInt(int64(product.MinAge)).String(),
			Max:   decimal.NewFromInt(int64(product.MaxAge)).String(),
		}
	}
	if !applicant.Gender.Valid() {
		return &domain.OutOfRangeError{Field: "gender", Value: string(applicant.Gender)}
	}

	switch req.Type {
	case domain.ProductDisabilityIncome:
		if req.MonthlyBenefit.LessThan(product.MinMonthlyBenefit) || req.MonthlyBenefit.GreaterThan(product.MaxMonthlyBenefit) {
			return &domain.OutOfRangeError{
				Field: "monthly_benefit",
				Value: req.MonthlyBenefit.String(),
				Min:   product.MinMonthlyBenefit.String(),
				Max:   product.MaxMonthlyBenefit.String(),
			}
		}
		if len(product.BenefitPeriods) > 0 && !contains(product.BenefitPeriods, req.BenefitPeriod) {
			return &domain.OutOfRangeError{Field: "benefit_period", Value: req.BenefitPeriod}
		}
	default:
		if coverage.LessThan(product.MinCoverage) || coverage.GreaterThan(product.MaxCoverage) {
			return &domain.OutOfRangeError{
				Field: "coverage",
				Value: coverage.String(),
				Min:   product.MinCoverage.String(),
				Max:   product.MaxCoverage.String(),
			}
		}
		if req.Type == domain.ProductTermLife && !product.OffersTerm(req.PolicyTerm) {
			return &domain.OutOfRangeError{
				Field: "policy_term",
				Value: decimal.NewFromInt(int64(req.PolicyTerm)).String(),
			}
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
