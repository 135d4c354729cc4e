package actuarial

import (
	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

// priceLife computes the level annual net premium for term and whole life.
// The net single premium discounts each policy year's expected death benefit
// at the pricing rate; dividing by the lapse- and survival-adjusted annuity
// factor levels it across the premium-paying period.
func (c *Calculator) priceLife(snap *tables.Snapshot, product *domain.ProductSpec, applicant *domain.ApplicantProfile, req *domain.ProductRequest, coverage decimal.Decimal) (*Pricing, error) {
	term := req.PolicyTerm
	if req.Type == domain.ProductWholeLife {
		term = wholeLifeHorizonAge - applicant.Age
	}
	if term <= 0 {
		return nil, &domain.OutOfRangeError{Field: "policy_term", Value: decimal.NewFromInt(int64(term)).String()}
	}

	nsp, err := netSinglePremium(snap, applicant.Age, applicant.Gender, coverage, term)
	if err != nil {
		return nil, err
	}
	annuity, err := premiumAnnuityFactor(snap, applicant.Age, applicant.Gender, term)
	if err != nil {
		return nil, err
	}

	return &Pricing{
		Product:          product,
		CoverageAmount:   coverage,
		NetSinglePremium: nsp,
		AnnuityFactor:    annuity,
		NetAnnual:        nsp.Div(annuity),
	}, nil
}

// netSinglePremium accumulates coverage * q(x+t) * v^t over the policy term.
func netSinglePremium(snap *tables.Snapshot, age int, gender domain.Gender, coverage decimal.Decimal, term int) (decimal.Decimal, error) {
	v := one.Div(one.Add(snap.PricingRate))
	discount := one
	total := decimal.Zero
	for year := 0; year < term; year++ {
		q, err := snap.LookupMortality(age+year, gender)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(coverage.Mul(q).Mul(discount))
		discount = discount.Mul(v)
	}
	return total, nil
}

// premiumAnnuityFactor is the present value of one unit of level annual
// premium over the paying period. Each year's contribution is discounted and
// weighted by the probability the policy is still premium-paying: survival
// compounds (1 - q) and persistency compounds (1 - lapse). Lapse reduces the
// expected number of payments, which raises the level premium.
func premiumAnnuityFactor(snap *tables.Snapshot, age int, gender domain.Gender, term int) (decimal.Decimal, error) {
	v := one.Div(one.Add(snap.PricingRate))
	discount := one
	survival := one
	persistency := one
	factor := decimal.Zero
	for year := 0; year < term; year++ {
		factor = factor.Add(survival.Mul(persistency).Mul(discount))

		q, err := snap.LookupMortality(age+year, gender)
		if err != nil {
			return decimal.Zero, err
		}
		survival = survival.Mul(one.Sub(q))
		persistency = persistency.Mul(one.Sub(snap.LapseRate(year + 1)))
		discount = discount.Mul(v)
	}
	if factor.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &domain.OutOfRangeError{Field: "annuity_factor", Value: factor.String()}
	}
	return factor, nil
}
