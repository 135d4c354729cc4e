package actuarial

import (
	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

// Critical illness policies run a fixed 20-year term.
const criticalIllnessTermYears = 20

// priceCriticalIllness computes the level annual net premium for a lump-sum
// critical illness benefit. Incidence rates for every condition the product
// covers are summed at the applicant's age band, then discounted over the
// policy term like a death benefit.
func (c *Calculator) priceCriticalIllness(snap *tables.Snapshot, product *domain.ProductSpec, applicant *domain.ApplicantProfile, coverage decimal.Decimal) (*Pricing, error) {
	totalRate := decimal.Zero
	for _, condition := range product.CoveredConditions {
		rate, err := snap.CriticalIllnessRate(condition, applicant.Age, applicant.Gender)
		if err != nil {
			return nil, err
		}
		totalRate = totalRate.Add(rate)
	}

	v := one.Div(one.Add(snap.PricingRate))
	discount := one
	benefitPV := decimal.Zero
	for year := 0; year < criticalIllnessTermYears; year++ {
		benefitPV = benefitPV.Add(coverage.Mul(totalRate).Mul(discount))
		discount = discount.Mul(v)
	}

	annuity, err := premiumAnnuityFactor(snap, applicant.Age, applicant.Gender, criticalIllnessTermYears)
	if err != nil {
		return nil, err
	}

	return &Pricing{
		Product:          product,
		CoverageAmount:   coverage,
		NetSinglePremium: benefitPV,
		AnnuityFactor:    annuity,
		NetAnnual:        benefitPV.Div(annuity),
	}, nil
}
