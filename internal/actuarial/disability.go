package actuarial

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

// Disability benefit periods run at most to this age, and premiums are paid
// to it as well.
const disabilityTerminalAge = 65

// priceDisability computes the level annual net premium for disability
// income. The benefit present value discounts the expected annual benefit
// (incidence rate x annual benefit) over the benefit period; the waiting
// period election scales the effective benefit percentage and adjusts the
// incidence rate per the waiting-period table.
func (c *Calculator) priceDisability(snap *tables.Snapshot, product *domain.ProductSpec, applicant *domain.ApplicantProfile, req *domain.ProductRequest) (*Pricing, error) {
	rate, err := snap.LookupMorbidity(applicant.OccupationClass, applicant.Age, applicant.Gender)
	if err != nil {
		return nil, err
	}
	wp, err := snap.WaitingPeriod(req.WaitingPeriodDays)
	if err != nil {
		return nil, err
	}

	benefitYears, err := benefitPeriodYears(req.BenefitPeriod, applicant.Age)
	if err != nil {
		return nil, err
	}
	payingYears := disabilityTerminalAge - applicant.Age
	if payingYears <= 0 {
		return nil, &domain.OutOfRangeError{
			Field: "age",
			Value: strconv.Itoa(applicant.Age),
			Max:   strconv.Itoa(disabilityTerminalAge - 1),
		}
	}

	annualBenefit := req.MonthlyBenefit.Mul(twelve).Mul(wp.BenefitPercentage)
	effectiveRate := rate.Mul(wp.RateAdjustment)

	v := one.Div(one.Add(snap.PricingRate))
	discount := one
	benefitPV := decimal.Zero
	for year := 0; year < benefitYears; year++ {
		benefitPV = benefitPV.Add(annualBenefit.Mul(effectiveRate).Mul(discount))
		discount = discount.Mul(v)
	}

	annuity, err := premiumAnnuityFactor(snap, applicant.Age, applicant.Gender, payingYears)
	if err != nil {
		return nil, err
	}

	return &Pricing{
		Product:          product,
		CoverageAmount:   req.MonthlyBenefit.Mul(twelve),
		NetSinglePremium: benefitPV,
		AnnuityFactor:    annuity,
		NetAnnual:        benefitPV.Div(annuity),
	}, nil
}

// benefitPeriodYears parses a benefit-period code: "to_age_65" or a
// fixed-year code like "2_years" / "5_years".
func benefitPeriodYears(period string, age int) (int, error) {
	if period == "to_age_65" {
		years := disabilityTerminalAge - age
		if years <= 0 {
			return 0, &domain.OutOfRangeError{Field: "age", Value: strconv.Itoa(age), Max: strconv.Itoa(disabilityTerminalAge - 1)}
		}
		return years, nil
	}
	head, _, found := strings.Cut(period, "_")
	if !found {
		return 0, &domain.OutOfRangeError{Field: "benefit_period", Value: period}
	}
	years, err := strconv.Atoi(head)
	if err != nil || years <= 0 {
		return 0, &domain.OutOfRangeError{Field: "benefit_period", Value: period}
	}
	return years, nil
}
