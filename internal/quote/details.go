package quote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
)

// policyDetails builds the product-specific policy description attached to
// an approved quote.
func policyDetails(product *domain.ProductSpec, applicant *domain.ApplicantProfile, req *domain.ProductRequest, coverage decimal.Decimal) domain.PolicyDetails {
	switch product.Type {
	case domain.ProductTermLife, domain.ProductWholeLife:
		return lifeDetails(product, applicant, req, coverage)
	case domain.ProductDisabilityIncome:
		return disabilityDetails(applicant, req)
	case domain.ProductCriticalIllness:
		return criticalIllnessDetails(product, applicant, coverage)
	}
	return domain.PolicyDetails{PolicyType: product.Name}
}

func lifeDetails(product *domain.ProductSpec, applicant *domain.ApplicantProfile, req *domain.ProductRequest, coverage decimal.Decimal) domain.PolicyDetails {
	term := fmt.Sprintf("%d years", req.PolicyTerm)
	payment := term
	if product.Type == domain.ProductWholeLife {
		term = "Life"
		payment = "Life"
	}
	beneficiary := applicant.Beneficiary
	if beneficiary == "" {
		beneficiary = "To be designated"
	}
	return domain.PolicyDetails{
		PolicyType:           product.Name,
		InsuredName:          insuredName(applicant),
		Gender:               titleCase(string(applicant.Gender)),
		DeathBenefit:         &coverage,
		PolicyTerm:           term,
		PremiumPaymentPeriod: payment,
		Beneficiary:          beneficiary,
		PolicyFeatures:       lifeFeatures(product.Type),
		Exclusions:           lifeExclusions,
		ConversionOptions:    conversionOptions(product.Type),
		RenewalProvisions:    renewalProvisions(product.Type),
	}
}

func disabilityDetails(applicant *domain.ApplicantProfile, req *domain.ProductRequest) domain.PolicyDetails {
	benefit := req.MonthlyBenefit
	return domain.PolicyDetails{
		PolicyType:     "Disability Income Insurance",
		InsuredName:    insuredName(applicant),
		Occupation:     occupationOrUnknown(applicant.OccupationTitle),
		MonthlyBenefit: &benefit,
		BenefitPeriod:  titleCase(strings.ReplaceAll(req.BenefitPeriod, "_", " ")),
		WaitingPeriod:  fmt.Sprintf("%d days", req.WaitingPeriodDays),
		Exclusions:     disabilityExclusions,
		Renewability:   "Guaranteed renewable to age 65",
	}
}

func criticalIllnessDetails(product *domain.ProductSpec, applicant *domain.ApplicantProfile, coverage decimal.Decimal) domain.PolicyDetails {
	return domain.PolicyDetails{
		PolicyType:        "Critical Illness Insurance",
		InsuredName:       insuredName(applicant),
		LumpSumBenefit:    &coverage,
		CoveredConditions: product.CoveredConditions,
		SurvivalPeriod:    "30 days from diagnosis",
		PolicyTerm:        "20 years",
		Renewability:      "Guaranteed renewable",
		Exclusions:        criticalIllnessExclusions,
	}
}

var lifeExclusions = []string{
	"Suicide within first 2 years",
	"Death due to war or military service",
	"Death while committing a felony",
}

var disabilityExclusions = []string{
	"Pre-existing conditions (first 12 months)",
	"Intentionally self-inflicted injuries",
	"Disabilities due to war or military service",
	"Normal pregnancy and childbirth",
}

var criticalIllnessExclusions = []string{
	"Pre-existing conditions",
	"Self-inflicted conditions",
	"Conditions due to alcohol or drug abuse",
	"Conditions diagnosed within first 90 days",
}

func lifeFeatures(t domain.ProductType) []string {
	features := []string{
		"Accelerated death benefit for terminal illness",
		"Waiver of premium for disability",
		"31-day grace period for premium payments",
	}
	if t == domain.ProductWholeLife {
		return append(features,
			"Cash value accumulation",
			"Policy loan availability",
			"Dividend participation (if applicable)")
	}
	return append(features, "Convertible to permanent insurance")
}

func conversionOptions(t domain.ProductType) string {
	if t == domain.ProductTermLife {
		return "Convertible to whole life or universal life without medical exam within first 10 years"
	}
	return "Not applicable"
}

func renewalProvisions(t domain.ProductType) string {
	switch t {
	case domain.ProductTermLife:
		return "Guaranteed renewable to age 95 with level premiums during initial term"
	case domain.ProductWholeLife:
		return "Permanent coverage with guaranteed premiums"
	}
	return "As specified in policy contract"
}

func insuredName(applicant *domain.ApplicantProfile) string {
	if applicant.Name == "" {
		return "Applicant"
	}
	return applicant.Name
}

func occupationOrUnknown(title string) string {
	if title == "" {
		return "Unknown"
	}
	return title
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
