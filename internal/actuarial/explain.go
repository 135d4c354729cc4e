package actuarial

import (
	"fmt"
	"strings"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
)

// explain renders the plain-language calculation summary attached to the
// quote.
func explain(p *Pricing, applicant *domain.ApplicantProfile, req *domain.ProductRequest) string {
	var b strings.Builder

	switch req.Type {
	case domain.ProductTermLife, domain.ProductWholeLife:
		fmt.Fprintf(&b, "%s Premium Calculation:\n\n", p.Product.Name)
		fmt.Fprintf(&b, "Applicant: %d-year-old %s\n", applicant.Age, applicant.Gender)
		fmt.Fprintf(&b, "Coverage: $%s\n", p.CoverageAmount.StringFixed(0))
		if req.Type == domain.ProductTermLife {
			fmt.Fprintf(&b, "Term: %d years\n", req.PolicyTerm)
		} else {
			b.WriteString("Term: lifetime, premiums level to age 100\n")
		}
		fmt.Fprintf(&b, "Risk Multiplier: %sx\n\n", p.RiskMultiplier.StringFixed(2))
		b.WriteString("Premium calculated from CSO 2017 mortality tables with present-value methodology at a 3.5% pricing rate, including expense loadings, profit margin, and commission.")

	case domain.ProductDisabilityIncome:
		b.WriteString("Disability Income Insurance Calculation:\n\n")
		fmt.Fprintf(&b, "Applicant: %d-year-old %s\n", applicant.Age, applicant.Gender)
		fmt.Fprintf(&b, "Occupation Class: %d\n", applicant.OccupationClass)
		fmt.Fprintf(&b, "Monthly Benefit: $%s\n", req.MonthlyBenefit.StringFixed(0))
		fmt.Fprintf(&b, "Benefit Period: %s\n", strings.ReplaceAll(req.BenefitPeriod, "_", " "))
		fmt.Fprintf(&b, "Waiting Period: %d days\n\n", req.WaitingPeriodDays)
		b.WriteString("Premium calculated from occupation-class morbidity tables with present-value methodology, benefit percentage and rate adjusted for the elected waiting period.")

	case domain.ProductCriticalIllness:
		b.WriteString("Critical Illness Insurance Calculation:\n\n")
		fmt.Fprintf(&b, "Applicant: %d-year-old %s\n", applicant.Age, applicant.Gender)
		fmt.Fprintf(&b, "Lump Sum Benefit: $%s\n", p.CoverageAmount.StringFixed(0))
		fmt.Fprintf(&b, "Covered Conditions: %s\n", strings.Join(p.Product.CoveredConditions, ", "))
		fmt.Fprintf(&b, "Risk Multiplier: %sx\n\n", p.RiskMultiplier.StringFixed(2))
		b.WriteString("Premium calculated from per-condition incidence tables summed across covered conditions, discounted over the policy term.")
	}

	return b.String()
}
