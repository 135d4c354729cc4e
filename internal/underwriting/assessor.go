// Package underwriting turns an applicant profile into a risk assessment:
// per-dimension multipliers, a capped overall multiplier, a binding coverage
// cap, and an underwriting decision resolved by an ordered rule chain.
package underwriting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/logging"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// Assessor performs comprehensive risk assessment against a table snapshot.
type Assessor struct {
	Logger logging.Logger
}

// NewAssessor creates an assessor with no-op logging.
func NewAssessor() *Assessor {
	return &Assessor{Logger: logging.NopLogger{}}
}

// evaluation accumulates the intermediate state of one assessment and feeds
// the decision rules.
type evaluation struct {
	snap      *tables.Snapshot
	applicant *domain.ApplicantProfile
	product   *domain.ProductSpec
	request   *domain.ProductRequest

	medical    decimal.Decimal
	lifestyle  decimal.Decimal
	occupation decimal.Decimal
	overall    decimal.Decimal
	capped     bool

	financialScore decimal.Decimal
	riskFactors    []string

	nonInsurableCondition string
	conditionMaxCoverage  *decimal.Decimal // tightest condition or activity cap
	financialMaxCoverage  *decimal.Decimal // income multiple / benefit pct cap
	netWorthMaxCoverage   *decimal.Decimal // net-worth tier cap
}

// Assess evaluates one applicant for one product request. Factor strings are
// appended in evaluation order (medical, lifestyle, occupation, financial);
// downstream display relies on that order.
func (a *Assessor) Assess(snap *tables.Snapshot, applicant *domain.ApplicantProfile, req *domain.ProductRequest) (*domain.RiskAssessment, error) {
	product, err := snap.Product(req.Type)
	if err != nil {
		return nil, err
	}

	ev := &evaluation{
		snap:           snap,
		applicant:      applicant,
		product:        product,
		request:        req,
		medical:        one,
		lifestyle:      one,
		occupation:     one,
		financialScore: one,
	}

	if err := ev.assessMedical(); err != nil {
		return nil, err
	}
	if err := ev.assessLifestyle(); err != nil {
		return nil, err
	}
	if err := ev.assessOccupation(); err != nil {
		return nil, err
	}
	ev.assessFinancial()

	ev.overall = ev.medical.Mul(ev.lifestyle).Mul(ev.occupation)
	if cap := snap.Regulatory.MaxRiskMultiplier; ev.overall.GreaterThan(cap) {
		ev.overall = cap
		ev.capped = true
	}

	decision, rule := resolveDecision(ev)
	a.Logger.Debugf("underwriting decision %s for %s via rule %s (overall %s)",
		decision, req.Type, rule, ev.overall)

	assessment := &domain.RiskAssessment{
		MedicalMultiplier:    ev.medical,
		LifestyleMultiplier:  ev.lifestyle,
		OccupationMultiplier: ev.occupation,
		FinancialMultiplier:  one,
		OverallMultiplier:    ev.overall,
		FinancialScore:       ev.financialScore,
		RiskFactors:          ev.riskFactors,
		Decision:             decision,
		MaximumCoverage:      ev.maximumCoverage(decision),
	}
	assessment.Notes = composeNotes(ev, assessment)
	return assessment, nil
}

// assessMedical compounds declared condition multipliers (comorbidities
// multiply, never max or sum), tracks the tightest per-condition coverage
// cap, then layers BMI and the over-60 condition adjustment.
func (ev *evaluation) assessMedical() error {
	for _, code := range ev.applicant.MedicalConditions {
		rule, err := ev.snap.LookupConditionRule(code)
		if err != nil {
			return err
		}
		ev.medical = ev.medical.Mul(rule.Multiplier)
		ev.riskFactors = append(ev.riskFactors,
			fmt.Sprintf("Medical: %s (Risk: %sx)", code, trimZeros(rule.Multiplier)))
		if !rule.Insurable && ev.nonInsurableCondition == "" {
			ev.nonInsurableCondition = code
		}
		if rule.MaxCoverage != nil {
			if ev.conditionMaxCoverage == nil || rule.MaxCoverage.LessThan(*ev.conditionMaxCoverage) {
				capCopy := *rule.MaxCoverage
				ev.conditionMaxCoverage = &capCopy
			}
		}
	}

	if bmi := ev.applicant.BMI(); bmi.GreaterThan(decimal.Zero) {
		mult, factor := bmiRisk(bmi)
		ev.medical = ev.medical.Mul(mult)
		if factor != "" {
			ev.riskFactors = append(ev.riskFactors, factor)
		}
	}

	if len(ev.applicant.MedicalConditions) > 0 && ev.applicant.Age > 60 {
		adj := decimal.NewFromFloat(1.1)
		ev.medical = ev.medical.Mul(adj)
		ev.riskFactors = append(ev.riskFactors,
			fmt.Sprintf("Age adjustment for medical conditions: %sx", trimZeros(adj)))
	}
	return nil
}

func (ev *evaluation) assessLifestyle() error {
	smoking, err := ev.snap.LookupSmokingRule(ev.applicant.SmokingStatus)
	if err != nil {
		return err
	}
	ev.lifestyle = ev.lifestyle.Mul(smoking.Multiplier)
	if !smoking.Multiplier.Equal(one) {
		ev.riskFactors = append(ev.riskFactors,
			fmt.Sprintf("Smoking: %s (%sx multiplier)", ev.applicant.SmokingStatus, trimZeros(smoking.Multiplier)))
	}

	alcohol, err := ev.snap.LookupAlcoholRule(ev.applicant.AlcoholUse)
	if err != nil {
		return err
	}
	ev.lifestyle = ev.lifestyle.Mul(alcohol.Multiplier)
	if alcohol.Multiplier.GreaterThan(one) {
		ev.riskFactors = append(ev.riskFactors,
			fmt.Sprintf("Alcohol use: %s (%sx multiplier)", ev.applicant.AlcoholUse, trimZeros(alcohol.Multiplier)))
	}

	for _, activity := range ev.applicant.HazardousActivities {
		rule, err := ev.snap.LookupHazardousActivityRule(activity)
		if err != nil {
			return err
		}
		ev.lifestyle = ev.lifestyle.Mul(rule.Multiplier)
		ev.riskFactors = append(ev.riskFactors,
			fmt.Sprintf("Hazardous activity: %s (%sx multiplier)", activity, trimZeros(rule.Multiplier)))
		if rule.MaxCoverage != nil {
			if ev.conditionMaxCoverage == nil || rule.MaxCoverage.LessThan(*ev.conditionMaxCoverage) {
				capCopy := *rule.MaxCoverage
				ev.conditionMaxCoverage = &capCopy
			}
		}
	}
	return nil
}

func (ev *evaluation) assessOccupation() error {
	rule, err := ev.snap.LookupOccupationRule(ev.applicant.OccupationClass)
	if err != nil {
		return err
	}
	ev.occupation = rule.Multiplier
	if !rule.Multiplier.Equal(one) {
		ev.riskFactors = append(ev.riskFactors,
			fmt.Sprintf("Occupation: %s - Class %d (%sx)",
				titleOrUnknown(ev.applicant.OccupationTitle), ev.applicant.OccupationClass, trimZeros(rule.Multiplier)))
	}

	if ev.applicant.OccupationClass >= 4 && ev.applicant.Age > 50 {
		adj := decimal.NewFromFloat(1.2)
		ev.occupation = ev.occupation.Mul(adj)
		ev.riskFactors = append(ev.riskFactors,
			fmt.Sprintf("Age + hazardous occupation adjustment: %sx", trimZeros(adj)))
	}

	// Consistency between declared class and job title text is flagged for
	// review, never hard-failed.
	if hint := classHintFromTitle(ev.applicant.OccupationTitle); hint != 0 && hint != ev.applicant.OccupationClass {
		ev.riskFactors = append(ev.riskFactors,
			fmt.Sprintf("Occupation class %d inconsistent with title %q (suggests class %d) - flagged for review",
				ev.applicant.OccupationClass, ev.applicant.OccupationTitle, hint))
	}
	return nil
}

// assessFinancial grades financial capacity. Findings never scale the price
// multiplier; they raise the score (2 = adjustable breach, 3 = hard gate)
// and tighten the binding coverage cap.
func (ev *evaluation) assessFinancial() {
	income := ev.applicant.AnnualIncome
	requested := ev.request.RequestedCoverage()
	fin := ev.snap.Financial

	if ev.request.Type.IsLife() {
		limit := income.Mul(fin.MaxIncomeMultipleLife)
		ev.financialMaxCoverage = &limit
		if requested.GreaterThan(limit) {
			ev.setFinancialScore(decimal.NewFromInt(3))
			ev.riskFactors = append(ev.riskFactors,
				fmt.Sprintf("Coverage exceeds %sx annual income limit", trimZeros(fin.MaxIncomeMultipleLife)))
		}
	} else if ev.request.Type == domain.ProductDisabilityIncome {
		monthlyLimit := income.Div(twelve).Mul(fin.MaxBenefitPctDisability)
		annualLimit := monthlyLimit.Mul(twelve)
		ev.financialMaxCoverage = &annualLimit
		if ev.request.MonthlyBenefit.GreaterThan(monthlyLimit) {
			ev.setFinancialScore(decimal.NewFromInt(3))
			ev.riskFactors = append(ev.riskFactors,
				fmt.Sprintf("Monthly benefit exceeds %s%% of monthly income",
					trimZeros(fin.MaxBenefitPctDisability.Mul(decimal.NewFromInt(100)))))
		}
	}

	// Net-worth tiers, tightest unmet tier wins. A breach of the highest
	// tier gates outright; lower tiers are adjustable by reducing coverage.
	for i := len(fin.NetWorthTiers) - 1; i >= 0; i-- {
		tier := fin.NetWorthTiers[i]
		if requested.GreaterThanOrEqual(tier.Threshold) && ev.applicant.NetWorth.LessThan(tier.MinNetWorth) {
			score := decimal.NewFromInt(2)
			if i == len(fin.NetWorthTiers)-1 {
				score = decimal.NewFromInt(3)
			}
			ev.setFinancialScore(score)
			capCopy := tier.Threshold
			ev.netWorthMaxCoverage = &capCopy
			ev.riskFactors = append(ev.riskFactors,
				fmt.Sprintf("Net worth below $%s requirement for $%s coverage",
					tier.MinNetWorth.StringFixed(0), requested.StringFixed(0)))
			break
		}
	}

	if fin.MaxDebtToIncome.GreaterThan(decimal.Zero) {
		if dti := ev.applicant.DebtToIncome(); dti.GreaterThan(fin.MaxDebtToIncome) {
			ev.financialScore = ev.financialScore.Mul(decimal.NewFromFloat(1.3))
			ev.riskFactors = append(ev.riskFactors,
				fmt.Sprintf("High debt-to-income ratio: %s%%", dti.Mul(decimal.NewFromInt(100)).StringFixed(1)))
		}
	}
}

func (ev *evaluation) setFinancialScore(score decimal.Decimal) {
	if score.GreaterThan(ev.financialScore) {
		ev.financialScore = score
	}
}

// maximumCoverage is the binding cap: the minimum of the product maximum,
// the tightest per-condition cap, the income-multiple limit, and the
// net-worth tier limit. Zero once declined.
func (ev *evaluation) maximumCoverage(decision domain.UnderwritingDecision) decimal.Decimal {
	if decision == domain.DecisionDeclined {
		return decimal.Zero
	}
	maxCov := ev.product.MaxCoverage
	for _, cap := range []*decimal.Decimal{ev.conditionMaxCoverage, ev.financialMaxCoverage, ev.netWorthMaxCoverage} {
		if cap != nil && cap.LessThan(maxCov) {
			maxCov = *cap
		}
	}
	return maxCov
}

func titleOrUnknown(title string) string {
	if title == "" {
		return "Unknown"
	}
	return title
}

// trimZeros renders a decimal without trailing fractional zeros for factor
// strings ("1.25x", "2x").
func trimZeros(d decimal.Decimal) string {
	return d.String()
}
