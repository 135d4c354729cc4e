package underwriting

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

func testSnapshot(t *testing.T) *tables.Snapshot {
	t.Helper()
	store, err := tables.Open("../../data")
	require.NoError(t, err)
	return store.Snapshot()
}

// cleanApplicant has no ratable findings: neutral BMI, class 1 office
// occupation, and ample income for the default request.
func cleanApplicant() *domain.ApplicantProfile {
	return &domain.ApplicantProfile{
		Name:            "Jordan Reyes",
		Age:             35,
		Gender:          domain.GenderMale,
		HeightInches:    decimal.NewFromInt(70),
		WeightPounds:    decimal.NewFromInt(170),
		SmokingStatus:   "non_smoker",
		AlcoholUse:      "moderate_use",
		OccupationClass: 1,
		OccupationTitle: "Financial Analyst",
		AnnualIncome:    decimal.NewFromInt(100000),
		NetWorth:        decimal.NewFromInt(350000),
	}
}

func termLifeRequest(coverage int64) *domain.ProductRequest {
	return &domain.ProductRequest{
		Type:           domain.ProductTermLife,
		CoverageAmount: decimal.NewFromInt(coverage),
		PolicyTerm:     20,
	}
}

func TestAssessCleanProfileIsPreferred(t *testing.T) {
	snap := testSnapshot(t)
	assessment, err := NewAssessor().Assess(snap, cleanApplicant(), termLifeRequest(500000))
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionApprovedPreferred, assessment.Decision)
	assert.True(t, assessment.OverallMultiplier.Equal(decimal.NewFromInt(1)),
		"clean profile should be 1.0x, got %s", assessment.OverallMultiplier)
	assert.Empty(t, assessment.RiskFactors)
	assert.True(t, assessment.FinancialMultiplier.Equal(decimal.NewFromInt(1)),
		"financial findings gate, they never scale price")

	// Income-multiple cap binds below the product maximum: 20x of 100k.
	assert.True(t, assessment.MaximumCoverage.Equal(decimal.NewFromInt(2000000)),
		"expected income-multiple cap, got %s", assessment.MaximumCoverage)
}

func TestAssessComorbiditiesCompound(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.MedicalConditions = []string{"hypertension_controlled", "diabetes_type2_controlled"}

	assessment, err := NewAssessor().Assess(snap, applicant, termLifeRequest(500000))
	require.NoError(t, err)

	// 1.25 * 1.5, multiplicative, never additive or max-of.
	assert.True(t, assessment.MedicalMultiplier.Equal(decimal.NewFromFloat(1.875)),
		"comorbidities multiply: got %s", assessment.MedicalMultiplier)
	assert.Equal(t, domain.DecisionApprovedSubstandard, assessment.Decision)
	require.Len(t, assessment.RiskFactors, 2)
	assert.True(t, strings.HasPrefix(assessment.RiskFactors[0], "Medical: hypertension_controlled"),
		"factor order must follow evaluation order, got %q", assessment.RiskFactors[0])
}

func TestAssessHighRiskProfilePostponed(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.Age = 55
	applicant.MedicalConditions = []string{"hypertension_controlled", "diabetes_type2_controlled"}
	applicant.SmokingStatus = "current_smoker"
	applicant.OccupationClass = 4
	applicant.OccupationTitle = "Construction Foreman"
	applicant.AnnualIncome = decimal.NewFromInt(250000)

	assessment, err := NewAssessor().Assess(snap, applicant, termLifeRequest(500000))
	require.NoError(t, err)

	// medical 1.875 * smoking 2.0 * occupation 1.5 * age+occupation 1.2 = 6.75
	assert.True(t, assessment.OverallMultiplier.Equal(decimal.NewFromFloat(6.75)),
		"expected 6.75x, got %s", assessment.OverallMultiplier)
	assert.Equal(t, domain.DecisionPostponed, assessment.Decision,
		"multipliers above the review threshold postpone, not decline")
	assert.Contains(t, assessment.Notes, "Decision: Postponed")
}

func TestAssessOverallMultiplierCapped(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.MedicalConditions = []string{"heart_disease"}
	applicant.SmokingStatus = "current_smoker"
	applicant.AlcoholUse = "heavy_use"
	applicant.HazardousActivities = []string{"base_jumping"}

	assessment, err := NewAssessor().Assess(snap, applicant, termLifeRequest(200000))
	require.NoError(t, err)

	// 2.5 * 2.0 * 1.75 * 3.0 = 26.25, capped at the regulatory ceiling.
	assert.True(t, assessment.OverallMultiplier.Equal(snap.Regulatory.MaxRiskMultiplier),
		"overall multiplier must cap at %s, got %s", snap.Regulatory.MaxRiskMultiplier, assessment.OverallMultiplier)
	assert.Equal(t, domain.DecisionPostponed, assessment.Decision)

	// base_jumping (250k) binds below heart_disease (500k).
	assert.True(t, assessment.MaximumCoverage.Equal(decimal.NewFromInt(250000)),
		"tightest condition cap should bind, got %s", assessment.MaximumCoverage)
}

func TestAssessNonInsurableConditionDeclined(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.MedicalConditions = []string{"cancer_active"}

	assessment, err := NewAssessor().Assess(snap, applicant, termLifeRequest(500000))
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionDeclined, assessment.Decision)
	assert.True(t, assessment.MaximumCoverage.IsZero(), "declined applications carry zero coverage")
	assert.Contains(t, assessment.Notes, "Decision: Declined")
}

func TestAssessIncomeMultipleHardGate(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.AnnualIncome = decimal.NewFromInt(50000)

	assessment, err := NewAssessor().Assess(snap, applicant, termLifeRequest(2000000))
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionDeclined, assessment.Decision,
		"coverage beyond the income multiple is a hard financial gate")
	assert.True(t, assessment.FinancialScore.GreaterThanOrEqual(decimal.NewFromInt(3)))
	assert.True(t, assessment.OverallMultiplier.Equal(decimal.NewFromInt(1)),
		"financial gate must not inflate the price multiplier")
}

func TestAssessDisabilityBenefitGate(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.AnnualIncome = decimal.NewFromInt(60000)

	req := &domain.ProductRequest{
		Type:              domain.ProductDisabilityIncome,
		MonthlyBenefit:    decimal.NewFromInt(4000),
		BenefitPeriod:     "to_age_65",
		WaitingPeriodDays: 90,
	}
	assessment, err := NewAssessor().Assess(snap, applicant, req)
	require.NoError(t, err)

	// 60% of 5,000/month income supports at most 3,000/month.
	assert.Equal(t, domain.DecisionDeclined, assessment.Decision)
}

func TestAssessNetWorthTierCapsCoverage(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.NetWorth = decimal.NewFromInt(200000)

	assessment, err := NewAssessor().Assess(snap, applicant, termLifeRequest(1500000))
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionApprovedStandard, assessment.Decision,
		"a lower-tier net worth breach is adjustable, not declinable")
	assert.True(t, assessment.FinancialScore.Equal(decimal.NewFromInt(2)),
		"expected score 2, got %s", assessment.FinancialScore)
	assert.True(t, assessment.MaximumCoverage.Equal(decimal.NewFromInt(1000000)),
		"coverage caps at the unmet tier threshold, got %s", assessment.MaximumCoverage)
}

func TestAssessAgeOutsideProductBoundsDeclined(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.Age = 77

	assessment, err := NewAssessor().Assess(snap, applicant, termLifeRequest(500000))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionDeclined, assessment.Decision)
}

func TestAssessAgeAdjustmentForConditionsOver60(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.Age = 62
	applicant.MedicalConditions = []string{"hypertension_controlled"}

	assessment, err := NewAssessor().Assess(snap, applicant, termLifeRequest(400000))
	require.NoError(t, err)

	// 1.25 * 1.1 age adjustment
	assert.True(t, assessment.MedicalMultiplier.Equal(decimal.NewFromFloat(1.375)),
		"expected 1.375x, got %s", assessment.MedicalMultiplier)
	assert.Contains(t, strings.Join(assessment.RiskFactors, "\n"), "Age adjustment for medical conditions")
}

func TestAssessUnknownConditionFailsLoudly(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.MedicalConditions = []string{"unlisted_condition"}

	_, err := NewAssessor().Assess(snap, applicant, termLifeRequest(500000))
	require.Error(t, err, "unknown rule codes must never default to a neutral rate")
}

func TestBMIRiskBands(t *testing.T) {
	tests := []struct {
		bmi        float64
		multiplier float64
		labelled   bool
	}{
		{17.0, 1.2, true},
		{22.0, 1.0, false},
		{27.5, 1.1, true},
		{32.0, 1.3, true},
		{37.0, 2.0, true},
		{45.0, 3.0, true},
	}
	for _, tt := range tests {
		mult, factor := bmiRisk(decimal.NewFromFloat(tt.bmi))
		assert.True(t, mult.Equal(decimal.NewFromFloat(tt.multiplier)),
			"BMI %.1f: expected %.1fx, got %s", tt.bmi, tt.multiplier, mult)
		assert.Equal(t, tt.labelled, factor != "", "BMI %.1f factor string", tt.bmi)
	}
}

func TestClassHintFromTitle(t *testing.T) {
	assert.Equal(t, 1, classHintFromTitle("Senior Software Engineer"))
	assert.Equal(t, 4, classHintFromTitle("Commercial Roofer"))
	assert.Equal(t, 5, classHintFromTitle("Offshore Rig Operator"))
	assert.Equal(t, 0, classHintFromTitle(""))
	assert.Equal(t, 0, classHintFromTitle("Beekeeper"))
}

func TestOccupationTitleInconsistencyFlagged(t *testing.T) {
	snap := testSnapshot(t)
	applicant := cleanApplicant()
	applicant.OccupationClass = 1
	applicant.OccupationTitle = "Roofer"

	assessment, err := NewAssessor().Assess(snap, applicant, termLifeRequest(500000))
	require.NoError(t, err)

	assert.Contains(t, strings.Join(assessment.RiskFactors, "\n"), "flagged for review")
	assert.True(t, assessment.Decision.Approved(), "a title mismatch alone never declines")
}
