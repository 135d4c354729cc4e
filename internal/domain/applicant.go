package domain

import (
	"github.com/shopspring/decimal"
)

// Gender is the tabulated gender used for mortality and morbidity lookups.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether the gender matches a tabulated value.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// ApplicantProfile is the normalized applicant supplied by the intake layer.
// Type coercion and required-field checks happen upstream; the engine only
// validates values against product and table bounds.
type ApplicantProfile struct {
	Name                string          `yaml:"name" json:"name"`
	Age                 int             `yaml:"age" json:"age"`
	Gender              Gender          `yaml:"gender" json:"gender"`
	HeightInches        decimal.Decimal `yaml:"height_inches" json:"height_inches"`
	WeightPounds        decimal.Decimal `yaml:"weight_pounds" json:"weight_pounds"`
	MedicalConditions   []string        `yaml:"medical_conditions" json:"medical_conditions"`
	SmokingStatus       string          `yaml:"smoking_status" json:"smoking_status"`
	AlcoholUse          string          `yaml:"alcohol_use" json:"alcohol_use"`
	HazardousActivities []string        `yaml:"hazardous_activities" json:"hazardous_activities"`
	OccupationClass     int             `yaml:"occupation_class" json:"occupation_class"`
	OccupationTitle     string          `yaml:"occupation_title" json:"occupation_title"`
	AnnualIncome        decimal.Decimal `yaml:"annual_income" json:"annual_income"`
	NetWorth            decimal.Decimal `yaml:"net_worth" json:"net_worth"`
	TotalDebt           decimal.Decimal `yaml:"total_debt" json:"total_debt"`
	Beneficiary         string          `yaml:"beneficiary,omitempty" json:"beneficiary,omitempty"`
}

var bmiConversion = decimal.NewFromInt(703)

// BMI derives body mass index from the imperial height and weight fields.
// Returns zero when height is not positive; callers treat that as "not assessable".
func (a *ApplicantProfile) BMI() decimal.Decimal {
	if a.HeightInches.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	heightSq := a.HeightInches.Mul(a.HeightInches)
	return a.WeightPounds.Mul(bmiConversion).Div(heightSq)
}

// DebtToIncome returns total debt over annual income, or zero when income is
// not positive.
func (a *ApplicantProfile) DebtToIncome() decimal.Decimal {
	if a.AnnualIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return a.TotalDebt.Div(a.AnnualIncome)
}
