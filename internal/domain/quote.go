package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PremiumBreakdown itemizes the gross premium composition on an annual
// basis. Policy reserves are a regulatory line item, not a premium component.
type PremiumBreakdown struct {
	NetPremium     decimal.Decimal `json:"net_premium"`
	ExpenseLoading decimal.Decimal `json:"expense_loading"`
	ProfitMargin   decimal.Decimal `json:"profit_margin"`
	Commission     decimal.Decimal `json:"commission"`
	PolicyReserves decimal.Decimal `json:"policy_reserves"`
}

// PolicyDetails describes the quoted policy for the presentation layer.
// Fields are populated per product type.
type PolicyDetails struct {
	PolicyType           string           `json:"policy_type"`
	InsuredName          string           `json:"insured_name,omitempty"`
	Gender               string           `json:"gender,omitempty"`
	DeathBenefit         *decimal.Decimal `json:"death_benefit,omitempty"`
	PolicyTerm           string           `json:"policy_term,omitempty"`
	PremiumPaymentPeriod string           `json:"premium_payment_period,omitempty"`
	Beneficiary          string           `json:"beneficiary,omitempty"`
	Occupation           string           `json:"occupation,omitempty"`
	MonthlyBenefit       *decimal.Decimal `json:"monthly_benefit,omitempty"`
	BenefitPeriod        string           `json:"benefit_period,omitempty"`
	WaitingPeriod        string           `json:"waiting_period,omitempty"`
	LumpSumBenefit       *decimal.Decimal `json:"lump_sum_benefit,omitempty"`
	SurvivalPeriod       string           `json:"survival_period,omitempty"`
	CoveredConditions    []string         `json:"covered_conditions,omitempty"`
	PolicyFeatures       []string         `json:"policy_features,omitempty"`
	Exclusions           []string         `json:"exclusions,omitempty"`
	ConversionOptions    string           `json:"conversion_options,omitempty"`
	RenewalProvisions    string           `json:"renewal_provisions,omitempty"`
	Renewability         string           `json:"renewability,omitempty"`
}

// PremiumQuote is the complete quote result consumed by the presentation
// layer. Field names and nesting are a contract; do not rename.
type PremiumQuote struct {
	QuoteID              string               `json:"quote_id"`
	ProductType          ProductType          `json:"product_type"`
	ProductName          string               `json:"product_name"`
	MonthlyPremium       decimal.Decimal      `json:"monthly_premium"`
	AnnualPremium        decimal.Decimal      `json:"annual_premium"`
	CoverageAmount       decimal.Decimal      `json:"coverage_amount"`
	UnderwritingDecision UnderwritingDecision `json:"underwriting_decision"`
	RiskMultiplier       decimal.Decimal      `json:"risk_multiplier"`
	QuoteValidUntil      time.Time            `json:"quote_valid_until"`
	Breakdown            PremiumBreakdown     `json:"breakdown"`
	PolicyDetails        PolicyDetails        `json:"policy_details"`
	UnderwriterNotes     string               `json:"underwriter_notes"`
	Explanation          string               `json:"explanation"`

	Assessment *RiskAssessment `json:"risk_assessment,omitempty"`
}
