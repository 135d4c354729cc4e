package domain

import (
	"github.com/shopspring/decimal"
)

// UnderwritingDecision is the categorical outcome of risk evaluation.
type UnderwritingDecision string

const (
	DecisionApprovedPreferred   UnderwritingDecision = "approved_preferred"
	DecisionApprovedStandard    UnderwritingDecision = "approved_standard"
	DecisionApprovedSubstandard UnderwritingDecision = "approved_substandard"
	DecisionPostponed           UnderwritingDecision = "postponed"
	DecisionDeclined            UnderwritingDecision = "declined"
)

// Approved reports whether the decision permits issuing a quote.
func (d UnderwritingDecision) Approved() bool {
	switch d {
	case DecisionApprovedPreferred, DecisionApprovedStandard, DecisionApprovedSubstandard:
		return true
	}
	return false
}

// RiskAssessment is the immutable result of underwriting one applicant for
// one product. OverallMultiplier is the product of the four factor
// multipliers, capped at the regulatory ceiling; the financial multiplier is
// identically one because financial findings gate the decision and cap
// coverage instead of scaling price.
type RiskAssessment struct {
	MedicalMultiplier    decimal.Decimal `json:"medical_risk_multiplier"`
	LifestyleMultiplier  decimal.Decimal `json:"lifestyle_risk_multiplier"`
	OccupationMultiplier decimal.Decimal `json:"occupation_risk_multiplier"`
	FinancialMultiplier  decimal.Decimal `json:"financial_risk_multiplier"`
	OverallMultiplier    decimal.Decimal `json:"overall_risk_multiplier"`

	// FinancialScore grades financial capacity findings: 1 is clean, 2 is a
	// soft breach (adjustable), 3 and above is a hard gate.
	FinancialScore decimal.Decimal `json:"financial_risk_score"`

	// RiskFactors preserves evaluation order: medical, then lifestyle, then
	// occupation, then financial. Downstream display depends on this order.
	RiskFactors []string `json:"risk_factors"`

	Decision UnderwritingDecision `json:"decision"`

	// MaximumCoverage is the binding cap across product limit, per-condition
	// limits, income multiple, and net-worth tier. Zero when declined.
	MaximumCoverage decimal.Decimal `json:"maximum_coverage"`

	Notes string `json:"underwriting_notes"`
}
