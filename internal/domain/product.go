package domain

import (
	"github.com/shopspring/decimal"
)

// ProductType identifies one of the supported insurance products.
type ProductType string

const (
	ProductTermLife         ProductType = "term_life"
	ProductWholeLife        ProductType = "whole_life"
	ProductDisabilityIncome ProductType = "disability_income"
	ProductCriticalIllness  ProductType = "critical_illness"
)

// Valid reports whether the product type is one of the supported products.
func (p ProductType) Valid() bool {
	switch p {
	case ProductTermLife, ProductWholeLife, ProductDisabilityIncome, ProductCriticalIllness:
		return true
	}
	return false
}

// IsLife reports whether the product pays a death benefit.
func (p ProductType) IsLife() bool {
	return p == ProductTermLife || p == ProductWholeLife
}

// ProductSpec defines a product as loaded from product_definitions.json.
// Immutable after load.
type ProductSpec struct {
	Type        ProductType     `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	MinCoverage decimal.Decimal `json:"min_coverage"`
	MaxCoverage decimal.Decimal `json:"max_coverage"`
	MinAge      int             `json:"min_age"`
	MaxAge      int             `json:"max_age"`

	// Loading structure applied on top of the net premium.
	ExpenseLoad  decimal.Decimal `json:"expense_load"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	Commission   decimal.Decimal `json:"commission"`

	// Term life: the policy terms offered, in years.
	Terms []int `json:"terms,omitempty"`

	// Disability income.
	MinMonthlyBenefit decimal.Decimal `json:"min_monthly_benefit,omitempty"`
	MaxMonthlyBenefit decimal.Decimal `json:"max_monthly_benefit,omitempty"`
	BenefitPeriods    []string        `json:"benefit_periods,omitempty"`

	// Critical illness: conditions whose incidence rates are summed.
	CoveredConditions []string `json:"covered_conditions,omitempty"`
}

// OffersTerm reports whether the given policy term is offered. Products with
// no term list accept any positive term.
func (p *ProductSpec) OffersTerm(term int) bool {
	if len(p.Terms) == 0 {
		return term > 0
	}
	for _, t := range p.Terms {
		if t == term {
			return true
		}
	}
	return false
}

// ProductRequest carries the per-request product parameters alongside the
// product type selector.
type ProductRequest struct {
	Type ProductType `yaml:"type" json:"type"`

	// Life and critical illness: requested benefit amount.
	CoverageAmount decimal.Decimal `yaml:"coverage_amount,omitempty" json:"coverage_amount,omitempty"`
	PolicyTerm     int             `yaml:"policy_term,omitempty" json:"policy_term,omitempty"`

	// Disability income.
	MonthlyBenefit    decimal.Decimal `yaml:"monthly_benefit,omitempty" json:"monthly_benefit,omitempty"`
	BenefitPeriod     string          `yaml:"benefit_period,omitempty" json:"benefit_period,omitempty"`
	WaitingPeriodDays int             `yaml:"waiting_period_days,omitempty" json:"waiting_period_days,omitempty"`
}

// RequestedCoverage normalizes the request to an annualized coverage amount:
// the death or lump-sum benefit for life and critical illness products, and
// twelve months of benefit for disability income.
func (r *ProductRequest) RequestedCoverage() decimal.Decimal {
	if r.Type == ProductDisabilityIncome {
		return r.MonthlyBenefit.Mul(decimal.NewFromInt(12))
	}
	return r.CoverageAmount
}
