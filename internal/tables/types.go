// Package tables loads and indexes the externally supplied actuarial table
// artifacts: mortality, morbidity, underwriting rules, and product
// definitions. A loaded Snapshot is immutable; reloads swap the whole
// snapshot atomically so in-flight calculations never observe a partial
// table.
package tables

import (
	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
)

// AgeBandRounding selects how ages between tabulated bands resolve.
type AgeBandRounding string

const (
	// RoundDown resolves to the nearest lower tabulated band. This is the
	// default policy; quotes must be reproducible under it.
	RoundDown AgeBandRounding = "down"
	// RoundNearest resolves to the closest band in either direction.
	RoundNearest AgeBandRounding = "nearest"
)

// WaitingPeriodRule is one row of the disability waiting-period table.
// MaxDays is the upper bound of the bucket; the last bucket catches all
// longer elections.
type WaitingPeriodRule struct {
	Name              string
	MaxDays           int
	BenefitPercentage decimal.Decimal
	RateAdjustment    decimal.Decimal
}

// FinancialRules are the financial-underwriting limits from the rules
// artifact.
type FinancialRules struct {
	MaxIncomeMultipleLife   decimal.Decimal
	MaxBenefitPctDisability decimal.Decimal
	NetWorthTiers           []NetWorthTier
	MaxDebtToIncome         decimal.Decimal
}

// NetWorthTier gates coverage at or above Threshold on a minimum net worth.
type NetWorthTier struct {
	Name        string
	Threshold   decimal.Decimal
	MinNetWorth decimal.Decimal
}

// RegulatoryRequirements are the reserve and capital factors from the
// product-definitions artifact.
type RegulatoryRequirements struct {
	ReserveFactors       map[domain.ProductType]decimal.Decimal
	ClaimsReserveFactors map[domain.ProductType]decimal.Decimal
	SolvencyMargins      SolvencyMargins
	RBCFactors           RBCFactors
	MaxExpenseLoading    decimal.Decimal
	MaxProfitMargin      decimal.Decimal
	MaxRiskMultiplier    decimal.Decimal
	ReviewThreshold      decimal.Decimal
	SolvencyFloor        decimal.Decimal
	MaxCoverageAutomatic decimal.Decimal
}

// SolvencyMargins holds solvency margin rates by product class.
type SolvencyMargins struct {
	LifeInsurance       decimal.Decimal
	DisabilityInsurance decimal.Decimal
	CriticalIllness     decimal.Decimal
}

// ForProduct returns the solvency margin rate for a product type.
func (m SolvencyMargins) ForProduct(p domain.ProductType) decimal.Decimal {
	switch p {
	case domain.ProductDisabilityIncome:
		return m.DisabilityInsurance
	case domain.ProductCriticalIllness:
		return m.CriticalIllness
	default:
		return m.LifeInsurance
	}
}

// RBCFactors are the four risk-based capital component factors.
type RBCFactors struct {
	C1AssetRisk        decimal.Decimal
	C2InsuranceRisk    decimal.Decimal
	C3InterestRateRisk decimal.Decimal
	C4BusinessRisk     decimal.Decimal
}

// genderedTable indexes rates by (age band, gender) with a sorted band list
// for nearest-band resolution.
type genderedTable struct {
	bands []int
	rates map[int]map[domain.Gender]decimal.Decimal
}

// occupationTable is one occupation class of the disability morbidity table.
type occupationTable struct {
	Name  string
	rates *genderedTable
}

// Snapshot is one immutable, fully indexed load of the four table artifacts.
type Snapshot struct {
	MortalityVersion string
	MorbidityVersion string
	RulesVersion     string
	ProductsVersion  string

	PricingRate decimal.Decimal
	MaxTableAge int
	Rounding    AgeBandRounding

	mortality       *genderedTable
	lapseByYear     map[int]decimal.Decimal
	lapseUltimate   decimal.Decimal
	occupations     map[int]*occupationTable
	waitingPeriods  []WaitingPeriodRule
	criticalIllness map[string]*genderedTable

	conditions      map[string]domain.UnderwritingRule
	smoking         map[string]domain.UnderwritingRule
	alcohol         map[string]domain.UnderwritingRule
	hazardous       map[string]domain.UnderwritingRule
	occupationRules map[int]domain.UnderwritingRule
	Financial       FinancialRules

	products   map[domain.ProductType]*domain.ProductSpec
	Regulatory RegulatoryRequirements
}
