package tables

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
)

// Artifact file names within the data directory.
const (
	MortalityFile = "mortality_tables.json"
	MorbidityFile = "morbidity_tables.json"
	RulesFile     = "underwriting_rules.json"
	ProductsFile  = "product_definitions.json"
)

type mortalityArtifact struct {
	Version       string                                `json:"version"`
	Checksum      string                                `json:"checksum"`
	MaxTableAge   int                                   `json:"max_table_age"`
	DiscountRates map[string]decimal.Decimal            `json:"discount_rates"`
	CSO2017       map[string]map[string]decimal.Decimal `json:"CSO_2017"`
	LapseRates    struct {
		Annual   map[string]decimal.Decimal `json:"annual"`
		Ultimate decimal.Decimal            `json:"ultimate"`
	} `json:"lapse_rates"`
}

type morbidityArtifact struct {
	Version          string `json:"version"`
	Checksum         string `json:"checksum"`
	DisabilityTables struct {
		OccupationClasses map[string]struct {
			Name  string                                `json:"name"`
			Rates map[string]map[string]decimal.Decimal `json:"rates"`
		} `json:"occupation_classes"`
	} `json:"disability_tables"`
	WaitingPeriods struct {
		Disability map[string]struct {
			MaxDays           int             `json:"max_days"`
			BenefitPercentage decimal.Decimal `json:"benefit_percentage"`
			RateAdjustment    decimal.Decimal `json:"rate_adjustment"`
		} `json:"disability"`
	} `json:"waiting_periods"`
	CriticalIllnessTables struct {
		Conditions map[string]map[string]map[string]decimal.Decimal `json:"conditions"`
	} `json:"critical_illness_tables"`
}

type ruleEntry struct {
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description,omitempty"`
	Multiplier  decimal.Decimal  `json:"multiplier"`
	MaxCoverage *decimal.Decimal `json:"max_coverage,omitempty"`
	Insurable   *bool            `json:"insurable,omitempty"`
}

type rulesArtifact struct {
	Version           string               `json:"version"`
	Checksum          string               `json:"checksum"`
	MedicalConditions map[string]ruleEntry `json:"medical_conditions"`
	LifestyleFactors  struct {
		Smoking             map[string]ruleEntry `json:"smoking"`
		Alcohol             map[string]ruleEntry `json:"alcohol"`
		HazardousActivities map[string]ruleEntry `json:"hazardous_activities"`
	} `json:"lifestyle_factors"`
	OccupationFactors     map[string]ruleEntry `json:"occupation_factors"`
	FinancialUnderwriting struct {
		IncomeMultiples struct {
			LifeInsurance struct {
				MaxCoverageMultiple decimal.Decimal `json:"max_coverage_multiple"`
			} `json:"life_insurance"`
			DisabilityInsurance struct {
				MaxBenefitPercentage decimal.Decimal `json:"max_benefit_percentage"`
			} `json:"disability_insurance"`
		} `json:"income_multiples"`
		NetWorthRequirements map[string]struct {
			CoverageThreshold decimal.Decimal `json:"coverage_threshold"`
			MinNetWorth       decimal.Decimal `json:"min_net_worth"`
		} `json:"net_worth_requirements"`
		MaxDebtToIncome decimal.Decimal `json:"max_debt_to_income"`
	} `json:"financial_underwriting"`
}

type productsArtifact struct {
	Version  string                         `json:"version"`
	Checksum string                         `json:"checksum"`
	Products map[string]*domain.ProductSpec `json:"products"`

	RegulatoryRequirements struct {
		ReserveFactors       map[string]decimal.Decimal `json:"reserve_factors"`
		ClaimsReserveFactors map[string]decimal.Decimal `json:"claims_reserve_factors"`
		SolvencyMargins      struct {
			LifeInsurance       decimal.Decimal `json:"life_insurance"`
			DisabilityInsurance decimal.Decimal `json:"disability_insurance"`
			CriticalIllness     decimal.Decimal `json:"critical_illness"`
		} `json:"solvency_margins"`
		RiskBasedCapital struct {
			C1AssetRisk        decimal.Decimal `json:"c1_asset_risk"`
			C2InsuranceRisk    decimal.Decimal `json:"c2_insurance_risk"`
			C3InterestRateRisk decimal.Decimal `json:"c3_interest_rate_risk"`
			C4BusinessRisk     decimal.Decimal `json:"c4_business_risk"`
		} `json:"risk_based_capital"`
		MaximumPremiumRates struct {
			ExpenseLoading decimal.Decimal `json:"expense_loading"`
			ProfitMargin   decimal.Decimal `json:"profit_margin"`
		} `json:"maximum_premium_rates"`
		UnderwritingStandards struct {
			MaximumRiskMultiplier  decimal.Decimal `json:"maximum_risk_multiplier"`
			MedicalReviewThreshold decimal.Decimal `json:"medical_review_threshold"`
			MaxCoverageAutomatic   decimal.Decimal `json:"max_coverage_automatic"`
		} `json:"underwriting_standards"`
		SolvencyFloorPremiumToReserve decimal.Decimal `json:"solvency_floor_premium_to_reserve"`
	} `json:"regulatory_requirements"`
}

func readArtifact(dir, name string, v any) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return &domain.ConfigurationError{Source: name, Reason: "read failed", Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.ConfigurationError{Source: name, Reason: "malformed JSON", Err: err}
	}
	return nil
}

// loadSnapshot reads, indexes, and validates all four artifacts from dir.
func loadSnapshot(dir string, rounding AgeBandRounding) (*Snapshot, error) {
	var (
		mort mortalityArtifact
		morb morbidityArtifact
		rule rulesArtifact
		prod productsArtifact
	)
	if err := readArtifact(dir, MortalityFile, &mort); err != nil {
		return nil, err
	}
	if err := readArtifact(dir, MorbidityFile, &morb); err != nil {
		return nil, err
	}
	if err := readArtifact(dir, RulesFile, &rule); err != nil {
		return nil, err
	}
	if err := readArtifact(dir, ProductsFile, &prod); err != nil {
		return nil, err
	}

	for name, version := range map[string]string{
		MortalityFile: mort.Version,
		MorbidityFile: morb.Version,
		RulesFile:     rule.Version,
		ProductsFile:  prod.Version,
	} {
		if version == "" {
			return nil, &domain.ConfigurationError{Source: name, Reason: "missing version field"}
		}
	}

	snap := &Snapshot{
		MortalityVersion: mort.Version,
		MorbidityVersion: morb.Version,
		RulesVersion:     rule.Version,
		ProductsVersion:  prod.Version,
		MaxTableAge:      mort.MaxTableAge,
		Rounding:         rounding,
	}

	pricing, ok := mort.DiscountRates["standard"]
	if !ok || pricing.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ConfigurationError{Source: MortalityFile, Reason: "discount_rates.standard missing or not positive"}
	}
	snap.PricingRate = pricing
	if snap.MaxTableAge <= 0 {
		return nil, &domain.ConfigurationError{Source: MortalityFile, Reason: "max_table_age must be positive"}
	}

	var err error
	if snap.mortality, err = indexGenderedTable(mort.CSO2017); err != nil {
		return nil, &domain.ConfigurationError{Source: MortalityFile, Reason: "CSO_2017 table", Err: err}
	}
	if err := validateMonotoneMortality(snap.mortality); err != nil {
		return nil, &domain.ConfigurationError{Source: MortalityFile, Reason: "CSO_2017 table", Err: err}
	}

	snap.lapseByYear = make(map[int]decimal.Decimal, len(mort.LapseRates.Annual))
	for yearStr, rate := range mort.LapseRates.Annual {
		year, convErr := strconv.Atoi(yearStr)
		if convErr != nil {
			return nil, &domain.ConfigurationError{Source: MortalityFile, Reason: fmt.Sprintf("lapse_rates year %q is not an integer", yearStr)}
		}
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, &domain.ConfigurationError{Source: MortalityFile, Reason: fmt.Sprintf("lapse rate for year %d out of [0,1)", year)}
		}
		snap.lapseByYear[year] = rate
	}
	snap.lapseUltimate = mort.LapseRates.Ultimate

	snap.occupations = make(map[int]*occupationTable, len(morb.DisabilityTables.OccupationClasses))
	for classStr, occ := range morb.DisabilityTables.OccupationClasses {
		class, convErr := strconv.Atoi(classStr)
		if convErr != nil {
			return nil, &domain.ConfigurationError{Source: MorbidityFile, Reason: fmt.Sprintf("occupation class %q is not an integer", classStr)}
		}
		gt, idxErr := indexGenderedTable(invertRates(occ.Rates))
		if idxErr != nil {
			return nil, &domain.ConfigurationError{Source: MorbidityFile, Reason: fmt.Sprintf("occupation class %d rates", class), Err: idxErr}
		}
		snap.occupations[class] = &occupationTable{Name: occ.Name, rates: gt}
	}

	for name, wp := range morb.WaitingPeriods.Disability {
		if wp.BenefitPercentage.LessThanOrEqual(decimal.Zero) {
			return nil, &domain.ConfigurationError{Source: MorbidityFile, Reason: fmt.Sprintf("waiting period %s benefit percentage must be positive", name)}
		}
		snap.waitingPeriods = append(snap.waitingPeriods, WaitingPeriodRule{
			Name:              name,
			MaxDays:           wp.MaxDays,
			BenefitPercentage: wp.BenefitPercentage,
			RateAdjustment:    wp.RateAdjustment,
		})
	}
	sort.Slice(snap.waitingPeriods, func(i, j int) bool {
		return snap.waitingPeriods[i].MaxDays < snap.waitingPeriods[j].MaxDays
	})

	snap.criticalIllness = make(map[string]*genderedTable, len(morb.CriticalIllnessTables.Conditions))
	for condition, rates := range morb.CriticalIllnessTables.Conditions {
		gt, idxErr := indexGenderedTable(invertRates(rates))
		if idxErr != nil {
			return nil, &domain.ConfigurationError{Source: MorbidityFile, Reason: fmt.Sprintf("critical illness condition %s", condition), Err: idxErr}
		}
		snap.criticalIllness[condition] = gt
	}

	if snap.conditions, err = indexRules(rule.MedicalConditions); err != nil {
		return nil, &domain.ConfigurationError{Source: RulesFile, Reason: "medical_conditions", Err: err}
	}
	if snap.smoking, err = indexRules(rule.LifestyleFactors.Smoking); err != nil {
		return nil, &domain.ConfigurationError{Source: RulesFile, Reason: "lifestyle_factors.smoking", Err: err}
	}
	if snap.alcohol, err = indexRules(rule.LifestyleFactors.Alcohol); err != nil {
		return nil, &domain.ConfigurationError{Source: RulesFile, Reason: "lifestyle_factors.alcohol", Err: err}
	}
	if snap.hazardous, err = indexRules(rule.LifestyleFactors.HazardousActivities); err != nil {
		return nil, &domain.ConfigurationError{Source: RulesFile, Reason: "lifestyle_factors.hazardous_activities", Err: err}
	}

	snap.occupationRules = make(map[int]domain.UnderwritingRule, len(rule.OccupationFactors))
	for classStr, entry := range rule.OccupationFactors {
		class, convErr := strconv.Atoi(classStr)
		if convErr != nil {
			return nil, &domain.ConfigurationError{Source: RulesFile, Reason: fmt.Sprintf("occupation_factors class %q is not an integer", classStr)}
		}
		if entry.Multiplier.IsNegative() {
			return nil, &domain.ConfigurationError{Source: RulesFile, Reason: fmt.Sprintf("occupation class %d multiplier is negative", class)}
		}
		snap.occupationRules[class] = toRule(classStr, entry)
	}

	fin := rule.FinancialUnderwriting
	snap.Financial = FinancialRules{
		MaxIncomeMultipleLife:   fin.IncomeMultiples.LifeInsurance.MaxCoverageMultiple,
		MaxBenefitPctDisability: fin.IncomeMultiples.DisabilityInsurance.MaxBenefitPercentage,
		MaxDebtToIncome:         fin.MaxDebtToIncome,
	}
	for name, tier := range fin.NetWorthRequirements {
		snap.Financial.NetWorthTiers = append(snap.Financial.NetWorthTiers, NetWorthTier{
			Name:        name,
			Threshold:   tier.CoverageThreshold,
			MinNetWorth: tier.MinNetWorth,
		})
	}
	sort.Slice(snap.Financial.NetWorthTiers, func(i, j int) bool {
		return snap.Financial.NetWorthTiers[i].Threshold.LessThan(snap.Financial.NetWorthTiers[j].Threshold)
	})

	snap.products = make(map[domain.ProductType]*domain.ProductSpec, len(prod.Products))
	for typeStr, spec := range prod.Products {
		pt := domain.ProductType(typeStr)
		if !pt.Valid() {
			return nil, &domain.ConfigurationError{Source: ProductsFile, Reason: fmt.Sprintf("unknown product type %q", typeStr)}
		}
		spec.Type = pt
		if spec.MinCoverage.GreaterThan(spec.MaxCoverage) {
			return nil, &domain.ConfigurationError{Source: ProductsFile, Reason: fmt.Sprintf("product %s: min_coverage exceeds max_coverage", typeStr)}
		}
		if spec.MinAge >= spec.MaxAge {
			return nil, &domain.ConfigurationError{Source: ProductsFile, Reason: fmt.Sprintf("product %s: min_age must be below max_age", typeStr)}
		}
		snap.products[pt] = spec
	}

	reg := prod.RegulatoryRequirements
	snap.Regulatory = RegulatoryRequirements{
		ReserveFactors:       toProductFactors(reg.ReserveFactors),
		ClaimsReserveFactors: toProductFactors(reg.ClaimsReserveFactors),
		SolvencyMargins: SolvencyMargins{
			LifeInsurance:       reg.SolvencyMargins.LifeInsurance,
			DisabilityInsurance: reg.SolvencyMargins.DisabilityInsurance,
			CriticalIllness:     reg.SolvencyMargins.CriticalIllness,
		},
		RBCFactors: RBCFactors{
			C1AssetRisk:        reg.RiskBasedCapital.C1AssetRisk,
			C2InsuranceRisk:    reg.RiskBasedCapital.C2InsuranceRisk,
			C3InterestRateRisk: reg.RiskBasedCapital.C3InterestRateRisk,
			C4BusinessRisk:     reg.RiskBasedCapital.C4BusinessRisk,
		},
		MaxExpenseLoading:    reg.MaximumPremiumRates.ExpenseLoading,
		MaxProfitMargin:      reg.MaximumPremiumRates.ProfitMargin,
		MaxRiskMultiplier:    reg.UnderwritingStandards.MaximumRiskMultiplier,
		ReviewThreshold:      reg.UnderwritingStandards.MedicalReviewThreshold,
		SolvencyFloor:        reg.SolvencyFloorPremiumToReserve,
		MaxCoverageAutomatic: reg.UnderwritingStandards.MaxCoverageAutomatic,
	}
	if snap.Regulatory.MaxRiskMultiplier.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ConfigurationError{Source: ProductsFile, Reason: "maximum_risk_multiplier must be positive"}
	}

	return snap, nil
}

// invertRates converts age→gender→rate into gender→age→rate, the shape
// indexGenderedTable expects.
func invertRates(byAge map[string]map[string]decimal.Decimal) map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal)
	for age, byGender := range byAge {
		for gender, rate := range byGender {
			if out[gender] == nil {
				out[gender] = make(map[string]decimal.Decimal)
			}
			out[gender][age] = rate
		}
	}
	return out
}

func indexGenderedTable(byGender map[string]map[string]decimal.Decimal) (*genderedTable, error) {
	if len(byGender) == 0 {
		return nil, fmt.Errorf("table is empty")
	}
	gt := &genderedTable{rates: make(map[int]map[domain.Gender]decimal.Decimal)}
	bandSet := make(map[int]struct{})
	for genderStr, byAge := range byGender {
		gender := domain.Gender(genderStr)
		if !gender.Valid() {
			return nil, fmt.Errorf("unknown gender key %q", genderStr)
		}
		for ageStr, rate := range byAge {
			age, err := strconv.Atoi(ageStr)
			if err != nil {
				return nil, fmt.Errorf("age band %q is not an integer", ageStr)
			}
			if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
				return nil, fmt.Errorf("rate at age %d for %s out of [0,1]", age, gender)
			}
			if gt.rates[age] == nil {
				gt.rates[age] = make(map[domain.Gender]decimal.Decimal, 2)
			}
			gt.rates[age][gender] = rate
			bandSet[age] = struct{}{}
		}
	}
	for band := range bandSet {
		gt.bands = append(gt.bands, band)
	}
	sort.Ints(gt.bands)
	for _, band := range gt.bands {
		if len(gt.rates[band]) != 2 {
			return nil, fmt.Errorf("age band %d is missing a gender", band)
		}
	}
	return gt, nil
}

// validateMonotoneMortality rejects mortality tables where rates decrease
// with age within a gender. Increasing mortality is a load-time invariant.
func validateMonotoneMortality(gt *genderedTable) error {
	for _, gender := range []domain.Gender{domain.GenderMale, domain.GenderFemale} {
		prev := decimal.Zero
		for _, band := range gt.bands {
			rate := gt.rates[band][gender]
			if rate.LessThan(prev) {
				return fmt.Errorf("mortality rate decreases at age %d for %s", band, gender)
			}
			prev = rate
		}
	}
	return nil
}

func indexRules(entries map[string]ruleEntry) (map[string]domain.UnderwritingRule, error) {
	out := make(map[string]domain.UnderwritingRule, len(entries))
	for code, entry := range entries {
		if entry.Multiplier.IsNegative() {
			return nil, fmt.Errorf("rule %s has negative multiplier", code)
		}
		out[code] = toRule(code, entry)
	}
	return out, nil
}

func toRule(code string, entry ruleEntry) domain.UnderwritingRule {
	insurable := true
	if entry.Insurable != nil {
		insurable = *entry.Insurable
	}
	return domain.UnderwritingRule{
		Code:        code,
		Category:    entry.Category,
		Description: entry.Description,
		Multiplier:  entry.Multiplier,
		MaxCoverage: entry.MaxCoverage,
		Insurable:   insurable,
	}
}

func toProductFactors(in map[string]decimal.Decimal) map[domain.ProductType]decimal.Decimal {
	out := make(map[domain.ProductType]decimal.Decimal, len(in))
	for k, v := range in {
		out[domain.ProductType(k)] = v
	}
	return out
}
