package tables

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
)

// resolveBand maps an age onto a tabulated band. With RoundDown the age
// resolves to the greatest band not exceeding it; with RoundNearest to the
// closest band in either direction. Returns false when no band qualifies
// (only possible below the lowest band under RoundDown).
func resolveBand(bands []int, age int, mode AgeBandRounding) (int, bool) {
	if len(bands) == 0 {
		return 0, false
	}
	if mode == RoundNearest {
		best := bands[0]
		for _, band := range bands[1:] {
			if abs(band-age) < abs(best-age) {
				best = band
			}
		}
		return best, true
	}
	// Nearest lower band. Ages above the highest band clamp to it.
	if age < bands[0] {
		return 0, false
	}
	best := bands[0]
	for _, band := range bands[1:] {
		if band <= age {
			best = band
		}
	}
	return best, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (gt *genderedTable) lookup(table string, age int, gender domain.Gender, mode AgeBandRounding) (decimal.Decimal, error) {
	if !gender.Valid() {
		return decimal.Zero, &domain.NotFoundError{Table: table, Key: string(gender)}
	}
	band, ok := resolveBand(gt.bands, age, mode)
	if !ok {
		return decimal.Zero, &domain.NotFoundError{Table: table, Key: fmt.Sprintf("age %d", age)}
	}
	rate, ok := gt.rates[band][gender]
	if !ok {
		return decimal.Zero, &domain.NotFoundError{Table: table, Key: fmt.Sprintf("age %d (%s)", band, gender)}
	}
	return rate, nil
}

// LookupMortality returns the annual mortality rate for an exact or
// band-resolved age. Ages beyond the table maximum use the maximum
// tabulated age.
func (s *Snapshot) LookupMortality(age int, gender domain.Gender) (decimal.Decimal, error) {
	if age > s.MaxTableAge {
		age = s.MaxTableAge
	}
	return s.mortality.lookup("mortality", age, gender, s.Rounding)
}

// LookupMorbidity returns the annual disability incidence rate for an
// occupation class.
func (s *Snapshot) LookupMorbidity(occupationClass, age int, gender domain.Gender) (decimal.Decimal, error) {
	occ, ok := s.occupations[occupationClass]
	if !ok {
		return decimal.Zero, &domain.NotFoundError{Table: "morbidity", Key: fmt.Sprintf("occupation class %d", occupationClass)}
	}
	return occ.rates.lookup(fmt.Sprintf("morbidity class %d", occupationClass), age, gender, s.Rounding)
}

// OccupationClassName returns the descriptive name of a morbidity occupation
// class.
func (s *Snapshot) OccupationClassName(occupationClass int) (string, error) {
	occ, ok := s.occupations[occupationClass]
	if !ok {
		return "", &domain.NotFoundError{Table: "morbidity", Key: fmt.Sprintf("occupation class %d", occupationClass)}
	}
	return occ.Name, nil
}

// LookupConditionRule returns the underwriting rule for a medical condition
// code. Missing codes are an error, never a neutral default.
func (s *Snapshot) LookupConditionRule(code string) (domain.UnderwritingRule, error) {
	rule, ok := s.conditions[code]
	if !ok {
		return domain.UnderwritingRule{}, &domain.NotFoundError{Table: "medical_conditions", Key: code}
	}
	return rule, nil
}

// LookupSmokingRule returns the rule for a smoking-status code.
func (s *Snapshot) LookupSmokingRule(code string) (domain.UnderwritingRule, error) {
	rule, ok := s.smoking[code]
	if !ok {
		return domain.UnderwritingRule{}, &domain.NotFoundError{Table: "lifestyle.smoking", Key: code}
	}
	return rule, nil
}

// LookupAlcoholRule returns the rule for an alcohol-use code.
func (s *Snapshot) LookupAlcoholRule(code string) (domain.UnderwritingRule, error) {
	rule, ok := s.alcohol[code]
	if !ok {
		return domain.UnderwritingRule{}, &domain.NotFoundError{Table: "lifestyle.alcohol", Key: code}
	}
	return rule, nil
}

// LookupHazardousActivityRule returns the rule for a hazardous-activity code.
func (s *Snapshot) LookupHazardousActivityRule(code string) (domain.UnderwritingRule, error) {
	rule, ok := s.hazardous[code]
	if !ok {
		return domain.UnderwritingRule{}, &domain.NotFoundError{Table: "lifestyle.hazardous_activities", Key: code}
	}
	return rule, nil
}

// LookupOccupationRule returns the rating rule for an occupation class.
func (s *Snapshot) LookupOccupationRule(class int) (domain.UnderwritingRule, error) {
	rule, ok := s.occupationRules[class]
	if !ok {
		return domain.UnderwritingRule{}, &domain.NotFoundError{Table: "occupation_factors", Key: strconv.Itoa(class)}
	}
	return rule, nil
}

// WaitingPeriod resolves a waiting-period election in days onto the table
// bucket covering it. Elections beyond the last bucket use the last bucket.
func (s *Snapshot) WaitingPeriod(days int) (WaitingPeriodRule, error) {
	if len(s.waitingPeriods) == 0 {
		return WaitingPeriodRule{}, &domain.NotFoundError{Table: "waiting_periods", Key: strconv.Itoa(days)}
	}
	for _, wp := range s.waitingPeriods {
		if days <= wp.MaxDays {
			return wp, nil
		}
	}
	return s.waitingPeriods[len(s.waitingPeriods)-1], nil
}

// CriticalIllnessRate returns the annual incidence rate for one covered
// condition.
func (s *Snapshot) CriticalIllnessRate(condition string, age int, gender domain.Gender) (decimal.Decimal, error) {
	gt, ok := s.criticalIllness[condition]
	if !ok {
		return decimal.Zero, &domain.NotFoundError{Table: "critical_illness", Key: condition}
	}
	return gt.lookup("critical_illness "+condition, age, gender, s.Rounding)
}

// LapseRate returns the expected lapse rate for a policy year, falling back
// to the ultimate rate once the select period runs out.
func (s *Snapshot) LapseRate(policyYear int) decimal.Decimal {
	if rate, ok := s.lapseByYear[policyYear]; ok {
		return rate
	}
	return s.lapseUltimate
}

// Product returns the spec for a product type.
func (s *Snapshot) Product(t domain.ProductType) (*domain.ProductSpec, error) {
	spec, ok := s.products[t]
	if !ok {
		return nil, &domain.NotFoundError{Table: "products", Key: string(t)}
	}
	return spec, nil
}

// Products returns every loaded product spec.
func (s *Snapshot) Products() []*domain.ProductSpec {
	out := make([]*domain.ProductSpec, 0, len(s.products))
	for _, spec := range s.products {
		out = append(out, spec)
	}
	return out
}

// MortalityBands exposes the tabulated mortality age bands for property
// checks and diagnostics.
func (s *Snapshot) MortalityBands() []int {
	out := make([]int, len(s.mortality.bands))
	copy(out, s.mortality.bands)
	return out
}
