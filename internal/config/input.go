package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/regulatory"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
)

// QuoteInput is a parsed quote request file: one applicant plus one or more
// product requests.
type QuoteInput struct {
	Applicant domain.ApplicantProfile `yaml:"applicant" json:"applicant"`
	Products  []domain.ProductRequest `yaml:"products" json:"products"`
	Settings  EngineSettings          `yaml:"settings,omitempty" json:"settings,omitempty"`
}

// EngineSettings are optional engine overrides carried in the request file.
type EngineSettings struct {
	AgeBandRounding tables.AgeBandRounding `yaml:"age_band_rounding,omitempty" json:"age_band_rounding,omitempty"`
}

// PortfolioInput is a parsed portfolio valuation file.
type PortfolioInput struct {
	ValuationDate time.Time           `yaml:"valuation_date" json:"valuation_date"`
	Policies      []regulatory.Policy `yaml:"policies" json:"policies"`
}

// InputParser handles parsing of quote request and portfolio files.
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadQuoteInput loads a quote request from a YAML or JSON file.
func (ip *InputParser) LoadQuoteInput(filename string) (*QuoteInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var input QuoteInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateQuoteInput(&input); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &input, nil
}

// ValidateQuoteInput validates the loaded quote request.
func (ip *InputParser) ValidateQuoteInput(input *QuoteInput) error {
	if err := ip.validateApplicant(&input.Applicant); err != nil {
		return fmt.Errorf("applicant validation failed: %w", err)
	}
	if len(input.Products) == 0 {
		return fmt.Errorf("no products requested")
	}
	for i := range input.Products {
		if err := ip.validateProductRequest(&input.Products[i]); err != nil {
			return fmt.Errorf("product %d (%s) validation failed: %w", i, input.Products[i].Type, err)
		}
	}
	if r := input.Settings.AgeBandRounding; r != "" && r != tables.RoundDown && r != tables.RoundNearest {
		return fmt.Errorf("unknown age_band_rounding %q", r)
	}
	return nil
}

func (ip *InputParser) validateApplicant(applicant *domain.ApplicantProfile) error {
	if applicant.Age <= 0 {
		return fmt.Errorf("age must be positive")
	}
	if !applicant.Gender.Valid() {
		return fmt.Errorf("gender must be male or female")
	}
	if applicant.HeightInches.LessThan(decimal.Zero) {
		return fmt.Errorf("height cannot be negative")
	}
	if applicant.WeightPounds.LessThan(decimal.Zero) {
		return fmt.Errorf("weight cannot be negative")
	}
	if applicant.OccupationClass < 1 || applicant.OccupationClass > 5 {
		return fmt.Errorf("occupation class must be between 1 and 5")
	}
	if applicant.AnnualIncome.LessThan(decimal.Zero) {
		return fmt.Errorf("annual income cannot be negative")
	}
	if applicant.TotalDebt.LessThan(decimal.Zero) {
		return fmt.Errorf("total debt cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateProductRequest(req *domain.ProductRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("unknown product type %q", req.Type)
	}
	if req.Type == domain.ProductDisabilityIncome {
		if req.MonthlyBenefit.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("monthly benefit must be positive")
		}
		if req.BenefitPeriod == "" {
			return fmt.Errorf("benefit period is required")
		}
		if req.WaitingPeriodDays <= 0 {
			return fmt.Errorf("waiting period must be positive")
		}
		return nil
	}
	if req.CoverageAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("coverage amount must be positive")
	}
	if req.Type == domain.ProductTermLife && req.PolicyTerm <= 0 {
		return fmt.Errorf("policy term must be positive")
	}
	return nil
}

// LoadPortfolioInput loads a portfolio valuation file.
func (ip *InputParser) LoadPortfolioInput(filename string) (*PortfolioInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var input PortfolioInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePortfolioInput(&input); err != nil {
		return nil, fmt.Errorf("portfolio validation failed: %w", err)
	}
	return &input, nil
}

// ValidatePortfolioInput validates the loaded portfolio.
func (ip *InputParser) ValidatePortfolioInput(input *PortfolioInput) error {
	if input.ValuationDate.IsZero() {
		return fmt.Errorf("valuation date is required")
	}
	if len(input.Policies) == 0 {
		return fmt.Errorf("no policies provided")
	}
	for i := range input.Policies {
		if err := ip.validatePolicy(&input.Policies[i]); err != nil {
			return fmt.Errorf("policy %d (%s) validation failed: %w", i, input.Policies[i].PolicyID, err)
		}
	}
	return nil
}

func (ip *InputParser) validatePolicy(policy *regulatory.Policy) error {
	if policy.PolicyID == "" {
		return fmt.Errorf("policy id is required")
	}
	if !policy.ProductType.Valid() {
		return fmt.Errorf("unknown product type %q", policy.ProductType)
	}
	if policy.CoverageAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("coverage amount must be positive")
	}
	if policy.AnnualPremium.LessThan(decimal.Zero) {
		return fmt.Errorf("annual premium cannot be negative")
	}
	if policy.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive")
	}
	if !policy.Gender.Valid() {
		return fmt.Errorf("gender must be male or female")
	}
	if policy.RemainingYears < 0 {
		return fmt.Errorf("remaining years cannot be negative")
	}
	return nil
}
