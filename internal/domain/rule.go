package domain

import (
	"github.com/shopspring/decimal"
)

// UnderwritingRule is the rating rule for a single risk factor code: a
// medical condition, lifestyle factor, or occupation class. Multipliers are
// pure scaling factors, never negative; 1.0 is neutral.
type UnderwritingRule struct {
	Code        string           `json:"code"`
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description,omitempty"`
	Multiplier  decimal.Decimal  `json:"multiplier"`
	MaxCoverage *decimal.Decimal `json:"max_coverage,omitempty"`

	// Insurable is false for conditions that trigger an automatic decline.
	Insurable bool `json:"insurable"`
}
