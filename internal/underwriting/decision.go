package underwriting

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
)

// decisionRule is one step of the ordered decision chain. Evaluate returns
// the decision and true when the rule fires; rules after the first match are
// never consulted. Keeping the chain explicit makes the precedence order
// auditable and testable in isolation.
type decisionRule struct {
	name     string
	evaluate func(*evaluation) (domain.UnderwritingDecision, bool)
}

var hardGateScore = decimal.NewFromInt(3)

var decisionRules = []decisionRule{
	{
		name: "non_insurable_condition",
		evaluate: func(ev *evaluation) (domain.UnderwritingDecision, bool) {
			if ev.nonInsurableCondition != "" {
				return domain.DecisionDeclined, true
			}
			return "", false
		},
	},
	{
		name: "age_outside_product_bounds",
		evaluate: func(ev *evaluation) (domain.UnderwritingDecision, bool) {
			if ev.applicant.Age < ev.product.MinAge || ev.applicant.Age > ev.product.MaxAge {
				return domain.DecisionDeclined, true
			}
			return "", false
		},
	},
	{
		name: "financial_hard_gate",
		evaluate: func(ev *evaluation) (domain.UnderwritingDecision, bool) {
			if ev.financialScore.GreaterThanOrEqual(hardGateScore) {
				return domain.DecisionDeclined, true
			}
			return "", false
		},
	},
	{
		name: "medical_review_threshold",
		evaluate: func(ev *evaluation) (domain.UnderwritingDecision, bool) {
			if ev.overall.GreaterThan(ev.snap.Regulatory.ReviewThreshold) {
				return domain.DecisionPostponed, true
			}
			return "", false
		},
	},
	{
		name: "substandard_multiplier",
		evaluate: func(ev *evaluation) (domain.UnderwritingDecision, bool) {
			if ev.overall.GreaterThan(one) {
				return domain.DecisionApprovedSubstandard, true
			}
			return "", false
		},
	},
	{
		name: "preferred_clean_profile",
		evaluate: func(ev *evaluation) (domain.UnderwritingDecision, bool) {
			if ev.overall.Equal(one) && len(ev.riskFactors) == 0 {
				return domain.DecisionApprovedPreferred, true
			}
			return "", false
		},
	},
	{
		name: "standard_default",
		evaluate: func(ev *evaluation) (domain.UnderwritingDecision, bool) {
			return domain.DecisionApprovedStandard, true
		},
	},
}

// resolveDecision walks the rule chain in order and returns the first firing
// rule's decision plus the rule name for audit logging.
func resolveDecision(ev *evaluation) (domain.UnderwritingDecision, string) {
	for _, rule := range decisionRules {
		if decision, ok := rule.evaluate(ev); ok {
			return decision, rule.name
		}
	}
	// The chain ends in an unconditional rule; this is unreachable.
	return domain.DecisionApprovedStandard, "standard_default"
}

// classHintFromTitle guesses an occupation class from job title keywords.
// Zero means no opinion. Used only for the income-consistency flag.
func classHintFromTitle(title string) int {
	t := strings.ToLower(title)
	if t == "" {
		return 0
	}
	hints := []struct {
		class    int
		keywords []string
	}{
		{1, []string{"engineer", "accountant", "attorney", "physician", "analyst", "architect", "professor", "actuary"}},
		{2, []string{"teacher", "manager", "clerk", "administrator", "nurse", "salesperson"}},
		{3, []string{"electrician", "plumber", "mechanic", "carpenter", "technician", "machinist"}},
		{4, []string{"roofer", "driver", "construction", "fisherman", "welder", "laborer"}},
		{5, []string{"pilot", "miner", "logger", "demolition", "offshore", "stunt"}},
	}
	for _, h := range hints {
		for _, kw := range h.keywords {
			if strings.Contains(t, kw) {
				return h.class
			}
		}
	}
	return 0
}
