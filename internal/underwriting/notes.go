package underwriting

import (
	"fmt"
	"strings"

	"github.com/edgemoorlf/premiumcalculator/internal/domain"
)

// composeNotes renders the underwriting assessment summary attached to every
// quote.
func composeNotes(ev *evaluation, assessment *domain.RiskAssessment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "UNDERWRITING ASSESSMENT SUMMARY\n\n")
	fmt.Fprintf(&b, "Decision: %s\n", decisionTitle(assessment.Decision))
	fmt.Fprintf(&b, "Overall Risk Multiplier: %sx\n\n", assessment.OverallMultiplier.StringFixed(2))

	b.WriteString("RISK FACTORS IDENTIFIED:\n")
	if len(assessment.RiskFactors) == 0 {
		b.WriteString("No significant risk factors identified.\n")
	} else {
		for i, factor := range assessment.RiskFactors {
			fmt.Fprintf(&b, "%d. %s\n", i+1, factor)
		}
	}

	b.WriteString("\nRECOMMENDATION:\n")
	b.WriteString(recommendation(assessment.Decision))
	if ev.capped {
		fmt.Fprintf(&b, "\nCombined multiplier exceeded the regulatory ceiling and was capped at %sx.",
			ev.snap.Regulatory.MaxRiskMultiplier.StringFixed(2))
	}
	return b.String()
}

func decisionTitle(d domain.UnderwritingDecision) string {
	words := strings.Split(string(d), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func recommendation(d domain.UnderwritingDecision) string {
	switch d {
	case domain.DecisionApprovedPreferred:
		return "Preferred risk classification - excellent health and lifestyle profile."
	case domain.DecisionApprovedStandard:
		return "Standard risk classification - acceptable risk profile within normal parameters."
	case domain.DecisionApprovedSubstandard:
		return "Substandard risk classification - elevated risk requiring premium adjustment and/or coverage limitations."
	case domain.DecisionPostponed:
		return "Application postponed pending medical examination or additional information."
	default:
		return "Application declined due to excessive risk factors or financial capacity limitations."
	}
}
