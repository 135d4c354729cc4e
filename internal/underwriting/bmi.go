package underwriting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// bmiBand is one row of the BMI rating schedule. Bands are evaluated in
// order; the first band whose upper bound exceeds the BMI wins.
type bmiBand struct {
	upper      float64 // exclusive; <=0 means open-ended
	multiplier float64
	label      string
}

var bmiBands = []bmiBand{
	{upper: 18.5, multiplier: 1.2, label: "Underweight"},
	{upper: 25, multiplier: 1.0, label: ""},
	{upper: 30, multiplier: 1.1, label: "Overweight"},
	{upper: 35, multiplier: 1.3, label: "Obese Class I"},
	{upper: 40, multiplier: 2.0, label: "Obese Class II"},
	{upper: 0, multiplier: 3.0, label: "Obese Class III"},
}

// bmiRisk maps a BMI onto its rating multiplier and, for non-neutral bands,
// a risk-factor string.
func bmiRisk(bmi decimal.Decimal) (decimal.Decimal, string) {
	value, _ := bmi.Float64()
	for _, band := range bmiBands {
		if band.upper > 0 && value >= band.upper {
			continue
		}
		mult := decimal.NewFromFloat(band.multiplier)
		if band.label == "" {
			return mult, ""
		}
		return mult, fmt.Sprintf("%s BMI: %s (%sx multiplier)", band.label, bmi.StringFixed(1), mult)
	}
	return decimal.NewFromInt(1), ""
}
