// Package quote sequences underwriting, pricing, and regulatory evaluation
// into complete premium quotes. Every engine error is recovered here into a
// structured failure result; nothing below this boundary leaks to callers
// as an unstructured fault.
package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/edgemoorlf/premiumcalculator/internal/actuarial"
	"github.com/edgemoorlf/premiumcalculator/internal/domain"
	"github.com/edgemoorlf/premiumcalculator/internal/logging"
	"github.com/edgemoorlf/premiumcalculator/internal/regulatory"
	"github.com/edgemoorlf/premiumcalculator/internal/tables"
	"github.com/edgemoorlf/premiumcalculator/internal/underwriting"
)

const quoteValidityDays = 30

var twelve = decimal.NewFromInt(12)

// Orchestrator composes the assessor, calculator, and regulatory engine into
// quote generation. Clock and NewID are injectable so quote output is
// reproducible under test.
type Orchestrator struct {
	Assessor   *underwriting.Assessor
	Calculator *actuarial.Calculator
	Regulatory *regulatory.Engine
	Logger     logging.Logger

	Clock func() time.Time
	NewID func() string
}

// NewOrchestrator wires the default engine components with no-op logging.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		Assessor:   underwriting.NewAssessor(),
		Calculator: actuarial.NewCalculator(),
		Regulatory: regulatory.NewEngine(),
		Logger:     logging.NopLogger{},
		Clock:      time.Now,
		NewID:      uuid.NewString,
	}
}

// WithLogger propagates a logger to the orchestrator and its components.
func (o *Orchestrator) WithLogger(logger logging.Logger) *Orchestrator {
	o.Logger = logger
	o.Assessor.Logger = logger
	o.Calculator.Logger = logger
	o.Regulatory.Logger = logger
	return o
}

// Result is the outcome of one quote request. Exactly one of Quote and
// Failure is set.
type Result struct {
	Quote   *domain.PremiumQuote `json:"quote,omitempty"`
	Failure *domain.Failure      `json:"failure,omitempty"`
}

// GenerateQuote runs one applicant through underwriting, pricing, and
// regulatory evaluation for a single product request.
func (o *Orchestrator) GenerateQuote(snap *tables.Snapshot, applicant *domain.ApplicantProfile, req *domain.ProductRequest) Result {
	assessment, err := o.Assessor.Assess(snap, applicant, req)
	if err != nil {
		o.Logger.Warnf("underwriting failed for %s: %v", req.Type, err)
		return Result{Failure: domain.NewFailure(err)}
	}

	product, err := snap.Product(req.Type)
	if err != nil {
		return Result{Failure: domain.NewFailure(err)}
	}

	if !assessment.Decision.Approved() {
		o.Logger.Infof("application %s for %s: no premium quoted", assessment.Decision, req.Type)
		return Result{Quote: o.unpricedQuote(product, req, assessment)}
	}

	// Bind the request to the underwriting coverage cap before pricing.
	effective := *req
	applyCoverageCap(&effective, assessment.MaximumCoverage)
	coverage := effective.RequestedCoverage()

	pricing, err := o.Calculator.Price(snap, applicant, &effective, coverage, assessment.OverallMultiplier)
	if err != nil {
		o.Logger.Warnf("pricing failed for %s: %v", req.Type, err)
		return Result{Failure: domain.NewFailure(err)}
	}

	reserves, err := o.Regulatory.EvaluateQuote(snap, product, coverage, pricing.GrossAnnual, assessment.OverallMultiplier)
	if err != nil {
		o.Logger.Warnf("regulatory evaluation failed for %s: %v", req.Type, err)
		return Result{Failure: domain.NewFailure(err)}
	}

	now := o.Clock()
	q := &domain.PremiumQuote{
		QuoteID:              o.NewID(),
		ProductType:          product.Type,
		ProductName:          product.Name,
		MonthlyPremium:       pricing.GrossMonthly.Round(2),
		AnnualPremium:        pricing.GrossAnnual.Round(2),
		CoverageAmount:       coverage,
		UnderwritingDecision: assessment.Decision,
		RiskMultiplier:       assessment.OverallMultiplier,
		QuoteValidUntil:      now.AddDate(0, 0, quoteValidityDays),
		Breakdown: domain.PremiumBreakdown{
			NetPremium:     pricing.NetAnnualRisk.Round(2),
			ExpenseLoading: pricing.ExpenseLoading.Round(2),
			ProfitMargin:   pricing.ProfitMargin.Round(2),
			Commission:     pricing.Commission.Round(2),
			PolicyReserves: reserves.PolicyReserve.Round(2),
		},
		PolicyDetails:    policyDetails(product, applicant, &effective, coverage),
		UnderwriterNotes: assessment.Notes,
		Explanation:      pricing.Explanation,
		Assessment:       assessment,
	}
	o.Logger.Infof("quote %s: %s %s/mo (%s)", q.QuoteID, q.ProductType, q.MonthlyPremium.StringFixed(2), q.UnderwritingDecision)
	return Result{Quote: q}
}

// MultiQuote fans one applicant out across several product requests. Each
// product is assessed independently so financial gates and coverage caps are
// never shared between products.
func (o *Orchestrator) MultiQuote(snap *tables.Snapshot, applicant *domain.ApplicantProfile, reqs []domain.ProductRequest) []Result {
	results := make([]Result, len(reqs))
	for i := range reqs {
		results[i] = o.GenerateQuote(snap, applicant, &reqs[i])
	}
	return results
}

// applyCoverageCap clamps the requested benefit to the underwriting maximum.
// Disability caps apply to the annualized benefit, so the monthly amount is
// reduced proportionally.
func applyCoverageCap(req *domain.ProductRequest, maxCoverage decimal.Decimal) {
	if maxCoverage.LessThanOrEqual(decimal.Zero) {
		return
	}
	if req.Type == domain.ProductDisabilityIncome {
		maxMonthly := maxCoverage.Div(twelve)
		if req.MonthlyBenefit.GreaterThan(maxMonthly) {
			req.MonthlyBenefit = maxMonthly
		}
		return
	}
	if req.CoverageAmount.GreaterThan(maxCoverage) {
		req.CoverageAmount = maxCoverage
	}
}

// unpricedQuote is the structured result for a declined or postponed
// application: zero premiums, the decision, and the underwriting rationale.
func (o *Orchestrator) unpricedQuote(product *domain.ProductSpec, req *domain.ProductRequest, assessment *domain.RiskAssessment) *domain.PremiumQuote {
	name := product.Name
	details := domain.PolicyDetails{PolicyType: "Application Postponed"}
	explanation := "Application postponed pending medical review; no premium quoted."
	if assessment.Decision == domain.DecisionDeclined {
		name = "Declined - " + product.Name
		details = domain.PolicyDetails{PolicyType: "Application Declined"}
		explanation = "Application declined due to excessive risk factors."
	}
	return &domain.PremiumQuote{
		QuoteID:              o.NewID(),
		ProductType:          product.Type,
		ProductName:          name,
		MonthlyPremium:       decimal.Zero,
		AnnualPremium:        decimal.Zero,
		CoverageAmount:       decimal.Zero,
		UnderwritingDecision: assessment.Decision,
		RiskMultiplier:       assessment.OverallMultiplier,
		PolicyDetails:        details,
		UnderwriterNotes:     assessment.Notes,
		Explanation:          explanation,
		Assessment:           assessment,
	}
}
